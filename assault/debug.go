package assault

// DebugSink receives a merged copy of a mission's debug record after each
// evaluation. It is purely observational.
type DebugSink interface {
	Publish(mission string, snapshot map[string]any)
}

// DebugSinkFunc adapts a function to DebugSink.
type DebugSinkFunc func(mission string, snapshot map[string]any)

func (f DebugSinkFunc) Publish(mission string, snapshot map[string]any) { f(mission, snapshot) }
