package assault

// Health-ratio thresholds for the retreat hysteresis.
const (
	RetreatAt  = 0.3
	ReengageAt = 0.7
)

// DefaultSquadLockTicks is how long a fresh squad assignment holds its leader.
const DefaultSquadLockTicks = 50

// Tuning carries the knobs the phase compiler and squad coordinator read.
// Loaded from the [tuning] table of the config file.
type Tuning struct {
	RetreatAt      float64 `toml:"retreat_at"`
	ReengageAt     float64 `toml:"reengage_at"`
	SquadLockTicks int     `toml:"squad_lock_ticks"`
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		RetreatAt:      RetreatAt,
		ReengageAt:     ReengageAt,
		SquadLockTicks: DefaultSquadLockTicks,
	}
}

// Validate clamps every knob into range and keeps a gap between the retreat
// and re-engage thresholds so the hysteresis band never collapses.
func (t *Tuning) Validate() {
	t.RetreatAt = clamp(t.RetreatAt, 0.05, 0.9)
	t.ReengageAt = clamp(t.ReengageAt, t.RetreatAt+0.05, 1)
	t.SquadLockTicks = clampInt(t.SquadLockTicks, 0, 1500)
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
