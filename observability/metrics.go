package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assault",
			Subsystem: "phase",
			Name:      "transitions_total",
			Help:      "Phase transitions fired.",
		},
		[]string{"transition"},
	)
	plans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assault",
			Subsystem: "planner",
			Name:      "plans_total",
			Help:      "Action plans emitted.",
		},
		[]string{"role", "phase"},
	)
	threatLevel = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "assault",
			Subsystem: "threat",
			Name:      "level",
			Help:      "Latest threat level per mission.",
		},
		[]string{"mission"},
	)
	squadMembers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "assault",
			Subsystem: "squad",
			Name:      "members",
			Help:      "Live eligible members per mission.",
		},
		[]string{"mission"},
	)
	evalFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assault",
			Name:      "eval_failures_total",
			Help:      "Unit evaluations that produced no plan.",
		},
		[]string{"reason"},
	)
	events = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "assault",
			Subsystem: "agent",
			Name:      "events_total",
			Help:      "Mission events detected between ticks.",
		},
		[]string{"kind"},
	)
	staleTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "assault",
			Subsystem: "agent",
			Name:      "stale_ticks_total",
			Help:      "Tick snapshots dropped as stale.",
		},
	)
	tickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "assault",
			Subsystem: "agent",
			Name:      "tick_duration_seconds",
			Help:      "Time to answer one tick.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(transitions, plans, threatLevel, squadMembers, evalFailures, events, staleTicks, tickDuration)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func RecordTransitions(names []string) {
	RegisterMetrics()
	for _, n := range names {
		transitions.WithLabelValues(n).Inc()
	}
}

func RecordPlan(role, phase string) {
	RegisterMetrics()
	plans.WithLabelValues(role, phase).Inc()
}

func RecordMission(mission string, level, members int) {
	RegisterMetrics()
	threatLevel.WithLabelValues(mission).Set(float64(level))
	squadMembers.WithLabelValues(mission).Set(float64(members))
}

// ForgetMission drops the per-mission series once a mission stops arriving.
func ForgetMission(mission string) {
	RegisterMetrics()
	threatLevel.DeleteLabelValues(mission)
	squadMembers.DeleteLabelValues(mission)
}

func RecordEvalFailure(reason string) {
	RegisterMetrics()
	evalFailures.WithLabelValues(reason).Inc()
}

func RecordEvent(kind string) {
	RegisterMetrics()
	events.WithLabelValues(kind).Inc()
}

func RecordStaleTick() {
	RegisterMetrics()
	staleTicks.Inc()
}

func RecordTick(duration time.Duration) {
	RegisterMetrics()
	tickDuration.Observe(duration.Seconds())
}
