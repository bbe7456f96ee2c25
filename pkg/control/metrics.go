package control

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gwillem/navrobot/pkg/algorithm"
)

var (
	metricDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "navrobot",
		Name:      "decisions_total",
		Help:      "Decisions taken by the guidance algorithm, by action.",
	}, []string{"action"})
	metricMoveFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "navrobot",
		Name:      "move_failures_total",
		Help:      "Robot commands that reported failure, by action.",
	}, []string{"action"})
	metricTicksSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "navrobot",
		Name:      "ticks_skipped_total",
		Help:      "Control ticks that did not reach the algorithm, by reason.",
	}, []string{"reason"})
	metricSequenceState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "navrobot",
		Name:      "sequence_state",
		Help:      "Current motion sequence state (0 = not initiated).",
	})
)

func recordDecision(dec algorithm.Decision) {
	metricDecisions.WithLabelValues(string(dec.Action)).Inc()
	if dec.Err != nil {
		metricMoveFailures.WithLabelValues(string(dec.Action)).Inc()
	}
	metricSequenceState.Set(float64(dec.State))
}

func recordSkip(reason string) {
	metricTicksSkipped.WithLabelValues(reason).Inc()
}
