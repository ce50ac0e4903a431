package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/claude/pinlog/internal/models"
)

var (
	workoutsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pinlog",
		Name:      "workouts_created_total",
		Help:      "Workouts created from a submitted form, by type.",
	}, []string{"type"})
	workoutsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pinlog",
		Name:      "workouts_deleted_total",
		Help:      "Workouts deleted by id.",
	})
	workoutsCleared = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pinlog",
		Name:      "workouts_cleared_total",
		Help:      "Clear-all actions.",
	})
	workoutsStored = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pinlog",
		Name:      "workouts_stored",
		Help:      "Workouts currently held in the list.",
	})
)

func init() {
	prometheus.MustRegister(workoutsCreated, workoutsDeleted, workoutsCleared, workoutsStored)
}

// RecordCreated counts a new workout of type t.
func RecordCreated(t models.Type) {
	workoutsCreated.WithLabelValues(string(t)).Inc()
}

func RecordDeleted() { workoutsDeleted.Inc() }

func RecordCleared() { workoutsCleared.Inc() }

// SetStored updates the list size gauge.
func SetStored(n int) {
	workoutsStored.Set(float64(n))
}
