package dashboard

import "github.com/prometheus/client_golang/prometheus"

var (
	editsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bonus_points",
		Subsystem: "dashboard",
		Name:      "edits_total",
		Help:      "Dashboards refreshed by editing the existing message in place.",
	})
	createsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bonus_points",
		Subsystem: "dashboard",
		Name:      "creates_total",
		Help:      "Dashboards created as new messages.",
	})
	staleTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bonus_points",
		Subsystem: "dashboard",
		Name:      "stale_handles_total",
		Help:      "Tracked dashboard handles found gone during reconciliation.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(editsTotal, createsTotal, staleTotal)
}
