// Package metrics счетчики игры для Prometheus
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speen"

var (
	Spins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "spins_total",
		Help:      "Physical spins by mode.",
	}, []string{"mode"})

	Bets = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_total",
		Help:      "Sum of debited bets by mode and currency.",
	}, []string{"mode", "currency"})

	Payouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payouts_total",
		Help:      "Sum of credited payouts by mode and currency.",
	}, []string{"mode", "currency"})

	BoostersUsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "boosters_used_total",
		Help:      "Consumed boosters by kind.",
	}, []string{"kind"})

	PyramidSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pyramid_sessions_total",
		Help:      "Pyramid sessions by final state.",
	}, []string{"result"})

	SyncOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_ops_total",
		Help:      "Remote progress operations by kind and result.",
	}, []string{"op", "result"})

	LevelsReached = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "levels_reached_total",
		Help:      "Levels reached through auto-advance.",
	})

	WindowRTP = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "window_rtp_percent",
		Help:      "Return to player over the recent spin window by mode.",
	}, []string{"mode"})
)

// Result Метка результата операции
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
