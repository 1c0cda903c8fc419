// Package metrics exposes Prometheus instrumentation for the engine.
// Counters cover the session lifecycle, progression events, and score
// sync health; everything registers on the default registry and is
// served by promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alchemy",
		Name:      "sessions_started_total",
		Help:      "Earning sessions started.",
	})

	SessionsFinished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alchemy",
		Name:      "sessions_finished_total",
		Help:      "Earning sessions finished (settled into the lifetime total).",
	})

	SessionsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alchemy",
		Name:      "sessions_discarded_total",
		Help:      "Earning sessions discarded without accrual.",
	})

	LevelUps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alchemy",
		Name:      "level_ups_total",
		Help:      "Level-up events fired.",
	})

	ScoreSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alchemy",
		Name:      "score_syncs_total",
		Help:      "Leaderboard score sync attempts by outcome.",
	}, []string{"outcome"}) // ok | deferred | failed

	LeaderboardQueries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "alchemy",
		Name:      "leaderboard_queries_total",
		Help:      "Leaderboard page reads served.",
	})
)
