package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routr_solve_jobs_started_total",
		Help: "Number of solve jobs accepted.",
	})

	jobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routr_solve_jobs_finished_total",
		Help: "Number of solve jobs reaching a terminal state.",
	}, []string{"status"})

	restartsRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routr_hill_climb_restarts_total",
		Help: "Number of hill-climb restarts executed by completed jobs.",
	})

	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routr_solve_duration_seconds",
		Help:    "Wall-clock duration of completed solve jobs.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})
)
