package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	planRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolplanner_plan_requests_total",
		Help: "Plan requests by resulting strategy.",
	}, []string{"strategy"})

	planDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "toolplanner_plan_duration_seconds",
		Help:    "Wall time to build a plan.",
		Buckets: prometheus.DefBuckets,
	})

	ratingsRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "toolplanner_ratings_refresh_total",
		Help: "Ratings refresh attempts by outcome.",
	}, []string{"outcome"})
)
