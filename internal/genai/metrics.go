package genai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindspace_generation_attempts_total",
		Help: "Provider attempts by capability and outcome.",
	}, []string{"capability", "outcome"})

	exhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindspace_generation_exhausted_total",
		Help: "Resolutions that ran out of candidates without a success.",
	}, []string{"capability"})
)
