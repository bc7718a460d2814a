package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики попаданий/промахов по пространствам документа.
var (
	apiHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinolenta_cache_api_hits_total",
		Help: "Live API cache entries served.",
	})
	apiMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinolenta_cache_api_misses_total",
		Help: "API cache lookups with no entry.",
	})
	apiExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinolenta_cache_api_expired_total",
		Help: "API cache lookups that hit an expired entry.",
	})

	draftHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinolenta_cache_draft_hits_total",
		Help: "Live draft entries served.",
	})
	draftMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinolenta_cache_draft_misses_total",
		Help: "Draft lookups with no entry.",
	})
	draftExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinolenta_cache_draft_expired_total",
		Help: "Draft lookups that hit an expired entry (eagerly evicted).",
	})
)
