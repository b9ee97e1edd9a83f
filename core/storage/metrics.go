package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_storage_resolve_total",
			Help: "Registry resolutions by selected backend kind (none when no backend qualified).",
		},
		[]string{"kind"},
	)

	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_storage_handle_cache_hits_total",
		Help: "Backend handle cache hits.",
	})

	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_storage_handle_cache_misses_total",
		Help: "Backend handle cache misses.",
	})
)
