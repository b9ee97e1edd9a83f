package storage

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Factory builds a backend from its configuration.
type Factory func(BackendConfig) (Backend, error)

// RegistryOptions tunes the registry caches.
type RegistryOptions struct {
	// ProbeTimeout bounds each liveness probe.
	ProbeTimeout time.Duration
	// ProbeTTL is how long a probe result is reused. Zero probes on every resolve.
	ProbeTTL time.Duration
	// CacheSize is the maximum number of backend handles kept.
	CacheSize int
}

// BackendStatus describes one configured backend for health reports.
type BackendStatus struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	Priority  int    `json:"priority"`
	Enabled   bool   `json:"enabled"`
	Reachable bool   `json:"reachable"`
	Selected  bool   `json:"selected"`
	Error     string `json:"error,omitempty"`
}

// Registry resolves the active object store from the current configuration.
//
// Handles are cached by configuration fingerprint, so an edited configuration
// produces a fresh handle on the next Resolve without restarting the process.
type Registry struct {
	provider ConfigProvider
	factory  Factory
	logger   *zap.Logger
	opts     RegistryOptions

	handles *expirable.LRU[string, Backend]
	probes  *expirable.LRU[string, error]
	sf      singleflight.Group
}

// NewRegistry creates a registry. A nil factory uses New.
func NewRegistry(provider ConfigProvider, factory Factory, logger *zap.Logger, opts RegistryOptions) *Registry {
	if factory == nil {
		factory = New
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 2 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 16
	}

	// expirable treats a non-positive TTL as "never expire"; probes need the opposite.
	probeTTL := opts.ProbeTTL
	if probeTTL <= 0 {
		probeTTL = time.Nanosecond
	}

	return &Registry{
		provider: provider,
		factory:  factory,
		logger:   logger,
		opts:     opts,
		handles:  expirable.NewLRU[string, Backend](opts.CacheSize, nil, 0),
		probes:   expirable.NewLRU[string, error](opts.CacheSize, nil, probeTTL),
	}
}

// Resolve returns the first enabled, reachable backend by priority.
// It returns ErrNoBackendConfigured when nothing qualifies; it never panics on
// misconfiguration, which is logged and skipped.
func (r *Registry) Resolve(ctx context.Context) (Backend, error) {
	configs, err := r.configs(ctx)
	if err != nil {
		r.logger.Warn("Failed to read storage configuration", zap.Error(err))
		resolveTotal.WithLabelValues("none").Inc()
		return nil, ErrNoBackendConfigured
	}

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		backend, err := r.handle(cfg)
		if err != nil {
			r.logger.Warn("Skipping misconfigured storage backend",
				zap.String("backend", cfg.Name),
				zap.String("kind", string(cfg.Kind)),
				zap.Error(err))
			continue
		}
		if err := r.probe(ctx, cfg.Fingerprint(), backend); err != nil {
			r.logger.Warn("Skipping unreachable storage backend",
				zap.String("backend", cfg.Name),
				zap.String("kind", string(cfg.Kind)),
				zap.Error(err))
			continue
		}
		resolveTotal.WithLabelValues(string(backend.Kind())).Inc()
		return backend, nil
	}

	resolveTotal.WithLabelValues("none").Inc()
	return nil, ErrNoBackendConfigured
}

// Report probes every configured backend and marks the one Resolve would pick.
func (r *Registry) Report(ctx context.Context) ([]BackendStatus, error) {
	configs, err := r.configs(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]BackendStatus, 0, len(configs))
	selected := false
	for _, cfg := range configs {
		status := BackendStatus{
			Name:     cfg.Name,
			Kind:     cfg.Kind,
			Priority: cfg.Priority,
			Enabled:  cfg.Enabled,
		}
		backend, err := r.handle(cfg)
		if err != nil {
			status.Error = err.Error()
			statuses = append(statuses, status)
			continue
		}
		if err := r.probe(ctx, cfg.Fingerprint(), backend); err != nil {
			status.Error = err.Error()
		} else {
			status.Reachable = true
			if cfg.Enabled && !selected {
				status.Selected = true
				selected = true
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Invalidate drops all cached handles and probe results.
func (r *Registry) Invalidate() {
	r.handles.Purge()
	r.probes.Purge()
}

func (r *Registry) configs(ctx context.Context) ([]BackendConfig, error) {
	configs, err := r.provider.Backends(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(configs, func(i, j int) bool {
		return configs[i].Priority < configs[j].Priority
	})
	return configs, nil
}

// handle returns the cached backend for cfg or builds one. Concurrent builds
// of the same configuration are collapsed.
func (r *Registry) handle(cfg BackendConfig) (Backend, error) {
	key := cfg.Fingerprint()
	if backend, ok := r.handles.Get(key); ok {
		cacheHitsTotal.Inc()
		return backend, nil
	}
	cacheMissesTotal.Inc()

	result, err, _ := r.sf.Do("handle:"+key, func() (any, error) {
		if backend, ok := r.handles.Get(key); ok {
			return backend, nil
		}
		backend, err := r.factory(cfg)
		if err != nil {
			return nil, err
		}
		r.handles.Add(key, backend)
		r.logger.Info("Storage backend initialized",
			zap.String("backend", cfg.Name),
			zap.String("kind", string(cfg.Kind)))
		return backend, nil
	})
	if err != nil {
		return nil, err
	}
	backend, ok := result.(Backend)
	if !ok {
		return nil, errors.New("storage factory returned no backend")
	}
	return backend, nil
}

func (r *Registry) probe(ctx context.Context, key string, backend Backend) error {
	if err, ok := r.probes.Get(key); ok {
		return err
	}
	// The result is shared with every waiting caller and cached, so one
	// caller's cancellation must not decide it.
	_, err, _ := r.sf.Do("probe:"+key, func() (any, error) {
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.ProbeTimeout)
		defer cancel()
		err := backend.Probe(probeCtx)
		if !errors.Is(err, context.Canceled) {
			r.probes.Add(key, err)
		}
		return nil, err
	})
	return err
}
