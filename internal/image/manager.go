package image

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Resolves a source descriptor into an [Image].
//
// Implementations may block on network or disk I/O and should honour
// cancellation of ctx. Errors should be classified with errdefs (not found,
// unavailable, invalid argument, failed precondition).
type Resolver interface {
	Resolve(ctx context.Context, src Source) (*Image, error)
}

// Creates a [Resolver] for one source kind.
//
// The parent resolver is the [Manager] that owns the new resolver. Resolvers
// that depend on other images (builds) resolve them through the parent.
// Factories run under the manager's lock and must not call parent.Resolve.
type Factory func(parent Resolver) (Resolver, error)

// Dispatches image resolution to per-kind resolvers.
//
// At most one resolver per kind is created for the lifetime of a manager. The
// first request for a kind constructs it, later requests reuse it. Kinds
// without a registered factory fail with [ErrNoResolver].
type Manager struct {
	mu        sync.Mutex
	factories map[Kind]Factory  // Constructors per source kind.
	resolvers map[Kind]Resolver // Resolvers created so far.
	cache     *Cache            // Optional cross-manager cache.
	metrics   *Metrics          // Optional resolution metrics.
}

// Configures a [Manager].
type Option func(*Manager)

// Registers the factory used to create the resolver for kind.
func WithFactory(kind Kind, f Factory) Option {
	return func(m *Manager) {
		m.factories[kind] = f
	}
}

// Memoises resolutions in the given cache.
func WithCache(c *Cache) Option {
	return func(m *Manager) {
		m.cache = c
	}
}

// Records resolution metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// Creates a new [Manager] with no resolvers instantiated.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		factories: make(map[Kind]Factory),
		resolvers: make(map[Kind]Resolver),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resolves src with the resolver matching its kind.
//
// Errors are returned as [*ResolveError] carrying src. Resolver errors are
// wrapped unchanged and are never retried.
func (m *Manager) Resolve(ctx context.Context, src Source) (*Image, error) {
	kind, err := src.Kind()
	if err != nil {
		return nil, &ResolveError{Source: src, Err: err}
	}

	start := time.Now()
	img, err := m.resolveKind(ctx, kind, src)
	m.metrics.RecordResolve(ctx, kind, err, time.Since(start))

	if err != nil {
		return nil, &ResolveError{Source: src, Err: err}
	}

	slog.Debug("image resolved", "source", src.String(), "layers", len(img.Layers))
	return img, nil
}

// Resolves through the cache when one is configured.
func (m *Manager) resolveKind(ctx context.Context, kind Kind, src Source) (*Image, error) {
	if m.cache == nil {
		return m.dispatch(ctx, kind, src)
	}
	return m.cache.Get(ctx, src, func(ctx context.Context) (*Image, error) {
		return m.dispatch(ctx, kind, src)
	})
}

// Forwards src to the resolver for kind.
func (m *Manager) dispatch(ctx context.Context, kind Kind, src Source) (*Image, error) {
	r, err := m.resolver(kind)
	if err != nil {
		return nil, err
	}

	img, err := r.Resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrEmptyResult
	}
	return img, nil
}

// Returns the resolver for kind, creating it on first use.
//
// The lock only covers lookup and construction. Resolution itself runs
// without it so that nested resolutions through the parent do not deadlock.
func (m *Manager) resolver(kind Kind) (Resolver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.resolvers[kind]; ok {
		return r, nil
	}

	f, ok := m.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w for %s sources", ErrNoResolver, kind)
	}

	r, err := f(m)
	if err != nil {
		return nil, fmt.Errorf("create %s resolver: %w", kind, err)
	}

	slog.Debug("resolver created", "kind", kind.String())

	m.resolvers[kind] = r
	return r, nil
}
