package tenant

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"campus/internal/platform/tracer"
	tenantmetrics "campus/internal/tenant/metrics"
	dErrors "campus/pkg/domain-errors"
	"campus/pkg/sentinel"
)

// Lookup is the remote existence check the resolver depends on.
type Lookup interface {
	Check(ctx context.Context, slug string) (*Tenant, error)
}

// Resolver confirms community existence by slug.
//
// Failure semantics: the resolver never propagates transport errors. Slugs
// failing the format gate return a format_invalid error without any remote
// call; every other failure class (absence, 5xx, malformed payload, network)
// collapses to not_found so callers cannot distinguish them.
type Resolver struct {
	lookup  Lookup
	logger  *slog.Logger
	tracer  tracer.Tracer
	metrics *tenantmetrics.Metrics
	ttl     time.Duration
	now     func() time.Time

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	tenant    *Tenant
	expiresAt time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithTracer injects a tracer for resolve spans.
func WithTracer(t tracer.Tracer) ResolverOption {
	return func(r *Resolver) {
		r.tracer = t
	}
}

// WithMetrics injects resolver metrics.
func WithMetrics(m *tenantmetrics.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithCacheTTL bounds how long a resolved community is served from memory.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.ttl = ttl
	}
}

// WithClock injects the time source (no hidden time.Now() calls in tests).
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// NewResolver constructs a Resolver over the given lookup.
func NewResolver(lookup Lookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		lookup: lookup,
		logger: slog.Default(),
		tracer: tracer.NewNoop(),
		ttl:    5 * time.Minute,
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve confirms the community exists and returns its record.
// Duplicate in-flight resolves for the same slug are coalesced, and successes
// are cached so repeated reads in the same browsing session skip the backend.
func (r *Resolver) Resolve(ctx context.Context, slug string) (*Tenant, error) {
	ctx, span := r.tracer.Start(ctx, "tenant.resolve", tracer.String("slug", slug))

	if err := ValidateSlug(slug); err != nil {
		if r.metrics != nil {
			r.metrics.FormatRejections.Inc()
		}
		span.SetAttributes(tracer.Bool("format_rejected", true))
		span.End(err)
		return nil, err
	}

	if cached := r.fromCache(slug); cached != nil {
		span.SetAttributes(tracer.Bool("cache_hit", true))
		span.End(nil)
		return cached, nil
	}

	start := r.now()
	result, err, _ := r.group.Do(slug, func() (any, error) {
		return r.lookup.Check(ctx, slug)
	})
	if r.metrics != nil {
		r.metrics.ObserveResolve(start)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			// Availability over root cause: the caller sees plain absence.
			r.logger.WarnContext(ctx, "tenant lookup unavailable, reporting not found",
				"slug", slug, "error", err)
		}
		if r.metrics != nil {
			r.metrics.IncrementLookup("not_found")
		}
		notFound := dErrors.Wrap(err, dErrors.CodeNotFound, "community not found")
		span.End(notFound)
		return nil, notFound
	}

	record := result.(*Tenant)
	r.store(slug, record)
	if r.metrics != nil {
		r.metrics.IncrementLookup("found")
	}
	span.End(nil)
	return record, nil
}

// Invalidate drops all cached resolutions. Wired to session invalidation
// (logout, tenant switch) so a stale community record never outlives its session.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]cacheEntry)
}

func (r *Resolver) fromCache(slug string) *Tenant {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[slug]
	if !ok || r.now().After(entry.expiresAt) {
		delete(r.cache, slug)
		return nil
	}
	return entry.tenant
}

func (r *Resolver) store(slug string, record *Tenant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[slug] = cacheEntry{tenant: record, expiresAt: r.now().Add(r.ttl)}
}
