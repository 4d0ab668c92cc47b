package guard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	guardmetrics "campus/internal/guard/metrics"
	"campus/internal/session"
	"campus/internal/tenant"
)

// Status is the guard's externally observable state for one evaluation.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusAllowed    Status = "allowed"
	StatusDenied     Status = "denied"
)

// Result is the transient gating decision consumed by the HTTP layer.
// It is recomputed per navigation and never persisted.
type Result struct {
	Status Status

	// RedirectTarget is set when a denial should redirect instead of
	// rendering not-found. Only the admin variant sets it.
	RedirectTarget string

	// Tenant is the confirmed community, set only when Status is Allowed
	// by the community variant.
	Tenant *tenant.Tenant

	// Kind is the account class that satisfied the guard.
	Kind session.Kind
}

// Allowed reports whether the navigation may proceed.
func (r Result) Allowed() bool {
	return r.Status == StatusAllowed
}

// TenantResolver confirms community existence by slug.
type TenantResolver interface {
	Resolve(ctx context.Context, slug string) (*tenant.Tenant, error)
}

// SessionState is the slice of the session manager the guard reads and writes.
type SessionState interface {
	Snapshot(ctx context.Context) session.Snapshot
	SetActiveTenant(ctx context.Context, tenantID string) error
}

// Guard composes tenant resolution and session validation into a single
// gating decision.
//
// The community variant runs strictly in order: slug format gate, remote
// resolve, active-tenant persist, session check. A session is never evaluated
// against a community that was not confirmed in the same pass. Community
// denials are indistinguishable from unknown slugs so unauthenticated callers
// cannot probe which communities exist.
type Guard struct {
	resolver  TenantResolver
	sessions  SessionState
	logger    *slog.Logger
	metrics   *guardmetrics.Metrics
	loginPath string
	memoTTL   time.Duration
	now       func() time.Time

	mu   sync.Mutex
	memo map[string]memoEntry
}

type memoEntry struct {
	tenant    *tenant.Tenant
	expiresAt time.Time
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// WithMetrics injects guard metrics.
func WithMetrics(m *guardmetrics.Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

// WithLoginPath sets the redirect target for admin-variant denials.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		g.loginPath = path
	}
}

// WithMemoTTL bounds how long a validated slug skips the remote resolve.
func WithMemoTTL(ttl time.Duration) Option {
	return func(g *Guard) {
		g.memoTTL = ttl
	}
}

// WithClock injects the time source for memo expiry.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// New constructs a Guard. The sessions invalidation hook should be wired to
// Invalidate so logout and tenant switches drop memoized validations.
func New(resolver TenantResolver, sessions SessionState, opts ...Option) *Guard {
	g := &Guard{
		resolver:  resolver,
		sessions:  sessions,
		logger:    slog.Default(),
		loginPath: "/login",
		memoTTL:   5 * time.Minute,
		now:       time.Now,
		memo:      make(map[string]memoEntry),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// EvaluateCommunity gates navigation to a community-scoped page.
// Every failure path yields a plain denial: tenant absence and missing
// sessions produce the same observable result.
func (g *Guard) EvaluateCommunity(ctx context.Context, slug string) Result {
	g.logger.DebugContext(ctx, "guard validating", "variant", "community", "slug", slug)

	confirmed := g.fromMemo(slug)
	if confirmed == nil {
		record, err := g.resolver.Resolve(ctx, slug)
		if err != nil {
			g.logger.InfoContext(ctx, "guard denied", "variant", "community", "slug", slug, "reason", err)
			return g.finish("community", Result{Status: StatusDenied})
		}
		confirmed = record
		g.remember(slug, record)
	} else if g.metrics != nil {
		g.metrics.MemoHits.Inc()
	}

	if err := g.sessions.SetActiveTenant(ctx, confirmed.ID); err != nil {
		g.logger.ErrorContext(ctx, "guard failed to persist active tenant",
			"slug", slug, "error", err)
		return g.finish("community", Result{Status: StatusDenied})
	}

	snap := g.sessions.Snapshot(ctx)
	if !snap.Any() {
		g.logger.InfoContext(ctx, "guard denied", "variant", "community", "slug", slug, "reason", "no session")
		return g.finish("community", Result{Status: StatusDenied})
	}

	// Community pages are member surfaces first: when both account classes
	// hold credentials the member session wins. Admin routes never reach
	// this variant, so the route class always picks the kind.
	kind := session.KindMember
	if !snap.Member {
		kind = session.KindAdmin
	}

	return g.finish("community", Result{Status: StatusAllowed, Tenant: confirmed, Kind: kind})
}

// EvaluateAdmin gates tenant-agnostic admin pages. It skips tenant resolution
// entirely and checks only the admin session. Denials redirect to the login
// page rather than rendering not-found.
func (g *Guard) EvaluateAdmin(ctx context.Context) Result {
	g.logger.DebugContext(ctx, "guard validating", "variant", "admin")

	snap := g.sessions.Snapshot(ctx)
	if !snap.Admin {
		return g.finish("admin", Result{Status: StatusDenied, RedirectTarget: g.loginPath})
	}
	return g.finish("admin", Result{Status: StatusAllowed, Kind: session.KindAdmin})
}

// Invalidate drops all memoized validations.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.memo = make(map[string]memoEntry)
}

func (g *Guard) finish(variant string, result Result) Result {
	if g.metrics != nil {
		g.metrics.IncrementEvaluation(variant, string(result.Status))
	}
	return result
}

func (g *Guard) fromMemo(slug string) *tenant.Tenant {
	g.mu.Lock()
	defer g.mu.Unlock()
	entry, ok := g.memo[slug]
	if !ok || g.now().After(entry.expiresAt) {
		delete(g.memo, slug)
		return nil
	}
	return entry.tenant
}

func (g *Guard) remember(slug string, record *tenant.Tenant) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.memo[slug] = memoEntry{tenant: record, expiresAt: g.now().Add(g.memoTTL)}
}
