package guard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campus/internal/session"
	"campus/internal/tenant"
	dErrors "campus/pkg/domain-errors"
	"campus/pkg/httputil"
)

type contextKeyTenant struct{}
type contextKeyKind struct{}

// CommunityFromContext returns the confirmed community for the request,
// or nil outside a RequireCommunity-guarded route.
func CommunityFromContext(ctx context.Context) *tenant.Tenant {
	record, _ := ctx.Value(contextKeyTenant{}).(*tenant.Tenant)
	return record
}

// KindFromContext returns the account class that satisfied the guard.
func KindFromContext(ctx context.Context) session.Kind {
	kind, _ := ctx.Value(contextKeyKind{}).(session.Kind)
	return kind
}

// RequireCommunity guards community-scoped routes. The community slug is read
// from the {community} URL parameter. Denials render a not-found response;
// the body never reveals whether the community exists.
func RequireCommunity(g *Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, "community")

			result := g.EvaluateCommunity(r.Context(), slug)
			if !result.Allowed() {
				httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "page not found"))
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyTenant{}, result.Tenant)
			ctx = context.WithValue(ctx, contextKeyKind{}, result.Kind)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards tenant-agnostic admin routes. Denials redirect to the
// login page instead of rendering not-found.
func RequireAdmin(g *Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := g.EvaluateAdmin(r.Context())
			if !result.Allowed() {
				http.Redirect(w, r, result.RedirectTarget, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyKind{}, result.Kind)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
