package health

import (
	"context"
	"net/http"
	"time"

	"campus/pkg/httputil"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler serves liveness and readiness endpoints for the gateway.
// Dependencies are optional; a nil pinger is skipped.
func Handler(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := status{Status: "ok", Checks: map[string]string{}}
		code := http.StatusOK
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				resp.Status = "degraded"
				resp.Checks[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		httputil.WriteJSON(w, code, resp)
	}
}
