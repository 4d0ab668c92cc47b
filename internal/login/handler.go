package login

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	loginmetrics "campus/internal/login/metrics"
	"campus/internal/platform/middleware"
	"campus/internal/session"
	"campus/pkg/httputil"
)

// Handler exposes the login flow over HTTP for the form views.
type Handler struct {
	service *Service
	checker EmailChecker
	logger  *slog.Logger
	metrics *loginmetrics.Metrics
}

// NewHandler constructs the login handler.
func NewHandler(service *Service, checker EmailChecker, logger *slog.Logger, metrics *loginmetrics.Metrics) *Handler {
	return &Handler{service: service, checker: checker, logger: logger, metrics: metrics}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.HandleLogin)
	r.Post("/login/probe", h.HandleProbe)
	r.Post("/logout", h.HandleLogout)
}

// LoginRequest is the form submission body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// AccountKind mirrors the form's user-type selector, which the probe
	// may have overwritten. Empty means no hint.
	AccountKind string `json:"account_kind,omitempty"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
}

// HandleLogin runs the dual-mode submit flow.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeJSON[LoginRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	hint := Probe{}
	if kind := session.Kind(req.AccountKind); kind.Valid() {
		hint = Probe{Recognized: true, Kind: kind}
	}

	kind, err := h.service.Submit(ctx, SubmitRequest{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: r.UserAgent(),
		Hint:      hint,
	})
	if err != nil {
		h.logger.InfoContext(ctx, "login rejected", "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loginResponse{Success: true, Kind: string(kind)})
}

// ProbeRequest asks for an email classification.
type ProbeRequest struct {
	Email string `json:"email"`
}

type probeResponse struct {
	Recognized bool   `json:"recognized"`
	Kind       string `json:"kind,omitempty"`
	Community  string `json:"community,omitempty"`
}

// HandleProbe classifies an email for the form's input phase. The browser is
// expected to debounce; the endpoint itself answers every call. Failures are
// folded into an unrecognized answer, never an error status.
func (h *Handler) HandleProbe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeJSON[ProbeRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	probe, err := h.checker.CheckEmail(ctx, req.Email)
	if err != nil {
		probe = Probe{Recognized: false}
	}
	if h.metrics != nil {
		outcome := "unrecognized"
		if probe.Recognized {
			outcome = "recognized"
		}
		h.metrics.IncrementProbe(outcome)
	}

	resp := probeResponse{Recognized: probe.Recognized, Kind: string(probe.Kind)}
	if probe.Tenant != nil {
		resp.Community = probe.Tenant.Name
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// LogoutRequest names which account class to clear; empty clears both.
type LogoutRequest struct {
	Kind string `json:"kind,omitempty"`
}

// HandleLogout clears the session key space.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeJSON[LogoutRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	var err error
	if kind := session.Kind(req.Kind); kind.Valid() {
		err = h.service.Logout(ctx, kind)
	} else {
		err = h.service.LogoutAll(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "logout failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
