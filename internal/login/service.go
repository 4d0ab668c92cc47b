package login

import (
	"context"
	"errors"
	"log/slog"

	loginmetrics "campus/internal/login/metrics"
	"campus/internal/session"
	dErrors "campus/pkg/domain-errors"
	"campus/pkg/sentinel"
)

// Authenticator performs the two backend login calls.
type Authenticator interface {
	AdminLogin(ctx context.Context, email, password string) (session.Credentials, error)
	MemberLogin(ctx context.Context, email, password string) (session.Credentials, error)
}

// Service implements the dual-mode login flow.
//
// A recognized probe hint routes the attempt straight to the matching account
// class. Without one, the submit falls back to sequential trial: admin first,
// then member. Whatever fails underneath, the caller sees exactly one generic
// invalid-credentials error, so account kinds are never leaked.
type Service struct {
	client   Authenticator
	sessions *session.Sessions
	logger   *slog.Logger
	metrics  *loginmetrics.Metrics
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics injects login metrics.
func WithMetrics(m *loginmetrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService constructs the login service.
func NewService(client Authenticator, sessions *session.Sessions, opts ...ServiceOption) *Service {
	s := &Service{client: client, sessions: sessions, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthenticated, "invalid email or password")

// Submit runs one login attempt and persists the session on success,
// returning the account class that logged in.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (session.Kind, error) {
	order := []session.Kind{session.KindAdmin, session.KindMember}
	if req.Hint.Recognized && req.Hint.Kind.Valid() {
		// The probe result wins over any manual selection.
		order = []session.Kind{req.Hint.Kind}
	}

	for _, kind := range order {
		creds, err := s.attempt(ctx, kind, req)
		if err != nil {
			if !errors.Is(err, sentinel.ErrRejected) {
				s.logger.WarnContext(ctx, "login backend unavailable",
					"kind", string(kind), "error", err)
			}
			if s.metrics != nil {
				s.metrics.IncrementLogin(string(kind), "failed")
			}
			continue
		}

		creds.Principal.DeviceLabel = DeviceLabel(req.UserAgent)
		if tokenKind, ok := session.KindFromToken(creds.Token); ok && tokenKind != kind {
			s.logger.WarnContext(ctx, "token kind claim does not match login path",
				"path_kind", string(kind), "token_kind", string(tokenKind))
		}

		if err := s.sessions.SetCredentials(ctx, kind, creds); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist session", "error", err)
			return "", errInvalidCredentials
		}
		if s.metrics != nil {
			s.metrics.IncrementLogin(string(kind), "success")
		}
		return kind, nil
	}

	return "", errInvalidCredentials
}

func (s *Service) attempt(ctx context.Context, kind session.Kind, req SubmitRequest) (session.Credentials, error) {
	if kind == session.KindAdmin {
		return s.client.AdminLogin(ctx, req.Email, req.Password)
	}
	return s.client.MemberLogin(ctx, req.Email, req.Password)
}

// Logout clears one account class.
func (s *Service) Logout(ctx context.Context, kind session.Kind) error {
	return s.sessions.Logout(ctx, kind)
}

// LogoutAll clears the whole session key space.
func (s *Service) LogoutAll(ctx context.Context) error {
	return s.sessions.LogoutAll(ctx)
}
