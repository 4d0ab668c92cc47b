package login

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"campus/internal/session"
)

type HandlerSuite struct {
	suite.Suite
	router   http.Handler
	auth     *scriptedAuth
	checker  *scriptedChecker
	sessions *session.Sessions
}

func (s *HandlerSuite) SetupTest() {
	s.auth = &scriptedAuth{memberOK: true}
	s.checker = newScriptedChecker()
	s.sessions = session.NewSessions(session.NewInMemoryStore())
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	svc := NewService(s.auth, s.sessions, WithLogger(logger))
	h := NewHandler(svc, s.checker, logger, nil)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) postJSON(path string, body any) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestLoginSuccess() {
	rec := s.postJSON("/login", LoginRequest{Email: "s@acme.test", Password: "pw"})

	s.Equal(http.StatusOK, rec.Code)
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("member", resp["kind"])
	s.True(s.sessions.Snapshot(context.Background()).Member)
}

func (s *HandlerSuite) TestLoginRejectedGenericMessage() {
	s.auth.memberOK = false
	rec := s.postJSON("/login", LoginRequest{Email: "s@acme.test", Password: "wrong"})

	s.Equal(http.StatusUnauthorized, rec.Code)
	var resp map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("invalid email or password", resp["error_description"])
}

func (s *HandlerSuite) TestLoginHonorsAccountKindHint() {
	s.auth.adminOK = true
	rec := s.postJSON("/login", LoginRequest{Email: "owner@acme.test", Password: "pw", AccountKind: "admin"})

	s.Equal(http.StatusOK, rec.Code)
	s.Equal([]session.Kind{session.KindAdmin}, s.auth.attempts)
}

func (s *HandlerSuite) TestProbeRecognized() {
	s.checker.probes["s@acme.test"] = Probe{Recognized: true, Kind: session.KindMember}
	rec := s.postJSON("/login/probe", ProbeRequest{Email: "s@acme.test"})

	s.Equal(http.StatusOK, rec.Code)
	var resp probeResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Recognized)
	s.Equal("member", resp.Kind)
}

func (s *HandlerSuite) TestProbeFailureIsUnrecognizedNotError() {
	rec := s.postJSON("/login/probe", ProbeRequest{Email: "nobody@nowhere.test"})

	s.Equal(http.StatusOK, rec.Code)
	var resp probeResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.False(resp.Recognized)
}

func (s *HandlerSuite) TestLogoutClearsSessions() {
	s.postJSON("/login", LoginRequest{Email: "s@acme.test", Password: "pw"})
	s.Require().True(s.sessions.Snapshot(context.Background()).Member)

	rec := s.postJSON("/logout", LogoutRequest{})
	s.Equal(http.StatusOK, rec.Code)
	s.False(s.sessions.Snapshot(context.Background()).Any())
}
