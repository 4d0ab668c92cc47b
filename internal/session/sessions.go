package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"campus/pkg/sentinel"
)

// Sessions exposes the typed session key space as auth-level operations.
// It is the single writer of tokens, principal records, and the active tenant
// id; views and guards only ever read through it.
type Sessions struct {
	store  Store
	logger *slog.Logger

	mu    sync.Mutex
	hooks []func()
}

// Option configures a Sessions manager.
type Option func(*Sessions)

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sessions) {
		s.logger = logger
	}
}

// NewSessions constructs a session manager over the given store.
func NewSessions(store Store, opts ...Option) *Sessions {
	s := &Sessions{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnInvalidate registers a hook fired after logout or tenant switch.
// The guard uses this to drop its memoized validations.
func (s *Sessions) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Sessions) fireInvalidate() {
	s.mu.Lock()
	hooks := make([]func(), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

func tokenKey(kind Kind) Key {
	if kind == KindAdmin {
		return KeyAdminToken
	}
	return KeyMemberToken
}

func recordKey(kind Kind) Key {
	if kind == KindAdmin {
		return KeyAdminRecord
	}
	return KeyMemberRecord
}

// SetCredentials stores the token and principal record for one account class.
func (s *Sessions) SetCredentials(ctx context.Context, kind Kind, creds Credentials) error {
	if !kind.Valid() {
		return fmt.Errorf("session kind %q: %w", kind, sentinel.ErrInvalidInput)
	}
	blob, err := json.Marshal(creds.Principal)
	if err != nil {
		return fmt.Errorf("marshal principal record: %w", err)
	}
	if err := s.store.Set(ctx, tokenKey(kind), creds.Token); err != nil {
		return err
	}
	return s.store.Set(ctx, recordKey(kind), string(blob))
}

// Credentials loads the token and principal record for one account class.
// Returns sentinel.ErrNotFound when either half is missing.
func (s *Sessions) Credentials(ctx context.Context, kind Kind) (*Credentials, error) {
	token, err := s.store.Get(ctx, tokenKey(kind))
	if err != nil {
		return nil, err
	}
	blob, err := s.store.Get(ctx, recordKey(kind))
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal([]byte(blob), &record); err != nil {
		return nil, fmt.Errorf("decode principal record: %w", err)
	}
	return &Credentials{Token: token, Principal: record}, nil
}

// Snapshot reports which account classes have complete credentials.
// Presence is the only check: token expiry is discovered lazily when a
// downstream API call fails, not here. Store failures count as absent.
func (s *Sessions) Snapshot(ctx context.Context) Snapshot {
	return Snapshot{
		Admin:  s.present(ctx, KindAdmin),
		Member: s.present(ctx, KindMember),
	}
}

func (s *Sessions) present(ctx context.Context, kind Kind) bool {
	for _, key := range []Key{tokenKey(kind), recordKey(kind)} {
		value, err := s.store.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, sentinel.ErrNotFound) {
				s.logger.WarnContext(ctx, "session store read failed, treating as absent",
					"key", string(key), "error", err)
			}
			return false
		}
		if value == "" {
			return false
		}
	}
	return true
}

// Logout removes the credentials for one account class and fires invalidation hooks.
func (s *Sessions) Logout(ctx context.Context, kind Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("session kind %q: %w", kind, sentinel.ErrInvalidInput)
	}
	if err := s.store.Remove(ctx, tokenKey(kind)); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, recordKey(kind)); err != nil {
		return err
	}
	s.fireInvalidate()
	return nil
}

// LogoutAll clears both account classes and the active tenant.
func (s *Sessions) LogoutAll(ctx context.Context) error {
	for _, key := range []Key{KeyAdminToken, KeyAdminRecord, KeyMemberToken, KeyMemberRecord, KeyActiveTenant} {
		if err := s.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	s.fireInvalidate()
	return nil
}

// SetActiveTenant records the tenant id subsequent API calls are scoped to.
// Switching to a different tenant fires invalidation hooks.
func (s *Sessions) SetActiveTenant(ctx context.Context, tenantID string) error {
	previous, err := s.store.Get(ctx, KeyActiveTenant)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}
	if err := s.store.Set(ctx, KeyActiveTenant, tenantID); err != nil {
		return err
	}
	if previous != "" && previous != tenantID {
		s.fireInvalidate()
	}
	return nil
}

// ActiveTenant returns the tenant id the session is currently scoped to.
func (s *Sessions) ActiveTenant(ctx context.Context) (string, error) {
	return s.store.Get(ctx, KeyActiveTenant)
}
