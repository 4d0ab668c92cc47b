package session

import "context"

// Error Contract:
// All store methods follow this error pattern:
// - Get returns sentinel.ErrNotFound (optionally wrapped) when the key is absent
// - Set and Remove return nil for successful operations
// - Infrastructure failures are returned wrapped with context
//
// The store is last-write-wins with no transactional guarantees.
type Store interface {
	Get(ctx context.Context, key Key) (string, error)
	Set(ctx context.Context, key Key, value string) error
	Remove(ctx context.Context, key Key) error
}
