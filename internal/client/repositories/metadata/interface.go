// Package metadata stores small key/value settings in the CLI's SQLite file.
// The cached session lives here.
package metadata

import (
	"context"
)

// Keys of the cached session.
const (
	KeyToken     = "token"
	KeyUserID    = "user_id"
	KeyEmail     = "email"
	KeyExpiresAt = "expires_at"
)

// SessionKeys lists every key written by SaveSession.
var SessionKeys = []string{KeyToken, KeyUserID, KeyEmail, KeyExpiresAt}

type Repository interface {
	// Get returns common.ErrorNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
