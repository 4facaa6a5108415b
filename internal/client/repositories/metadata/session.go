package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
)

// SessionStore persists the cached session. All four keys are written or
// removed together.
type SessionStore struct {
	db DB
}

// DB is what SessionStore needs from *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

func NewSessionStore(db DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save writes the session in one transaction.
func (s *SessionStore) Save(ctx context.Context, sess models.Session) error {
	if sess.Token == "" || !sess.Identity.Valid() {
		return fmt.Errorf("save session: %w", common.ErrorValidation)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := NewSQLiteRepository(tx)
		values := map[string]string{
			KeyToken:     sess.Token,
			KeyUserID:    sess.Identity.UserID,
			KeyEmail:     sess.Identity.Email,
			KeyExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339Nano),
		}
		for _, k := range SessionKeys {
			if err := r.Set(ctx, k, []byte(values[k])); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load returns the cached session or common.ErrorNotFound when none is
// stored. A partially written or unparsable cache is cleared and reported
// as not found.
func (s *SessionStore) Load(ctx context.Context) (*models.Session, error) {
	r := NewSQLiteRepository(s.db)

	values := make(map[string]string, len(SessionKeys))
	for _, k := range SessionKeys {
		v, err := r.Get(ctx, k)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.discard(ctx)
		}
		if err != nil {
			return nil, err
		}
		values[k] = string(v)
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, values[KeyExpiresAt])
	if err != nil || values[KeyToken] == "" || values[KeyUserID] == "" {
		return nil, s.discard(ctx)
	}

	return &models.Session{
		Token:     values[KeyToken],
		Identity:  models.Identity{UserID: values[KeyUserID], Email: values[KeyEmail]},
		ExpiresAt: expiresAt,
	}, nil
}

// Clear removes the cached session.
func (s *SessionStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).Delete(ctx, SessionKeys...)
	})
}

func (s *SessionStore) discard(ctx context.Context) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}
	return common.ErrorNotFound
}
