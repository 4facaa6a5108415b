package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var (
	alice = auth.Identity{UserID: "alice-id", Email: "alice@x.com"}
	bob   = auth.Identity{UserID: "bob-id", Email: "bob@x.com"}
)

func newAuthService(t *testing.T, rm repomanager.RepositoryManager, now func() time.Time) *AuthService {
	t.Helper()
	issuer := auth.NewIssuer([]byte(testSecret), time.Hour, now)
	verifier := auth.NewVerifier([]byte(testSecret), now)
	return NewAuthService(rm, issuer, verifier, logging.NewNopLogger(), bcrypt.MinCost)
}

func newTaskService(t *testing.T, rm repomanager.RepositoryManager) *TaskService {
	t.Helper()
	s := NewTaskService(rm, logging.NewNopLogger())
	fixed := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s
}

// countingManager wraps a real manager and counts how many repositories
// were handed out, so tests can prove that nothing reached the store.
type countingManager struct {
	repomanager.RepositoryManager
	calls int
}

func (m *countingManager) Tasks(db dbx.DBTX) tasks.Repository {
	m.calls++
	return m.RepositoryManager.Tasks(db)
}

func (m *countingManager) Users(db dbx.DBTX) users.Repository {
	m.calls++
	return m.RepositoryManager.Users(db)
}

func (m *countingManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	m.calls++
	return m.RepositoryManager.WithTx(ctx, fn)
}

// failingUsers returns err from every call.
type failingUsers struct{ err error }

func (f failingUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, f.err }
func (f failingUsers) GetByEmail(context.Context, string) (*models.User, error)   { return nil, f.err }

type failingUsersManager struct {
	repomanager.RepositoryManager
	err error
}

func (m failingUsersManager) Users(dbx.DBTX) users.Repository { return failingUsers{err: m.err} }
