package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// MemoryDSN selects the in-memory store instead of PostgreSQL.
const MemoryDSN = "memory"

// RepositoryManager vends repositories bound to either the shared handle
// (DB) or a transaction started by WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	WithTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	DB() dbx.DBTX
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Close() error
}

var sqlOpen = sql.Open

// Open returns the manager selected by dsn and checks connectivity.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == MemoryDSN {
		return NewMemoryRepositoryManager(), nil
	}

	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return NewPostgresRepositoryManager(db)
}
