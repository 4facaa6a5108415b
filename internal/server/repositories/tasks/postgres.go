package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	t := &models.Task{}
	if err := s.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (owner_id, title, description, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.OwnerID, task.Title, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt).Scan(&task.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	query :=
		`SELECT id, owner_id, title, description, completed, created_at, updated_at FROM tasks
		 WHERE owner_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID string, id int64) (*models.Task, error) {
	query :=
		`SELECT id, owner_id, title, description, completed, created_at, updated_at FROM tasks
		 WHERE id = $1 AND owner_id = $2
		 `

	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID))
}

// UpdateByOwner applies the non-nil fields of patch in one statement.
func (r *PostgresRepository) UpdateByOwner(ctx context.Context, ownerID string, id int64, patch models.TaskPatch, now time.Time) (*models.Task, error) {
	query :=
		`UPDATE tasks SET
		   title = COALESCE($3, title),
		   description = COALESCE($4, description),
		   updated_at = $5
		 WHERE id = $1 AND owner_id = $2
		 RETURNING id, owner_id, title, description, completed, created_at, updated_at
		 `

	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID, nullable(patch.Title), nullable(patch.Description), now))
}

func (r *PostgresRepository) ToggleByOwner(ctx context.Context, ownerID string, id int64, now time.Time) (*models.Task, error) {
	query :=
		`UPDATE tasks SET completed = NOT completed, updated_at = $3
		 WHERE id = $1 AND owner_id = $2
		 RETURNING id, owner_id, title, description, completed, created_at, updated_at
		 `

	return r.one(r.db.QueryRowContext(ctx, query, id, ownerID, now))
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string, id int64) error {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) one(row *sql.Row) (*models.Task, error) {
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
