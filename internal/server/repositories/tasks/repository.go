// Package tasks is the owner-scoped task store.
//
// Every method that touches a single task takes the owner id and matches
// id and owner in the same statement. A task that does not exist and a task
// owned by someone else both return common.ErrorNotFound.
package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	GetByOwner(ctx context.Context, ownerID string, id int64) (*models.Task, error)
	UpdateByOwner(ctx context.Context, ownerID string, id int64, patch models.TaskPatch, now time.Time) (*models.Task, error)
	ToggleByOwner(ctx context.Context, ownerID string, id int64, now time.Time) (*models.Task, error)
	DeleteByOwner(ctx context.Context, ownerID string, id int64) error
}
