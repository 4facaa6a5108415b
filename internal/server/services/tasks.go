package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// TaskService exposes task operations for one identity at a time. Every
// method rejects an identity without a user id before touching the store,
// and every store call is scoped to identity.UserID. A task owned by
// someone else is reported exactly like a missing one: common.ErrorNotFound.
type TaskService struct {
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewTaskService(m repomanager.RepositoryManager, logger logging.Logger) *TaskService {
	return &TaskService{
		repomanager: m,
		logger:      logger.With("module", "tasks"),
		now:         time.Now,
	}
}

func (s *TaskService) List(ctx context.Context, identity auth.Identity) ([]models.Task, error) {
	if !identity.Valid() {
		return nil, common.ErrorUnauthorized
	}
	return s.repomanager.Tasks(s.repomanager.DB()).ListByOwner(ctx, identity.UserID)
}

func (s *TaskService) Get(ctx context.Context, identity auth.Identity, id int64) (*models.Task, error) {
	if !identity.Valid() {
		return nil, common.ErrorUnauthorized
	}
	return s.repomanager.Tasks(s.repomanager.DB()).GetByOwner(ctx, identity.UserID, id)
}

// Create stores a new, not completed task owned by identity. The title is
// stored trimmed.
func (s *TaskService) Create(ctx context.Context, identity auth.Identity, title, description string) (*models.Task, error) {
	if !identity.Valid() {
		return nil, common.ErrorUnauthorized
	}

	title = strings.TrimSpace(title)
	if err := (taskFields{Title: &title, Description: &description}).Validate(); err != nil {
		return nil, err
	}

	now := s.timestamp()
	task := &models.Task{
		OwnerID:     identity.UserID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repomanager.Tasks(s.repomanager.DB()).Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "task created", "user_id", identity.UserID, "task_id", created.ID)
	return created, nil
}

// Update applies the supplied fields of patch. Ownership is checked before
// validation, so a foreign task is NotFound even when the patch is invalid.
func (s *TaskService) Update(ctx context.Context, identity auth.Identity, id int64, patch models.TaskPatch) (*models.Task, error) {
	if !identity.Valid() {
		return nil, common.ErrorUnauthorized
	}

	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		patch.Title = &trimmed
	}

	var updated *models.Task
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		if _, err := repo.GetByOwner(ctx, identity.UserID, id); err != nil {
			return err
		}

		if err := (taskFields{Title: patch.Title, Description: patch.Description}).Validate(); err != nil {
			return err
		}

		var err error
		updated, err = repo.UpdateByOwner(ctx, identity.UserID, id, patch, s.timestamp())
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes an owned task. Deleting it again reports common.ErrorNotFound.
func (s *TaskService) Delete(ctx context.Context, identity auth.Identity, id int64) error {
	if !identity.Valid() {
		return common.ErrorUnauthorized
	}

	if err := s.repomanager.Tasks(s.repomanager.DB()).DeleteByOwner(ctx, identity.UserID, id); err != nil {
		return err
	}

	s.logger.Debug(ctx, "task deleted", "user_id", identity.UserID, "task_id", id)
	return nil
}

func (s *TaskService) ToggleComplete(ctx context.Context, identity auth.Identity, id int64) (*models.Task, error) {
	if !identity.Valid() {
		return nil, common.ErrorUnauthorized
	}
	return s.repomanager.Tasks(s.repomanager.DB()).ToggleByOwner(ctx, identity.UserID, id, s.timestamp())
}

// timestamp matches the microsecond precision of PostgreSQL timestamptz.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
