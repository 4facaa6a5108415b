// Package memory implements in-memory users and tasks repositories for
// development and testing. All values are copied in and out, so callers
// never share state with the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// DB holds every user and task of the process.
type DB struct {
	mu      sync.Mutex
	users   map[string]models.User // keyed by lower-cased email
	tasks   map[int64]models.Task
	taskSeq int64
	now     func() time.Time
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		users: make(map[string]models.User),
		tasks: make(map[int64]models.Task),
		now:   time.Now,
	}
}

// Ensure interfaces are met.
var _ users.Repository = (*UserRepo)(nil)
var _ tasks.Repository = (*TaskRepo)(nil)

// Users returns the users view of db.
func (db *DB) Users() *UserRepo { return &UserRepo{db: db} }

// Tasks returns the tasks view of db.
func (db *DB) Tasks() *TaskRepo { return &TaskRepo{db: db} }

// --- users ---

type UserRepo struct {
	db *DB
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.db.users[key]; ok {
		return nil, common.ErrorAlreadyExists
	}
	for _, u := range r.db.users {
		if u.ID == user.ID {
			return nil, common.ErrorAlreadyExists
		}
	}

	now := r.db.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.db.users[key] = *user

	out := *user
	return &out, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

// --- tasks ---

type TaskRepo struct {
	db *DB
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.taskSeq++
	task.ID = r.db.taskSeq
	r.db.tasks[task.ID] = *task

	out := *task
	return &out, nil
}

func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := []models.Task{}
	for _, t := range r.db.tasks {
		if t.OwnerID == ownerID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *TaskRepo) GetByOwner(ctx context.Context, ownerID string, id int64) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.owned(ownerID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *TaskRepo) UpdateByOwner(ctx context.Context, ownerID string, id int64, patch models.TaskPatch, now time.Time) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.owned(ownerID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	t.UpdatedAt = now
	r.db.tasks[id] = t

	return &t, nil
}

func (r *TaskRepo) ToggleByOwner(ctx context.Context, ownerID string, id int64, now time.Time) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.owned(ownerID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.Completed = !t.Completed
	t.UpdatedAt = now
	r.db.tasks[id] = t

	return &t, nil
}

func (r *TaskRepo) DeleteByOwner(ctx context.Context, ownerID string, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.owned(ownerID, id); !ok {
		return common.ErrorNotFound
	}
	delete(r.db.tasks, id)
	return nil
}

// owned must be called with db.mu held.
func (r *TaskRepo) owned(ownerID string, id int64) (models.Task, bool) {
	t, ok := r.db.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return models.Task{}, false
	}
	return t, true
}
