package client

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// API is the server contract used by the client services. Task calls take
// the session so the token and the advisory user id travel together.
type API interface {
	Health(ctx context.Context) error
	Signup(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Verify(ctx context.Context, token string) (*models.Session, error)
	Logout(ctx context.Context, token string) error

	ListTasks(ctx context.Context, s models.Session) ([]models.Task, error)
	CreateTask(ctx context.Context, s models.Session, title, description string) (*models.Task, error)
	GetTask(ctx context.Context, s models.Session, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, s models.Session, id int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, s models.Session, id int64) error
	ToggleTask(ctx context.Context, s models.Session, id int64) (*models.Task, error)
}
