package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
)

// TaskService calls the task endpoints with the current session.
//
// A 401 from the server expires the session and returns ErrSessionExpired.
// The failed request is never retried with the same token.
type TaskService interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, title, description string) (*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	Toggle(ctx context.Context, id int64) (*models.Task, error)
}

type taskService struct {
	api  client.API
	auth AuthService
}

func NewTaskService(api client.API, auth AuthService) TaskService {
	return &taskService{api: api, auth: auth}
}

func (s *taskService) List(ctx context.Context) ([]models.Task, error) {
	var out []models.Task
	err := s.do(ctx, func(sess models.Session) (err error) {
		out, err = s.api.ListTasks(ctx, sess)
		return err
	})
	return out, err
}

func (s *taskService) Create(ctx context.Context, title, description string) (*models.Task, error) {
	return s.one(ctx, func(sess models.Session) (*models.Task, error) {
		return s.api.CreateTask(ctx, sess, title, description)
	})
}

func (s *taskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	return s.one(ctx, func(sess models.Session) (*models.Task, error) {
		return s.api.GetTask(ctx, sess, id)
	})
}

func (s *taskService) Update(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	return s.one(ctx, func(sess models.Session) (*models.Task, error) {
		return s.api.UpdateTask(ctx, sess, id, patch)
	})
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	return s.do(ctx, func(sess models.Session) error {
		return s.api.DeleteTask(ctx, sess, id)
	})
}

func (s *taskService) Toggle(ctx context.Context, id int64) (*models.Task, error) {
	return s.one(ctx, func(sess models.Session) (*models.Task, error) {
		return s.api.ToggleTask(ctx, sess, id)
	})
}

func (s *taskService) one(ctx context.Context, call func(models.Session) (*models.Task, error)) (*models.Task, error) {
	var out *models.Task
	err := s.do(ctx, func(sess models.Session) (err error) {
		out, err = call(sess)
		return err
	})
	return out, err
}

// do runs call with the current session and applies the 401 rule.
func (s *taskService) do(ctx context.Context, call func(models.Session) error) error {
	sess, ok := s.auth.Current()
	if !ok {
		if _, st := s.auth.WhoAmI(); st == session.Expired {
			return ErrSessionExpired
		}
		return ErrNotLoggedIn
	}

	err := call(sess)
	switch {
	case err == nil:
		s.auth.Confirm(ctx, sess.Identity)
		return nil
	case errors.Is(err, client.ErrUnauthorized):
		s.auth.Expire(ctx)
		return ErrSessionExpired
	default:
		return err
	}
}
