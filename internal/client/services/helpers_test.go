package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

var (
	alice     = models.Identity{UserID: "u-alice", Email: "alice@example.com"}
	expiresAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	aliceSess = models.Session{Token: "tok-alice", Identity: alice, ExpiresAt: expiresAt}
)

// fakeAPI implements client.API. Unset funcs fail the call with
// ErrUnexpectedStatus so a test notices calls it did not plan for.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	login  func(email, password string) (*models.Session, error)
	verify func(token string) (*models.Session, error)
	logout func(token string) error
	signup func(email, password, name string) (*models.User, error)
	health func() error

	listTasks  func(s models.Session) ([]models.Task, error)
	createTask func(s models.Session, title, description string) (*models.Task, error)
	getTask    func(s models.Session, id int64) (*models.Task, error)
	updateTask func(s models.Session, id int64, p models.TaskPatch) (*models.Task, error)
	deleteTask func(s models.Session, id int64) error
	toggleTask func(s models.Session, id int64) (*models.Task, error)
}

var _ client.API = (*fakeAPI)(nil)

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func unplanned(op string) error {
	return &client.APIError{Op: op, Err: client.ErrUnexpectedStatus}
}

func (f *fakeAPI) Health(ctx context.Context) error {
	f.record("health")
	if f.health == nil {
		return nil
	}
	return f.health()
}

func (f *fakeAPI) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	f.record("signup")
	if f.signup == nil {
		return nil, unplanned("signup")
	}
	return f.signup(email, password, name)
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.Session, error) {
	f.record("login")
	if f.login == nil {
		return nil, unplanned("login")
	}
	return f.login(email, password)
}

func (f *fakeAPI) Verify(ctx context.Context, token string) (*models.Session, error) {
	f.record("verify")
	if f.verify == nil {
		return nil, unplanned("verify")
	}
	return f.verify(token)
}

func (f *fakeAPI) Logout(ctx context.Context, token string) error {
	f.record("logout")
	if f.logout == nil {
		return nil
	}
	return f.logout(token)
}

func (f *fakeAPI) ListTasks(ctx context.Context, s models.Session) ([]models.Task, error) {
	f.record("list")
	if f.listTasks == nil {
		return nil, unplanned("list")
	}
	return f.listTasks(s)
}

func (f *fakeAPI) CreateTask(ctx context.Context, s models.Session, title, description string) (*models.Task, error) {
	f.record("create")
	if f.createTask == nil {
		return nil, unplanned("create")
	}
	return f.createTask(s, title, description)
}

func (f *fakeAPI) GetTask(ctx context.Context, s models.Session, id int64) (*models.Task, error) {
	f.record("get")
	if f.getTask == nil {
		return nil, unplanned("get")
	}
	return f.getTask(s, id)
}

func (f *fakeAPI) UpdateTask(ctx context.Context, s models.Session, id int64, p models.TaskPatch) (*models.Task, error) {
	f.record("update")
	if f.updateTask == nil {
		return nil, unplanned("update")
	}
	return f.updateTask(s, id, p)
}

func (f *fakeAPI) DeleteTask(ctx context.Context, s models.Session, id int64) error {
	f.record("delete")
	if f.deleteTask == nil {
		return unplanned("delete")
	}
	return f.deleteTask(s, id)
}

func (f *fakeAPI) ToggleTask(ctx context.Context, s models.Session, id int64) (*models.Task, error) {
	f.record("toggle")
	if f.toggleTask == nil {
		return nil, unplanned("toggle")
	}
	return f.toggleTask(s, id)
}

// memCache is an in-memory SessionCache.
type memCache struct {
	sess     *models.Session
	clears   int
	saveErr  error
	clearErr error
}

func (c *memCache) Save(ctx context.Context, s models.Session) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	c.sess = &s
	return nil
}

func (c *memCache) Load(ctx context.Context) (*models.Session, error) {
	if c.sess == nil {
		return nil, common.ErrorNotFound
	}
	s := *c.sess
	return &s, nil
}

func (c *memCache) Clear(ctx context.Context) error {
	c.clears++
	if c.clearErr != nil {
		return c.clearErr
	}
	c.sess = nil
	return nil
}

func unauthorized(op string) error {
	return &client.APIError{Op: op, Status: 401, Err: client.ErrUnauthorized}
}

func newAuth(t *testing.T, api *fakeAPI, cache *memCache) (AuthService, *session.Machine) {
	t.Helper()
	m := session.New()
	return NewAuthService(api, cache, m, logging.NewNopLogger()), m
}

// loggedIn returns services with alice already authenticated.
func loggedIn(t *testing.T, api *fakeAPI) (AuthService, TaskService, *session.Machine, *memCache) {
	t.Helper()
	cache := &memCache{}
	as, m := newAuth(t, api, cache)
	if err := m.Authenticate(aliceSess.Token, aliceSess.Identity, aliceSess.ExpiresAt); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	s := aliceSess
	cache.sess = &s
	return as, NewTaskService(api, as), m, cache
}
