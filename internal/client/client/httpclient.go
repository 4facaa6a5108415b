package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

const defaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of an error response is decoded.
const maxErrorBody = 64 << 10

// HTTPClient talks to the TaskKeeper REST API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
}

var _ API = (*HTTPClient)(nil)

// NewHTTPClient parses baseURL and returns a client. A nil httpClient gets a
// default one with timeout (or defaultTimeout when timeout is zero).
func NewHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("base url is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
	if httpClient == nil {
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{baseURL: parsed, httpClient: httpClient}, nil
}

func (c *HTTPClient) Health(ctx context.Context) error {
	return c.call(ctx, "health", http.MethodGet, "/health", "", nil, nil, http.StatusOK)
}

func (c *HTTPClient) Signup(ctx context.Context, email, password, name string) (*models.User, error) {
	var resp signupResponse
	req := credentialsRequest{Email: email, Password: password, Name: name}
	if err := c.call(ctx, "signup", http.MethodPost, "/auth/signup", "", req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &models.User{
		ID:        resp.User.ID,
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		CreatedAt: resp.User.CreatedAt,
	}, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var resp loginResponse
	req := credentialsRequest{Email: email, Password: password}
	if err := c.call(ctx, "login", http.MethodPost, "/auth/login", "", req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.Identity.UserID == "" {
		return nil, &APIError{Op: "login", Status: http.StatusOK, Err: ErrUnexpectedStatus, Message: "empty token in response"}
	}
	return &models.Session{Token: resp.Token, Identity: resp.Identity.model(), ExpiresAt: resp.ExpiresAt}, nil
}

// Verify asks the server whether token is still valid. The returned session
// carries the same token with the server's view of the identity.
func (c *HTTPClient) Verify(ctx context.Context, token string) (*models.Session, error) {
	var resp verifyResponse
	if err := c.call(ctx, "verify", http.MethodGet, "/auth/verify", token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &models.Session{Token: token, Identity: resp.Identity.model(), ExpiresAt: resp.ExpiresAt}, nil
}

func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	return c.call(ctx, "logout", http.MethodPost, "/auth/logout", token, nil, nil, http.StatusOK)
}

func (c *HTTPClient) ListTasks(ctx context.Context, s models.Session) ([]models.Task, error) {
	var resp taskListResponse
	if err := c.call(ctx, "list tasks", http.MethodGet, tasksPath(s), s.Token, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		tasks = append(tasks, *t.model())
	}
	return tasks, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, s models.Session, title, description string) (*models.Task, error) {
	req := taskRequest{Title: &title}
	if description != "" {
		req.Description = &description
	}
	return c.taskCall(ctx, "create task", http.MethodPost, tasksPath(s), s.Token, req, http.StatusCreated)
}

func (c *HTTPClient) GetTask(ctx context.Context, s models.Session, id int64) (*models.Task, error) {
	return c.taskCall(ctx, "get task", http.MethodGet, taskPath(s, id), s.Token, nil, http.StatusOK)
}

func (c *HTTPClient) UpdateTask(ctx context.Context, s models.Session, id int64, patch models.TaskPatch) (*models.Task, error) {
	req := taskRequest{Title: patch.Title, Description: patch.Description}
	return c.taskCall(ctx, "update task", http.MethodPut, taskPath(s, id), s.Token, req, http.StatusOK)
}

func (c *HTTPClient) DeleteTask(ctx context.Context, s models.Session, id int64) error {
	return c.call(ctx, "delete task", http.MethodDelete, taskPath(s, id), s.Token, nil, nil, http.StatusNoContent)
}

func (c *HTTPClient) ToggleTask(ctx context.Context, s models.Session, id int64) (*models.Task, error) {
	return c.taskCall(ctx, "toggle task", http.MethodPatch, taskPath(s, id)+"/complete", s.Token, nil, http.StatusOK)
}

func (c *HTTPClient) taskCall(ctx context.Context, op, method, path, token string, payload any, want int) (*models.Task, error) {
	var resp taskDTO
	if err := c.call(ctx, op, method, path, token, payload, &resp, want); err != nil {
		return nil, err
	}
	return resp.model(), nil
}

func tasksPath(s models.Session) string {
	return "/" + url.PathEscape(s.Identity.UserID) + "/tasks"
}

func taskPath(s models.Session, id int64) string {
	return tasksPath(s) + "/" + strconv.FormatInt(id, 10)
}

// call performs one request, checks the status against want and decodes
// the body into out when out is not nil.
func (c *HTTPClient) call(ctx context.Context, op, method, path, token string, payload, out any, want int) error {
	resp, err := c.do(ctx, method, path, token, payload)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &APIError{Op: op, Err: ErrUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return readError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Err: ErrUnexpectedStatus, Message: "decode response: " + err.Error()}
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, payload any) (*http.Response, error) {
	rel, err := url.Parse("./" + strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, err
	}
	base := *c.baseURL
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	full := base.ResolveReference(rel)

	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return nil, err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, full.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}
	return c.httpClient.Do(req)
}

func readError(op string, resp *http.Response) error {
	apiErr := &APIError{Op: op, Status: resp.StatusCode, Err: statusError(resp.StatusCode)}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil {
		apiErr.Message = body.Error
		apiErr.Fields = body.Fields
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
