// Package services contains application services for the TaskKeeper client:
// session lifecycle (AuthService) and owner-scoped task calls (TaskService).
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/session"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// SessionCache persists the session between CLI runs.
// metadata.SessionStore satisfies it.
type SessionCache interface {
	Save(ctx context.Context, s models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

// AuthService drives the session state machine for the CLI.
//
// Contract:
//   - Register: create an account on the server. The session is untouched.
//   - Login: exchange credentials for a token and cache it.
//   - Logout: tell the server, then drop the session and its cache.
//   - Restore: re-verify a cached token with the server before trusting it.
//   - Current: the usable session, if any.
//   - Confirm: record a request the server accepted with the token.
//   - Expire: called when the server rejects the token.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (models.Identity, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
	WhoAmI() (models.Identity, session.State)
	Current() (models.Session, bool)
	Confirm(ctx context.Context, id models.Identity)
	Expire(ctx context.Context)
	Ping(ctx context.Context) error
}

type authService struct {
	api     client.API
	cache   SessionCache
	machine *session.Machine
	logger  logging.Logger
}

func NewAuthService(api client.API, cache SessionCache, m *session.Machine, l logging.Logger) AuthService {
	return &authService{api: api, cache: cache, machine: m, logger: l.With("module", "auth")}
}

func (a *authService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	u, err := a.api.Signup(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	a.logger.Info(ctx, "account created", "user_id", u.ID)
	return u, nil
}

// Login leaves the Expired state first so a fresh token can be accepted.
func (a *authService) Login(ctx context.Context, email, password string) (models.Identity, error) {
	if a.machine.State() == session.Expired {
		a.machine.Reset()
	}

	s, err := a.api.Login(ctx, email, password)
	if err != nil {
		return models.Identity{}, err
	}
	if err := a.machine.Authenticate(s.Token, s.Identity, s.ExpiresAt); err != nil {
		return models.Identity{}, err
	}
	if err := a.cache.Save(ctx, *s); err != nil {
		// the session still works for this run
		a.logger.Warn(ctx, "failed to cache session", "error", err)
	}
	a.logger.Info(ctx, "logged in", "user_id", s.Identity.UserID)
	return s.Identity, nil
}

// Logout always ends the local session, even when the server call fails.
func (a *authService) Logout(ctx context.Context) error {
	if token, ok := a.machine.Token(); ok {
		if err := a.api.Logout(ctx, token); err != nil {
			a.logger.Warn(ctx, "server logout failed", "error", err)
		}
	}
	a.machine.Reset()
	if err := a.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clear session cache: %w", err)
	}
	return nil
}

// Restore loads the cached token and asks the server to verify it. It
// reports whether the session is now Authenticated. A rejected token clears
// the cache. An unreachable server leaves the session Unauthenticated and
// keeps the cache for the next attempt.
func (a *authService) Restore(ctx context.Context) (bool, error) {
	cached, err := a.cache.Load(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load session cache: %w", err)
	}

	verified, err := a.api.Verify(ctx, cached.Token)
	if errors.Is(err, client.ErrUnauthorized) {
		a.logger.Info(ctx, "cached session rejected", "user_id", cached.Identity.UserID)
		a.machine.Reset()
		if err := a.cache.Clear(ctx); err != nil {
			return false, fmt.Errorf("clear session cache: %w", err)
		}
		return false, nil
	}
	if err != nil {
		a.machine.Reset()
		return false, err
	}

	if err := a.machine.Authenticate(verified.Token, verified.Identity, verified.ExpiresAt); err != nil {
		return false, err
	}
	if err := a.cache.Save(ctx, *verified); err != nil {
		a.logger.Warn(ctx, "failed to refresh session cache", "error", err)
	}
	a.logger.Debug(ctx, "session restored", "user_id", verified.Identity.UserID)
	return true, nil
}

func (a *authService) WhoAmI() (models.Identity, session.State) {
	id, _ := a.machine.Identity()
	return id, a.machine.State()
}

func (a *authService) Current() (models.Session, bool) {
	return a.machine.Snapshot()
}

func (a *authService) Confirm(ctx context.Context, id models.Identity) {
	if err := a.machine.Confirm(id); err != nil {
		a.logger.Debug(ctx, "confirm ignored", "error", err)
	}
}

// Expire moves the machine to Expired and wipes the cache. Calling it
// outside Authenticated only clears the cache.
func (a *authService) Expire(ctx context.Context) {
	if err := a.machine.Expire(); err != nil {
		a.logger.Debug(ctx, "expire ignored", "state", a.machine.State().String())
	}
	if err := a.cache.Clear(ctx); err != nil {
		a.logger.Warn(ctx, "failed to clear session cache", "error", err)
	}
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Health(ctx)
}
