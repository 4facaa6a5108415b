// Package session tracks whether the CLI holds a usable token.
//
// States and transitions:
//
//	Unauthenticated --Authenticate--> Authenticated
//	Authenticated   --Authenticate--> Authenticated (re-login)
//	Authenticated   --Confirm-------> Authenticated
//	Authenticated   --Expire--------> Expired
//	any             --Reset---------> Unauthenticated
//
// Leaving Authenticated always discards the token and identity, so a failed
// request can never be replayed with the same token.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// ErrInvalidTransition is returned when an event is not allowed in the
// current state.
var ErrInvalidTransition = errors.New("invalid session transition")

type State int

const (
	Unauthenticated State = iota
	Authenticated
	Expired
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Machine is safe for concurrent use.
type Machine struct {
	mu        sync.RWMutex
	state     State
	token     string
	identity  models.Identity
	expiresAt time.Time
}

// New returns a machine in the Unauthenticated state.
func New() *Machine {
	return &Machine{state: Unauthenticated}
}

// Authenticate stores a freshly issued or re-verified token.
func (m *Machine) Authenticate(token string, id models.Identity, expiresAt time.Time) error {
	if token == "" || !id.Valid() {
		return fmt.Errorf("%w: empty token or identity", ErrInvalidTransition)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Expired {
		return fmt.Errorf("%w: authenticate from %s", ErrInvalidTransition, m.state)
	}
	m.state = Authenticated
	m.token = token
	m.identity = id
	m.expiresAt = expiresAt
	return nil
}

// Confirm records a successful verified request and may refresh the cached
// identity fields. The token is kept as is.
func (m *Machine) Confirm(id models.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Authenticated {
		return fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, m.state)
	}
	if id.Valid() {
		if id.UserID != m.identity.UserID {
			return fmt.Errorf("%w: identity changed", ErrInvalidTransition)
		}
		m.identity = id
	}
	return nil
}

// Expire is called when the server rejects the held token.
func (m *Machine) Expire() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Authenticated {
		return fmt.Errorf("%w: expire from %s", ErrInvalidTransition, m.state)
	}
	m.state = Expired
	m.clear()
	return nil
}

// Reset returns to Unauthenticated from any state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = Unauthenticated
	m.clear()
}

func (m *Machine) clear() {
	m.token = ""
	m.identity = models.Identity{}
	m.expiresAt = time.Time{}
}

func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Token returns the held token. ok is false outside Authenticated.
func (m *Machine) Token() (token string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.state == Authenticated
}

// Identity returns the cached identity. ok is false outside Authenticated.
func (m *Machine) Identity() (models.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity, m.state == Authenticated
}

// Snapshot returns everything needed to persist the session.
func (m *Machine) Snapshot() (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != Authenticated {
		return models.Session{}, false
	}
	return models.Session{Token: m.token, Identity: m.identity, ExpiresAt: m.expiresAt}, true
}
