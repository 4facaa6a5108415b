package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

var (
	alice = models.Identity{UserID: "u-alice", Email: "alice@example.com"}
	exp   = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
)

func TestNew_StartsUnauthenticated(t *testing.T) {
	m := New()
	assert.Equal(t, Unauthenticated, m.State())

	_, ok := m.Token()
	assert.False(t, ok)
	_, ok = m.Identity()
	assert.False(t, ok)
	_, ok = m.Snapshot()
	assert.False(t, ok)
}

func TestAuthenticate_CachesTokenAndIdentity(t *testing.T) {
	m := New()
	require.NoError(t, m.Authenticate("tok", alice, exp))

	assert.Equal(t, Authenticated, m.State())
	tok, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, "tok", tok)

	id, ok := m.Identity()
	require.True(t, ok)
	assert.Equal(t, alice, id)

	s, ok := m.Snapshot()
	require.True(t, ok)
	assert.Equal(t, models.Session{Token: "tok", Identity: alice, ExpiresAt: exp}, s)
}

func TestAuthenticate_ReloginReplacesToken(t *testing.T) {
	m := New()
	require.NoError(t, m.Authenticate("tok1", alice, exp))
	require.NoError(t, m.Authenticate("tok2", alice, exp.Add(time.Hour)))

	tok, _ := m.Token()
	assert.Equal(t, "tok2", tok)
}

func TestAuthenticate_RejectsEmptyInput(t *testing.T) {
	m := New()
	assert.ErrorIs(t, m.Authenticate("", alice, exp), ErrInvalidTransition)
	assert.ErrorIs(t, m.Authenticate("tok", models.Identity{}, exp), ErrInvalidTransition)
	assert.Equal(t, Unauthenticated, m.State())
}

func TestExpire_DiscardsTokenAndIdentity(t *testing.T) {
	m := New()
	require.NoError(t, m.Authenticate("tok", alice, exp))
	require.NoError(t, m.Expire())

	assert.Equal(t, Expired, m.State())
	tok, ok := m.Token()
	assert.False(t, ok)
	assert.Empty(t, tok)
	id, ok := m.Identity()
	assert.False(t, ok)
	assert.Equal(t, models.Identity{}, id)
}

func TestExpired_RequiresReset(t *testing.T) {
	m := New()
	require.NoError(t, m.Authenticate("tok", alice, exp))
	require.NoError(t, m.Expire())

	assert.ErrorIs(t, m.Authenticate("tok2", alice, exp), ErrInvalidTransition)
	assert.ErrorIs(t, m.Confirm(alice), ErrInvalidTransition)
	assert.ErrorIs(t, m.Expire(), ErrInvalidTransition)

	m.Reset()
	assert.Equal(t, Unauthenticated, m.State())
	require.NoError(t, m.Authenticate("tok2", alice, exp))
}

func TestInvalidTransitionsFromUnauthenticated(t *testing.T) {
	m := New()
	assert.ErrorIs(t, m.Confirm(alice), ErrInvalidTransition)
	assert.ErrorIs(t, m.Expire(), ErrInvalidTransition)
	assert.Equal(t, Unauthenticated, m.State())
}

func TestConfirm(t *testing.T) {
	m := New()
	require.NoError(t, m.Authenticate("tok", alice, exp))

	renamed := models.Identity{UserID: alice.UserID, Email: "alice@new.example.com"}
	require.NoError(t, m.Confirm(renamed))
	id, _ := m.Identity()
	assert.Equal(t, renamed, id)

	// empty identity confirms without touching the cache
	require.NoError(t, m.Confirm(models.Identity{}))
	id, _ = m.Identity()
	assert.Equal(t, renamed, id)

	err := m.Confirm(models.Identity{UserID: "someone-else"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	id, _ = m.Identity()
	assert.Equal(t, renamed, id)
}

func TestReset_FromAnyState(t *testing.T) {
	m := New()
	m.Reset()
	assert.Equal(t, Unauthenticated, m.State())

	require.NoError(t, m.Authenticate("tok", alice, exp))
	m.Reset()
	assert.Equal(t, Unauthenticated, m.State())
	_, ok := m.Token()
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "expired", Expired.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestMachine_ConcurrentUse(t *testing.T) {
	m := New()
	require.NoError(t, m.Authenticate("tok", alice, exp))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Token()
			_ = m.Confirm(alice)
			_ = m.State()
		}()
	}
	wg.Wait()
	assert.Equal(t, Authenticated, m.State())
}
