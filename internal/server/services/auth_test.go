package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager(), func() time.Time { return now })

	user, err := s.Register(ctx, " A@X.com ", "pw123456", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEqual(t, "pw123456", user.PasswordHash)

	res, err := s.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.Identity.UserID)
	assert.Equal(t, "a@x.com", res.Identity.Email)
	assert.True(t, res.ExpiresAt.Equal(now.Add(time.Hour)))

	id, exp, err := s.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.True(t, exp.Equal(res.ExpiresAt))
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager(), nil)

	_, err := s.Register(ctx, "a@x.com", "pw123456", "")
	require.NoError(t, err)

	_, errWrongPassword := s.Login(ctx, "a@x.com", "wrong-password")
	_, errUnknownUser := s.Login(ctx, "ghost@x.com", "pw123456")

	require.ErrorIs(t, errWrongPassword, common.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknownUser, common.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	rm := failingUsersManager{RepositoryManager: repomanager.NewMemoryRepositoryManager(), err: errors.New("db down")}
	s := newAuthService(t, rm, nil)

	_, err := s.Login(context.Background(), "a@x.com", "pw123456")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager(), nil)

	_, err := s.Register(ctx, "a@x.com", "pw123456", "")
	require.NoError(t, err)

	_, err = s.Register(ctx, "A@x.com", "other-password", "")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager(), nil)

	tests := []struct {
		name     string
		email    string
		password string
		field    string
	}{
		{name: "missing email", email: "", password: "pw123456", field: "email"},
		{name: "bad email", email: "not-an-email", password: "pw123456", field: "email"},
		{name: "short password", email: "a@x.com", password: "short", field: "password"},
		{name: "password too long for bcrypt", email: "a@x.com", password: string(make([]byte, 73)), field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.email, tt.password, "")
			require.ErrorIs(t, err, common.ErrorValidation)

			var ve *common.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestAuthService_SeedUsers(t *testing.T) {
	ctx := context.Background()
	rm := repomanager.NewMemoryRepositoryManager()
	s := newAuthService(t, rm, nil)

	_, err := s.Register(ctx, "existing@x.com", "pw123456", "")
	require.NoError(t, err)

	created, err := s.SeedUsers(ctx, []config.SeedUser{
		{Email: "a@x.com", Password: "pw123456", Name: "Alice"},
		{Email: "existing@x.com", Password: "ignored-password"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	_, err = s.Login(ctx, "a@x.com", "pw123456")
	require.NoError(t, err)

	// The existing account keeps its password.
	_, err = s.Login(ctx, "existing@x.com", "ignored-password")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	again, err := s.SeedUsers(ctx, []config.SeedUser{{Email: "a@x.com", Password: "pw123456"}})
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestAuthService_SeedUsersInvalid(t *testing.T) {
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager(), nil)

	_, err := s.SeedUsers(context.Background(), []config.SeedUser{{Email: "a@x.com", Password: "short"}})
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestAuthService_VerifyRejectsForeignToken(t *testing.T) {
	s := newAuthService(t, repomanager.NewMemoryRepositoryManager(), nil)

	_, _, err := s.Verify("garbage")
	require.ErrorIs(t, err, common.ErrMalformedToken)
}
