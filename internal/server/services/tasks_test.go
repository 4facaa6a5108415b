package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTaskService_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTaskService(t, repomanager.NewMemoryRepositoryManager())

	created, err := s.Create(ctx, alice, "  Buy milk  ", "2 litres")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, alice.UserID, created.OwnerID)
	assert.False(t, created.Completed)
	assert.Equal(t, s.now().UTC(), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestTaskService_ListIsScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	s := newTaskService(t, repomanager.NewMemoryRepositoryManager())

	_, err := s.Create(ctx, alice, "a1", "")
	require.NoError(t, err)
	_, err = s.Create(ctx, bob, "b1", "")
	require.NoError(t, err)
	_, err = s.Create(ctx, alice, "a2", "")
	require.NoError(t, err)

	list, err := s.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a1", list[0].Title)
	assert.Equal(t, "a2", list[1].Title)

	empty, err := s.List(ctx, auth.Identity{UserID: "carol"})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTaskService_CrossUserAccessIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTaskService(t, repomanager.NewMemoryRepositoryManager())

	task, err := s.Create(ctx, alice, "secret plan", "do not share")
	require.NoError(t, err)

	got, err := s.Get(ctx, bob, task.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Nil(t, got)

	_, err = s.Update(ctx, bob, task.ID, models.TaskPatch{Title: strPtr("mine now")})
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.ToggleComplete(ctx, bob, task.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.ErrorIs(t, s.Delete(ctx, bob, task.ID), common.ErrorNotFound)

	// Alice's task is untouched.
	got, err = s.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret plan", got.Title)
	assert.False(t, got.Completed)
}

func TestTaskService_NotOwnedWinsOverValidation(t *testing.T) {
	ctx := context.Background()
	s := newTaskService(t, repomanager.NewMemoryRepositoryManager())

	task, err := s.Create(ctx, alice, "t", "")
	require.NoError(t, err)

	_, err = s.Update(ctx, bob, task.ID, models.TaskPatch{Title: strPtr("")})
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Update(ctx, alice, 9999, models.TaskPatch{Title: strPtr("")})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTaskService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTaskService(t, repomanager.NewMemoryRepositoryManager())

	task, err := s.Create(ctx, alice, "title", "keep me")
	require.NoError(t, err)
	_, err = s.ToggleComplete(ctx, alice, task.ID)
	require.NoError(t, err)

	updated, err := s.Update(ctx, alice, task.ID, models.TaskPatch{Title: strPtr(" renamed ")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.True(t, updated.Completed)

	updated, err = s.Update(ctx, alice, task.ID, models.TaskPatch{Description: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "", updated.Description)
}

func TestTaskService_ToggleTwice(t *testing.T) {
	ctx := context.Background()
	s := newTaskService(t, repomanager.NewMemoryRepositoryManager())

	task, err := s.Create(ctx, alice, "t", "")
	require.NoError(t, err)

	got, err := s.ToggleComplete(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = s.ToggleComplete(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestTaskService_RepeatedDeleteIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTaskService(t, repomanager.NewMemoryRepositoryManager())

	task, err := s.Create(ctx, alice, "t", "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, alice, task.ID))
	require.ErrorIs(t, s.Delete(ctx, alice, task.ID), common.ErrorNotFound)
	require.ErrorIs(t, s.Delete(ctx, alice, task.ID), common.ErrorNotFound)
}

func TestTaskService_Validation(t *testing.T) {
	ctx := context.Background()
	s := newTaskService(t, repomanager.NewMemoryRepositoryManager())

	tests := []struct {
		name        string
		title       string
		description string
		field       string
	}{
		{name: "empty title", title: "", field: "title"},
		{name: "blank title", title: "   ", field: "title"},
		{name: "title too long", title: strings.Repeat("a", 201), field: "title"},
		{name: "description too long", title: "ok", description: strings.Repeat("d", 1001), field: "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, alice, tt.title, tt.description)
			require.ErrorIs(t, err, common.ErrorValidation)

			var ve *common.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, ve.Fields, tt.field)
		})
	}

	// Limits count code points, not bytes.
	_, err := s.Create(ctx, alice, strings.Repeat("é", 200), strings.Repeat("ж", 1000))
	require.NoError(t, err)
}

func TestTaskService_UpdateValidationLeavesTaskUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newTaskService(t, repomanager.NewMemoryRepositoryManager())

	task, err := s.Create(ctx, alice, "t", "d")
	require.NoError(t, err)

	_, err = s.Update(ctx, alice, task.ID, models.TaskPatch{Title: strPtr("ok"), Description: strPtr(strings.Repeat("x", 1001))})
	require.ErrorIs(t, err, common.ErrorValidation)

	got, err := s.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.Equal(t, "d", got.Description)
}

func TestTaskService_InvalidIdentityNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	rm := &countingManager{RepositoryManager: repomanager.NewMemoryRepositoryManager()}
	s := newTaskService(t, rm)
	nobody := auth.Identity{}

	_, err := s.List(ctx, nobody)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.Get(ctx, nobody, 1)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.Create(ctx, nobody, "t", "")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.Update(ctx, nobody, 1, models.TaskPatch{Title: strPtr("t")})
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.ToggleComplete(ctx, nobody, 1)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.ErrorIs(t, s.Delete(ctx, nobody, 1), common.ErrorUnauthorized)

	assert.Zero(t, rm.calls)
}
