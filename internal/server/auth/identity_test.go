package auth

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityContext_RoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: "u1", Email: "a@x.com"})

	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "a@x.com", id.Email)
}

func TestIdentityContext_Missing(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestIdentityContext_EmptyUserIDIsNotBound(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{Email: "a@x.com"})
	_, ok := IdentityFromContext(ctx)
	assert.False(t, ok)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "scheme is case-insensitive", header: "bearer abc", want: "abc"},
		{name: "missing", header: "", wantErr: common.ErrMissingToken},
		{name: "blank", header: "   ", wantErr: common.ErrMissingToken},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: common.ErrMalformedToken},
		{name: "no token", header: "Bearer", wantErr: common.ErrMalformedToken},
		{name: "empty token", header: "Bearer   ", wantErr: common.ErrMalformedToken},
		{name: "extra parts", header: "Bearer a b", wantErr: common.ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
