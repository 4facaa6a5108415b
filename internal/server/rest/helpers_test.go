package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

func newTestServer(t *testing.T, logger logging.Logger) *Server {
	t.Helper()
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	rm := repomanager.NewMemoryRepositoryManager()
	issuer := auth.NewIssuer([]byte(testSecret), time.Hour, nil)
	verifier := auth.NewVerifier([]byte(testSecret), nil)
	as := services.NewAuthService(rm, issuer, verifier, logger, bcrypt.MinCost)
	ts := services.NewTaskService(rm, logger)

	_, err := as.SeedUsers(context.Background(), []config.SeedUser{
		{Email: "a@x.com", Password: "pw123456", Name: "Alice"},
		{Email: "b@x.com", Password: "pw123456", Name: "Bob"},
	})
	require.NoError(t, err)

	return NewServer(Options{AllowedOrigins: []string{"http://localhost:3000"}}, as, ts, logger)
}

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	hs := httptest.NewServer(newTestServer(t, nil).Router())
	t.Cleanup(hs.Close)
	return hs
}

// doJSON sends body (if any) as JSON and decodes a JSON response into a map.
func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	if s, ok := body.(string); ok {
		rd = bytes.NewBufferString(s)
	} else if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

func login(t *testing.T, baseURL, email string) (token, userID string) {
	t.Helper()
	status, body := doJSON(t, http.MethodPost, baseURL+"/auth/login", "", map[string]string{
		"email": email, "password": "pw123456",
	})
	require.Equal(t, http.StatusOK, status, "login %s: %v", email, body)

	identity := body["identity"].(map[string]any)
	return body["token"].(string), identity["user_id"].(string)
}
