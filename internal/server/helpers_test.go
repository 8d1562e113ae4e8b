package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"commune/internal/config"
	"commune/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a Server over an in-memory sqlite database with the
// full route table mounted.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: "test-secret",
		Port:      "0",
		Env:       "test",
	}
	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

// doJSON performs a request with an optional JSON body and bearer token and
// decodes the JSON response into out (when out is non-nil).
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	_ = resp.Body.Close()
	return resp
}

// signupAndSignin registers the user and returns a bearer token for them.
func signupAndSignin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "pw12345",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Token string `json:"token"`
	}
	resp = doJSON(t, app, http.MethodPost, "/api/auth/signin", "", map[string]any{
		"username": username,
		"password": "pw12345",
	}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, result.Token)
	return result.Token
}
