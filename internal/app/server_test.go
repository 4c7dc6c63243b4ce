package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cms-admin/internal/config"
	"cms-admin/internal/identity"
	"cms-admin/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func testConfig(backend string) config.AppConfig {
	cfg := config.Load()
	cfg.IdentityBackend = backend
	cfg.MockDelay = 0
	cfg.AuthTimeout = 0
	cfg.SessionStore = "memory"
	cfg.ContentStore = "memory"
	cfg.SessionRevalidate = false
	cfg.OTelEnabled = false
	cfg.CORSOrigins = nil
	cfg.JWT.PrivPath = ""
	cfg.JWT.PubPath = ""
	cfg.AdminUsername = "admin"
	cfg.AdminEmail = "admin@example.com"
	cfg.AdminPassword = "admin123"
	return cfg
}

func newTestServer(t *testing.T, backend string) *Server {
	t.Helper()
	srv := NewServer(testConfig(backend), zap.NewNop())
	require.NoError(t, srv.Build(context.Background()))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func call(t *testing.T, srv *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func login(t *testing.T, srv *Server, email, password string) (*httptest.ResponseRecorder, envelope) {
	return call(t, srv, http.MethodPost, "/login", map[string]string{"email": email, "password": password})
}

func TestRouter_AnonymousIsSentToLogin(t *testing.T) {
	srv := newTestServer(t, "mock")

	for _, path := range []string{"/dashboard", "/contents", "/contents/new", "/contents/edit/1", "/categories"} {
		w, _ := call(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
}

func TestRouter_FallbacksGoHome(t *testing.T) {
	srv := newTestServer(t, "mock")

	for _, path := range []string{"/", "/nope", "/settings/profile"} {
		w, _ := call(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"), path)
	}
}

func TestRouter_PublicEndpoints(t *testing.T) {
	srv := newTestServer(t, "mock")

	w, _ := call(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := call(t, srv, http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = call(t, srv, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code, "logout while anonymous is harmless")
}

func TestRouter_MockLoginFlow(t *testing.T) {
	srv := newTestServer(t, "mock")

	w, env := login(t, srv, "editor@example.com", "anything")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"redirect":"/dashboard"`)
	assert.Contains(t, string(env.Data), `"email":"editor@example.com"`)
	assert.Contains(t, string(env.Data), `"role":"admin"`)
	assert.NotContains(t, w.Body.String(), identity.MockToken)
	assert.Equal(t, identity.MockToken, srv.Session().Snapshot().Token)

	w, env = call(t, srv, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"welcome_name":"admin"`)
	assert.Contains(t, string(env.Data), `"total_contents":1`)
	assert.Contains(t, string(env.Data), `"total_categories":2`)

	w, _ = call(t, srv, http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w, env = call(t, srv, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"state":"authenticated"`)
	assert.NotContains(t, w.Body.String(), identity.MockToken)

	w, _ = call(t, srv, http.MethodPost, "/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = call(t, srv, http.MethodGet, "/contents", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRouter_MockRegister(t *testing.T) {
	srv := newTestServer(t, "mock")

	w, env := call(t, srv, http.MethodPost, "/register", map[string]string{
		"username": "writer",
		"email":    "w@example.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"username":"writer"`)
	assert.Contains(t, string(env.Data), `"role":"editor"`)
}

func TestRouter_InvalidForm(t *testing.T) {
	srv := newTestServer(t, "mock")

	w, env := call(t, srv, http.MethodPost, "/login", map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.False(t, srv.Session().Authenticated())
}

func TestRouter_ContentLifecycle(t *testing.T) {
	srv := newTestServer(t, "mock")
	w, _ := login(t, srv, "a@b.com", "x")
	require.Equal(t, http.StatusOK, w.Code)

	w, env := call(t, srv, http.MethodGet, "/contents?search=FIRST", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"total":1`)
	assert.Contains(t, string(env.Data), `"name":"Technology"`)

	w, env = call(t, srv, http.MethodGet, "/contents?status=draft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"total":0`)

	w, _ = call(t, srv, http.MethodGet, "/contents?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = call(t, srv, http.MethodGet, "/contents/new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"statuses":["draft","published","archived"]`)

	w, env = call(t, srv, http.MethodPost, "/contents/new", map[string]interface{}{
		"title":        "Hello, World!  Again",
		"body":         "text",
		"category_ids": []string{"2"},
		"tags":         []string{" go ", "go", "web"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID          string   `json:"id"`
		Slug        string   `json:"slug"`
		Status      string   `json:"status"`
		Tags        []string `json:"tags"`
		PublishedAt *string  `json:"published_at"`
		Author      struct {
			Username string `json:"username"`
		} `json:"author"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "hello-world-again", created.Slug)
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, []string{"go", "web"}, created.Tags)
	assert.Equal(t, "admin", created.Author.Username)
	assert.Nil(t, created.PublishedAt)

	w, env = call(t, srv, http.MethodGet, "/contents/edit/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"name":"Design"`)

	w, env = call(t, srv, http.MethodPut, "/contents/edit/"+created.ID, map[string]interface{}{"status": "published"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"published_at"`)

	w, _ = call(t, srv, http.MethodPost, "/contents/new", map[string]interface{}{
		"title":        "Orphan",
		"body":         "text",
		"category_ids": []string{"missing"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, srv, http.MethodDelete, "/contents/edit/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = call(t, srv, http.MethodGet, "/contents/edit/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_BindingErrorsAreValidationErrors(t *testing.T) {
	srv := newTestServer(t, "mock")
	login(t, srv, "a@b.com", "x")

	w, env := call(t, srv, http.MethodPost, "/contents/new", map[string]string{"body": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request", env.Message)
	assert.NotEmpty(t, env.Error)

	w, env = call(t, srv, http.MethodPost, "/categories", map[string]string{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request", env.Message)

	w, env = call(t, srv, http.MethodPut, "/contents/edit/1", map[string]string{"status": "deleted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request", env.Message)
}

func TestRouter_Categories(t *testing.T) {
	srv := newTestServer(t, "mock")
	login(t, srv, "a@b.com", "x")

	w, env := call(t, srv, http.MethodPost, "/categories", map[string]string{"name": "Dev Ops"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "dev-ops", created.Slug)

	w, _ = call(t, srv, http.MethodPost, "/categories", map[string]string{"name": "Dev Ops"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = call(t, srv, http.MethodPut, "/categories/"+created.ID, map[string]string{"description": "infra"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = call(t, srv, http.MethodGet, "/categories/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"description":"infra"`)

	w, _ = call(t, srv, http.MethodDelete, "/categories/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = call(t, srv, http.MethodGet, "/categories/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_LocalBackend(t *testing.T) {
	srv := newTestServer(t, "local")

	w, env := login(t, srv, "admin@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, session.ErrCredentialFailure.Error(), env.Message)

	w, env = login(t, srv, "admin@example.com", "admin123")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"role":"admin"`)

	w, env = call(t, srv, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"total_users":1`)

	w, env = call(t, srv, http.MethodPost, "/register", map[string]string{
		"username": "dup",
		"email":    "admin@example.com",
		"password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, session.ErrRegistrationFailure.Error(), env.Message)
	assert.False(t, srv.Session().Authenticated(), "a failed attempt drops the previous session")
}

func TestServer_StartRequiresBuild(t *testing.T) {
	assert.Error(t, NewServer(testConfig("mock"), zap.NewNop()).Start())
}

func TestServer_ShutdownBeforeServeReturnsCleanly(t *testing.T) {
	cfg := testConfig("mock")
	cfg.HTTPAddr = "127.0.0.1:0"
	srv := NewServer(cfg, zap.NewNop())
	require.NoError(t, srv.Build(context.Background()))

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, srv.Start(), "a server shut down before serving never starts listening")
}

func TestServer_RejectsUnknownStores(t *testing.T) {
	cfg := testConfig("mock")
	cfg.SessionStore = "floppy"
	assert.Error(t, NewServer(cfg, zap.NewNop()).Build(context.Background()))

	cfg = testConfig("nope")
	assert.Error(t, NewServer(cfg, zap.NewNop()).Build(context.Background()))
}
