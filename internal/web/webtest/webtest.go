// Package webtest wires handlers to an in-memory store and gateway for tests.
package webtest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/config"
	"github.com/satext/satext/internal/db/dbtest"
	"github.com/satext/satext/internal/dispatch"
	"github.com/satext/satext/internal/gateway/gatewaytest"
	"github.com/satext/satext/internal/membership"
	"github.com/satext/satext/internal/web/handler"
	mwauth "github.com/satext/satext/internal/web/middleware/auth"
	"github.com/satext/satext/internal/web/session"
)

// Public URL used in outgoing texts.
const URL = "https://text.example.org"

// Views is a minimal Fiber Views engine. It writes the "error" field when
// present, else the template name, followed by the queued flashes and the
// "Body" field so tests can assert what a page would show.
type Views struct{}

// Load implements fiber.Views.
func (Views) Load() error { return nil }

// Render implements fiber.Views.
func (Views) Render(w io.Writer, name string, data any, _ ...string) error {
	m, _ := data.(fiber.Map)

	if v, ok := m["error"].(string); ok && v != "" {
		_, _ = io.WriteString(w, v)
	} else {
		_, _ = io.WriteString(w, name)
	}

	if flashes, ok := m["Flashes"].([]session.Flash); ok {
		for _, f := range flashes {
			_, _ = fmt.Fprintf(w, "\n[%s] %s", f.Kind, f.Text)
		}
	}

	if v, ok := m["Body"].(string); ok {
		_, _ = io.WriteString(w, "\n"+v)
	}

	return nil
}

// Storage is a minimal in-memory implementation of fiber.Storage.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*Storage)(nil)

// Get implements fiber.Storage.
func (s *Storage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

// Set implements fiber.Storage.
func (s *Storage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

// Delete implements fiber.Storage.
func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

// Reset implements fiber.Storage.
func (s *Storage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

// Close implements fiber.Storage.
func (s *Storage) Close() error { return nil }

// Config returns a configuration suitable for handler tests.
func Config() *config.Config {
	return &config.Config{
		Title: "Test Corps Text",
		Webserver: config.Webserver{
			URL:     URL,
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

// Env is a seeded store, a fake gateway and an app behind the session middleware.
type Env struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Gateway *gatewaytest.Fake
	Deps    *handler.Deps
	App     *fiber.App
}

// New builds an Env and registers the handlers.
func New(t *testing.T, handlers ...handler.Service) *Env {
	t.Helper()

	db := dbtest.New(t)
	dbtest.Seed(t, db)

	cfg := Config()
	fake := gatewaytest.New()
	engine := dispatch.New(db, fake, time.Second, "")

	deps := &handler.Deps{
		Auth:   auth.NewService(db, engine, auth.Config{Title: cfg.Title, URL: URL}),
		Editor: membership.NewEditor(db, engine, membership.Config{Title: cfg.Title, Region: cfg.Gateway.Region}),
		Engine: engine,
	}

	session.Init(&Storage{}, time.Minute)

	app := fiber.New(fiber.Config{Views: Views{}})
	app.Use(mwauth.New(mwauth.Config{Source: deps.Auth}))

	for _, h := range handlers {
		require.NoError(t, h.Init(app, cfg, db, deps))
	}

	return &Env{DB: db, Cfg: cfg, Gateway: fake, Deps: deps, App: app}
}

// Login creates a session for userID and returns its cookie header value.
func (e *Env) Login(t *testing.T, userID string) string {
	t.Helper()

	id, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{UserID: userID}).Write(id))

	return session.CookieName + "=" + id
}

// Get performs a GET request.
func (e *Env) Get(t *testing.T, target, cookie string) *http.Response {
	t.Helper()

	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil), cookie)
}

// Post performs a form-urlencoded POST request.
func (e *Env) Post(t *testing.T, target, cookie string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return e.do(t, req, cookie)
}

func (e *Env) do(t *testing.T, req *http.Request, cookie string) *http.Response {
	t.Helper()

	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = resp.Body.Close()
	})

	return resp
}

// Body reads the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

// RequireRedirect asserts a 302 to location.
func RequireRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}
