package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/web/webtest"
)

func TestCheckAlive(t *testing.T) {
	env := webtest.New(t)
	svc := New(env.Cfg, env.DB, env.Deps)

	resp, err := svc.App.Test(httptest.NewRequest(http.MethodGet, CheckAlivePath, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "not alive before Start")

	svc.alive.Store(true)

	resp, err = svc.App.Test(httptest.NewRequest(http.MethodGet, CheckAlivePath, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPublicRoutes(t *testing.T) {
	env := webtest.New(t)
	svc := New(env.Cfg, env.DB, env.Deps)

	for _, target := range []string{"/metrics", "/static/css/app.css", "/static/js/char-count.js"} {
		resp, err := svc.App.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
	}

	resp, err := svc.App.Test(httptest.NewRequest(http.MethodGet, "/recipients", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{Views: webtest.Views{}, ErrorHandler: ErrorHandler})

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load: %w", dberr.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: nope", gate.ErrForbidden), http.StatusForbidden},
		{fiber.ErrBadRequest, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for i, tt := range tests {
		path := fmt.Sprintf("/err/%d", i)
		err := tt.err

		app.Get(path, func(*fiber.Ctx) error { return err })

		resp, errTest := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, errTest)
		assert.Equal(t, tt.want, resp.StatusCode, tt.err.Error())
	}
}
