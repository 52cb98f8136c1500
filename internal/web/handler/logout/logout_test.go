package logout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satext/satext/internal/db/dbtest"
	"github.com/satext/satext/internal/web/handler/logout"
	"github.com/satext/satext/internal/web/session"
	"github.com/satext/satext/internal/web/webtest"
)

func TestLogoutDeletesSession(t *testing.T) {
	env := webtest.New(t, &logout.Service{})
	dbtest.User(t, env.DB, "sub-1", 0, false, false)

	cookie := env.Login(t, "sub-1")

	resp := env.Get(t, logout.Path, cookie)
	webtest.RequireRedirect(t, resp, "/login")

	id := cookie[len(session.CookieName)+1:]
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "session=")
	assert.NotContains(t, resp.Header.Get("Set-Cookie"), id)

	require.ErrorIs(t, new(session.Data).Read(id), session.ErrNoSession)
}

func TestLogoutWithoutSession(t *testing.T) {
	env := webtest.New(t, &logout.Service{})

	resp := env.Post(t, logout.Path, "", nil)
	webtest.RequireRedirect(t, resp, "/login")
}
