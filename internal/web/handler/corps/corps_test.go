package corps_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satext/satext/internal/db/controller/user"
	"github.com/satext/satext/internal/db/dbtest"
	"github.com/satext/satext/internal/web/handler/corps"
	"github.com/satext/satext/internal/web/webtest"
)

func TestSelectCorps(t *testing.T) {
	env := webtest.New(t, &corps.Service{})
	dbtest.User(t, env.DB, "sub-1", 0, false, false)
	cookie := env.Login(t, "sub-1")

	resp := env.Get(t, corps.Path+"?division=1", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, corps.Template, webtest.Body(t, resp))

	resp = env.Post(t, corps.Path, cookie, url.Values{"corps_id": {"2"}})
	webtest.RequireRedirect(t, resp, "/")

	u, err := user.Get(env.DB, "sub-1")
	require.NoError(t, err)
	require.True(t, u.Linked())
	assert.Equal(t, uint(dbtest.CorpsY), *u.CorpsID)
	assert.False(t, u.IsApproved)

	// linked users no longer pick a corps
	resp = env.Get(t, corps.Path, cookie)
	webtest.RequireRedirect(t, resp, "/pending")
}

func TestSelectUnknownCorps(t *testing.T) {
	env := webtest.New(t, &corps.Service{})
	dbtest.User(t, env.DB, "sub-1", 0, false, false)
	cookie := env.Login(t, "sub-1")

	resp := env.Post(t, corps.Path, cookie, url.Values{"corps_id": {"99"}})
	webtest.RequireRedirect(t, resp, corps.Path)

	resp = env.Get(t, corps.Path, cookie)
	assert.Contains(t, webtest.Body(t, resp), "[danger] That corps does not exist.")

	resp = env.Post(t, corps.Path, cookie, url.Values{})
	webtest.RequireRedirect(t, resp, corps.Path)
}

func TestSelectCorpsRequiresSession(t *testing.T) {
	env := webtest.New(t, &corps.Service{})

	resp := env.Get(t, corps.Path, "")
	webtest.RequireRedirect(t, resp, "/login")
}
