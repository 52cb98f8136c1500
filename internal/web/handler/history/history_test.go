package history_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satext/satext/internal/db/dbtest"
	"github.com/satext/satext/internal/web/handler/history"
	"github.com/satext/satext/internal/web/webtest"
)

func TestHistory(t *testing.T) {
	env := webtest.New(t, &history.Service{})
	dbtest.User(t, env.DB, "sub-1", dbtest.CorpsX, true, false)
	dbtest.User(t, env.DB, "sub-2", dbtest.CorpsX, false, false)

	resp := env.Get(t, history.Path, env.Login(t, "sub-1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, history.Template, webtest.Body(t, resp))

	resp = env.Get(t, history.Path, env.Login(t, "sub-2"))
	webtest.RequireRedirect(t, resp, "/pending")
}
