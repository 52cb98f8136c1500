package group_test

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	groupctl "github.com/satext/satext/internal/db/controller/group"
	"github.com/satext/satext/internal/db/dbtest"
	"github.com/satext/satext/internal/web/handler/group"
	"github.com/satext/satext/internal/web/webtest"
)

func TestAddAndRetireGroup(t *testing.T) {
	env := webtest.New(t, &group.Service{})
	dbtest.User(t, env.DB, "sub-1", dbtest.CorpsX, true, false)
	cookie := env.Login(t, "sub-1")

	resp := env.Post(t, group.Path, cookie, url.Values{"name": {"Songsters"}})
	webtest.RequireRedirect(t, resp, group.Path)

	groups, err := groupctl.ByCorps(env.DB, dbtest.CorpsX)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Songsters", groups[0].Name)

	resp = env.Get(t, group.Path, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, webtest.Body(t, resp), "[success] Added group Songsters.")

	resp = env.Post(t, group.Path+"/"+strconv.FormatUint(uint64(groups[0].ID), 10)+"/retire", cookie, nil)
	webtest.RequireRedirect(t, resp, group.Path)

	groups, err = groupctl.ByCorps(env.DB, dbtest.CorpsX)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestAddGroupInvalidName(t *testing.T) {
	env := webtest.New(t, &group.Service{})
	dbtest.User(t, env.DB, "sub-1", dbtest.CorpsX, true, false)
	cookie := env.Login(t, "sub-1")

	env.Post(t, group.Path, cookie, url.Values{"name": {"<i></i>"}})
	assert.Contains(t, webtest.Body(t, env.Get(t, group.Path, cookie)), "[danger] Please enter a group name.")

	groups, err := groupctl.ByCorps(env.DB, dbtest.CorpsX)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestRetireGroupOfOtherCorps(t *testing.T) {
	env := webtest.New(t, &group.Service{})
	dbtest.User(t, env.DB, "sub-1", dbtest.CorpsX, true, false)
	theirs := dbtest.Group(t, env.DB, dbtest.CorpsY, "Theirs")

	resp := env.Post(t, group.Path+"/"+strconv.FormatUint(uint64(theirs.ID), 10)+"/retire", env.Login(t, "sub-1"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	groups, err := groupctl.ByCorps(env.DB, dbtest.CorpsY)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}
