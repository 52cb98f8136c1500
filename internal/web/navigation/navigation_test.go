package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Send", PageCompose)

	assert.Equal(t, "Send", ctx.PageTitle)
	assert.Equal(t, PageCompose, ctx.Page)
	assert.Empty(t, ctx.Crumbs)
}

func TestContext_CrumbMovesCurrent(t *testing.T) {
	ctx := NewContext("Edit recipient", PageRecipients).
		Crumb("Recipients", "/recipients").
		Crumb("Edit recipient", "")

	require.Len(t, ctx.Crumbs, 2)
	assert.Equal(t, Crumb{Title: "Recipients", URL: "/recipients"}, ctx.Crumbs[0])
	assert.Equal(t, Crumb{Title: "Edit recipient", Current: true}, ctx.Crumbs[1])
}

func TestContext_Highlights(t *testing.T) {
	ctx := NewContext("History", PageHistory)

	assert.True(t, ctx.Highlights(MenuItem{Title: "History", URL: "/history", Page: PageHistory}))
	assert.False(t, ctx.Highlights(MenuItem{Title: "Send", URL: "/", Page: PageCompose}),
		"pages of the same area are highlighted separately")
	assert.False(t, NewContext("Sign in", "").Highlights(MenuItem{Title: "Sign out", URL: "/logout"}))

	var none *Context
	assert.False(t, none.Highlights(MenuItem{Page: PageHistory}))
}
