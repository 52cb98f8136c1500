package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/auth"
	"github.com/satext/satext/internal/db/controller/message"
	"github.com/satext/satext/internal/db/controller/user"
	"github.com/satext/satext/internal/db/dbtest"
	"github.com/satext/satext/internal/dispatch"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/gateway/gatewaytest"
)

func setup(t *testing.T) (*gorm.DB, *gatewaytest.Fake, *auth.Service) {
	t.Helper()

	db := dbtest.New(t)
	dbtest.Seed(t, db)

	fake := gatewaytest.New()
	engine := dispatch.New(db, fake, time.Second, "+15009990000")

	return db, fake, auth.NewService(db, engine, auth.Config{
		Title:       "Salvation Army",
		URL:         "https://text.example.org/",
		AdminEmails: []string{"Boss@Example.com"},
	})
}

func identity(sub string) auth.Identity {
	return auth.Identity{
		ExternalID: sub,
		Name:       "Pat " + sub,
		Email:      sub + "@example.com",
		AvatarURL:  "https://example.com/" + sub + ".png",
	}
}

func TestLoginFirstTime(t *testing.T) {
	_, _, svc := setup(t)
	ctx := context.Background()

	u, err := svc.Login(ctx, identity("sub-1"))
	require.NoError(t, err)
	assert.Nil(t, u.CorpsID)
	assert.False(t, u.IsApproved)
	assert.False(t, u.IsAdmin)
	assert.Equal(t, "https://example.com/sub-1.png", u.ProfilePic)

	caller, err := svc.Caller(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, gate.Unlinked, caller.State())
	assert.False(t, caller.Can(gate.CapSend))
	assert.True(t, caller.Can(gate.CapSelectCorps))

	again, err := svc.Login(ctx, identity("sub-1"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestLoginRejectsIncompleteIdentity(t *testing.T) {
	_, _, svc := setup(t)

	_, err := svc.Login(context.Background(), auth.Identity{Email: "x@example.com"})
	require.ErrorIs(t, err, auth.ErrInvalidIdentity)

	_, err = svc.Login(context.Background(), auth.Identity{ExternalID: "sub", Email: "not-an-email"})
	require.ErrorIs(t, err, auth.ErrInvalidIdentity)
}

func TestLoginPromotesAdminEmails(t *testing.T) {
	_, _, svc := setup(t)

	u, err := svc.Login(context.Background(), auth.Identity{ExternalID: "boss", Email: "boss@example.com"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.False(t, u.IsApproved)
}

func TestCallerUnknownUser(t *testing.T) {
	_, _, svc := setup(t)

	_, err := svc.Caller(context.Background(), "ghost")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestLinkCorps(t *testing.T) {
	_, _, svc := setup(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, identity("sub-1"))
	require.NoError(t, err)

	caller, err := svc.Caller(ctx, "sub-1")
	require.NoError(t, err)

	name, err := svc.LinkCorps(ctx, caller, dbtest.CorpsX)
	require.NoError(t, err)
	assert.Equal(t, "Downtown Corps", name)

	caller, err = svc.Caller(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, gate.LinkedUnapproved, caller.State())
	assert.Equal(t, dbtest.CorpsXPhone, caller.CorpsPhone)

	_, err = svc.LinkCorps(ctx, caller, dbtest.CorpsY)
	require.ErrorIs(t, err, gate.ErrForbidden, "linking happens once")
}

func TestRequestApprovalNotifiesAdminsOnce(t *testing.T) {
	db, fake, svc := setup(t)
	ctx := context.Background()

	dbtest.User(t, db, "boss", dbtest.CorpsX, true, true)
	dbtest.User(t, db, "silent-admin", dbtest.CorpsY, true, true)
	require.NoError(t, user.UpdatePhone(db, "boss", "5550001111"))
	dbtest.User(t, db, "newbie", dbtest.CorpsX, false, false)

	caller, err := svc.Caller(ctx, "newbie")
	require.NoError(t, err)

	sent, err := svc.RequestApproval(ctx, caller)
	require.NoError(t, err)
	assert.True(t, sent)

	msgs := fake.Sent()
	require.Len(t, msgs, 1, "admins without a phone are skipped")
	assert.Equal(t, "+15550001111", msgs[0].To)
	assert.Equal(t, dbtest.CorpsXPhone, msgs[0].From)
	assert.Equal(t,
		"newbie (newbie@example.com) of Downtown Corps is waiting for approval: https://text.example.org/admin/approvals",
		msgs[0].Body)

	rows, err := message.ByGroup(db, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, dispatch.SenderSystem, rows[0].SenderID)

	sent, err = svc.RequestApproval(ctx, caller)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, fake.Sent(), 1)
}

func TestApproveSendsOneWelcome(t *testing.T) {
	db, fake, svc := setup(t)
	ctx := context.Background()

	boss := dbtest.User(t, db, "boss", dbtest.CorpsX, true, true)
	dbtest.User(t, db, "newbie", dbtest.CorpsY, false, false)
	require.NoError(t, user.UpdatePhone(db, "newbie", "5552223333"))

	admin, err := svc.Caller(ctx, boss.ID)
	require.NoError(t, err)

	pending, err := svc.Pending(ctx, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "newbie", pending[0].ID)

	approved, err := svc.Approve(ctx, admin, "newbie")
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	rows, err := message.ByGroup(db, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, dispatch.SenderWelcome, rows[0].SenderID)

	msgs := fake.Sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "+15552223333", msgs[0].To)
	assert.Equal(t, dbtest.CorpsYPhone, msgs[0].From)
	assert.Equal(t,
		"Welcome newbie! You are now approved to send Salvation Army text messages. Start now at https://text.example.org.",
		msgs[0].Body)

	caller, err := svc.Caller(ctx, "newbie")
	require.NoError(t, err)
	assert.True(t, caller.Can(gate.CapSend))

	pending, err = svc.Pending(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApproveTwiceSendsOneWelcome(t *testing.T) {
	db, fake, svc := setup(t)
	ctx := context.Background()

	dbtest.User(t, db, "boss", dbtest.CorpsX, true, true)
	dbtest.User(t, db, "newbie", dbtest.CorpsY, false, false)
	require.NoError(t, user.UpdatePhone(db, "newbie", "5552223333"))

	admin, err := svc.Caller(ctx, "boss")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, admin, "newbie")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, admin, "newbie")
	require.ErrorIs(t, err, user.ErrAlreadyApproved)

	rows, err := message.ByGroup(db, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Len(t, fake.Sent(), 1)
}

func TestApproveUnlinkedUserIsRefused(t *testing.T) {
	db, fake, svc := setup(t)
	ctx := context.Background()

	dbtest.User(t, db, "boss", dbtest.CorpsX, true, true)
	dbtest.User(t, db, "fresh", 0, false, false)
	require.NoError(t, user.UpdatePhone(db, "fresh", "5552224444"))

	admin, err := svc.Caller(ctx, "boss")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, admin, "fresh")
	require.ErrorIs(t, err, user.ErrNotLinked)
	assert.Empty(t, fake.Sent())

	caller, err := svc.Caller(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, gate.Unlinked, gate.Evaluate(caller))
	assert.False(t, caller.IsApproved)
}

func TestApproveWithoutPhoneSendsNothing(t *testing.T) {
	db, fake, svc := setup(t)
	ctx := context.Background()

	dbtest.User(t, db, "boss", dbtest.CorpsX, false, true)
	dbtest.User(t, db, "newbie", dbtest.CorpsX, false, false)

	admin, err := svc.Caller(ctx, "boss")
	require.NoError(t, err)

	// a seeded admin that is not approved yet can approve itself
	_, err = svc.Approve(ctx, admin, "boss")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, admin, "newbie")
	require.NoError(t, err)
	assert.Empty(t, fake.Sent())
}

func TestApproveRequiresAdmin(t *testing.T) {
	db, _, svc := setup(t)
	ctx := context.Background()

	dbtest.User(t, db, "member", dbtest.CorpsX, true, false)
	dbtest.User(t, db, "newbie", dbtest.CorpsX, false, false)

	member, err := svc.Caller(ctx, "member")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, member, "newbie")
	require.ErrorIs(t, err, gate.ErrForbidden)

	_, err = svc.Pending(ctx, member)
	require.ErrorIs(t, err, gate.ErrForbidden)
}

func TestUpdatePhone(t *testing.T) {
	db, _, svc := setup(t)
	ctx := context.Background()

	dbtest.User(t, db, "member", dbtest.CorpsX, true, false)
	caller := gate.Caller{UserID: "member"}

	e164, err := svc.UpdatePhone(ctx, caller, "(555) 444-1212")
	require.NoError(t, err)
	assert.Equal(t, "+15554441212", e164)

	u, err := user.Get(db, "member")
	require.NoError(t, err)
	assert.Equal(t, "5554441212", u.Phone)

	_, err = svc.UpdatePhone(ctx, caller, "555-0199")
	require.ErrorIs(t, err, auth.ErrInvalidPhone)
}
