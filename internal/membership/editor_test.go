package membership_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/controller/group"
	"github.com/satext/satext/internal/db/controller/message"
	"github.com/satext/satext/internal/db/controller/recipient"
	"github.com/satext/satext/internal/db/dbtest"
	"github.com/satext/satext/internal/db/models"
	"github.com/satext/satext/internal/dispatch"
	"github.com/satext/satext/internal/gate"
	"github.com/satext/satext/internal/gateway/gatewaytest"
	"github.com/satext/satext/internal/membership"
)

func manager() gate.Caller {
	return gate.Caller{UserID: "u1", CorpsID: dbtest.CorpsX, CorpsPhone: dbtest.CorpsXPhone, IsApproved: true}
}

func setup(t *testing.T, fail ...string) (*gorm.DB, *gatewaytest.Fake, *membership.Editor) {
	t.Helper()

	db := dbtest.New(t)
	dbtest.Seed(t, db)

	fake := gatewaytest.New(fail...)
	engine := dispatch.New(db, fake, time.Second, "+15009990000")

	return db, fake, membership.NewEditor(db, engine, membership.Config{Title: "Salvation Army"})
}

func countRecipients(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.Recipient{}).Count(&n).Error)

	return n
}

func TestCreateRecipient(t *testing.T) {
	db, fake, editor := setup(t)

	id, err := editor.CreateRecipient(context.Background(), manager(), "Alice", "(555) 123-0000")
	require.NoError(t, err)

	r, err := recipient.Get(db, id, dbtest.CorpsX)
	require.NoError(t, err)
	assert.Equal(t, "Alice", r.Name)
	assert.Equal(t, "5551230000", r.Phone, "stored in national form")

	sent := fake.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "+15551230000", sent[0].To)
	assert.Equal(t, dbtest.CorpsXPhone, sent[0].From)
	assert.Equal(t, membership.WelcomeText("Alice", "Salvation Army"), sent[0].Body)
	assert.Contains(t, sent[0].Body, "Text 'STOP' to cancel messages.")

	rows, err := message.ByGroup(db, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, dispatch.SenderWelcome, rows[0].SenderID)
	assert.Equal(t, id, rows[0].RecipientID)
}

func TestCreateRecipientInvalidPhone(t *testing.T) {
	db, fake, editor := setup(t)

	_, err := editor.CreateRecipient(context.Background(), manager(), "Bob", "555-0199")
	require.ErrorIs(t, err, membership.ErrInvalidPhone)

	assert.Zero(t, countRecipients(t, db))
	assert.Empty(t, fake.Sent())

	rows, err := message.ByGroup(db, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateRecipientWelcomeFailureIsNotFatal(t *testing.T) {
	db, fake, editor := setup(t, "+15551230000")

	id, err := editor.CreateRecipient(context.Background(), manager(), "Alice", "5551230000")
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, int64(1), countRecipients(t, db))
	assert.Empty(t, fake.Sent())
}

func TestCreateRecipientRefusals(t *testing.T) {
	_, _, editor := setup(t)

	pending := manager()
	pending.IsApproved = false

	_, err := editor.CreateRecipient(context.Background(), pending, "Alice", "5551230000")
	require.ErrorIs(t, err, gate.ErrForbidden)

	_, err = editor.CreateRecipient(context.Background(), manager(), "<b></b>", "5551230000")
	require.ErrorIs(t, err, membership.ErrEmptyName)
}

func TestUpdateRecipient(t *testing.T) {
	db, _, editor := setup(t)
	ctx := context.Background()

	id, err := recipient.Create(db, "Alice", "5551230000", dbtest.CorpsX)
	require.NoError(t, err)

	changed, err := editor.UpdateRecipient(ctx, manager(), id, "Alice", "(555) 123-0000")
	require.NoError(t, err)
	assert.False(t, changed, "same name and number")

	changed, err = editor.UpdateRecipient(ctx, manager(), id, "Alice Smith", "555 123 0000")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = editor.UpdateRecipient(ctx, manager(), id, "Alice Smith", "555-0199")
	require.ErrorIs(t, err, membership.ErrInvalidPhone)
	assert.False(t, changed)

	changed, err = editor.UpdateRecipient(ctx, manager(), id, "Alice Smith", "+1 555 999 0000")
	require.NoError(t, err)
	assert.True(t, changed)

	r, err := recipient.Get(db, id, dbtest.CorpsX)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", r.Name)
	assert.Equal(t, "5559990000", r.Phone)

	other := manager()
	other.CorpsID = dbtest.CorpsY

	_, err = editor.UpdateRecipient(ctx, other, id, "Mallory", "5551230000")
	require.ErrorIs(t, err, dberr.ErrNotFound)
}

func TestReplaceGroups(t *testing.T) {
	db, _, editor := setup(t)
	ctx := context.Background()

	a := dbtest.Group(t, db, dbtest.CorpsX, "A")
	b := dbtest.Group(t, db, dbtest.CorpsX, "B")
	c := dbtest.Group(t, db, dbtest.CorpsX, "C")
	foreign := dbtest.Group(t, db, dbtest.CorpsY, "Foreign")
	retired := dbtest.Group(t, db, dbtest.CorpsX, "Retired")
	require.NoError(t, group.Retire(db, retired.ID, dbtest.CorpsX))

	id, err := recipient.Create(db, "Alice", "5551230000", dbtest.CorpsX)
	require.NoError(t, err)

	assigned, err := editor.ReplaceGroups(ctx, manager(), id, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, assigned)

	assigned, err = editor.ReplaceGroups(ctx, manager(), id, []uint{c.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, assigned)

	ids, err := recipient.GroupIDs(db, id)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, ids, "replacement, never a merge")

	assigned, err = editor.ReplaceGroups(ctx, manager(), id, []uint{foreign.ID, retired.ID, a.ID, a.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, assigned, "foreign, retired and duplicate ids are skipped")

	assigned, err = editor.ReplaceGroups(ctx, manager(), id, nil)
	require.NoError(t, err)
	assert.Empty(t, assigned)

	ids, err = recipient.GroupIDs(db, id)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReplaceGroupsScoped(t *testing.T) {
	db, _, editor := setup(t)

	id, err := recipient.Create(db, "Yuri", "5551230000", dbtest.CorpsY)
	require.NoError(t, err)

	_, err = editor.ReplaceGroups(context.Background(), manager(), id, nil)
	require.ErrorIs(t, err, dberr.ErrNotFound)
}

func TestAddAndRetireGroup(t *testing.T) {
	db, _, editor := setup(t)
	ctx := context.Background()

	g, err := editor.AddGroup(ctx, manager(), " Band ")
	require.NoError(t, err)
	assert.Equal(t, "Band", g.Name)
	assert.Equal(t, uint(dbtest.CorpsX), g.CorpsID)

	_, err = editor.AddGroup(ctx, manager(), "")
	require.ErrorIs(t, err, membership.ErrEmptyName)

	other := manager()
	other.CorpsID = dbtest.CorpsY
	require.ErrorIs(t, editor.RetireGroup(ctx, other, g.ID), dberr.ErrNotFound)

	require.NoError(t, editor.RetireGroup(ctx, manager(), g.ID))

	list, err := group.ByCorps(db, dbtest.CorpsX)
	require.NoError(t, err)
	assert.Empty(t, list)
}
