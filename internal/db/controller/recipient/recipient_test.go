package recipient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satext/satext/internal/db/controller/dberr"
	"github.com/satext/satext/internal/db/controller/recipient"
	"github.com/satext/satext/internal/db/dbtest"
)

func TestCreateGetUpdate(t *testing.T) {
	db := dbtest.New(t)
	dbtest.Seed(t, db)

	id, err := recipient.Create(db, "Alice", "5551230000", dbtest.CorpsX)
	require.NoError(t, err)
	assert.NotZero(t, id)

	r, err := recipient.Get(db, id, dbtest.CorpsX)
	require.NoError(t, err)
	assert.Equal(t, "Alice", r.Name)

	_, err = recipient.Get(db, id, dbtest.CorpsY)
	require.ErrorIs(t, err, dberr.ErrNotFound, "recipients are corps scoped")

	require.NoError(t, recipient.Update(db, id, "Alice B", "5551239999"))

	r, err = recipient.Get(db, id, dbtest.CorpsX)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", r.Name)
	assert.Equal(t, "5551239999", r.Phone)

	require.ErrorIs(t, recipient.Update(db, 999, "x", "y"), dberr.ErrNotFound)
}

func TestByCorps(t *testing.T) {
	db := dbtest.New(t)
	dbtest.Seed(t, db)

	_, err := recipient.Create(db, "Zed", "5550000001", dbtest.CorpsX)
	require.NoError(t, err)
	_, err = recipient.Create(db, "Amy", "5550000002", dbtest.CorpsX)
	require.NoError(t, err)
	_, err = recipient.Create(db, "Other", "5550000003", dbtest.CorpsY)
	require.NoError(t, err)

	list, err := recipient.ByCorps(db, dbtest.CorpsX)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Amy", list[0].Name)
	assert.Equal(t, "Zed", list[1].Name)
}

func TestMemberships(t *testing.T) {
	db := dbtest.New(t)
	dbtest.Seed(t, db)

	a := dbtest.Group(t, db, dbtest.CorpsX, "A")
	b := dbtest.Group(t, db, dbtest.CorpsX, "B")

	id, err := recipient.Create(db, "Alice", "5551230000", dbtest.CorpsX)
	require.NoError(t, err)

	require.NoError(t, recipient.AssignGroup(db, id, b.ID))
	require.NoError(t, recipient.AssignGroup(db, id, a.ID))
	require.ErrorIs(t, recipient.AssignGroup(db, id, a.ID), dberr.ErrConflict)

	ids, err := recipient.GroupIDs(db, id)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, ids)

	require.NoError(t, recipient.ClearGroups(db, id))

	ids, err = recipient.GroupIDs(db, id)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
