package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// seed builds a session with tags A (expected), B (unexpected), C (lost) and
// D (nothing set), all sitting in WHS/A1.
func seed() *memDB {
	db := newMemDB()
	db.state.sessions[7] = SessionConfig{
		Name:  "INV-2026-03",
		Note:  "Inventario marzo",
		State: StateOpen,
		Found: Location{Place: strp("WHS"), Zone: strp("OK")},
		Lost:  Location{Place: strp("LOST"), Zone: strp("Q")},
	}
	db.state.ledger[7] = []memEntry{
		{tag: "A", expected: true},
		{tag: "B", unexpected: true},
		{tag: "C", lost: true},
		{tag: "D"},
	}
	for _, tag := range []string{"A", "B", "C", "D"} {
		db.state.items[tag] = memItem{place: strp("WHS"), zone: strp("A1")}
	}
	return db
}

func newTestReconciler(db *memDB) *Reconciler {
	return New(db).WithClock(func() time.Time { return fixedNow })
}

func movementsFor(db *memDB, tag string) []MovementRecord {
	var out []MovementRecord
	for _, m := range db.state.movements {
		if m.Tag == tag {
			out = append(out, m)
		}
	}
	return out
}

func TestClose_MovesFoundAndLostTags(t *testing.T) {
	db := seed()

	res, err := newTestReconciler(db).Close(context.Background(), Request{
		SessionID: 7, CreateMovements: true, UpdateItems: true, Actor: "mario",
	})
	require.NoError(t, err)
	assert.Equal(t, &Result{Found: 2, Lost: 1, MovementsAdded: 3, ItemsUpdated: true}, res)

	require.Len(t, db.state.movements, 3)
	for _, tag := range []string{"A", "B"} {
		ms := movementsFor(db, tag)
		require.Len(t, ms, 1, tag)
		assert.Equal(t, "WHS", *ms[0].Dest.Place)
		assert.Equal(t, "OK", *ms[0].Dest.Zone)
		assert.Equal(t, "INV-2026-03", ms[0].Ref)
		assert.Equal(t, "mario", ms[0].Actor)
		assert.Equal(t, fixedNow, ms[0].Timestamp)
	}
	lost := movementsFor(db, "C")
	require.Len(t, lost, 1)
	assert.Equal(t, "LOST", *lost[0].Dest.Place)
	assert.Equal(t, "Q", *lost[0].Dest.Zone)
	assert.Empty(t, movementsFor(db, "D"))

	assert.Equal(t, "OK", *db.state.items["A"].zone)
	assert.Equal(t, "OK", *db.state.items["B"].zone)
	assert.Equal(t, "LOST", *db.state.items["C"].place)
	require.NotNil(t, db.state.items["C"].lastSeen)
	assert.Equal(t, fixedNow, *db.state.items["C"].lastSeen)

	// Unclassified tags stay where they were.
	assert.Equal(t, "A1", *db.state.items["D"].zone)
	assert.Nil(t, db.state.items["D"].lastSeen)

	assert.Equal(t, StateClose, db.state.sessions[7].State)
}

func TestClose_NotesCarryPreviousLocation(t *testing.T) {
	db := seed()

	_, err := newTestReconciler(db).Close(context.Background(), Request{
		SessionID: 7, CreateMovements: true, UpdateItems: true,
	})
	require.NoError(t, err)

	for _, m := range db.state.movements {
		assert.Equal(t, "Inventario marzo From WHS/A1", m.Note)
	}
}

func TestClose_UnknownPreviousLocation(t *testing.T) {
	db := seed()
	db.state.items["A"] = memItem{place: strp("WHS")}
	delete(db.state.items, "B")

	_, err := newTestReconciler(db).Close(context.Background(), Request{
		SessionID: 7, CreateMovements: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Inventario marzo From WHS/N/A", movementsFor(db, "A")[0].Note)
	assert.Equal(t, "Inventario marzo From N/A/N/A", movementsFor(db, "B")[0].Note)
}

func TestClose_ItemsOnly(t *testing.T) {
	db := seed()

	res, err := newTestReconciler(db).Close(context.Background(), Request{
		SessionID: 7, UpdateItems: true,
	})
	require.NoError(t, err)
	assert.Zero(t, res.MovementsAdded)
	assert.True(t, res.ItemsUpdated)
	assert.Empty(t, db.state.movements)
	assert.Equal(t, "OK", *db.state.items["A"].zone)
	assert.Equal(t, StateClose, db.state.sessions[7].State)
}

func TestClose_StateOnly(t *testing.T) {
	db := seed()

	res, err := newTestReconciler(db).Close(context.Background(), Request{SessionID: 7})
	require.NoError(t, err)
	assert.False(t, res.ItemsUpdated)
	assert.Empty(t, db.state.movements)
	assert.Equal(t, "A1", *db.state.items["A"].zone)
	assert.Equal(t, StateClose, db.state.sessions[7].State)
}

func TestClose_DefaultsActorToSystem(t *testing.T) {
	db := seed()

	_, err := newTestReconciler(db).Close(context.Background(), Request{SessionID: 7, CreateMovements: true})
	require.NoError(t, err)
	for _, m := range db.state.movements {
		assert.Equal(t, SystemActor, m.Actor)
	}
}

func TestClose_EmptyLedger(t *testing.T) {
	db := seed()
	db.state.ledger[7] = nil

	res, err := newTestReconciler(db).Close(context.Background(), Request{
		SessionID: 7, CreateMovements: true, UpdateItems: true,
	})
	require.NoError(t, err)
	assert.Equal(t, &Result{}, res)
	assert.Equal(t, StateClose, db.state.sessions[7].State)
}

func TestClose_RollsBackOnFailure(t *testing.T) {
	for _, stage := range []string{"ledger", "movements", "items", "mark_closed"} {
		t.Run(stage, func(t *testing.T) {
			db := seed()
			db.failOn = stage

			res, err := newTestReconciler(db).Close(context.Background(), Request{
				SessionID: 7, CreateMovements: true, UpdateItems: true,
			})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, ErrReconciliationFailed))
			assert.True(t, errors.Is(err, errInjected))

			assert.Empty(t, db.state.movements)
			assert.Equal(t, "A1", *db.state.items["A"].zone)
			assert.Equal(t, "A1", *db.state.items["C"].zone)
			assert.Equal(t, StateOpen, db.state.sessions[7].State)
		})
	}
}

func TestClose_SecondCloseIsRejected(t *testing.T) {
	db := seed()
	r := newTestReconciler(db)
	req := Request{SessionID: 7, CreateMovements: true, UpdateItems: true}

	_, err := r.Close(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, db.state.movements, 3)

	_, err = r.Close(context.Background(), req)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	assert.False(t, errors.Is(err, ErrReconciliationFailed))
	assert.Len(t, db.state.movements, 3)
}

func TestClose_MissingSessionID(t *testing.T) {
	db := seed()

	_, err := newTestReconciler(db).Close(context.Background(), Request{CreateMovements: true})
	assert.ErrorIs(t, err, ErrMissingSessionID)
	assert.Zero(t, db.txs)
}

func TestClose_UnknownSession(t *testing.T) {
	db := seed()

	_, err := newTestReconciler(db).Close(context.Background(), Request{SessionID: 99})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.False(t, errors.Is(err, ErrReconciliationFailed))
}

func TestClose_LostWinsWhenFlagsOverlap(t *testing.T) {
	db := seed()
	db.state.ledger[7] = []memEntry{{tag: "A", expected: true, lost: true}}

	res, err := newTestReconciler(db).Close(context.Background(), Request{
		SessionID: 7, CreateMovements: true, UpdateItems: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Found)
	assert.Equal(t, 1, res.Lost)
	assert.Len(t, movementsFor(db, "A"), 2)
	assert.Equal(t, "LOST", *db.state.items["A"].place)
}

func TestPassMatches(t *testing.T) {
	cases := []struct {
		name                       string
		expected, unexpected, lost bool
		found, isLost              bool
	}{
		{"expected", true, false, false, true, false},
		{"unexpected", false, true, false, true, false},
		{"lost", false, false, true, false, true},
		{"none", false, false, false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.found, PassFound.Matches(tc.expected, tc.unexpected, tc.lost))
			assert.Equal(t, tc.isLost, PassLost.Matches(tc.expected, tc.unexpected, tc.lost))
		})
	}
}
