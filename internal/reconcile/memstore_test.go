package reconcile

import (
	"context"
	"errors"
	"sort"
	"time"
)

var errInjected = errors.New("injected failure")

type memEntry struct {
	tag                         string
	expected, unexpected, lost bool
}

type memItem struct {
	place, zone *string
	lastSeen    *time.Time
}

type memState struct {
	sessions  map[uint]SessionConfig
	ledger    map[uint][]memEntry
	items     map[string]memItem
	movements []MovementRecord
}

func (s *memState) clone() *memState {
	c := &memState{
		sessions:  make(map[uint]SessionConfig, len(s.sessions)),
		ledger:    make(map[uint][]memEntry, len(s.ledger)),
		items:     make(map[string]memItem, len(s.items)),
		movements: append([]MovementRecord(nil), s.movements...),
	}
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.ledger {
		c.ledger[k] = append([]memEntry(nil), v...)
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}

// memDB is a transactional in-memory implementation of the stores. Work done
// inside InTx lands on a copy that replaces the committed state only when fn
// succeeds.
type memDB struct {
	state  *memState
	failOn string // "ledger", "movements", "items", "mark_closed"
	txs    int
}

func newMemDB() *memDB {
	return &memDB{state: &memState{
		sessions: map[uint]SessionConfig{},
		ledger:   map[uint][]memEntry{},
		items:    map[string]memItem{},
	}}
}

func (db *memDB) InTx(ctx context.Context, fn func(Stores) error) error {
	db.txs++
	work := db.state.clone()
	tx := &memTx{db: db, st: work}
	if err := fn(Stores{Sessions: tx, Ledger: tx, Items: tx, Movements: tx}); err != nil {
		return err
	}
	db.state = work
	return nil
}

type memTx struct {
	db *memDB
	st *memState
}

func (t *memTx) LockConfig(_ context.Context, id uint) (*SessionConfig, error) {
	cfg, ok := t.st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &cfg, nil
}

func (t *memTx) MarkClosed(_ context.Context, id uint) error {
	if t.db.failOn == "mark_closed" {
		return errInjected
	}
	cfg := t.st.sessions[id]
	cfg.State = StateClose
	t.st.sessions[id] = cfg
	return nil
}

func (t *memTx) EntriesMatching(_ context.Context, id uint, pass Pass) ([]LedgerEntry, error) {
	if t.db.failOn == "ledger" {
		return nil, errInjected
	}
	var out []LedgerEntry
	for _, e := range t.st.ledger[id] {
		if !pass.Matches(e.expected, e.unexpected, e.lost) {
			continue
		}
		le := LedgerEntry{Tag: e.tag}
		if it, ok := t.st.items[e.tag]; ok {
			le.PreviousPlace, le.PreviousZone = it.place, it.zone
		}
		out = append(out, le)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out, nil
}

func (t *memTx) BulkUpdateLocation(_ context.Context, tags []string, loc Location, at time.Time) error {
	if t.db.failOn == "items" {
		return errInjected
	}
	for _, tag := range tags {
		it, ok := t.st.items[tag]
		if !ok {
			continue
		}
		seen := at
		it.place, it.zone, it.lastSeen = loc.Place, loc.Zone, &seen
		t.st.items[tag] = it
	}
	return nil
}

func (t *memTx) AppendMany(_ context.Context, records []MovementRecord) error {
	if t.db.failOn == "movements" {
		return errInjected
	}
	t.st.movements = append(t.st.movements, records...)
	return nil
}
