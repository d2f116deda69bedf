// Package reconcile closes an inventory session: it moves every tag the
// session classified as found or lost to the configured destination,
// optionally writing one movement per tag, and marks the session closed.
// All of it happens in a single transaction.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SystemActor is written as the movement user when the caller is anonymous.
const SystemActor = "System"

// UnknownLocation stands in for a missing previous place or zone in movement notes.
const UnknownLocation = "N/A"

type State string

const (
	StateOpen  State = "OPEN"
	StateClose State = "CLOSE"
)

// Location is a place/zone pair. Either side may be nil.
type Location struct {
	Place *string
	Zone  *string
}

// SessionConfig is the part of an inventory session the close needs.
type SessionConfig struct {
	Name  string
	Note  string
	State State
	Found Location // inv_det_place / inv_det_zone
	Lost  Location // inv_mis_place / inv_mis_zone
}

// Pass selects a subset of the ledger.
type Pass int

const (
	// PassFound matches entries with expected OR unexpected set.
	PassFound Pass = iota
	// PassLost matches entries with lost set.
	PassLost
)

func (p Pass) String() string {
	if p == PassLost {
		return "lost"
	}
	return "found"
}

// Matches reports whether a ledger entry with the given flags belongs to the pass.
func (p Pass) Matches(expected, unexpected, lost bool) bool {
	if p == PassLost {
		return lost
	}
	return expected || unexpected
}

// LedgerEntry is one tag of the pass together with the item's last known
// location as stored before the close started.
type LedgerEntry struct {
	Tag           string
	PreviousPlace *string
	PreviousZone  *string
}

type MovementRecord struct {
	Tag       string
	Dest      Location
	Timestamp time.Time
	Note      string
	Ref       string
	Actor     string
}

type SessionStore interface {
	// LockConfig reads the session and holds a row lock until the transaction ends.
	LockConfig(ctx context.Context, sessionID uint) (*SessionConfig, error)
	MarkClosed(ctx context.Context, sessionID uint) error
}

type LedgerStore interface {
	EntriesMatching(ctx context.Context, sessionID uint, pass Pass) ([]LedgerEntry, error)
}

type ItemStore interface {
	BulkUpdateLocation(ctx context.Context, tags []string, loc Location, at time.Time) error
}

type MovementStore interface {
	AppendMany(ctx context.Context, records []MovementRecord) error
}

// Stores groups the collaborators bound to one transaction.
type Stores struct {
	Sessions  SessionStore
	Ledger    LedgerStore
	Items     ItemStore
	Movements MovementStore
}

// TxRunner runs fn inside a transaction. A non-nil error from fn rolls back.
type TxRunner interface {
	InTx(ctx context.Context, fn func(Stores) error) error
}

type Request struct {
	SessionID       uint
	CreateMovements bool
	UpdateItems     bool
	// Actor identifies the caller on movement rows; SystemActor when empty.
	Actor string
}

// Result summarizes what a successful close wrote.
type Result struct {
	Found          int
	Lost           int
	MovementsAdded int
	ItemsUpdated   bool
}

type Reconciler struct {
	tx  TxRunner
	now func() time.Time
}

func New(tx TxRunner) *Reconciler {
	return &Reconciler{tx: tx, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Close runs the reconciliation. Precondition (owned by ingestion): a ledger
// entry does not carry lost together with expected or unexpected; if it does,
// the tag is processed by both passes and the lost pass wins on the item.
func (r *Reconciler) Close(ctx context.Context, req Request) (*Result, error) {
	if req.SessionID == 0 {
		return nil, ErrMissingSessionID
	}
	actor := req.Actor
	if actor == "" {
		actor = SystemActor
	}

	var res Result
	err := r.tx.InTx(ctx, func(s Stores) error {
		cfg, err := s.Sessions.LockConfig(ctx, req.SessionID)
		if err != nil {
			return err
		}
		if cfg.State == StateClose {
			return ErrAlreadyClosed
		}

		// Both passes are read before any write so notes carry the pre-close location.
		found, err := s.Ledger.EntriesMatching(ctx, req.SessionID, PassFound)
		if err != nil {
			return fmt.Errorf("found entries: %w", err)
		}
		lost, err := s.Ledger.EntriesMatching(ctx, req.SessionID, PassLost)
		if err != nil {
			return fmt.Errorf("lost entries: %w", err)
		}
		res.Found, res.Lost = len(found), len(lost)

		now := r.now()
		passes := []struct {
			pass    Pass
			entries []LedgerEntry
			dest    Location
		}{
			{PassFound, found, cfg.Found},
			{PassLost, lost, cfg.Lost},
		}
		for _, p := range passes {
			if req.CreateMovements && len(p.entries) > 0 {
				records := buildMovements(p.entries, p.dest, now, cfg, actor)
				if err := s.Movements.AppendMany(ctx, records); err != nil {
					return fmt.Errorf("%s movements: %w", p.pass, err)
				}
				res.MovementsAdded += len(records)
			}
			if req.UpdateItems && len(p.entries) > 0 {
				if err := s.Items.BulkUpdateLocation(ctx, tagsOf(p.entries), p.dest, now); err != nil {
					return fmt.Errorf("%s items: %w", p.pass, err)
				}
				res.ItemsUpdated = true
			}
		}

		if err := s.Sessions.MarkClosed(ctx, req.SessionID); err != nil {
			return fmt.Errorf("mark closed: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrAlreadyClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrReconciliationFailed, err)
	}
	return &res, nil
}

func buildMovements(entries []LedgerEntry, dest Location, at time.Time, cfg *SessionConfig, actor string) []MovementRecord {
	records := make([]MovementRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, MovementRecord{
			Tag:       e.Tag,
			Dest:      dest,
			Timestamp: at,
			Note:      MovementNote(cfg.Note, e.PreviousPlace, e.PreviousZone),
			Ref:       cfg.Name,
			Actor:     actor,
		})
	}
	return records
}

// MovementNote renders "<note> From <place>/<zone>".
func MovementNote(note string, place, zone *string) string {
	return note + " From " + orUnknown(place) + "/" + orUnknown(zone)
}

func orUnknown(s *string) string {
	if s == nil {
		return UnknownLocation
	}
	return *s
}

func tagsOf(entries []LedgerEntry) []string {
	tags := make([]string, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, e.Tag)
	}
	return tags
}
