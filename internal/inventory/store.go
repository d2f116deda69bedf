package inventory

import (
	"context"
	"errors"
	"time"

	"rfid-backoffice/internal/models"
	"rfid-backoffice/internal/reconcile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	movementBatchSize = 500
	// Postgres sınırı 65535 bind parametresi; IN listesini parçala
	tagChunkSize = 1000
)

// TxRunner binds the reconcile stores to one gorm transaction.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) InTx(ctx context.Context, fn func(reconcile.Stores) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s := &gormStores{tx: tx}
		return fn(reconcile.Stores{Sessions: s, Ledger: s, Items: s, Movements: s})
	})
}

type gormStores struct {
	tx *gorm.DB
}

func (s *gormStores) LockConfig(ctx context.Context, sessionID uint) (*reconcile.SessionConfig, error) {
	var inv models.Inventory
	err := s.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("inv_id = ?", sessionID).
		Take(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reconcile.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	cfg := &reconcile.SessionConfig{
		Name:  inv.Name,
		State: reconcile.State(inv.State),
		Found: reconcile.Location{Place: inv.DetPlace, Zone: inv.DetZone},
		Lost:  reconcile.Location{Place: inv.MisPlace, Zone: inv.MisZone},
	}
	if inv.Note != nil {
		cfg.Note = *inv.Note
	}
	return cfg, nil
}

func (s *gormStores) MarkClosed(ctx context.Context, sessionID uint) error {
	res := s.tx.WithContext(ctx).Model(&models.Inventory{}).
		Where("inv_id = ?", sessionID).
		Update("inv_state", models.InventoryClose)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return reconcile.ErrSessionNotFound
	}
	return nil
}

// EntriesMatching reads the pass together with each item's stored location.
// Ledger rows without an Items row come back with nil place and zone.
func (s *gormStores) EntriesMatching(ctx context.Context, sessionID uint, pass reconcile.Pass) ([]reconcile.LedgerEntry, error) {
	q := s.tx.WithContext(ctx).
		Table("inventory_items AS ii").
		Select(`ii.int_epc AS tag, i.place_last AS previous_place, i.zone_last AS previous_zone`).
		Joins(`LEFT JOIN "Items" AS i ON i.item_id = ii.int_epc`).
		Where("ii.int_inv_id = ?", sessionID)
	if pass == reconcile.PassLost {
		q = q.Where("ii.inv_lost = ?", true)
	} else {
		q = q.Where("(ii.inv_expected = ? OR ii.inv_unexpected = ?)", true, true)
	}

	var entries []reconcile.LedgerEntry
	if err := q.Order("ii.int_epc").Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *gormStores) BulkUpdateLocation(ctx context.Context, tags []string, loc reconcile.Location, at time.Time) error {
	for start := 0; start < len(tags); start += tagChunkSize {
		end := min(start+tagChunkSize, len(tags))
		err := s.tx.WithContext(ctx).Model(&models.Item{}).
			Where("item_id IN ?", tags[start:end]).
			Updates(map[string]any{
				"place_last":    loc.Place,
				"zone_last":     loc.Zone,
				"date_lastseen": at,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *gormStores) AppendMany(ctx context.Context, records []reconcile.MovementRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.Movement, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.Movement{
			EPC:       r.Tag,
			DestPlace: r.Dest.Place,
			DestZone:  r.Dest.Zone,
			Timestamp: r.Timestamp,
			Notes:     r.Note,
			Ref:       r.Ref,
			User:      r.Actor,
		})
	}
	return s.tx.WithContext(ctx).CreateInBatches(&rows, movementBatchSize).Error
}
