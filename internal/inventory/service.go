package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"rfid-backoffice/internal/audit"
	"rfid-backoffice/internal/config"
	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/models"
	"rfid-backoffice/internal/reconcile"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityType = "inventory"

// Session: liste/detay görünümü, yer adı ve ledger satır sayısı ile.
type Session struct {
	models.Inventory
	PlaceName *string `json:"place_name"`
	ItemCount int64   `json:"item_count"`
}

type Service struct {
	db         *gorm.DB
	reconciler *reconcile.Reconciler
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, reconciler: reconcile.New(NewTxRunner(db))}
}

func (s *Service) sessions(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Select(`inventories.*, p.place_name AS place_name,
			(SELECT COUNT(*) FROM inventory_items ii WHERE ii.int_inv_id = inventories.inv_id) AS item_count`).
		Joins(`LEFT JOIN "Places" AS p ON p.place_id = inventories.inv_place_id`)
}

func (s *Service) List(ctx context.Context) ([]Session, error) {
	var out []Session
	if err := s.sessions(ctx).Order("inventories.inv_id DESC").Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Session, error) {
	var out []Session
	if err := s.sessions(ctx).Where("inventories.inv_id = ?", id).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (s *Service) Create(ctx context.Context, actor audit.Actor, values map[string]any) (*models.Inventory, error) {
	inv := models.Inventory{State: models.InventoryOpen}
	if err := applyColumns(&inv, writableValues(values)); err != nil {
		return nil, err
	}
	if inv.Name == "" {
		return nil, ErrNameRequired
	}
	enforceSource(&inv)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return referenceError(err)
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityType,
			EntityID:    idString(inv.ID),
			Action:      models.AuditActionCreate,
			Description: "Inventario creato: " + inv.Name,
			After:       inv,
		})
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create inventory: %w", err)
	}
	return &inv, nil
}

// Update applies a partial change under a row lock.
func (s *Service) Update(ctx context.Context, actor audit.Actor, id uint, values map[string]any) (*models.Inventory, error) {
	changes := writableValues(values)
	if len(changes) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	var inv models.Inventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("inv_id = ?", id).Take(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		before := inv

		if err := applyColumns(&inv, changes); err != nil {
			return err
		}
		if inv.Name == "" {
			return ErrNameRequired
		}
		enforceSource(&inv)

		if err := tx.Save(&inv).Error; err != nil {
			return referenceError(err)
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityType,
			EntityID:    idString(inv.ID),
			Action:      models.AuditActionUpdate,
			Description: "Inventario aggiornato: " + inv.Name,
			Before:      before,
			After:       inv,
		})
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update inventory: %w", err)
	}
	return &inv, nil
}

// Delete removes the ledger rows and then the session, atomically.
func (s *Service) Delete(ctx context.Context, actor audit.Actor, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("int_inv_id = ?", id).Delete(&models.InventoryItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("inv_id = ?", id).Delete(&models.Inventory{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  entityType,
			EntityID:    idString(id),
			Action:      models.AuditActionDelete,
			Description: "Inventario eliminato",
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete inventory: %w", err)
	}
	return nil
}

// Close reconciles the session. The caller's name becomes the movement user.
func (s *Service) Close(ctx context.Context, actor audit.Actor, req reconcile.Request) (*reconcile.Result, error) {
	req.Actor = actor.UserName
	res, err := s.reconciler.Close(ctx, req)
	if err != nil {
		return nil, err
	}

	// Kapanış commit edildi; audit hatası işlemi geri almaz
	if lerr := audit.WriteLog(s.db.WithContext(ctx), audit.LogOptions{
		Actor:       actor,
		EntityType:  entityType,
		EntityID:    idString(req.SessionID),
		Action:      models.AuditActionClose,
		Description: "Inventario chiuso",
		After: map[string]any{
			"create_movements": req.CreateMovements,
			"update_items":     req.UpdateItems,
			"found":            res.Found,
			"lost":             res.Lost,
			"movements_added":  res.MovementsAdded,
		},
	}); lerr != nil {
		config.LogError(config.GetLogger(), "inventory", "Close", "audit log yazılamadı", req.SessionID, lerr)
	}
	return res, nil
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNameRequired) || errors.Is(err, ErrInvalidValue)
}

// referenceError turns a foreign key violation into ErrInvalidValue.
func referenceError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: riferimento inesistente", ErrInvalidValue)
	}
	return err
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
