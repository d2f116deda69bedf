//go:build integration

package inventory

import (
	"context"
	"errors"
	"testing"

	"rfid-backoffice/internal/audit"
	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/database/dbtest"
	"rfid-backoffice/internal/models"
	"rfid-backoffice/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strp(s string) *string { return &s }

var tester = audit.Actor{UserID: 1, UserName: "mario"}

// seedSession creates session "INV-1" with A expected, B unexpected, C lost
// and D unclassified; every item sits in WHS/A1.
func seedSession(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	seedLocations(t, db)
	require.NoError(t, db.Create(&models.Product{ID: "P1", Fld01: strp("Sedia")}).Error)
	for _, tag := range []string{"A", "B", "C", "D"} {
		require.NoError(t, db.Create(&models.Item{ID: tag, ProductID: strp("P1"), PlaceLast: strp("WHS"), ZoneLast: strp("A1")}).Error)
	}
	inv := models.Inventory{
		Name: "INV-1", Note: strp("Conteggio"), State: models.InventoryOpen, PlaceID: strp("WHS"),
		DetPlace: strp("WHS"), DetZone: strp("OK"), MisPlace: strp("LOST"), MisZone: strp("Q"),
	}
	require.NoError(t, db.Create(&inv).Error)
	require.NoError(t, db.Create(&[]models.InventoryItem{
		{InventoryID: inv.ID, EPC: "A", Expected: true},
		{InventoryID: inv.ID, EPC: "B", Unexpected: true},
		{InventoryID: inv.ID, EPC: "C", Lost: true},
		{InventoryID: inv.ID, EPC: "D"},
	}).Error)
	return inv.ID
}

func seedLocations(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&[]models.Place{{ID: "WHS", Name: "Magazzino"}, {ID: "LOST", Name: "Smarriti"}}).Error)
	require.NoError(t, db.Create(&[]models.Zone{{ID: "A1"}, {ID: "OK"}, {ID: "Q"}}).Error)
}

func loadItem(t *testing.T, db *gorm.DB, id string) models.Item {
	t.Helper()
	var it models.Item
	require.NoError(t, db.First(&it, "item_id = ?", id).Error)
	return it
}

func TestGormClose(t *testing.T) {
	pg := dbtest.Start(t)
	ctx := context.Background()

	t.Run("moves and records", func(t *testing.T) {
		pg.Reset(t)
		id := seedSession(t, pg.DB)
		svc := NewService(pg.DB)

		res, err := svc.Close(ctx, tester, reconcile.Request{SessionID: id, CreateMovements: true, UpdateItems: true})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Found)
		assert.Equal(t, 1, res.Lost)

		var movs []models.Movement
		require.NoError(t, pg.DB.Order("mov_epc").Find(&movs).Error)
		require.Len(t, movs, 3)
		for _, m := range movs {
			assert.Equal(t, "Conteggio From WHS/A1", m.Notes)
			assert.Equal(t, "INV-1", m.Ref)
			assert.Equal(t, "mario", m.User)
		}
		assert.Equal(t, "LOST", *movs[2].DestPlace)

		assert.Equal(t, "OK", *loadItem(t, pg.DB, "A").ZoneLast)
		assert.Equal(t, "LOST", *loadItem(t, pg.DB, "C").PlaceLast)
		d := loadItem(t, pg.DB, "D")
		assert.Equal(t, "A1", *d.ZoneLast)
		assert.Nil(t, d.DateLastSeen)

		var inv models.Inventory
		require.NoError(t, pg.DB.First(&inv, "inv_id = ?", id).Error)
		assert.Equal(t, models.InventoryClose, inv.State)

		_, err = svc.Close(ctx, tester, reconcile.Request{SessionID: id, CreateMovements: true})
		assert.ErrorIs(t, err, reconcile.ErrAlreadyClosed)
		var count int64
		pg.DB.Model(&models.Movement{}).Count(&count)
		assert.Equal(t, int64(3), count)

		var logs []models.AuditLog
		require.NoError(t, pg.DB.Where("action = ?", models.AuditActionClose).Find(&logs).Error)
		assert.Len(t, logs, 1)
	})

	t.Run("lost wins when flags overlap", func(t *testing.T) {
		pg.Reset(t)
		id := seedSession(t, pg.DB)
		require.NoError(t, pg.DB.Model(&models.InventoryItem{}).
			Where("int_inv_id = ? AND int_epc = ?", id, "A").
			Update("inv_lost", true).Error)
		// SQL geçişleri bellekteki yüklem ile aynı satırları seçmeli
		require.True(t, reconcile.PassFound.Matches(true, false, true))
		require.True(t, reconcile.PassLost.Matches(true, false, true))

		res, err := NewService(pg.DB).Close(ctx, tester, reconcile.Request{SessionID: id, CreateMovements: true, UpdateItems: true})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Found)
		assert.Equal(t, 2, res.Lost)

		var movs []models.Movement
		require.NoError(t, pg.DB.Where("mov_epc = ?", "A").Order("mov_id").Find(&movs).Error)
		require.Len(t, movs, 2)
		assert.Equal(t, "WHS", *movs[0].DestPlace)
		assert.Equal(t, "LOST", *movs[1].DestPlace)
		assert.Equal(t, "LOST", *loadItem(t, pg.DB, "A").PlaceLast)
		assert.Equal(t, "Q", *loadItem(t, pg.DB, "A").ZoneLast)
	})

	t.Run("unknown session", func(t *testing.T) {
		pg.Reset(t)
		_, err := NewService(pg.DB).Close(ctx, tester, reconcile.Request{SessionID: 404})
		assert.ErrorIs(t, err, reconcile.ErrSessionNotFound)
	})

	t.Run("rolls back when closing fails", func(t *testing.T) {
		pg.Reset(t)
		id := seedSession(t, pg.DB)

		// Separate connection so the failing hook does not leak into other tests.
		failing, err := database.Open(pg.DSN)
		require.NoError(t, err)
		require.NoError(t, failing.Callback().Update().Before("gorm:update").Register("test:fail_close", func(tx *gorm.DB) {
			if tx.Statement.Table == "inventories" {
				_ = tx.AddError(errors.New("injected"))
			}
		}))

		_, err = NewService(failing).Close(ctx, tester, reconcile.Request{SessionID: id, CreateMovements: true, UpdateItems: true})
		require.ErrorIs(t, err, reconcile.ErrReconciliationFailed)

		var count int64
		pg.DB.Model(&models.Movement{}).Count(&count)
		assert.Zero(t, count)
		assert.Equal(t, "A1", *loadItem(t, pg.DB, "A").ZoneLast)
		var inv models.Inventory
		require.NoError(t, pg.DB.First(&inv, "inv_id = ?", id).Error)
		assert.Equal(t, models.InventoryOpen, inv.State)
	})
}

func TestGormSessionLifecycle(t *testing.T) {
	pg := dbtest.Start(t)
	ctx := context.Background()

	t.Run("create normalizes references", func(t *testing.T) {
		pg.Reset(t)
		seedLocations(t, pg.DB)
		svc := NewService(pg.DB)
		inv, err := svc.Create(ctx, tester, map[string]any{
			"inv_name":       "Aprile",
			"inv_state":      "CLOSE",
			"inv_place_id":   "",
			"inv_chk_id":     "",
			"inv_last":       true,
			"inv_last_place": "WHS",
			"inv_last_zones": []any{"Z1", " ", "Z2"},
			"inv_det_zone":   "  ",
		})
		require.NoError(t, err)
		assert.Equal(t, models.InventoryOpen, inv.State)
		assert.Nil(t, inv.PlaceID)
		assert.Nil(t, inv.DetZone)
		assert.Equal(t, "Z1;Z2", *inv.LastZones)

		got, err := svc.Get(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "Aprile", got.Name)
		assert.Zero(t, got.ItemCount)
	})

	t.Run("update enforces source exclusivity", func(t *testing.T) {
		pg.Reset(t)
		seedLocations(t, pg.DB)
		require.NoError(t, pg.DB.Create(&models.Checklist{ID: 3, Code: "CHK-3"}).Error)
		svc := NewService(pg.DB)
		inv, err := svc.Create(ctx, tester, map[string]any{
			"inv_name": "Maggio", "inv_last": true, "inv_last_place": "WHS", "inv_last_zones": "Z1",
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, tester, inv.ID, map[string]any{"inv_last": false, "inv_chk_id": float64(3)})
		require.NoError(t, err)
		assert.Nil(t, updated.LastPlace)
		assert.Nil(t, updated.LastZones)
		require.NotNil(t, updated.ChecklistID)
		assert.Equal(t, uint(3), *updated.ChecklistID)

		_, err = svc.Update(ctx, tester, inv.ID, map[string]any{"unknown": 1})
		assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
		_, err = svc.Update(ctx, tester, 9999, map[string]any{"inv_note": "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown references are rejected", func(t *testing.T) {
		pg.Reset(t)
		seedLocations(t, pg.DB)
		svc := NewService(pg.DB)

		_, err := svc.Create(ctx, tester, map[string]any{"inv_name": "Giugno", "inv_det_place": "NOPE"})
		assert.ErrorIs(t, err, ErrInvalidValue)

		inv, err := svc.Create(ctx, tester, map[string]any{"inv_name": "Giugno", "inv_det_place": "WHS"})
		require.NoError(t, err)
		_, err = svc.Update(ctx, tester, inv.ID, map[string]any{"inv_chk_id": float64(77)})
		assert.ErrorIs(t, err, ErrInvalidValue)
		_, err = svc.Update(ctx, tester, inv.ID, map[string]any{"inv_mis_zone": "NOPE"})
		assert.ErrorIs(t, err, ErrInvalidValue)

		var count int64
		pg.DB.Model(&models.Inventory{}).Count(&count)
		assert.Equal(t, int64(1), count)
		got, err := svc.Get(ctx, inv.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ChecklistID)
		assert.Nil(t, got.MisZone)
	})

	t.Run("referenced places cannot be deleted", func(t *testing.T) {
		pg.Reset(t)
		seedSession(t, pg.DB)

		err := pg.DB.Delete(&models.Place{}, "place_id = ?", "LOST").Error
		assert.True(t, database.IsForeignKeyViolation(err), "got %v", err)
		err = pg.DB.Delete(&models.Item{}, "item_id = ?", "A").Error
		assert.True(t, database.IsForeignKeyViolation(err), "got %v", err)
	})

	t.Run("delete removes ledger rows", func(t *testing.T) {
		pg.Reset(t)
		id := seedSession(t, pg.DB)
		svc := NewService(pg.DB)

		require.NoError(t, svc.Delete(ctx, tester, id))
		var count int64
		pg.DB.Model(&models.InventoryItem{}).Where("int_inv_id = ?", id).Count(&count)
		assert.Zero(t, count)

		assert.ErrorIs(t, svc.Delete(ctx, tester, id), ErrNotFound)
	})

	t.Run("ledger views", func(t *testing.T) {
		pg.Reset(t)
		id := seedSession(t, pg.DB)
		svc := NewService(pg.DB)

		rows, err := svc.ListItems(ctx, id)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "expected", rows[0].Classification)
		assert.Equal(t, "unclassified", rows[3].Classification)
		assert.Equal(t, "Sedia", *rows[0].Fld01)

		agg, err := svc.ListAggregated(ctx, id)
		require.NoError(t, err)
		require.Len(t, agg, 1)
		assert.Equal(t, AggregateRow{
			ProductID: strp("P1"), Fld01: strp("Sedia"),
			Total: 4, Expected: 1, Unexpected: 1, Lost: 1,
		}, agg[0])

		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(4), list[0].ItemCount)
		assert.Equal(t, "Magazzino", *list[0].PlaceName)
	})
}
