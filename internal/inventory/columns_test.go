package inventory

import (
	"testing"
	"time"

	"rfid-backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritableValues_DropsUnknownAndState(t *testing.T) {
	got := writableValues(map[string]any{
		"inv_name":     "A",
		"inv_state":    "CLOSE",
		"inv_id":       4,
		"inv_det_zone": "",
		"inv_note":     "",
	})
	assert.Equal(t, map[string]any{"inv_name": "A", "inv_det_zone": nil, "inv_note": ""}, got)
}

func TestApplyColumns(t *testing.T) {
	inv := models.Inventory{Name: "old", PlaceID: strPtr("WHS")}
	err := applyColumns(&inv, writableValues(map[string]any{
		"inv_name":       "  Marzo ",
		"inv_place_id":   "",
		"inv_start_date": "2026-03-01",
		"inv_chk_id":     "12",
		"inv_last":       "false",
		"inv_last_zones": "Z1; ;Z2;",
	}))
	require.NoError(t, err)

	assert.Equal(t, "Marzo", inv.Name)
	assert.Nil(t, inv.PlaceID)
	require.NotNil(t, inv.StartDate)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *inv.StartDate)
	require.NotNil(t, inv.ChecklistID)
	assert.Equal(t, uint(12), *inv.ChecklistID)
	assert.False(t, inv.FromStock)
	assert.Equal(t, "Z1;Z2", *inv.LastZones)
}

func TestApplyColumns_InvalidValues(t *testing.T) {
	for col, raw := range map[string]any{
		"inv_start_date": "01/03/2026",
		"inv_chk_id":     "abc",
		"inv_last":       "maybe",
		"inv_last_zones": []any{1.0},
	} {
		t.Run(col, func(t *testing.T) {
			var inv models.Inventory
			err := applyColumns(&inv, map[string]any{col: raw})
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestEnforceSource(t *testing.T) {
	chk := uint(5)

	fromStock := models.Inventory{FromStock: true, ChecklistID: &chk, LastPlace: strPtr("WHS"), LastZones: strPtr("Z1")}
	enforceSource(&fromStock)
	assert.Nil(t, fromStock.ChecklistID)
	assert.Equal(t, "WHS", *fromStock.LastPlace)

	fromChecklist := models.Inventory{ChecklistID: &chk, LastPlace: strPtr("WHS"), LastZones: strPtr("Z1")}
	enforceSource(&fromChecklist)
	assert.Equal(t, chk, *fromChecklist.ChecklistID)
	assert.Nil(t, fromChecklist.LastPlace)
	assert.Nil(t, fromChecklist.LastZones)
}

func strPtr(s string) *string { return &s }
