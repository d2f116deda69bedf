package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/models"
)

// Yazılabilir kolonlar. inv_state bilerek yok: sadece kapanış değiştirir.
var writableColumns = []string{
	"inv_name",
	"inv_start_date",
	"inv_place_id",
	"inv_note",
	"inv_chk_id",
	"inv_last",
	"inv_last_place",
	"inv_last_zones",
	"inv_det_place",
	"inv_det_zone",
	"inv_mis_place",
	"inv_mis_zone",
}

// Boş string'in NULL'a çevrileceği referans kolonları
var referenceColumns = []string{
	"inv_place_id",
	"inv_chk_id",
	"inv_last_place",
	"inv_last_zones",
	"inv_det_place",
	"inv_det_zone",
	"inv_mis_place",
	"inv_mis_zone",
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

func isWritable(col string) bool {
	for _, c := range writableColumns {
		if c == col {
			return true
		}
	}
	return false
}

// writableValues keeps only the recognized columns and normalizes references.
func writableValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if isWritable(k) {
			out[k] = v
		}
	}
	database.NullRefs(out, referenceColumns...)
	return out
}

// applyColumns writes normalized values onto inv.
func applyColumns(inv *models.Inventory, values map[string]any) error {
	for col, raw := range values {
		switch col {
		case "inv_name":
			s, err := textValue(col, raw)
			if err != nil {
				return err
			}
			inv.Name = strings.TrimSpace(s)
		case "inv_note":
			s, err := textValue(col, raw)
			if err != nil {
				return err
			}
			if s == "" {
				inv.Note = nil
			} else {
				inv.Note = &s
			}
		case "inv_start_date":
			t, err := dateValue(col, raw)
			if err != nil {
				return err
			}
			inv.StartDate = t
		case "inv_chk_id":
			id, err := database.RefUint(raw)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidValue, col, err)
			}
			inv.ChecklistID = id
		case "inv_last":
			b, err := boolValue(col, raw)
			if err != nil {
				return err
			}
			inv.FromStock = b
		case "inv_last_zones":
			z, err := zonesValue(col, raw)
			if err != nil {
				return err
			}
			inv.LastZones = z
		case "inv_place_id":
			inv.PlaceID = database.RefString(raw)
		case "inv_last_place":
			inv.LastPlace = database.RefString(raw)
		case "inv_det_place":
			inv.DetPlace = database.RefString(raw)
		case "inv_det_zone":
			inv.DetZone = database.RefString(raw)
		case "inv_mis_place":
			inv.MisPlace = database.RefString(raw)
		case "inv_mis_zone":
			inv.MisZone = database.RefString(raw)
		}
	}
	return nil
}

// enforceSource: checklist ve stok kaynağı birbirini dışlar.
func enforceSource(inv *models.Inventory) {
	if inv.FromStock {
		inv.ChecklistID = nil
		return
	}
	inv.LastPlace = nil
	inv.LastZones = nil
}

func textValue(col string, raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprint(v), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidValue, col)
}

func dateValue(col string, raw any) (*time.Time, error) {
	s, err := textValue(col, raw)
	if err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s: %q", ErrInvalidValue, col, s)
}

func boolValue(col string, raw any) (bool, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%w: %s: %q", ErrInvalidValue, col, v)
		}
		return b, nil
	}
	return false, fmt.Errorf("%w: %s", ErrInvalidValue, col)
}

// zonesValue accepts "Z1;Z2" or ["Z1","Z2"] and stores the joined, trimmed form.
func zonesValue(col string, raw any) (*string, error) {
	var parts []string
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		parts = strings.Split(v, models.ZoneSeparator)
	case []any:
		for _, z := range v {
			s, ok := z.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrInvalidValue, col)
			}
			parts = append(parts, s)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidValue, col)
	}

	zones := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			zones = append(zones, p)
		}
	}
	if len(zones) == 0 {
		return nil, nil
	}
	joined := strings.Join(zones, models.ZoneSeparator)
	return &joined, nil
}
