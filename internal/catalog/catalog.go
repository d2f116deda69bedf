// Package catalog serves the reference data around the inventory: places,
// zones, checklists, products with their labels, items, movements and users.
package catalog

import (
	"strings"

	"rfid-backoffice/internal/config"
)

func logError(funcName, context string, data any, err error) {
	config.LogError(config.GetLogger(), "catalog", funcName, context, data, err)
}

func trim(s string) string { return strings.TrimSpace(s) }
