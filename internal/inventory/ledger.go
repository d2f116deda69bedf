package inventory

import (
	"context"
	"fmt"

	"rfid-backoffice/internal/models"
)

// LedgerRow: oturumdaki tek etiket, ürün bilgisi ve türetilmiş sınıfla.
type LedgerRow struct {
	EPC            string  `json:"EPC"`
	ProductID      *string `json:"Product ID"`
	Fld01          *string `json:"fld01"`
	Fld02          *string `json:"fld02"`
	Fld03          *string `json:"fld03"`
	Fldd01         *string `json:"fldd01"`
	Fldd02         *string `json:"fldd02"`
	Expected       bool    `json:"inv_expected"`
	Unexpected     bool    `json:"inv_unexpected"`
	Lost           bool    `json:"inv_lost"`
	Classification string  `gorm:"-" json:"classification"`
}

type AggregateRow struct {
	ProductID  *string `json:"Product ID"`
	Fld01      *string `json:"fld01"`
	Fld02      *string `json:"fld02"`
	Fld03      *string `json:"fld03"`
	Fldd01     *string `json:"fldd01"`
	Fldd02     *string `json:"fldd02"`
	Total      int64   `json:"Qty"`
	Expected   int64   `json:"Expected Qty"`
	Unexpected int64   `json:"Unexpected Qty"`
	Lost       int64   `json:"Lost Qty"`
}

const productColumns = "p.fld01, p.fld02, p.fld03, p.fldd01, p.fldd02"

func (s *Service) ListItems(ctx context.Context, sessionID uint) ([]LedgerRow, error) {
	var rows []LedgerRow
	err := s.db.WithContext(ctx).
		Table("inventory_items AS ii").
		Select(`ii.int_epc AS epc, it.item_product_id AS product_id, ` + productColumns + `,
			ii.inv_expected AS expected, ii.inv_unexpected AS unexpected, ii.inv_lost AS lost`).
		Joins(`LEFT JOIN "Items" AS it ON it.item_id = ii.int_epc`).
		Joins(`LEFT JOIN "Products" AS p ON p.product_id = it.item_product_id`).
		Where("ii.int_inv_id = ?", sessionID).
		Order("ii.int_epc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}

	for i := range rows {
		rows[i].Classification = models.InventoryItem{
			Expected:   rows[i].Expected,
			Unexpected: rows[i].Unexpected,
			Lost:       rows[i].Lost,
		}.Classification()
	}
	return rows, nil
}

func (s *Service) ListAggregated(ctx context.Context, sessionID uint) ([]AggregateRow, error) {
	var rows []AggregateRow
	err := s.db.WithContext(ctx).
		Table("inventory_items AS ii").
		Select(`it.item_product_id AS product_id, ` + productColumns + `,
			COUNT(ii.int_epc) AS total,
			SUM(CASE WHEN ii.inv_expected THEN 1 ELSE 0 END) AS expected,
			SUM(CASE WHEN ii.inv_unexpected THEN 1 ELSE 0 END) AS unexpected,
			SUM(CASE WHEN ii.inv_lost THEN 1 ELSE 0 END) AS lost`).
		Joins(`LEFT JOIN "Items" AS it ON it.item_id = ii.int_epc`).
		Joins(`LEFT JOIN "Products" AS p ON p.product_id = it.item_product_id`).
		Where("ii.int_inv_id = ?", sessionID).
		Group("it.item_product_id, " + productColumns).
		Order("it.item_product_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate inventory items: %w", err)
	}
	return rows, nil
}
