package inventory

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Inventario"

var aggregateHeaders = []string{
	"Product ID", "fld01", "fld02", "fld03", "fldd01", "fldd02",
	"Qty", "Expected Qty", "Unexpected Qty", "Lost Qty",
}

// ExportAggregated writes the aggregated view of a session as an xlsx workbook.
func (s *Service) ExportAggregated(ctx context.Context, sessionID uint, w io.Writer) error {
	rows, err := s.ListAggregated(ctx, sessionID)
	if err != nil {
		return err
	}
	return writeAggregateWorkbook(w, rows)
}

func writeAggregateWorkbook(w io.Writer, rows []AggregateRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	for i, h := range aggregateHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range rows {
		values := []any{
			deref(row.ProductID), deref(row.Fld01), deref(row.Fld02), deref(row.Fld03),
			deref(row.Fldd01), deref(row.Fldd02),
			row.Total, row.Expected, row.Unexpected, row.Lost,
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("excel satırı yazılamadı: %w", err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
