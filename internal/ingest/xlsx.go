package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/stockroom/internal/domain"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Stock Room"

// ReadXLSX parses the first sheet of a workbook with the same column
// contract as ReadCSV.
func ReadXLSX(r io.Reader) (Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Batch{}, fmt.Errorf("xlsx has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return Batch{}, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	batch := Batch{Products: make([]domain.Product, 0)}
	header := true

	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return batch, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}
		if isBlank(record) {
			continue
		}
		if header {
			header = false
			continue
		}

		p, ok := productFromRow(record)
		if !ok {
			batch.Skipped++
			continue
		}
		batch.Products = append(batch.Products, p)
	}

	if err := rows.Error(); err != nil {
		return batch, fmt.Errorf("error iterating rows in sheet %s: %w", sheet, err)
	}

	return batch, nil
}

// WriteXLSX writes products to a single "Stock Room" sheet.
func WriteXLSX(w io.Writer, products []domain.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{p.Name, p.Category, p.Supplier, p.Cost, p.RRP, p.Stock, p.SalesLastMonth}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write xlsx row for %s: %w", p.Name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func isBlank(record []string) bool {
	for _, c := range record {
		if c != "" {
			return false
		}
	}
	return true
}
