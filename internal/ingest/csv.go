package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockroom/pkg/logger"

	"github.com/andresuchdata/stockroom/internal/domain"
)

// ExportFileName is the download name for CSV exports.
const ExportFileName = "stock_room_inventory.csv"

// Header is the column contract shared by CSV and XLSX files.
var Header = []string{"Product Name", "Category", "Supplier", "Cost Price", "Selling Price", "Current Stock", "Sales (30d)"}

// Batch is the outcome of reading an import file. Products carry no ids;
// the inventory store assigns them.
type Batch struct {
	Products []domain.Product
	Skipped  int
}

// ReadCSV parses a stock room CSV. The first record is a header and is
// always dropped. Rows with fewer than two columns and rows the CSV reader
// rejects are skipped rather than failing the whole import.
func ReadCSV(r io.Reader) (Batch, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	batch := Batch{Products: make([]domain.Product, 0)}
	line := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return batch, fmt.Errorf("failed to read csv: %w", err)
			}
			if line > 1 {
				batch.Skipped++
				logger.Log.Debug().Err(err).Int("line", parseErr.Line).Msg("Skipping malformed csv row")
			}
			continue
		}

		if line == 1 {
			continue
		}

		p, ok := productFromRow(record)
		if !ok {
			batch.Skipped++
			continue
		}
		batch.Products = append(batch.Products, p)
	}

	return batch, nil
}

// WriteCSV writes products with the export header. Text columns are always
// quoted so names containing commas survive a round trip; numbers are
// written in their shortest exact form.
func WriteCSV(w io.Writer, products []domain.Product) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(Header, ",")); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, p := range products {
		row := strings.Join([]string{
			quote(p.Name),
			quote(p.Category),
			quote(p.Supplier),
			formatNumber(p.Cost),
			formatNumber(p.RRP),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.SalesLastMonth),
		}, ",")

		if _, err := bw.WriteString("\n" + row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", p.Name, err)
		}
	}

	return bw.Flush()
}

// productFromRow maps one data row onto a product. Column order is
// name, category, supplier, cost, rrp, stock, salesLastMonth.
func productFromRow(cols []string) (domain.Product, bool) {
	if len(cols) < 2 {
		return domain.Product{}, false
	}

	name := strings.TrimSpace(column(cols, 0))
	if name == "" {
		name = domain.UnknownItemName
	}

	category := strings.TrimSpace(column(cols, 1))
	if category == "" {
		category = domain.DefaultCategory
	}

	return domain.Product{
		Name:           name,
		Category:       category,
		Supplier:       strings.TrimSpace(column(cols, 2)),
		Cost:           ParseNonNegativeNumber(column(cols, 3), 0),
		RRP:            ParseNonNegativeNumber(column(cols, 4), 0),
		Stock:          ParseNonNegativeInt(column(cols, 5), 0),
		SalesLastMonth: ParseNonNegativeInt(column(cols, 6), 0),
	}, true
}

func column(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
