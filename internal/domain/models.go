// internal/domain/models.go
package domain

const (
	// DefaultCategory is applied to new items entered without a category.
	DefaultCategory = "General"
	// UncategorizedCategory groups items with no category during aggregation.
	UncategorizedCategory = "Uncategorized"
	// UnknownItemName is used for imported rows with a blank name column.
	UnknownItemName = "Unknown Item"
)

// Product represents a single stock room line
type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name" validate:"required"`
	Category        string  `json:"category"`
	Supplier        string  `json:"supplier"`
	Cost            float64 `json:"cost" validate:"gte=0"`
	RRP             float64 `json:"rrp" validate:"gte=0"`
	Stock           int     `json:"stock" validate:"gte=0"`
	SalesLastMonth  int     `json:"sales_last_month" validate:"gte=0"`
	SalesHistorical int     `json:"sales_hist" validate:"gte=0"`
}

// CategoryName returns the aggregation key for the product.
func (p Product) CategoryName() string {
	if p.Category == "" {
		return UncategorizedCategory
	}
	return p.Category
}

// StockValue is the cash tied up in the line, valued at cost.
func (p Product) StockValue() float64 {
	return float64(p.Stock) * p.Cost
}

// SalesValue is the trailing 30 day revenue at RRP.
func (p Product) SalesValue() float64 {
	return float64(p.SalesLastMonth) * p.RRP
}

// ProductInput is a manual entry payload. Numeric fields may arrive as
// JSON numbers or as strings typed into a form.
type ProductInput struct {
	Name            string      `json:"name"`
	Category        string      `json:"category"`
	Supplier        string      `json:"supplier"`
	Cost            interface{} `json:"cost"`
	RRP             interface{} `json:"rrp"`
	Stock           interface{} `json:"stock"`
	SalesLastMonth  interface{} `json:"sales_last_month"`
	SalesHistorical interface{} `json:"sales_hist"`
}

// ImportResult summarises a bulk import
type ImportResult struct {
	Source   string `json:"source"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Replaced bool   `json:"replaced"`
}

// ArchiveResult describes an export written to object storage
type ArchiveResult struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
}
