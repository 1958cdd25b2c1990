package domain

import "time"

// CategoryAggregate holds per-category totals for a single computation pass
type CategoryAggregate struct {
	Name             string  `json:"name"`
	ProductCount     int     `json:"product_count"`
	SalesValue       float64 `json:"sales_value"`
	StockValue       float64 `json:"stock_value"`
	SalesUnits       int     `json:"sales_units"`
	StockUnits       int     `json:"stock_units"`
	AverageCost      float64 `json:"average_cost"`   // sales-weighted, simple mean when nothing sold
	AverageMargin    float64 `json:"average_margin"` // unweighted mean of item margins
	WeeklySalesValue float64 `json:"weekly_sales_value"`
	TargetWeeksCover int     `json:"target_weeks_cover"`
	TargetStockValue float64 `json:"target_stock_value"`
}

// WSSIWeek is one row of the forward weekly sales, stock and intake view
type WSSIWeek struct {
	Week              int     `json:"week"`
	OpeningStockValue float64 `json:"opening_stock_value"`
	SalesValue        float64 `json:"sales_value"`
	ClosingStockValue float64 `json:"closing_stock_value"`
	OpeningStockUnits float64 `json:"opening_stock_units"`
	SalesUnits        float64 `json:"sales_units"`
	ClosingStockUnits float64 `json:"closing_stock_units"`
}

// Plan is the open-to-buy and WSSI projection for a product or a category
type Plan struct {
	Subject          string `json:"subject"`
	ProductID        string `json:"product_id,omitempty"`
	Category         string `json:"category"`
	TargetWeeksCover int    `json:"target_weeks_cover"`

	WeeklySalesValue           float64 `json:"weekly_sales_value"`
	StockValue                 float64 `json:"stock_value"`
	CurrentCover               Cover   `json:"current_cover"`
	TargetStockValue           float64 `json:"target_stock_value"`
	ForecastSalesValue4wk      float64 `json:"forecast_sales_value_4wk"`
	ProjectedClosingStockValue float64 `json:"projected_closing_stock_value"`
	IntakeRequirement          float64 `json:"intake_requirement"`

	WeeklySalesUnits           float64 `json:"weekly_sales_units"`
	StockUnits                 int     `json:"stock_units"`
	CurrentCoverUnits          Cover   `json:"current_cover_units"`
	TargetStockUnits           float64 `json:"target_stock_units"`
	ForecastSalesUnits4wk      float64 `json:"forecast_sales_units_4wk"`
	ProjectedClosingStockUnits float64 `json:"projected_closing_stock_units"`
	IntakeRequirementUnits     int     `json:"intake_requirement_units"`

	Status CoverStatus `json:"status"`
	Weeks  []WSSIWeek  `json:"weeks"`
}

// Budget is the whole-shop buying budget
type Budget struct {
	TargetStockValue  float64 `json:"target_stock_value"`
	CurrentStockValue float64 `json:"current_stock_value"`
	OpenToBuy         float64 `json:"open_to_buy"`        // max(0, target - current)
	IntakeRequirement float64 `json:"intake_requirement"` // sum of per-product intake
}

// ShopStats is the headline pulse check of the shop
type ShopStats struct {
	ProductCount    int     `json:"product_count"`
	TotalStockValue float64 `json:"total_stock_value"`
	TotalSalesValue float64 `json:"total_sales_value"`
	TotalStockUnits int     `json:"total_stock_units"`
	TotalSalesUnits int     `json:"total_sales_units"`
	UnitCover       Cover   `json:"unit_cover"`
	AverageMargin   float64 `json:"average_margin"`
}

// ShopOverview aggregates all dashboard data. It is also the context object
// handed to the advice generator, so it holds computed figures only.
type ShopOverview struct {
	Stats      ShopStats           `json:"stats"`
	Budget     Budget              `json:"budget"`
	Categories []CategoryAggregate `json:"categories"`
}

// ActionItem is a flagged product needing attention this week
type ActionItem struct {
	ID          string     `json:"id"`
	Kind        ActionKind `json:"kind"`
	Severity    Severity   `json:"severity"`
	Label       string     `json:"label"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Margin      float64    `json:"margin"`
	Product     Product    `json:"product"`
}

// Advice is a piece of generated mentoring text. Fallback marks the
// friendly stand-in shown when generation failed.
type Advice struct {
	Topic       string    `json:"topic"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	ActionID    string    `json:"action_id,omitempty"`
	ProductID   string    `json:"product_id,omitempty"`
	Fallback    bool      `json:"fallback"`
	Cached      bool      `json:"cached"`
	GeneratedAt time.Time `json:"generated_at"`
}
