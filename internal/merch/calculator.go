package merch

import (
	"github.com/andresuchdata/stockroom/internal/domain"
)

// Calculator computes merchandise planning metrics against a benchmark table.
// It holds no state between calls; every method works on the slice it is given.
type Calculator struct {
	benchmarks BenchmarkTable
}

// NewCalculator creates a new calculator
func NewCalculator(benchmarks BenchmarkTable) *Calculator {
	return &Calculator{benchmarks: benchmarks}
}

// DefaultCalculator uses DefaultBenchmarks.
var DefaultCalculator = NewCalculator(DefaultBenchmarks)

// TargetWeeksCover returns the benchmark for a category.
func (c *Calculator) TargetWeeksCover(category string) int {
	return c.benchmarks.TargetWeeksCover(category)
}

// Stats computes the headline figures for the whole shop
func (c *Calculator) Stats(products []domain.Product) domain.ShopStats {
	stats := domain.ShopStats{ProductCount: len(products)}

	var marginSum float64
	for _, p := range products {
		stats.TotalStockValue += p.StockValue()
		stats.TotalSalesValue += p.SalesValue()
		stats.TotalStockUnits += p.Stock
		stats.TotalSalesUnits += p.SalesLastMonth
		marginSum += MarginPercent(p.Cost, p.RRP)
	}

	if len(products) > 0 {
		stats.AverageMargin = marginSum / float64(len(products))
	}

	weeklyUnits := float64(stats.TotalSalesUnits) / weeksPerMonth
	stats.UnitCover = coverWeeks(float64(stats.TotalStockUnits), weeklyUnits)

	return stats
}

// Budget computes the whole-shop buying budget.
// The open-to-buy figure compares the summed category targets with the
// cash currently tied up in stock; the intake requirement sums the
// per-product projections.
func (c *Calculator) Budget(products []domain.Product) domain.Budget {
	return c.budget(products, c.AggregateByCategory(products))
}

func (c *Calculator) budget(products []domain.Product, categories []domain.CategoryAggregate) domain.Budget {
	var budget domain.Budget
	for _, cat := range categories {
		budget.TargetStockValue += cat.TargetStockValue
	}
	for _, p := range products {
		budget.CurrentStockValue += p.StockValue()
		budget.IntakeRequirement += c.PlanProduct(p).IntakeRequirement
	}
	budget.OpenToBuy = nonNegative(budget.TargetStockValue - budget.CurrentStockValue)
	return budget
}

// Overview computes stats, budget and category aggregates in one pass
func (c *Calculator) Overview(products []domain.Product) domain.ShopOverview {
	categories := c.AggregateByCategory(products)
	return domain.ShopOverview{
		Stats:      c.Stats(products),
		Budget:     c.budget(products, categories),
		Categories: categories,
	}
}
