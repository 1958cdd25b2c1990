package merch

import (
	"github.com/andresuchdata/stockroom/internal/domain"
)

type categoryTotals struct {
	count      int
	salesValue float64
	stockValue float64
	salesUnits int
	stockUnits int
	soldCost   float64 // sum of salesLastMonth * cost
	costSum    float64
	marginSum  float64
}

// AggregateByCategory groups products by category (blank categories fall
// under "Uncategorized"). Groups come back in order of first appearance.
func (c *Calculator) AggregateByCategory(products []domain.Product) []domain.CategoryAggregate {
	order := make([]string, 0)
	totals := make(map[string]*categoryTotals)

	for _, p := range products {
		name := p.CategoryName()
		t, ok := totals[name]
		if !ok {
			t = &categoryTotals{}
			totals[name] = t
			order = append(order, name)
		}

		t.count++
		t.salesValue += p.SalesValue()
		t.stockValue += p.StockValue()
		t.salesUnits += p.SalesLastMonth
		t.stockUnits += p.Stock
		t.soldCost += float64(p.SalesLastMonth) * p.Cost
		t.costSum += p.Cost
		t.marginSum += MarginPercent(p.Cost, p.RRP)
	}

	result := make([]domain.CategoryAggregate, 0, len(order))
	for _, name := range order {
		t := totals[name]
		weeks := c.benchmarks.TargetWeeksCover(name)

		avgCost := t.costSum / float64(t.count)
		if t.salesUnits > 0 {
			avgCost = t.soldCost / float64(t.salesUnits)
		}

		weeklySalesValue := t.soldCost / weeksPerMonth

		result = append(result, domain.CategoryAggregate{
			Name:             name,
			ProductCount:     t.count,
			SalesValue:       t.salesValue,
			StockValue:       t.stockValue,
			SalesUnits:       t.salesUnits,
			StockUnits:       t.stockUnits,
			AverageCost:      avgCost,
			AverageMargin:    t.marginSum / float64(t.count),
			WeeklySalesValue: weeklySalesValue,
			TargetWeeksCover: weeks,
			TargetStockValue: weeklySalesValue * float64(weeks),
		})
	}

	return result
}

// AggregateByCategory groups products using DefaultCalculator.
func AggregateByCategory(products []domain.Product) []domain.CategoryAggregate {
	return DefaultCalculator.AggregateByCategory(products)
}
