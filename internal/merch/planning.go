package merch

import (
	"math"

	"github.com/andresuchdata/stockroom/internal/domain"
)

const (
	// weeksPerMonth converts trailing 30 day sales into a weekly rate.
	weeksPerMonth = 4
	// ForecastWeeks is the WSSI horizon.
	ForecastWeeks = 4

	overstockFactor  = 1.5
	understockFactor = 0.8
)

type planInput struct {
	subject     string
	productID   string
	category    string
	targetWeeks int
	weeklyUnits float64
	weeklyValue float64
	stockValue  float64
	stockUnits  int
}

// PlanProduct computes open-to-buy and the 4 week WSSI projection for one product.
// Inventory values use cost price, not RRP.
func (c *Calculator) PlanProduct(p domain.Product) domain.Plan {
	weeklyUnits := float64(p.SalesLastMonth) / weeksPerMonth

	return buildPlan(planInput{
		subject:     p.Name,
		productID:   p.ID,
		category:    p.CategoryName(),
		targetWeeks: c.benchmarks.TargetWeeksCover(p.Category),
		weeklyUnits: weeklyUnits,
		weeklyValue: weeklyUnits * p.Cost,
		stockValue:  p.StockValue(),
		stockUnits:  p.Stock,
	})
}

// PlanCategory computes the same projection from category-level velocity.
func (c *Calculator) PlanCategory(agg domain.CategoryAggregate) domain.Plan {
	return buildPlan(planInput{
		subject:     agg.Name,
		category:    agg.Name,
		targetWeeks: agg.TargetWeeksCover,
		weeklyUnits: float64(agg.SalesUnits) / weeksPerMonth,
		weeklyValue: agg.WeeklySalesValue,
		stockValue:  agg.StockValue,
		stockUnits:  agg.StockUnits,
	})
}

// PlanProducts plans every product in order.
func (c *Calculator) PlanProducts(products []domain.Product) []domain.Plan {
	plans := make([]domain.Plan, 0, len(products))
	for _, p := range products {
		plans = append(plans, c.PlanProduct(p))
	}
	return plans
}

// PlanCategories aggregates then plans every category.
func (c *Calculator) PlanCategories(products []domain.Product) []domain.Plan {
	categories := c.AggregateByCategory(products)
	plans := make([]domain.Plan, 0, len(categories))
	for _, agg := range categories {
		plans = append(plans, c.PlanCategory(agg))
	}
	return plans
}

func buildPlan(in planInput) domain.Plan {
	weeks := float64(in.targetWeeks)
	stockUnits := float64(in.stockUnits)

	plan := domain.Plan{
		Subject:          in.subject,
		ProductID:        in.productID,
		Category:         in.category,
		TargetWeeksCover: in.targetWeeks,

		WeeklySalesValue:      in.weeklyValue,
		StockValue:            in.stockValue,
		CurrentCover:          coverWeeks(in.stockValue, in.weeklyValue),
		TargetStockValue:      in.weeklyValue * weeks,
		ForecastSalesValue4wk: in.weeklyValue * ForecastWeeks,

		WeeklySalesUnits:      in.weeklyUnits,
		StockUnits:            in.stockUnits,
		CurrentCoverUnits:     coverWeeks(stockUnits, in.weeklyUnits),
		TargetStockUnits:      in.weeklyUnits * weeks,
		ForecastSalesUnits4wk: in.weeklyUnits * ForecastWeeks,
	}

	// 1. Closing stock after the forecast horizon, floored at zero
	plan.ProjectedClosingStockValue = nonNegative(in.stockValue - plan.ForecastSalesValue4wk)
	plan.ProjectedClosingStockUnits = nonNegative(stockUnits - plan.ForecastSalesUnits4wk)

	// 2. Open to buy: what lands stock back on target at the end of the horizon
	plan.IntakeRequirement = nonNegative(plan.TargetStockValue - plan.ProjectedClosingStockValue)
	plan.IntakeRequirementUnits = ceilUnits(nonNegative(plan.TargetStockUnits - plan.ProjectedClosingStockUnits))

	// 3. Status against the benchmark
	plan.Status = ClassifyCover(plan.CurrentCover, in.targetWeeks, in.stockValue > 0)

	// 4. Week by week run-down
	plan.Weeks = projectWeeks(in.stockValue, in.weeklyValue, stockUnits, in.weeklyUnits)

	return plan
}

// ClassifyCover compares current cover with the target. Infinite cover on
// an empty shelf has nothing tied up, so it counts as on target.
func ClassifyCover(cover domain.Cover, targetWeeks int, hasStock bool) domain.CoverStatus {
	if cover.Infinite && !hasStock {
		return domain.StatusOnTarget
	}

	target := float64(targetWeeks)
	switch {
	case cover.Exceeds(target * overstockFactor):
		return domain.StatusOverstocked
	case cover.Below(target * understockFactor):
		return domain.StatusUnderstocked
	default:
		return domain.StatusOnTarget
	}
}

func projectWeeks(stockValue, weeklyValue, stockUnits, weeklyUnits float64) []domain.WSSIWeek {
	rows := make([]domain.WSSIWeek, 0, ForecastWeeks)
	openValue, openUnits := stockValue, stockUnits

	for week := 1; week <= ForecastWeeks; week++ {
		row := domain.WSSIWeek{
			Week:              week,
			OpeningStockValue: openValue,
			SalesValue:        weeklyValue,
			ClosingStockValue: nonNegative(openValue - weeklyValue),
			OpeningStockUnits: openUnits,
			SalesUnits:        weeklyUnits,
			ClosingStockUnits: nonNegative(openUnits - weeklyUnits),
		}
		rows = append(rows, row)

		openValue, openUnits = row.ClosingStockValue, row.ClosingStockUnits
	}

	return rows
}

func coverWeeks(stock, weeklySales float64) domain.Cover {
	if weeklySales <= 0 {
		return domain.InfiniteCover()
	}
	return domain.FiniteCover(stock / weeklySales)
}

func nonNegative(v float64) float64 {
	return math.Max(0, v)
}

// ceilUnits rounds up to whole units, ignoring float noise below a millionth.
func ceilUnits(v float64) int {
	return int(math.Ceil(RoundFloat(v, 6)))
}
