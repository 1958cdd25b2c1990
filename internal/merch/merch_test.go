package merch

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/ingest"
)

func demoProducts() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Ceramic Vase - Blue", Category: "Homeware", Supplier: "Acme Ceramics", Cost: 8.50, RRP: 24.00, Stock: 45, SalesLastMonth: 4, SalesHistorical: 120},
		{ID: "2", Name: "Scented Candle - Fig", Category: "Gifts", Supplier: "Wax Works", Cost: 3.50, RRP: 12.00, Stock: 12, SalesLastMonth: 48, SalesHistorical: 500},
		{ID: "3", Name: "Linen Shirt - White", Category: "Clothing", Supplier: "Natural Fibres", Cost: 15.00, RRP: 45.00, Stock: 8, SalesLastMonth: 15, SalesHistorical: 200},
		{ID: "4", Name: "Oak Picture Frame", Category: "Homeware", Supplier: "Frame It", Cost: 6.00, RRP: 18.00, Stock: 60, SalesLastMonth: 2, SalesHistorical: 50},
		{ID: "5", Name: "Greeting Card - Bday", Category: "Gifts", Supplier: "Paper Dreams", Cost: 0.45, RRP: 2.95, Stock: 150, SalesLastMonth: 80, SalesHistorical: 1200},
	}
}

func TestTargetWeeksCover(t *testing.T) {
	cases := []struct {
		category string
		want     int
	}{
		{"", 10},
		{"   ", 10},
		{"Uncategorized", 10},
		{"Pet Food", 10},
		{"Fine Jewellery", 33},
		{"Smart Watch", 33},
		{"Homeware", 9},
		{"Gifts", 9},
		{"CLOTHING", 9},
		{"Outdoor Clothing", 9},
		{"Mens Shoes", 9},
		{"Sofa Beds", 12},
		{"Health & Beauty", 6},
		{"Sports", 8},
		{"Toys", 9},
		{"Books", 6},
		{"Stationery", 6},
		{"Electronics", 5},
		{"Tech Gadgets", 5},
		{"Garden Plants", 6},
	}

	for _, tc := range cases {
		t.Run(tc.category, func(t *testing.T) {
			assert.Equal(t, tc.want, TargetWeeksCover(tc.category))
		})
	}
}

func TestBenchmarkTableFirstMatchWins(t *testing.T) {
	table := NewBenchmarkTable(3, []Benchmark{
		{Keywords: []string{"candle"}, Weeks: 7},
		{Keywords: []string{"scented"}, Weeks: 20},
	})

	assert.Equal(t, 7, table.TargetWeeksCover("Scented Candles"))
	assert.Equal(t, 20, table.TargetWeeksCover("Scented Oils"))
	assert.Equal(t, 3, table.TargetWeeksCover("Soap"))
}

func TestMarginPercent(t *testing.T) {
	t.Run("zero rrp is zero margin", func(t *testing.T) {
		for _, cost := range []float64{0, 1, 8.5, 1000} {
			assert.Equal(t, 0.0, MarginPercent(cost, 0))
		}
	})

	t.Run("matches ex-VAT formula", func(t *testing.T) {
		for _, tc := range []struct{ cost, rrp float64 }{{8.5, 24}, {3.5, 12}, {0.45, 2.95}, {1, 1.5}, {30, 24}} {
			exVat := tc.rrp / 1.2
			want := (exVat - tc.cost) / exVat * 100
			assert.InDelta(t, want, MarginPercent(tc.cost, tc.rrp), 1e-9)
		}
	})

	t.Run("loss making is negative", func(t *testing.T) {
		assert.InDelta(t, -50.0, MarginPercent(30, 24), 1e-9)
	})

	assert.InDelta(t, 57.5, MarginPercent(8.5, 24), 1e-9)
}

func TestAggregateByCategory(t *testing.T) {
	products := append(demoProducts(), domain.Product{ID: "6", Name: "Mystery Box", Cost: 5, RRP: 12, Stock: 4, SalesLastMonth: 0})

	aggs := AggregateByCategory(products)
	require.Len(t, aggs, 4)

	names := []string{aggs[0].Name, aggs[1].Name, aggs[2].Name, aggs[3].Name}
	assert.Equal(t, []string{"Homeware", "Gifts", "Clothing", "Uncategorized"}, names)

	home := aggs[0]
	assert.Equal(t, 2, home.ProductCount)
	assert.InDelta(t, 132.0, home.SalesValue, 1e-9)
	assert.InDelta(t, 742.5, home.StockValue, 1e-9)
	assert.Equal(t, 6, home.SalesUnits)
	assert.Equal(t, 105, home.StockUnits)
	assert.InDelta(t, 46.0/6.0, home.AverageCost, 1e-9)
	assert.InDelta(t, 58.75, home.AverageMargin, 1e-9)
	assert.InDelta(t, 11.5, home.WeeklySalesValue, 1e-9)
	assert.Equal(t, 9, home.TargetWeeksCover)
	assert.InDelta(t, 103.5, home.TargetStockValue, 1e-9)

	uncategorized := aggs[3]
	assert.Equal(t, 10, uncategorized.TargetWeeksCover)
	assert.InDelta(t, 5.0, uncategorized.AverageCost, 1e-9)
	assert.Equal(t, 0.0, uncategorized.TargetStockValue)
}

func TestAggregateIsIdempotent(t *testing.T) {
	products := demoProducts()
	first := AggregateByCategory(products)
	second := AggregateByCategory(products)
	assert.Equal(t, first, second)

	calc := DefaultCalculator
	assert.Equal(t, calc.Overview(products), calc.Overview(products))
	assert.Equal(t, calc.PlanProducts(products), calc.PlanProducts(products))
	assert.Equal(t, demoProducts(), products, "inputs must not be mutated")
}

func TestPlanProductEndToEnd(t *testing.T) {
	p := domain.Product{ID: "1", Name: "Ceramic Vase - Blue", Category: "Homeware", Cost: 8.50, RRP: 24.00, Stock: 45, SalesLastMonth: 4}

	plan := DefaultCalculator.PlanProduct(p)

	assert.Equal(t, 9, plan.TargetWeeksCover)
	assert.InDelta(t, 8.5, plan.WeeklySalesValue, 1e-9)
	assert.InDelta(t, 382.5, plan.StockValue, 1e-9)
	assert.InDelta(t, 76.5, plan.TargetStockValue, 1e-9)
	assert.InDelta(t, 34.0, plan.ForecastSalesValue4wk, 1e-9)
	assert.InDelta(t, 348.5, plan.ProjectedClosingStockValue, 1e-9)
	assert.Equal(t, 0.0, plan.IntakeRequirement)
	assert.False(t, plan.CurrentCover.Infinite)
	assert.InDelta(t, 45.0, plan.CurrentCover.Weeks, 1e-9)
	assert.Equal(t, domain.StatusOverstocked, plan.Status)

	assert.InDelta(t, 1.0, plan.WeeklySalesUnits, 1e-9)
	assert.InDelta(t, 9.0, plan.TargetStockUnits, 1e-9)
	assert.InDelta(t, 41.0, plan.ProjectedClosingStockUnits, 1e-9)
	assert.Equal(t, 0, plan.IntakeRequirementUnits)

	require.Len(t, plan.Weeks, ForecastWeeks)
	assert.InDelta(t, 382.5, plan.Weeks[0].OpeningStockValue, 1e-9)
	assert.InDelta(t, 374.0, plan.Weeks[0].ClosingStockValue, 1e-9)
	assert.InDelta(t, plan.ProjectedClosingStockValue, plan.Weeks[3].ClosingStockValue, 1e-9)
	assert.InDelta(t, plan.ProjectedClosingStockUnits, plan.Weeks[3].ClosingStockUnits, 1e-9)
}

func TestPlanProductUnderstocked(t *testing.T) {
	p := domain.Product{ID: "3", Name: "Linen Shirt - White", Category: "Clothing", Cost: 15, RRP: 45, Stock: 8, SalesLastMonth: 15}

	plan := DefaultCalculator.PlanProduct(p)

	assert.InDelta(t, 56.25, plan.WeeklySalesValue, 1e-9)
	assert.InDelta(t, 506.25, plan.TargetStockValue, 1e-9)
	assert.InDelta(t, 225.0, plan.ForecastSalesValue4wk, 1e-9)
	assert.Equal(t, 0.0, plan.ProjectedClosingStockValue)
	assert.InDelta(t, 506.25, plan.IntakeRequirement, 1e-9)
	assert.Equal(t, 34, plan.IntakeRequirementUnits)
	assert.Equal(t, domain.StatusUnderstocked, plan.Status)
	assert.Equal(t, 0.0, plan.Weeks[3].ClosingStockValue)
}

func TestPlanProductWithoutSales(t *testing.T) {
	idle := DefaultCalculator.PlanProduct(domain.Product{ID: "x", Name: "Dusty Lamp", Cost: 2, RRP: 6, Stock: 10})
	assert.True(t, idle.CurrentCover.Infinite)
	assert.Equal(t, "52+", idle.CurrentCover.Display())
	assert.Equal(t, domain.StatusOverstocked, idle.Status)
	assert.Equal(t, 0.0, idle.IntakeRequirement)
	assert.Equal(t, 0, idle.IntakeRequirementUnits)

	empty := DefaultCalculator.PlanProduct(domain.Product{ID: "y", Name: "Ghost Line"})
	assert.True(t, empty.CurrentCover.Infinite)
	assert.Equal(t, domain.StatusOnTarget, empty.Status)
}

func TestIntakeNeverNegative(t *testing.T) {
	for _, stock := range []int{0, 1, 7, 40, 500} {
		for _, sales := range []int{0, 1, 3, 13, 90} {
			for _, cost := range []float64{0, 0.33, 9.99} {
				p := domain.Product{Name: "p", Category: "Toys", Cost: cost, RRP: cost * 2, Stock: stock, SalesLastMonth: sales}
				plan := DefaultCalculator.PlanProduct(p)
				assert.GreaterOrEqual(t, plan.IntakeRequirement, 0.0)
				assert.GreaterOrEqual(t, plan.IntakeRequirementUnits, 0)
				assert.GreaterOrEqual(t, plan.ProjectedClosingStockValue, 0.0)
			}
		}
	}
}

func TestClassifyCoverBoundaries(t *testing.T) {
	// target 10: overstock above 15, understock below 8
	assert.Equal(t, domain.StatusOnTarget, ClassifyCover(domain.FiniteCover(15), 10, true))
	assert.Equal(t, domain.StatusOverstocked, ClassifyCover(domain.FiniteCover(15.01), 10, true))
	assert.Equal(t, domain.StatusOnTarget, ClassifyCover(domain.FiniteCover(8), 10, true))
	assert.Equal(t, domain.StatusUnderstocked, ClassifyCover(domain.FiniteCover(7.99), 10, true))
	assert.Equal(t, domain.StatusOverstocked, ClassifyCover(domain.InfiniteCover(), 10, true))
}

func TestPlanCategoriesMatchesBudgetTarget(t *testing.T) {
	products := demoProducts()
	plans := DefaultCalculator.PlanCategories(products)
	require.Len(t, plans, 3)

	var target float64
	for _, plan := range plans {
		target += plan.TargetStockValue
	}
	assert.InDelta(t, DefaultCalculator.Budget(products).TargetStockValue, target, 1e-9)
}

func TestBudgetAndStats(t *testing.T) {
	products := demoProducts()

	budget := DefaultCalculator.Budget(products)
	assert.InDelta(t, 1068.75, budget.TargetStockValue, 1e-9)
	assert.InDelta(t, 972.0, budget.CurrentStockValue, 1e-9)
	assert.InDelta(t, 96.75, budget.OpenToBuy, 1e-9)
	assert.InDelta(t, 933.75, budget.IntakeRequirement, 1e-9)

	stats := DefaultCalculator.Stats(products)
	assert.Equal(t, 5, stats.ProductCount)
	assert.InDelta(t, 972.0, stats.TotalStockValue, 1e-9)
	assert.InDelta(t, 1619.0, stats.TotalSalesValue, 1e-9)
	assert.Equal(t, 275, stats.TotalStockUnits)
	assert.Equal(t, 149, stats.TotalSalesUnits)
	assert.InDelta(t, 275.0/37.25, stats.UnitCover.Weeks, 1e-9)

	overstocked := []domain.Product{{Name: "a", Category: "Toys", Cost: 10, Stock: 100, SalesLastMonth: 4}}
	assert.Equal(t, 0.0, DefaultCalculator.Budget(overstocked).OpenToBuy)
}

func TestStatsOnEmptyShop(t *testing.T) {
	stats := DefaultCalculator.Stats(nil)
	assert.Equal(t, 0, stats.ProductCount)
	assert.Equal(t, 0.0, stats.AverageMargin)
	assert.True(t, stats.UnitCover.Infinite)

	overview := DefaultCalculator.Overview(nil)
	assert.Empty(t, overview.Categories)
	assert.Equal(t, 0.0, overview.Budget.OpenToBuy)
}

func TestClassifyActions(t *testing.T) {
	t.Run("clearance only", func(t *testing.T) {
		p := domain.Product{ID: "9", Name: "Slow Mug", Stock: 25, SalesLastMonth: 1, Cost: 1, RRP: 1.5}
		actions := ClassifyActions([]domain.Product{p})
		require.Len(t, actions, 1)
		assert.Equal(t, domain.ActionClearance, actions[0].Kind)
		assert.Equal(t, domain.SeverityHigh, actions[0].Severity)
		assert.Equal(t, "slow-9", actions[0].ID)
		assert.Equal(t, "Clearance Opportunity: Slow Mug", actions[0].Title)
		assert.Contains(t, actions[0].Description, "You have 25 units but only sold 1 recently")
	})

	t.Run("predicates are independent", func(t *testing.T) {
		p := domain.Product{ID: "7", Name: "Cheap Seller", Stock: 5, SalesLastMonth: 20, Cost: 10, RRP: 12}
		actions := ClassifyActions([]domain.Product{p})
		require.Len(t, actions, 2)
		assert.Equal(t, domain.ActionRestock, actions[0].Kind)
		assert.Equal(t, "reorder-7", actions[0].ID)
		assert.Equal(t, domain.ActionMarginReview, actions[1].Kind)
		assert.Equal(t, "margin-7", actions[1].ID)
		assert.Equal(t, "Profit", actions[1].Label)
		assert.Contains(t, actions[1].Description, "only making 0% margin")
	})

	t.Run("thresholds are strict", func(t *testing.T) {
		edge := []domain.Product{
			{ID: "a", Name: "a", Stock: 20, SalesLastMonth: 2, Cost: 1, RRP: 10},
			{ID: "b", Name: "b", Stock: 10, SalesLastMonth: 11, Cost: 1, RRP: 10},
			{ID: "c", Name: "c", Stock: 50, SalesLastMonth: 5, Cost: 9, RRP: 10},
		}
		assert.Empty(t, ClassifyActions(edge))
	})

	t.Run("demo shop", func(t *testing.T) {
		actions := ClassifyActions(demoProducts())
		require.Len(t, actions, 2)
		assert.Equal(t, "reorder-3", actions[0].ID)
		assert.Equal(t, "slow-4", actions[1].ID)

		found, ok := FindAction(actions, "slow-4")
		require.True(t, ok)
		assert.Equal(t, "Oak Picture Frame", found.Product.Name)

		_, ok = FindAction(actions, "margin-1")
		assert.False(t, ok)
	})
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "£1,234.50", FormatCurrency(1234.5, 2))
	assert.Equal(t, "£1,000", FormatCurrency(1000, 0))
	assert.Equal(t, "-£12.30", FormatCurrency(-12.3, 2))
	assert.Equal(t, "£1,234,567.89", FormatCurrency(1234567.891, 2))
	assert.Equal(t, "£100,000,000,000,000,000.00", FormatCurrency(1e17, 2))
	assert.Equal(t, "-£100,000,000,000,000,000", FormatCurrency(-1e17, 0))
	assert.Equal(t, "58%", FormatPercent(57.5001))
	assert.Equal(t, 1.24, RoundFloat(1.2351, 2))

	assert.Equal(t, "45.0", domain.FiniteCover(45).Display())
	assert.Equal(t, "52+", domain.FiniteCover(52).Display())
	assert.Equal(t, "52+", domain.FiniteCover(300).Display())
	assert.Equal(t, "52+", domain.InfiniteCover().Display())
}

func TestHugeInputsStayFinite(t *testing.T) {
	p := domain.Product{
		ID:       "big",
		Name:     "Gold Bar",
		Category: "Jewellery",
		Cost:     ingest.ParseNonNegativeNumber("1e308", 0),
		RRP:      ingest.ParseNonNegativeNumber("1e308", 0),
		Stock:    ingest.ParseNonNegativeInt("1e308", 0),
	}

	overview := DefaultCalculator.Overview([]domain.Product{p})
	_, err := json.Marshal(overview)
	require.NoError(t, err)
	assert.False(t, math.IsInf(overview.Stats.TotalStockValue, 0))
	assert.NotContains(t, FormatCurrency(overview.Stats.TotalStockValue, 2), "-")
}
