package merch

import (
	"fmt"

	"github.com/andresuchdata/stockroom/internal/domain"
)

const (
	clearanceMinStock = 20
	clearanceMaxSales = 3

	restockMaxStock = 10
	restockMinSales = 10

	marginReviewMaxMargin = 40
	marginReviewMinSales  = 5
)

// ClassifyActions flags products needing attention. Every predicate is
// evaluated for every product, so one product can raise several items.
func ClassifyActions(products []domain.Product) []domain.ActionItem {
	list := make([]domain.ActionItem, 0)

	for _, p := range products {
		margin := MarginPercent(p.Cost, p.RRP)

		if p.Stock > clearanceMinStock && p.SalesLastMonth < clearanceMaxSales {
			list = append(list, newAction(p, margin, domain.ActionClearance, domain.SeverityHigh,
				"slow-",
				fmt.Sprintf("Clearance Opportunity: %s", p.Name),
				fmt.Sprintf("This item is taking up space. You have %d units but only sold %d recently. Let's turn this back into cash.",
					p.Stock, p.SalesLastMonth),
			))
		}

		if p.Stock < restockMaxStock && p.SalesLastMonth > restockMinSales {
			list = append(list, newAction(p, margin, domain.ActionRestock, domain.SeverityMedium,
				"reorder-",
				fmt.Sprintf("Restock Alert: %s", p.Name),
				fmt.Sprintf("This is a winner! Selling fast with only %d left. Don't run out of best sellers.", p.Stock),
			))
		}

		if margin < marginReviewMaxMargin && p.SalesLastMonth > marginReviewMinSales {
			list = append(list, newAction(p, margin, domain.ActionMarginReview, domain.SeverityLow,
				"margin-",
				fmt.Sprintf("Profit Check: %s", p.Name),
				fmt.Sprintf("You're only making %.0f%% margin on this. Can we increase the price slightly or ask the supplier for a deal?", margin),
			))
		}
	}

	return list
}

func newAction(p domain.Product, margin float64, kind domain.ActionKind, severity domain.Severity, idPrefix, title, desc string) domain.ActionItem {
	return domain.ActionItem{
		ID:          idPrefix + p.ID,
		Kind:        kind,
		Severity:    severity,
		Label:       kind.Label(),
		Title:       title,
		Description: desc,
		Margin:      margin,
		Product:     p,
	}
}

// FindAction returns the action with the given id from a classified list.
func FindAction(actions []domain.ActionItem, id string) (domain.ActionItem, bool) {
	for _, a := range actions {
		if a.ID == id {
			return a, true
		}
	}
	return domain.ActionItem{}, false
}
