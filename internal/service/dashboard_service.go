package service

import (
	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/inventory"
	"github.com/andresuchdata/stockroom/internal/merch"
)

// DashboardService runs the calculation engine over store snapshots. Every
// call recomputes from the current products; nothing is cached.
type DashboardService struct {
	store *inventory.Store
	calc  *merch.Calculator
}

func NewDashboardService(store *inventory.Store, calc *merch.Calculator) *DashboardService {
	if calc == nil {
		calc = merch.DefaultCalculator
	}
	return &DashboardService{store: store, calc: calc}
}

func (s *DashboardService) Overview() domain.ShopOverview {
	return s.calc.Overview(s.store.Snapshot())
}

func (s *DashboardService) Categories() []domain.CategoryAggregate {
	return s.calc.AggregateByCategory(s.store.Snapshot())
}

func (s *DashboardService) Budget() domain.Budget {
	return s.calc.Budget(s.store.Snapshot())
}

func (s *DashboardService) ProductPlans() []domain.Plan {
	return s.calc.PlanProducts(s.store.Snapshot())
}

func (s *DashboardService) ProductPlan(id string) (domain.Plan, error) {
	p, err := s.store.Get(id)
	if err != nil {
		return domain.Plan{}, err
	}
	return s.calc.PlanProduct(p), nil
}

func (s *DashboardService) CategoryPlans() []domain.Plan {
	return s.calc.PlanCategories(s.store.Snapshot())
}

// Actions lists the action items, optionally only those of one kind.
func (s *DashboardService) Actions(kind domain.ActionKind) []domain.ActionItem {
	all := merch.ClassifyActions(s.store.Snapshot())
	if kind == "" {
		return all
	}

	filtered := make([]domain.ActionItem, 0, len(all))
	for _, a := range all {
		if a.Kind == kind {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func (s *DashboardService) Action(id string) (domain.ActionItem, error) {
	item, ok := merch.FindAction(merch.ClassifyActions(s.store.Snapshot()), id)
	if !ok {
		return domain.ActionItem{}, ErrActionNotFound
	}
	return item, nil
}
