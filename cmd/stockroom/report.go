package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/merch"
)

func runReport(c *cli.Context) error {
	application, err := appFrom(c)
	if err != nil {
		return err
	}
	return writeReport(c.App.Writer, application.Dashboard.Overview())
}

func runActions(c *cli.Context) error {
	application, err := appFrom(c)
	if err != nil {
		return err
	}

	var kind domain.ActionKind
	if raw := c.String("kind"); raw != "" {
		parsed, ok := domain.ParseActionKind(raw)
		if !ok {
			return fmt.Errorf("unknown action kind %q", raw)
		}
		kind = parsed
	}

	return writeActions(c.App.Writer, application.Dashboard.Actions(kind))
}

func runPlan(c *cli.Context) error {
	application, err := appFrom(c)
	if err != nil {
		return err
	}

	plans := application.Dashboard.CategoryPlans()
	if c.Bool("products") {
		plans = application.Dashboard.ProductPlans()
	}
	return writePlans(c.App.Writer, plans)
}

func writeReport(w io.Writer, overview domain.ShopOverview) error {
	stats := overview.Stats
	fmt.Fprintln(w, "SHOP PULSE CHECK")
	fmt.Fprintf(w, "  Products:        %d\n", stats.ProductCount)
	fmt.Fprintf(w, "  Stock value:     %s\n", merch.FormatCurrency(stats.TotalStockValue, 2))
	fmt.Fprintf(w, "  Sales (month):   %s\n", merch.FormatCurrency(stats.TotalSalesValue, 2))
	fmt.Fprintf(w, "  Weeks of stock:  %s\n", stats.UnitCover.Display())
	fmt.Fprintf(w, "  Average margin:  %s\n", merch.FormatPercent(stats.AverageMargin))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tITEMS\tSALES\tSTOCK\tMARGIN\tTARGET WKS\tTARGET STOCK")
	for _, cat := range overview.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\t%s\n",
			cat.Name,
			cat.ProductCount,
			merch.FormatCurrency(cat.SalesValue, 0),
			merch.FormatCurrency(cat.StockValue, 0),
			merch.FormatPercent(cat.AverageMargin),
			cat.TargetWeeksCover,
			merch.FormatCurrency(cat.TargetStockValue, 0),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	budget := overview.Budget
	fmt.Fprintln(w, "BUYING BUDGET")
	fmt.Fprintf(w, "  Target stock:    %s\n", merch.FormatCurrency(budget.TargetStockValue, 2))
	fmt.Fprintf(w, "  Current stock:   %s\n", merch.FormatCurrency(budget.CurrentStockValue, 2))
	fmt.Fprintf(w, "  Open to buy:     %s\n", merch.FormatCurrency(budget.OpenToBuy, 2))
	_, err := fmt.Fprintf(w, "  Intake needed:   %s\n", merch.FormatCurrency(budget.IntakeRequirement, 2))
	return err
}

func writeActions(w io.Writer, items []domain.ActionItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Nothing needs attention this week.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tSEVERITY\tTITLE\tDETAIL")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Label, item.Severity, item.Title, item.Description)
	}
	return tw.Flush()
}

func writePlans(w io.Writer, plans []domain.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SUBJECT\tCOVER\tTARGET WKS\tCLOSING 4WK\tINTAKE\tUNITS\tSTATUS")
	for _, plan := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%d\t%s\n",
			plan.Subject,
			plan.CurrentCover.Display(),
			plan.TargetWeeksCover,
			merch.FormatCurrency(plan.ProjectedClosingStockValue, 0),
			merch.FormatCurrency(plan.IntakeRequirement, 0),
			plan.IntakeRequirementUnits,
			plan.Status.Label(),
		)
	}
	return tw.Flush()
}
