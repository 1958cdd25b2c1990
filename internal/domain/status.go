package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CoverDisplayCap is the weeks of cover above which figures are shown as "52+".
const CoverDisplayCap = 52

// Cover is a weeks-of-cover figure. Infinite is set when there were no
// recent sales to divide by; Weeks is then meaningless and left at zero.
type Cover struct {
	Weeks    float64
	Infinite bool
}

// FiniteCover wraps a computed weeks value.
func FiniteCover(weeks float64) Cover {
	return Cover{Weeks: weeks}
}

// InfiniteCover is the "no recent sales" cover.
func InfiniteCover() Cover {
	return Cover{Infinite: true}
}

// Exceeds reports whether the cover is strictly above limit weeks.
func (c Cover) Exceeds(limit float64) bool {
	return c.Infinite || c.Weeks > limit
}

// Below reports whether the cover is strictly under limit weeks.
func (c Cover) Below(limit float64) bool {
	return !c.Infinite && c.Weeks < limit
}

// Display renders the cover for people, capping at 52+ weeks.
func (c Cover) Display() string {
	if c.Infinite || c.Weeks >= CoverDisplayCap {
		return fmt.Sprintf("%d+", CoverDisplayCap)
	}
	return fmt.Sprintf("%.1f", c.Weeks)
}

func (c Cover) String() string {
	return c.Display()
}

func (c Cover) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Weeks    float64 `json:"weeks"`
		Infinite bool    `json:"infinite"`
		Display  string  `json:"display"`
	}{
		Weeks:    c.Weeks,
		Infinite: c.Infinite,
		Display:  c.Display(),
	})
}

func (c *Cover) UnmarshalJSON(data []byte) error {
	var raw struct {
		Weeks    float64 `json:"weeks"`
		Infinite bool    `json:"infinite"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Weeks = raw.Weeks
	c.Infinite = raw.Infinite
	return nil
}

// CoverStatus classifies current cover against the benchmark target.
type CoverStatus string

const (
	StatusOverstocked  CoverStatus = "overstocked"
	StatusUnderstocked CoverStatus = "understocked"
	StatusOnTarget     CoverStatus = "on_target"
)

var coverStatusLabels = map[CoverStatus]string{
	StatusOverstocked:  "Overstocked",
	StatusUnderstocked: "Understocked",
	StatusOnTarget:     "On Target",
}

// Label returns a human-readable label for the status.
func (s CoverStatus) Label() string {
	if label, ok := coverStatusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// ActionKind is the trigger behind an action item.
type ActionKind string

const (
	ActionClearance    ActionKind = "clearance"
	ActionRestock      ActionKind = "restock"
	ActionMarginReview ActionKind = "margin_review"
)

var actionKindLabels = map[ActionKind]string{
	ActionClearance:    "Cash Flow",
	ActionRestock:      "Best Seller",
	ActionMarginReview: "Profit",
}

var actionKindCodes = map[string]ActionKind{
	"clearance":     ActionClearance,
	"restock":       ActionRestock,
	"margin_review": ActionMarginReview,
	"review":        ActionMarginReview,
}

// Label returns the badge shown next to an action item.
func (k ActionKind) Label() string {
	if label, ok := actionKindLabels[k]; ok {
		return label
	}
	return "Other"
}

// ParseActionKind returns the kind for a given code (case-insensitive).
func ParseActionKind(code string) (ActionKind, bool) {
	kind, ok := actionKindCodes[strings.ToLower(strings.TrimSpace(code))]
	return kind, ok
}

// Severity orders action items for attention.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)
