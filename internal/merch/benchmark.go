package merch

import "strings"

// DefaultWeeksCover is used when a category matches no benchmark group.
const DefaultWeeksCover = 10

// Benchmark maps a group of category keywords to a target weeks of cover.
type Benchmark struct {
	Keywords []string
	Weeks    int
}

func (b Benchmark) matches(category string) bool {
	for _, kw := range b.Keywords {
		if strings.Contains(category, kw) {
			return true
		}
	}
	return false
}

// BenchmarkTable is an ordered list of benchmarks; the first match wins.
type BenchmarkTable struct {
	groups   []Benchmark
	fallback int
}

// NewBenchmarkTable builds a table evaluated top to bottom.
func NewBenchmarkTable(fallback int, groups []Benchmark) BenchmarkTable {
	return BenchmarkTable{
		groups:   append([]Benchmark(nil), groups...),
		fallback: fallback,
	}
}

// DefaultBenchmarks holds the retail category targets used by the dashboard.
var DefaultBenchmarks = NewBenchmarkTable(DefaultWeeksCover, []Benchmark{
	{Keywords: []string{"fashion", "clothing", "apparel"}, Weeks: 9},
	{Keywords: []string{"footwear", "shoe"}, Weeks: 9},
	{Keywords: []string{"jewel", "watch"}, Weeks: 33},
	{Keywords: []string{"furniture", "sofa", "bed"}, Weeks: 12},
	{Keywords: []string{"homeware", "gift"}, Weeks: 9},
	{Keywords: []string{"beauty", "health", "cosmetic"}, Weeks: 6},
	{Keywords: []string{"sport", "outdoor"}, Weeks: 8},
	{Keywords: []string{"toy", "game"}, Weeks: 9},
	{Keywords: []string{"book", "stationery"}, Weeks: 6},
	{Keywords: []string{"electr", "tech"}, Weeks: 5},
	{Keywords: []string{"garden", "plant"}, Weeks: 6},
})

// TargetWeeksCover returns the benchmark weeks of cover for a free-text
// category. Matching is a case-insensitive substring test.
func (t BenchmarkTable) TargetWeeksCover(category string) int {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return t.fallback
	}

	for _, group := range t.groups {
		if group.matches(normalized) {
			return group.Weeks
		}
	}

	return t.fallback
}

// TargetWeeksCover looks the category up in DefaultBenchmarks.
func TargetWeeksCover(category string) int {
	return DefaultBenchmarks.TargetWeeksCover(category)
}
