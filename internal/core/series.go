// Package core holds the dashboard data model and the numeric normalizer
// that turns heterogeneous scalar input into chartable numbers.
package core

// Series pairs category labels with raw values by index.
//
// Values may hold numbers, numeric strings or anything else a decoder
// produced (nil, bools, nested objects). Labels and Values are expected to
// have the same length; nothing here validates that.
type Series struct {
	Labels []string `json:"labels" yaml:"labels"`
	Values []any    `json:"values" yaml:"values"`
}

// MonthlySeries carries the income and expense values for each month label.
type MonthlySeries struct {
	Months  []string `json:"months" yaml:"months"`
	Income  []any    `json:"income" yaml:"income"`
	Expense []any    `json:"expense" yaml:"expense"`
}

// Dashboard is the full set of already-aggregated series the dashboard draws.
type Dashboard struct {
	Categories       Series        `json:"categories" yaml:"categories"`
	IncomeCategories Series        `json:"income_categories" yaml:"income_categories"`
	Monthly          MonthlySeries `json:"monthly" yaml:"monthly"`
}

// IsEmpty reports whether no series carries any label.
func (d Dashboard) IsEmpty() bool {
	return len(d.Categories.Labels) == 0 &&
		len(d.IncomeCategories.Labels) == 0 &&
		len(d.Monthly.Months) == 0
}

// Clone returns a deep copy of the label and value slices so callers can
// hand the result out without sharing backing arrays.
func (d Dashboard) Clone() Dashboard {
	return Dashboard{
		Categories:       d.Categories.clone(),
		IncomeCategories: d.IncomeCategories.clone(),
		Monthly: MonthlySeries{
			Months:  append([]string(nil), d.Monthly.Months...),
			Income:  append([]any(nil), d.Monthly.Income...),
			Expense: append([]any(nil), d.Monthly.Expense...),
		},
	}
}

func (s Series) clone() Series {
	return Series{
		Labels: append([]string(nil), s.Labels...),
		Values: append([]any(nil), s.Values...),
	}
}
