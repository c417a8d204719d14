// Package jsonfeed reads dashboard series out of an arbitrary JSON document
// using gjson paths, so exports from other tools can be charted without a
// conversion step.
package jsonfeed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"finboard/internal/core"
)

// Paths locates each series in the feed.
type Paths struct {
	CategoryLabels       string
	CategoryValues       string
	IncomeCategoryLabels string
	IncomeCategoryValues string
	Months               string
	Income               string
	Expense              string
}

// DefaultPaths matches the JSON encoding of core.Dashboard.
func DefaultPaths() Paths {
	return Paths{
		CategoryLabels:       "categories.labels",
		CategoryValues:       "categories.values",
		IncomeCategoryLabels: "income_categories.labels",
		IncomeCategoryValues: "income_categories.values",
		Months:               "monthly.months",
		Income:               "monthly.income",
		Expense:              "monthly.expense",
	}
}

// ParsePaths overrides DefaultPaths with a comma separated list of
// name=path pairs, e.g. "months=report.#.month,income=report.#.in".
func ParsePaths(raw string) (Paths, error) {
	p := DefaultPaths()
	fields := map[string]*string{
		"category_labels":        &p.CategoryLabels,
		"category_values":        &p.CategoryValues,
		"income_category_labels": &p.IncomeCategoryLabels,
		"income_category_values": &p.IncomeCategoryValues,
		"months":                 &p.Months,
		"income":                 &p.Income,
		"expense":                &p.Expense,
	}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, path, ok := strings.Cut(pair, "=")
		if !ok {
			return Paths{}, fmt.Errorf("feed path %q: want name=path", pair)
		}
		dst, known := fields[strings.TrimSpace(name)]
		if !known {
			return Paths{}, fmt.Errorf("feed path %q: unknown series %q", pair, name)
		}
		*dst = strings.TrimSpace(path)
	}
	return p, nil
}

// Reader re-reads the feed file on every call.
type Reader struct {
	path  string
	paths Paths
}

func New(path string, paths Paths) *Reader {
	return &Reader{path: path, paths: paths}
}

// ReadDashboard implements source.DashboardReader.
func (r *Reader) ReadDashboard(_ context.Context) (core.Dashboard, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return core.Dashboard{}, fmt.Errorf("read feed %s: %w", r.path, err)
	}
	return Decode(raw, r.paths)
}

// Decode extracts the series from a JSON document. Paths that match
// nothing yield empty series.
func Decode(raw []byte, p Paths) (core.Dashboard, error) {
	if !gjson.ValidBytes(raw) {
		return core.Dashboard{}, fmt.Errorf("feed is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	return core.Dashboard{
		Categories: core.Series{
			Labels: labels(doc, p.CategoryLabels),
			Values: values(doc, p.CategoryValues),
		},
		IncomeCategories: core.Series{
			Labels: labels(doc, p.IncomeCategoryLabels),
			Values: values(doc, p.IncomeCategoryValues),
		},
		Monthly: core.MonthlySeries{
			Months:  labels(doc, p.Months),
			Income:  values(doc, p.Income),
			Expense: values(doc, p.Expense),
		},
	}, nil
}

func labels(doc gjson.Result, path string) []string {
	if path == "" {
		return nil
	}
	items := doc.Get(path).Array()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.String())
	}
	return out
}

// values keeps numbers as float64 and everything else as decoded, leaving
// coercion to the normalizer.
func values(doc gjson.Result, path string) []any {
	if path == "" {
		return nil
	}
	items := doc.Get(path).Array()
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, it.Value())
	}
	return out
}
