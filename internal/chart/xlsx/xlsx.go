// Package xlsx renders chart configurations into an Excel workbook, one
// sheet per slot holding the series data and a native chart over it.
package xlsx

import (
	"fmt"
	"io"
	"sync"

	"github.com/xuri/excelize/v2"

	"finboard/internal/chart"
	"finboard/internal/view"
)

const defaultSheet = "Sheet1"

// Workbook implements chart.Renderer by accumulating sheets.
type Workbook struct {
	mu     sync.Mutex
	file   *excelize.File
	sheets []string
}

// NewWorkbook returns an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

// Sheets returns the names of rendered sheets in render order.
func (w *Workbook) Sheets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.sheets...)
}

// Render writes cfg into a sheet named after the target slot and marks the
// slot as drawn.
func (w *Workbook) Render(target *view.Element, cfg chart.Config) error {
	if target == nil {
		return fmt.Errorf("xlsx: nil target")
	}
	sheet := target.ID()
	if sheet == "" {
		return fmt.Errorf("xlsx: target has no id")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureSheet(sheet); err != nil {
		return err
	}
	rows, err := w.writeData(sheet, cfg)
	if err != nil {
		return err
	}
	if rows > 0 {
		if err := w.file.AddChart(sheet, "E2", w.chartFor(sheet, cfg, rows)); err != nil {
			return fmt.Errorf("xlsx: add chart to %s: %w", sheet, err)
		}
	}

	target.Append("span",
		view.Attr("class", "chart-sheet"),
		view.Attr("data-sheet", sheet),
	)
	return nil
}

func (w *Workbook) ensureSheet(sheet string) error {
	if idx, _ := w.file.GetSheetIndex(sheet); idx >= 0 {
		return nil
	}
	if len(w.sheets) == 0 {
		if err := w.file.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("xlsx: rename default sheet: %w", err)
		}
	} else if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx: create sheet %s: %w", sheet, err)
	}
	w.sheets = append(w.sheets, sheet)
	return nil
}

// writeData lays out labels in column A and one dataset per following
// column, returning the number of data rows.
func (w *Workbook) writeData(sheet string, cfg chart.Config) (int, error) {
	header := []interface{}{"Label"}
	for i, ds := range cfg.Data.Datasets {
		name := ds.Label
		if name == "" {
			name = fmt.Sprintf("Series %d", i+1)
		}
		header = append(header, name)
	}
	if err := w.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, fmt.Errorf("xlsx: write header: %w", err)
	}

	for i, label := range cfg.Data.Labels {
		row := []interface{}{label}
		for _, ds := range cfg.Data.Datasets {
			var v float64
			if i < len(ds.Data) {
				v = ds.Data[i]
			}
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err := w.file.SetSheetRow(sheet, cell, &row); err != nil {
			return 0, fmt.Errorf("xlsx: write row %d: %w", i+2, err)
		}
	}
	if err := w.file.SetColWidth(sheet, "A", "A", 20); err != nil {
		return 0, fmt.Errorf("xlsx: label column width: %w", err)
	}
	return len(cfg.Data.Labels), nil
}

func (w *Workbook) chartFor(sheet string, cfg chart.Config, rows int) *excelize.Chart {
	last := rows + 1
	categories := fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last)

	c := &excelize.Chart{
		Type:   excelize.Col,
		Legend: excelize.ChartLegend{Position: chart.LegendBottom},
		Title:  []excelize.RichTextRun{{Text: sheet}},
	}
	if cfg.Type == chart.TypePie {
		c.Type = excelize.Pie
	}
	for i, ds := range cfg.Data.Datasets {
		col, _ := excelize.ColumnNumberToName(i + 2)
		series := excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, col),
			Categories: categories,
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, col, col, last),
		}
		if cfg.Type == chart.TypeBar && len(ds.BackgroundColor) > 0 {
			series.Fill = excelize.Fill{Type: "pattern", Color: []string{ds.BackgroundColor[0]}, Pattern: 1}
		}
		c.Series = append(c.Series, series)
	}
	return c
}

// WriteTo writes the workbook in xlsx format.
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.WriteTo(out)
}

// Close releases the underlying workbook.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
