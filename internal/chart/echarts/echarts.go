// Package echarts renders chart configurations as standalone ECharts pages.
// Pages are used for the per-slot HTML export, for PNG snapshots and,
// embedded through an iframe, as an alternative in-page renderer.
package echarts

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"finboard/internal/chart"
	"finboard/internal/view"
)

const (
	defaultWidth  = "900px"
	defaultHeight = "420px"
)

// Renderer implements chart.Renderer by embedding an ECharts page into the
// slot as an iframe.
type Renderer struct {
	Width  string
	Height string
	Dark   bool
	Title  string
}

// New returns a renderer with default dimensions.
func New(dark bool) *Renderer {
	return &Renderer{Width: defaultWidth, Height: defaultHeight, Dark: dark}
}

// Render appends an iframe holding the rendered page to target.
func (r *Renderer) Render(target *view.Element, cfg chart.Config) error {
	if target == nil {
		return fmt.Errorf("echarts: nil target")
	}
	var buf bytes.Buffer
	if err := r.WritePage(&buf, cfg); err != nil {
		return err
	}
	target.Append("iframe",
		view.Attr("class", "chart-frame"),
		view.Attr("data-chart-type", string(cfg.Type)),
		view.Attr("title", target.ID()),
		view.Attr("srcdoc", buf.String()),
	)
	return nil
}

// WritePage writes a complete HTML page for cfg.
func (r *Renderer) WritePage(w io.Writer, cfg chart.Config) error {
	switch cfg.Type {
	case chart.TypePie:
		return r.pie(cfg).Render(w)
	case chart.TypeBar:
		return r.bar(cfg).Render(w)
	default:
		return fmt.Errorf("echarts: unsupported chart type %q", cfg.Type)
	}
}

func (r *Renderer) init() opts.Initialization {
	theme := types.ThemeWesteros
	if r.Dark {
		theme = types.ThemeChalk
	}
	width, height := r.Width, r.Height
	if width == "" {
		width = defaultWidth
	}
	if height == "" {
		height = defaultHeight
	}
	return opts.Initialization{
		PageTitle: r.pageTitle(),
		Theme:     theme,
		Width:     width,
		Height:    height,
	}
}

func (r *Renderer) pageTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return "finboard"
}

func legend() opts.Legend {
	return opts.Legend{Show: opts.Bool(true), Bottom: "0"}
}

func (r *Renderer) pie(cfg chart.Config) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(r.init()),
		charts.WithLegendOpts(legend()),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)

	var values []float64
	var colors []string
	if len(cfg.Data.Datasets) > 0 {
		values = cfg.Data.Datasets[0].Data
		colors = cfg.Data.Datasets[0].BackgroundColor
	}
	items := make([]opts.PieData, 0, len(cfg.Data.Labels))
	for i, label := range cfg.Data.Labels {
		item := opts.PieData{Name: label}
		if i < len(values) {
			item.Value = values[i]
		}
		if len(colors) > 0 {
			item.ItemStyle = &opts.ItemStyle{Color: colors[i%len(colors)]}
		}
		items = append(items, item)
	}
	pie.AddSeries(r.pageTitle(), items, charts.WithPieChartOpts(opts.PieChart{Radius: "65%"}))
	return pie
}

func (r *Renderer) bar(cfg chart.Config) *charts.Bar {
	bar := charts.NewBar()
	yAxis := opts.YAxis{Type: "value"}
	if cfg.Options.Scales != nil && cfg.Options.Scales.Y.BeginAtZero {
		yAxis.Min = 0
	}
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(r.init()),
		charts.WithLegendOpts(legend()),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(yAxis),
	)
	bar.SetXAxis(cfg.Data.Labels)
	for _, ds := range cfg.Data.Datasets {
		items := make([]opts.BarData, len(ds.Data))
		for i, v := range ds.Data {
			items[i] = opts.BarData{Value: v}
		}
		var seriesOpts []charts.SeriesOpts
		if len(ds.BackgroundColor) > 0 {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.BackgroundColor[0]}))
		}
		bar.AddSeries(ds.Label, items, seriesOpts...)
	}
	return bar
}
