// Package chartjs renders chart configurations for the browser-side Chart.js
// loader: the configuration is embedded as JSON on a canvas inside the slot
// and /static/charts.js instantiates it on page load.
package chartjs

import (
	"fmt"

	"finboard/internal/chart"
	"finboard/internal/view"
)

// ConfigAttr is the canvas attribute carrying the encoded configuration.
const ConfigAttr = "data-chart"

// Renderer implements chart.Renderer for Chart.js.
type Renderer struct{}

// New returns a Chart.js renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render appends a canvas carrying cfg to target.
func (r *Renderer) Render(target *view.Element, cfg chart.Config) error {
	if target == nil {
		return fmt.Errorf("chartjs: nil target")
	}
	payload, err := cfg.JSON()
	if err != nil {
		return fmt.Errorf("chartjs: encode %s config: %w", cfg.Type, err)
	}
	target.Append("canvas",
		view.Attr("class", "chart-canvas"),
		view.Attr("data-chart-type", string(cfg.Type)),
		view.Attr(ConfigAttr, string(payload)),
	)
	return nil
}
