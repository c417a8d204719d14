package chart

import "encoding/json"

// Type is the chart kind handed to a renderer.
type Type string

const (
	TypePie Type = "pie"
	TypeBar Type = "bar"
)

// Slot ids the dashboard view declares for its three charts.
const (
	SlotCategory       = "categoryChart"
	SlotIncomeCategory = "incomeCategoryChart"
	SlotMonthly        = "monthlyChart"
)

// Slots lists every chart slot in dashboard order.
var Slots = []string{SlotCategory, SlotIncomeCategory, SlotMonthly}

// Dataset labels used by the monthly bar chart.
const (
	LabelIncome  = "Income"
	LabelExpense = "Expense"
)

// LegendBottom places the legend below the plot area.
const LegendBottom = "bottom"

const (
	colorIncome  = "#36a2eb"
	colorExpense = "#ff6384"
)

var piePalette = []string{
	"#ff6384", "#36a2eb", "#ffce56",
	"#4bc0c0", "#9966ff", "#ff9f40",
}

// Config mirrors the Chart.js configuration object. The JSON encoding is
// what the browser-side renderer consumes directly.
type Config struct {
	Type    Type    `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor Colors    `json:"backgroundColor,omitempty"`
}

// Colors encodes as a bare string when it holds a single colour, which
// Chart.js applies to every element of the dataset.
type Colors []string

func (c Colors) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

type Options struct {
	Responsive          bool    `json:"responsive"`
	MaintainAspectRatio bool    `json:"maintainAspectRatio"`
	Plugins             Plugins `json:"plugins"`
	Scales              *Scales `json:"scales,omitempty"`
}

type Plugins struct {
	Legend Legend `json:"legend"`
}

type Legend struct {
	Position string `json:"position"`
}

type Scales struct {
	Y Axis `json:"y"`
}

type Axis struct {
	BeginAtZero bool `json:"beginAtZero"`
}

// JSON encodes the configuration.
func (c Config) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// Points returns the number of values across all datasets.
func (c Config) Points() int {
	n := 0
	for _, ds := range c.Data.Datasets {
		n += len(ds.Data)
	}
	return n
}

// PieConfig builds the fixed pie configuration for normalized values.
func PieConfig(labels []string, values []float64) Config {
	return Config{
		Type: TypePie,
		Data: Data{
			Labels: labels,
			Datasets: []Dataset{{
				Data:            values,
				BackgroundColor: paletteFor(len(values)),
			}},
		},
		Options: fixedOptions(nil),
	}
}

// BarConfig builds the grouped income/expense bar configuration.
func BarConfig(months []string, income, expense []float64) Config {
	return Config{
		Type: TypeBar,
		Data: Data{
			Labels: months,
			Datasets: []Dataset{
				{Label: LabelIncome, Data: income, BackgroundColor: Colors{colorIncome}},
				{Label: LabelExpense, Data: expense, BackgroundColor: Colors{colorExpense}},
			},
		},
		Options: fixedOptions(&Scales{Y: Axis{BeginAtZero: true}}),
	}
}

// Palette returns the pie colours cycled to n entries.
func Palette(n int) []string {
	return paletteFor(n)
}

func paletteFor(n int) Colors {
	out := make(Colors, n)
	for i := range out {
		out[i] = piePalette[i%len(piePalette)]
	}
	return out
}

func fixedOptions(scales *Scales) Options {
	return Options{
		Responsive:          true,
		MaintainAspectRatio: false,
		Plugins:             Plugins{Legend: Legend{Position: LegendBottom}},
		Scales:              scales,
	}
}
