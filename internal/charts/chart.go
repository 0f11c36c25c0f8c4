// Package charts turns dataset views into chart-ready payloads for an
// external charting component. Every builder is a pure function of the store
// and the current parameters.
package charts

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/musictrends-cli/internal/analysis"
)

// Chart identifiers, in render order.
const (
	Overview     = "overview"
	Trends       = "trends"
	Anomalies    = "anomalies"
	Story        = "story"
	Correlations = "correlations"
	Genres       = "genres"
	Blueprint    = "blueprint"
	Explore      = "explore"
	Simulator    = "simulator"
	Insights     = "insights"
)

// Order is the fixed render order used by RenderAll.
var Order = []string{Overview, Trends, Anomalies, Story, Correlations, Genres, Blueprint, Explore, Simulator, Insights}

// ErrNoData is returned when a chart has nothing to show for the parameters.
var ErrNoData = errors.New("no data for selection")

// Kind is the series drawing style.
type Kind string

const (
	Line    Kind = "line"
	Bar     Kind = "bar"
	Scatter Kind = "scatter"
)

// Chart is one rendered payload.
type Chart struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	XLabel string   `json:"x_label,omitempty"`
	YLabel string   `json:"y_label,omitempty"`
	Series []Series `json:"series"`
	Notes  []string `json:"notes,omitempty"`
	// Stats carries chart-level figures (counts, thresholds) for display.
	Stats []Field `json:"stats,omitempty"`
}

// Series is one trace.
type Series struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Points []Point `json:"points"`
}

// Point is one x/y pair. Category axes set Label; numeric axes use X.
type Point struct {
	X      float64  `json:"x"`
	Label  string   `json:"label,omitempty"`
	Y      float64  `json:"y"`
	Color  *float64 `json:"color,omitempty"`
	Text   string   `json:"text,omitempty"`
	Detail *Detail  `json:"detail,omitempty"`
}

// Detail is the click panel for a point.
type Detail struct {
	Title       string  `json:"title"`
	Fields      []Field `json:"fields"`
	Explanation string  `json:"explanation,omitempty"`
}

// Field is a name/value pair shown in a detail panel.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func field(name string, format string, args ...any) Field {
	return Field{Name: name, Value: fmt.Sprintf(format, args...)}
}

// PointCount returns the total number of points over all series.
func (c *Chart) PointCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, s := range c.Series {
		n += len(s.Points)
	}
	return n
}

func yv(v float64) float64 { return analysis.Round3(v) }

func colorOf(v float64) *float64 { return &v }
