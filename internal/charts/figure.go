// Package charts maps aggregate results to declarative chart descriptions.
// A Figure marshals to the {data, layout} JSON that plotly.js renders.
package charts

// Figure is one chart
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single plotly trace. Only the fields the dashboard needs.
type Trace struct {
	Type        string    `json:"type"`
	Name        string    `json:"name,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	LegendGroup string    `json:"legendgroup,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	Values      []int     `json:"values,omitempty"`
	X           []float64 `json:"x,omitempty"`
	Y           []int     `json:"y,omitempty"`
	Text        []string  `json:"text,omitempty"`
	Marker      *Marker   `json:"marker,omitempty"`
}

// Marker styles scatter points
type Marker struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
}

// Layout holds the figure chrome
type Layout struct {
	Title       Text         `json:"title"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Text is a plotly text block
type Text struct {
	Text string `json:"text"`
}

// Axis configures an x or y axis
type Axis struct {
	Title   Text  `json:"title"`
	Visible *bool `json:"visible,omitempty"`
}

// Legend configures the legend box
type Legend struct {
	Title Text `json:"title"`
}

// Annotation is free text placed on the plotting area
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowArrow bool    `json:"showarrow"`
}

// EmptyMessage is shown on a chart whose selection matched no launches
const EmptyMessage = "No launches match the current selection"

// emptyAnnotation centers EmptyMessage on the paper
func emptyAnnotation() Annotation {
	return Annotation{
		Text:      EmptyMessage,
		XRef:      "paper",
		YRef:      "paper",
		X:         0.5,
		Y:         0.5,
		ShowArrow: false,
	}
}

// IsEmpty reports whether the figure has nothing to draw
func (f Figure) IsEmpty() bool {
	return len(f.Data) == 0
}

// Palette is plotly's default qualitative color sequence
var Palette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// ColorFor returns the palette color for the i-th category, cycling
func ColorFor(i int) string {
	if i < 0 {
		i = 0
	}
	return Palette[i%len(Palette)]
}
