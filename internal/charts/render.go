package charts

import (
	"io"
	"math"
	"strings"

	"launchdash/internal/errors"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default PNG size
const (
	DefaultWidth  = 900
	DefaultHeight = 500
)

// minSpan keeps the payload axis non-degenerate when every point shares a mass
const minSpan = 1000.0

// RenderPNG draws fig as a static PNG for export. Pie figures become a pie
// chart, scatter figures a dot plot; an empty figure draws a single grey
// placeholder slice carrying EmptyMessage.
func RenderPNG(fig Figure, w io.Writer, width, height int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	var err error
	switch {
	case fig.IsEmpty():
		err = renderPlaceholder(fig, w, width, height)
	case fig.Data[0].Type == "pie":
		err = renderPie(fig, w, width, height)
	default:
		err = renderScatter(fig, w, width, height)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to render %q", fig.Layout.Title.Text)
	}
	return nil
}

func renderPlaceholder(fig Figure, w io.Writer, width, height int) error {
	pie := chart.PieChart{
		Title:  fig.Layout.Title.Text,
		Width:  width,
		Height: height,
		Values: []chart.Value{{
			Label: EmptyMessage,
			Value: 1,
			Style: chart.Style{FillColor: drawing.ColorFromHex("e5e5e5")},
		}},
	}
	return pie.Render(chart.PNG, w)
}

func renderPie(fig Figure, w io.Writer, width, height int) error {
	pie := chart.PieChart{
		Title:  fig.Layout.Title.Text,
		Width:  width,
		Height: height,
		Values: pieValues(fig.Data[0]),
	}
	return pie.Render(chart.PNG, w)
}

// pieValues turns a pie trace into slices colored by outcome, so a slice
// keeps its color whatever its position in the count-sorted trace.
func pieValues(trace Trace) []chart.Value {
	values := make([]chart.Value, 0, len(trace.Values))
	for i, v := range trace.Values {
		values = append(values, chart.Value{
			Label: outcomeLabel(trace.Labels[i]),
			Value: float64(v),
			Style: chart.Style{FillColor: hexColor(outcomeColor(trace.Labels[i], i))},
		})
	}
	return values
}

func renderScatter(fig Figure, w io.Writer, width, height int) error {
	lo, hi := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, len(fig.Data))
	for _, trace := range fig.Data {
		ys := make([]float64, len(trace.Y))
		for i, y := range trace.Y {
			ys[i] = float64(y)
		}
		for _, x := range trace.X {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}

		color := hexColor(Palette[0])
		if trace.Marker != nil {
			color = hexColor(trace.Marker.Color)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    trace.Name,
			XValues: trace.X,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorTransparent,
				DotWidth:    5,
				DotColor:    color,
			},
		})
	}
	if hi-lo < minSpan {
		mid := (lo + hi) / 2
		lo, hi = math.Max(0, mid-minSpan/2), math.Max(0, mid-minSpan/2)+minSpan
	}

	var xName, yName string
	if fig.Layout.XAxis != nil {
		xName = fig.Layout.XAxis.Title.Text
	}
	if fig.Layout.YAxis != nil {
		yName = fig.Layout.YAxis.Title.Text
	}

	ch := chart.Chart{
		Title:      fig.Layout.Title.Text,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  xName,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

func outcomeLabel(label string) string {
	switch label {
	case "1":
		return "Success (1)"
	case "0":
		return "Failure (0)"
	}
	return label
}

// outcomeColor is the fixed color of an outcome label; unknown labels fall
// back to their position in the palette
func outcomeColor(label string, i int) string {
	switch label {
	case "1":
		return Palette[0]
	case "0":
		return Palette[1]
	}
	return ColorFor(i)
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
