package charts

import (
	"cmp"
	"slices"

	"launchdash/domain/launch"
)

// PieTitle is the caption of the outcome pie chart
func PieTitle(site launch.SiteSelection) string {
	if site.IsAll() {
		return "Total Launch Success vs Failed"
	}
	return "Launch Success vs Failed for Site: " + string(site)
}

// OutcomePie renders one slice per outcome present in counts, largest
// first. Equal counts are ordered by outcome value.
func OutcomePie(counts launch.OutcomeCounts, site launch.SiteSelection) Figure {
	fig := Figure{
		Data:   []Trace{},
		Layout: Layout{Title: Text{Text: PieTitle(site)}},
	}

	outcomes := make([]launch.Outcome, 0, len(counts))
	for o, n := range counts {
		if n > 0 {
			outcomes = append(outcomes, o)
		}
	}
	if len(outcomes) == 0 {
		hidden := false
		fig.Layout.XAxis = &Axis{Visible: &hidden}
		fig.Layout.YAxis = &Axis{Visible: &hidden}
		fig.Layout.Annotations = []Annotation{emptyAnnotation()}
		return fig
	}

	slices.SortFunc(outcomes, func(a, b launch.Outcome) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	trace := Trace{Type: "pie"}
	for _, o := range outcomes {
		trace.Labels = append(trace.Labels, o.String())
		trace.Values = append(trace.Values, counts[o])
	}
	fig.Data = append(fig.Data, trace)
	return fig
}
