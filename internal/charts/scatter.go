package charts

import (
	"launchdash/domain/launch"
)

// Axis and legend captions of the payload scatter plot
const (
	PayloadAxisTitle  = "Payload Mass (Kg)"
	OutcomeAxisTitle  = "Launch Outcome (Success/Failure)"
	CategoryLegendKey = "Booster Version Category"
)

// ScatterTitle is the caption of the payload scatter plot
func ScatterTitle(site launch.SiteSelection) string {
	if site.IsAll() {
		return "Payload vs. Launch Success for All Sites"
	}
	return "Payload vs. Launch Success for Site: " + string(site)
}

// PayloadScatter plots payload mass against outcome, one trace per booster
// category in order of first appearance in records. colorIndex maps a
// category to its palette slot so colors stay put across selections.
func PayloadScatter(records []launch.Record, site launch.SiteSelection, colorIndex func(category string) int) Figure {
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:  Text{Text: ScatterTitle(site)},
			XAxis:  &Axis{Title: Text{Text: PayloadAxisTitle}},
			YAxis:  &Axis{Title: Text{Text: OutcomeAxisTitle}},
			Legend: &Legend{Title: Text{Text: CategoryLegendKey}},
		},
	}
	if len(records) == 0 {
		fig.Layout.Annotations = []Annotation{emptyAnnotation()}
		return fig
	}

	traceFor := make(map[string]int)
	for _, r := range records {
		idx, ok := traceFor[r.BoosterCategory]
		if !ok {
			idx = len(fig.Data)
			traceFor[r.BoosterCategory] = idx
			fig.Data = append(fig.Data, Trace{
				Type:        "scatter",
				Mode:        "markers",
				Name:        r.BoosterCategory,
				LegendGroup: r.BoosterCategory,
				Marker:      &Marker{Color: ColorFor(colorIndex(r.BoosterCategory)), Size: 10},
			})
		}
		tr := &fig.Data[idx]
		tr.X = append(tr.X, r.PayloadMassKg)
		tr.Y = append(tr.Y, int(r.Outcome))
		tr.Text = append(tr.Text, hoverText(r))
	}
	return fig
}

func hoverText(r launch.Record) string {
	if r.BoosterVersion != "" {
		return r.Site + " · " + r.BoosterVersion
	}
	return r.Site
}
