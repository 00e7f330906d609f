package charts

import (
	"encoding/json"
	"testing"

	"launchdash/domain/launch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func marshal(t *testing.T, fig Figure) string {
	t.Helper()
	b, err := json.Marshal(fig)
	require.NoError(t, err)
	return string(b)
}

func TestPieTitles(t *testing.T) {
	assert.Equal(t, "Total Launch Success vs Failed", PieTitle(launch.AllSites))
	assert.Equal(t, "Launch Success vs Failed for Site: KSC LC-39A", PieTitle("KSC LC-39A"))
}

func TestOutcomePieOrdersByCount(t *testing.T) {
	fig := OutcomePie(launch.OutcomeCounts{launch.Failure: 3, launch.Success: 10}, launch.AllSites)
	doc := marshal(t, fig)

	assert.Equal(t, "pie", gjson.Get(doc, "data.0.type").String())
	assert.Equal(t, `["1","0"]`, gjson.Get(doc, "data.0.labels").Raw)
	assert.Equal(t, `[10,3]`, gjson.Get(doc, "data.0.values").Raw)
	assert.Equal(t, "Total Launch Success vs Failed", gjson.Get(doc, "layout.title.text").String())
	assert.False(t, gjson.Get(doc, "layout.annotations").Exists())
}

func TestOutcomePieTieBreaksOnOutcome(t *testing.T) {
	fig := OutcomePie(launch.OutcomeCounts{launch.Success: 2, launch.Failure: 2}, "s")
	require.Len(t, fig.Data, 1)
	assert.Equal(t, []string{"0", "1"}, fig.Data[0].Labels)
}

func TestOutcomePieSingleOutcome(t *testing.T) {
	fig := OutcomePie(launch.OutcomeCounts{launch.Success: 2}, "siteA")
	require.Len(t, fig.Data, 1)
	assert.Equal(t, []string{"1"}, fig.Data[0].Labels)
	assert.Equal(t, []int{2}, fig.Data[0].Values)
	assert.Equal(t, "Launch Success vs Failed for Site: siteA", fig.Layout.Title.Text)
}

func TestOutcomePieEmpty(t *testing.T) {
	fig := OutcomePie(launch.OutcomeCounts{}, "nowhere")
	doc := marshal(t, fig)

	assert.True(t, fig.IsEmpty())
	assert.Equal(t, "[]", gjson.Get(doc, "data").Raw)
	assert.Equal(t, EmptyMessage, gjson.Get(doc, "layout.annotations.0.text").String())
	assert.False(t, gjson.Get(doc, "layout.xaxis.visible").Bool())
}

func TestPayloadScatterGroupsByCategory(t *testing.T) {
	records := []launch.Record{
		{Site: "A", PayloadMassKg: 500, Outcome: launch.Failure, BoosterCategory: "v1.1", BoosterVersion: "F9 v1.1"},
		{Site: "B", PayloadMassKg: 2500, Outcome: launch.Success, BoosterCategory: "FT"},
		{Site: "A", PayloadMassKg: 700, Outcome: launch.Success, BoosterCategory: "v1.1"},
	}
	palette := map[string]int{"v1.0": 0, "v1.1": 1, "FT": 2}
	fig := PayloadScatter(records, launch.AllSites, func(c string) int { return palette[c] })
	doc := marshal(t, fig)

	require.Len(t, fig.Data, 2)
	assert.Equal(t, "v1.1", gjson.Get(doc, "data.0.name").String())
	assert.Equal(t, "markers", gjson.Get(doc, "data.0.mode").String())
	assert.Equal(t, `[500,700]`, gjson.Get(doc, "data.0.x").Raw)
	assert.Equal(t, `[0,1]`, gjson.Get(doc, "data.0.y").Raw)
	assert.Equal(t, "A · F9 v1.1", gjson.Get(doc, "data.0.text.0").String())
	assert.Equal(t, Palette[1], gjson.Get(doc, "data.0.marker.color").String())
	assert.Equal(t, "FT", gjson.Get(doc, "data.1.name").String())
	assert.Equal(t, Palette[2], gjson.Get(doc, "data.1.marker.color").String())

	assert.Equal(t, "Payload vs. Launch Success for All Sites", gjson.Get(doc, "layout.title.text").String())
	assert.Equal(t, PayloadAxisTitle, gjson.Get(doc, "layout.xaxis.title.text").String())
	assert.Equal(t, OutcomeAxisTitle, gjson.Get(doc, "layout.yaxis.title.text").String())
	assert.Equal(t, CategoryLegendKey, gjson.Get(doc, "layout.legend.title.text").String())
}

func TestPayloadScatterEmpty(t *testing.T) {
	fig := PayloadScatter(nil, "VAFB SLC-4E", func(string) int { return 0 })

	assert.True(t, fig.IsEmpty())
	assert.Equal(t, "Payload vs. Launch Success for Site: VAFB SLC-4E", fig.Layout.Title.Text)
	require.Len(t, fig.Layout.Annotations, 1)
	assert.Equal(t, EmptyMessage, fig.Layout.Annotations[0].Text)
}

func TestColorForCycles(t *testing.T) {
	assert.Equal(t, Palette[0], ColorFor(-1))
	assert.Equal(t, Palette[3], ColorFor(3))
	assert.Equal(t, Palette[1], ColorFor(len(Palette)+1))
}
