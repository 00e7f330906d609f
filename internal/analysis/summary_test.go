package analysis

import (
	"testing"

	"launchdash/domain/launch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWilsonInterval(t *testing.T) {
	low, high := WilsonInterval(8, 10, 0.95)
	assert.InDelta(t, 0.4902, low, 0.001)
	assert.InDelta(t, 0.9433, high, 0.001)

	low, high = WilsonInterval(0, 0, 0.95)
	assert.Zero(t, low)
	assert.Zero(t, high)

	low, high = WilsonInterval(5, 5, 0.95)
	assert.InDelta(t, 0.5655, low, 0.001)
	assert.InDelta(t, 1.0, high, 1e-9)
}

func TestSummarize(t *testing.T) {
	table := mixedTable(t)

	summary, err := Summarize(table, table.FullRange(), "KSC LC-39A")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Launches)
	assert.Equal(t, 2, summary.Successes)
	assert.InDelta(t, 2.0/3.0, summary.SuccessRate, 1e-9)
	assert.Less(t, summary.RateLow, summary.SuccessRate)
	assert.Greater(t, summary.RateHigh, summary.SuccessRate)
	assert.InDelta(t, (2490.0+5300+6070)/3, summary.PayloadMean, 1e-9)
	assert.Equal(t, 5300.0, summary.PayloadMedian)
}

func TestSummarizeEmptySelection(t *testing.T) {
	table := mixedTable(t)
	rng := launch.PayloadRange{Low: 9700, High: 10000}

	summary, err := Summarize(table, rng, launch.AllSites)
	require.NoError(t, err)
	assert.Equal(t, Summary{Site: launch.AllSites, Range: rng}, summary)
}
