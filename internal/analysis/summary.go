package analysis

import (
	"math"

	"launchdash/domain/launch"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ConfidenceLevel of the success-rate interval
const ConfidenceLevel = 0.95

// Summary describes the launches selected by a site and payload range
type Summary struct {
	Site          launch.SiteSelection `json:"site"`
	Range         launch.PayloadRange  `json:"payload_range"`
	Launches      int                  `json:"launches"`
	Successes     int                  `json:"successes"`
	SuccessRate   float64              `json:"success_rate"`
	RateLow       float64              `json:"success_rate_low"`
	RateHigh      float64              `json:"success_rate_high"`
	PayloadMean   float64              `json:"payload_mean_kg"`
	PayloadMedian float64              `json:"payload_median_kg"`
}

// Summarize computes counts, the success rate with its Wilson score
// interval, and payload mean/median over the selected launches. An empty
// selection returns a zero Summary.
func Summarize(table *launch.Table, rng launch.PayloadRange, site launch.SiteSelection) (Summary, error) {
	summary := Summary{Site: site, Range: rng}

	subset := ComputePayloadSubset(table, rng, site)
	if len(subset) == 0 {
		return summary, nil
	}

	payloads := make([]float64, len(subset))
	for i, r := range subset {
		payloads[i] = r.PayloadMassKg
		if r.Outcome == launch.Success {
			summary.Successes++
		}
	}
	summary.Launches = len(subset)
	summary.SuccessRate = float64(summary.Successes) / float64(summary.Launches)
	summary.RateLow, summary.RateHigh = WilsonInterval(summary.Successes, summary.Launches, ConfidenceLevel)

	var err error
	if summary.PayloadMean, err = stats.Mean(payloads); err != nil {
		return summary, err
	}
	if summary.PayloadMedian, err = stats.Median(payloads); err != nil {
		return summary, err
	}
	return summary, nil
}

// WilsonInterval returns the Wilson score interval for successes out of n
// trials at the given two-sided confidence level.
func WilsonInterval(successes, n int, confidence float64) (float64, float64) {
	if n == 0 {
		return 0, 0
	}
	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	nf := float64(n)
	p := float64(successes) / nf
	z2 := z * z

	denom := 1 + z2/nf
	center := (p + z2/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z2/(4*nf*nf)) / denom

	return math.Max(0, center-half), math.Min(1, center+half)
}
