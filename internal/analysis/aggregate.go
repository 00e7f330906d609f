// Package analysis filters and aggregates the launch table. Every function
// is pure: it only reads the table and returns fresh results.
package analysis

import "launchdash/domain/launch"

// ComputeOutcomeCounts counts launches per outcome, restricted to site
// unless site is launch.AllSites. An empty restriction yields an empty map.
func ComputeOutcomeCounts(table *launch.Table, site launch.SiteSelection) launch.OutcomeCounts {
	counts := make(launch.OutcomeCounts)
	for i := 0; i < table.Len(); i++ {
		r := table.At(i)
		if site.Matches(r.Site) {
			counts[r.Outcome]++
		}
	}
	return counts
}

// ComputePayloadSubset returns the records whose payload lies in rng
// (inclusive) and whose site passes the selection, in table order.
func ComputePayloadSubset(table *launch.Table, rng launch.PayloadRange, site launch.SiteSelection) []launch.Record {
	subset := make([]launch.Record, 0)
	for i := 0; i < table.Len(); i++ {
		r := table.At(i)
		if rng.Contains(r.PayloadMassKg) && site.Matches(r.Site) {
			subset = append(subset, r)
		}
	}
	return subset
}
