// Package launch holds the launch-record table the dashboard is built on.
// A Table is built once and never mutated; every accessor hands out copies.
package launch

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"launchdash/internal/errors"
)

// Outcome is the binary launch result stored in the dataset's class column
type Outcome int

const (
	Failure Outcome = 0
	Success Outcome = 1
)

// Valid reports whether o is 0 or 1
func (o Outcome) Valid() bool {
	return o == Failure || o == Success
}

func (o Outcome) String() string {
	return fmt.Sprintf("%d", int(o))
}

// Record is one launch row
type Record struct {
	FlightNumber    int     `json:"flight_number,omitempty"`
	Site            string  `json:"launch_site"`
	PayloadMassKg   float64 `json:"payload_mass_kg"`
	Outcome         Outcome `json:"class"`
	BoosterVersion  string  `json:"booster_version,omitempty"`
	BoosterCategory string  `json:"booster_version_category"`
}

// Validate checks the per-record invariants of a Table
func (r Record) Validate() error {
	if strings.TrimSpace(r.Site) == "" {
		return errors.DataInvalid("launch site is empty")
	}
	if math.IsNaN(r.PayloadMassKg) || math.IsInf(r.PayloadMassKg, 0) {
		return errors.DataInvalid("payload mass is not a finite number")
	}
	if r.PayloadMassKg < 0 {
		return errors.Newf(errors.CodeDataInvalid, "payload mass %g is negative", r.PayloadMassKg)
	}
	if !r.Outcome.Valid() {
		return errors.Newf(errors.CodeDataInvalid, "outcome %d is not 0 or 1", int(r.Outcome))
	}
	return nil
}

// SiteSelection is either AllSites or a site name present in the table
type SiteSelection string

// AllSites selects every launch site
const AllSites SiteSelection = "ALL"

// AllSitesLabel is how AllSites is shown in the drop-down
const AllSitesLabel = "All Sites"

// IsAll reports whether s selects every site
func (s SiteSelection) IsAll() bool {
	return s == AllSites
}

// Matches reports whether a record's site passes the selection
func (s SiteSelection) Matches(site string) bool {
	return s.IsAll() || string(s) == site
}

// PayloadRange is the closed interval [Low, High] in kilograms
type PayloadRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether mass lies within the range, bounds inclusive
func (r PayloadRange) Contains(mass float64) bool {
	return mass >= r.Low && mass <= r.High
}

// OutcomeCounts maps an outcome to the number of launches with it
type OutcomeCounts map[Outcome]int

// Total sums every count
func (c OutcomeCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Table is the immutable launch dataset plus the scalars derived from it
type Table struct {
	records    []Record
	sites      []string
	categories []string
	minPayload float64
	maxPayload float64
}

// NewTable validates records and derives the site list and payload bounds.
// minPayload and maxPayload are supplied by the caller so the loader can
// compute them with its own stats tooling; they must bound every record.
func NewTable(records []Record, minPayload, maxPayload float64) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.DataInvalid("dataset has no launch records")
	}
	if minPayload > maxPayload {
		return nil, errors.Newf(errors.CodeDataInvalid, "min payload %g exceeds max payload %g", minPayload, maxPayload)
	}

	t := &Table{
		records:    slices.Clone(records),
		minPayload: minPayload,
		maxPayload: maxPayload,
	}

	seenSites := make(map[string]bool)
	seenCategories := make(map[string]bool)
	for i, r := range t.records {
		if err := r.Validate(); err != nil {
			return nil, errors.Wrapf(err, "record %d", i+1)
		}
		if r.PayloadMassKg < minPayload || r.PayloadMassKg > maxPayload {
			return nil, errors.Newf(errors.CodeDataInvalid, "record %d payload %g outside [%g, %g]", i+1, r.PayloadMassKg, minPayload, maxPayload)
		}
		if !seenSites[r.Site] {
			seenSites[r.Site] = true
			t.sites = append(t.sites, r.Site)
		}
		if !seenCategories[r.BoosterCategory] {
			seenCategories[r.BoosterCategory] = true
			t.categories = append(t.categories, r.BoosterCategory)
		}
	}

	return t, nil
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of every record in load order
func (t *Table) Records() []Record {
	return slices.Clone(t.records)
}

// At returns the i-th record
func (t *Table) At(i int) Record {
	return t.records[i]
}

// Sites returns the distinct launch sites in order of first appearance
func (t *Table) Sites() []string {
	return slices.Clone(t.sites)
}

// Categories returns the distinct booster version categories in order of
// first appearance
func (t *Table) Categories() []string {
	return slices.Clone(t.categories)
}

// CategoryIndex returns the position of a category in Categories, or -1
func (t *Table) CategoryIndex(category string) int {
	return slices.Index(t.categories, category)
}

// HasSite reports whether site occurs in the table
func (t *Table) HasSite(site string) bool {
	return slices.Contains(t.sites, site)
}

// MinPayload returns the smallest payload mass
func (t *Table) MinPayload() float64 {
	return t.minPayload
}

// MaxPayload returns the true, unrounded largest payload mass
func (t *Table) MaxPayload() float64 {
	return t.maxPayload
}

// SliderMax is the largest payload mass rounded up to a whole kilogram.
// It bounds the UI slider; filtering defaults use MaxPayload.
func (t *Table) SliderMax() int {
	return int(math.Ceil(t.maxPayload))
}

// FullRange is the default payload selection covering every record
func (t *Table) FullRange() PayloadRange {
	return PayloadRange{Low: t.minPayload, High: t.maxPayload}
}
