// Package dataset turns the launch file into a launch.Table.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"launchdash/adapters/excel"
	"launchdash/domain/launch"
	"launchdash/internal"
	"launchdash/internal/errors"

	"github.com/montanaflynn/stats"
)

// Column names of the launch dataset
const (
	ColumnLaunchSite      = "Launch Site"
	ColumnPayloadMass     = "Payload Mass (kg)"
	ColumnClass           = "class"
	ColumnBoosterCategory = "Booster Version Category"
	ColumnFlightNumber    = "Flight Number"
	ColumnBoosterVersion  = "Booster Version"
)

// RequiredColumns must all be present in the header row
var RequiredColumns = []string{
	ColumnLaunchSite,
	ColumnPayloadMass,
	ColumnClass,
	ColumnBoosterCategory,
}

// Load reads path and builds the launch table. Any failure is meant to be
// fatal at startup. A nil logger falls back to internal.DefaultLogger.
func Load(path string, logger *internal.Logger) (*launch.Table, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	raw, err := excel.NewDataReader(path).ReadData()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read dataset %s", path)
	}

	table, err := FromRaw(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dataset %s", path)
	}

	logger.With("Loader").Info("loaded %d launches from %s (%d sites, payload %.1f..%.1f kg)",
		table.Len(), path, len(table.Sites()), table.MinPayload(), table.MaxPayload())
	return table, nil
}

// FromRaw validates the schema, types every row and derives payload bounds
func FromRaw(raw *excel.RawData) (*launch.Table, error) {
	if missing := raw.MissingColumns(RequiredColumns); len(missing) > 0 {
		return nil, errors.SchemaMismatch(fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	hasFlightNumber := raw.HasColumn(ColumnFlightNumber)
	hasBoosterVersion := raw.HasColumn(ColumnBoosterVersion)

	records := make([]launch.Record, 0, len(raw.Rows))
	payloads := make([]float64, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		record, err := parseRow(row, hasFlightNumber, hasBoosterVersion)
		if err != nil {
			return nil, errors.Wrapf(err, "data row %d", i+1)
		}
		records = append(records, record)
		payloads = append(payloads, record.PayloadMassKg)
	}

	if len(records) == 0 {
		return nil, errors.DataInvalid("dataset has no launch records")
	}

	minPayload, err := stats.Min(payloads)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute minimum payload")
	}
	maxPayload, err := stats.Max(payloads)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute maximum payload")
	}

	return launch.NewTable(records, minPayload, maxPayload)
}

func parseRow(row excel.RawRowData, hasFlightNumber, hasBoosterVersion bool) (launch.Record, error) {
	record := launch.Record{
		Site:            row[ColumnLaunchSite],
		BoosterCategory: row[ColumnBoosterCategory],
	}

	mass, err := parseNumber(row[ColumnPayloadMass], ColumnPayloadMass)
	if err != nil {
		return record, err
	}
	record.PayloadMassKg = mass

	class, err := parseNumber(row[ColumnClass], ColumnClass)
	if err != nil {
		return record, err
	}
	if class != 0 && class != 1 {
		return record, errors.DataInvalid(fmt.Sprintf("%s must be 0 or 1, got %q", ColumnClass, row[ColumnClass]))
	}
	record.Outcome = launch.Outcome(class)

	if hasFlightNumber && row[ColumnFlightNumber] != "" {
		n, err := parseNumber(row[ColumnFlightNumber], ColumnFlightNumber)
		if err != nil {
			return record, err
		}
		record.FlightNumber = int(n)
	}
	if hasBoosterVersion {
		record.BoosterVersion = row[ColumnBoosterVersion]
	}

	if err := record.Validate(); err != nil {
		return record, err
	}
	return record, nil
}

func parseNumber(s, column string) (float64, error) {
	if s == "" {
		return 0, errors.DataInvalid(fmt.Sprintf("%s is empty", column))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.DataInvalid(fmt.Sprintf("%s %q is not a finite number", column, s))
	}
	return v, nil
}
