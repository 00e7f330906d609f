package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"launchdash/domain/launch"
	"launchdash/internal/analysis"
	"launchdash/internal/config"
	"launchdash/internal/dataset"
	"launchdash/internal/errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// renderFunc prints a finished table in the format chosen by --markdown
type renderFunc func(cmd *cobra.Command, t table.Writer)

type selectionFlags struct {
	site string
	low  float64
	high float64
}

func newRootCmd() *cobra.Command {
	var file string
	var markdown bool

	rootCmd := &cobra.Command{
		Use:           "launchdash-cli",
		Short:         "Query the launch dataset without starting the dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&file, "file", envOr("DATASET_FILE", config.DefaultDatasetFile), "Launch dataset (.csv or .xlsx)")
	rootCmd.PersistentFlags().BoolVar(&markdown, "markdown", false, "Print tables as Markdown")

	load := func() (*launch.Table, error) {
		return dataset.Load(file, nil)
	}
	render := func(cmd *cobra.Command, t table.Writer) {
		if markdown {
			fmt.Fprintln(cmd.OutOrStdout(), t.RenderMarkdown())
			return
		}
		t.SetStyle(table.StyleLight)
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	}

	rootCmd.AddCommand(
		newSitesCmd(load),
		newCountsCmd(load, render),
		newSubsetCmd(load, render),
		newSummaryCmd(load, render),
	)
	return rootCmd
}

func newSitesCmd(load func() (*launch.Table, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List launch sites in first-appearance order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			launches, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%s\n", launch.AllSites, launch.AllSitesLabel)
			for _, site := range launches.Sites() {
				fmt.Fprintln(out, site)
			}
			return nil
		},
	}
}

func newCountsCmd(load func() (*launch.Table, error), render renderFunc) *cobra.Command {
	var site string

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Count launch outcomes for a site",
		Long: `Count launches per outcome, over every site or just one.

Example: launchdash-cli counts --site "KSC LC-39A"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			launches, err := load()
			if err != nil {
				return err
			}
			sel := launch.SiteSelection(site)
			if !sel.IsAll() && !launches.HasSite(string(sel)) {
				return errors.InvalidInput(fmt.Sprintf("unknown launch site %q", site))
			}

			counts := analysis.ComputeOutcomeCounts(launches, sel)
			t := table.NewWriter()
			t.AppendHeader(table.Row{"Outcome", "Launches"})
			for _, o := range []launch.Outcome{launch.Success, launch.Failure} {
				t.AppendRow(table.Row{o.String(), counts[o]})
			}
			t.AppendFooter(table.Row{"Total", counts.Total()})
			render(cmd, t)
			return nil
		},
	}

	cmd.Flags().StringVar(&site, "site", string(launch.AllSites), "Launch site or ALL")
	return cmd
}

func newSubsetCmd(load func() (*launch.Table, error), render renderFunc) *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "subset",
		Short: "List launches inside a payload range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			launches, site, rng, err := resolve(load, cmd, sel)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.AppendHeader(table.Row{"Flight", "Site", "Payload kg", "Class", "Booster"})
			subset := analysis.ComputePayloadSubset(launches, rng, site)
			for _, r := range subset {
				t.AppendRow(table.Row{r.FlightNumber, r.Site, formatKg(r.PayloadMassKg), r.Outcome.String(), r.BoosterCategory})
			}
			t.AppendFooter(table.Row{"", "", "", "Rows", len(subset)})
			render(cmd, t)
			return nil
		},
	}

	addSelectionFlags(cmd, &sel)
	return cmd
}

func newSummaryCmd(load func() (*launch.Table, error), render renderFunc) *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Success rate with a 95% interval and payload statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			launches, site, rng, err := resolve(load, cmd, sel)
			if err != nil {
				return err
			}

			s, err := analysis.Summarize(launches, rng, site)
			if err != nil {
				return errors.Wrap(err, "failed to summarize launches")
			}

			t := table.NewWriter()
			t.AppendRows([]table.Row{
				{"site", string(s.Site)},
				{"payload range", formatKg(s.Range.Low) + " - " + formatKg(s.Range.High) + " kg"},
				{"launches", s.Launches},
				{"successes", s.Successes},
				{"success rate", fmt.Sprintf("%.1f%% (%.1f%% - %.1f%%)", 100*s.SuccessRate, 100*s.RateLow, 100*s.RateHigh)},
				{"payload mean", fmt.Sprintf("%.1f kg", s.PayloadMean)},
				{"payload median", fmt.Sprintf("%.1f kg", s.PayloadMedian)},
			})
			render(cmd, t)
			return nil
		},
	}

	addSelectionFlags(cmd, &sel)
	return cmd
}

func addSelectionFlags(cmd *cobra.Command, sel *selectionFlags) {
	cmd.Flags().StringVar(&sel.site, "site", string(launch.AllSites), "Launch site or ALL")
	cmd.Flags().Float64Var(&sel.low, "low", 0, "Lower payload bound in kg (default: dataset minimum)")
	cmd.Flags().Float64Var(&sel.high, "high", 0, "Upper payload bound in kg (default: dataset maximum)")
}

// resolve loads the table and turns the flags into a checked selection.
// Bounds that were not given fall back to the dataset's payload range.
func resolve(load func() (*launch.Table, error), cmd *cobra.Command, sel selectionFlags) (*launch.Table, launch.SiteSelection, launch.PayloadRange, error) {
	launches, err := load()
	if err != nil {
		return nil, "", launch.PayloadRange{}, err
	}

	site := launch.SiteSelection(sel.site)
	if !site.IsAll() && !launches.HasSite(string(site)) {
		return nil, "", launch.PayloadRange{}, errors.InvalidInput(fmt.Sprintf("unknown launch site %q", sel.site))
	}

	rng := launches.FullRange()
	if cmd.Flags().Changed("low") {
		rng.Low = sel.low
	}
	if cmd.Flags().Changed("high") {
		rng.High = sel.high
	}
	if rng.Low > rng.High {
		return nil, "", launch.PayloadRange{}, errors.InvalidInput(fmt.Sprintf("low (%g) must not exceed high (%g)", rng.Low, rng.High))
	}
	return launches, site, rng, nil
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
