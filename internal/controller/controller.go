// Package controller binds dashboard controls to the charts they drive.
//
// A Binding names one output chart, the controls whose changes re-render
// it, and a pure Handler producing the chart from the launch table and the
// current control state. Dispatch runs every binding triggered by an event
// and returns one Update per affected chart; charts not bound to the
// triggering control are left alone.
package controller

import (
	"context"
	"fmt"
	"math"
	"slices"

	"launchdash/domain/launch"
	"launchdash/internal"
	"launchdash/internal/analysis"
	"launchdash/internal/charts"
	"launchdash/internal/errors"

	"golang.org/x/sync/errgroup"
)

// ControlID identifies an input control on the page
type ControlID string

// OutputID identifies a chart region on the page
type OutputID string

const (
	SiteDropdown  ControlID = "site-dropdown"
	PayloadSlider ControlID = "payload-slider"

	PieChart     OutputID = "success-pie-chart"
	ScatterChart OutputID = "success-payload-scatter-chart"
)

// State is the value of every control at the time of an event
type State struct {
	Site    launch.SiteSelection `json:"site"`
	Payload launch.PayloadRange  `json:"payload"`
}

// Event is a single control change
type Event struct {
	Trigger ControlID
	State   State
}

// Update replaces one chart
type Update struct {
	Output OutputID      `json:"output"`
	Figure charts.Figure `json:"figure"`
}

// Handler renders a chart. It must only read the table.
type Handler func(table *launch.Table, state State) charts.Figure

// Binding ties an output to the controls that re-render it
type Binding struct {
	Output   OutputID
	Triggers []ControlID
	Handle   Handler
}

// TriggeredBy reports whether a change of control re-renders this binding
func (b Binding) TriggeredBy(control ControlID) bool {
	return slices.Contains(b.Triggers, control)
}

// PieBinding redraws the outcome pie when the site changes
func PieBinding() Binding {
	return Binding{
		Output:   PieChart,
		Triggers: []ControlID{SiteDropdown},
		Handle: func(table *launch.Table, state State) charts.Figure {
			return charts.OutcomePie(analysis.ComputeOutcomeCounts(table, state.Site), state.Site)
		},
	}
}

// ScatterBinding redraws the payload scatter on site or payload changes
func ScatterBinding() Binding {
	return Binding{
		Output:   ScatterChart,
		Triggers: []ControlID{SiteDropdown, PayloadSlider},
		Handle: func(table *launch.Table, state State) charts.Figure {
			subset := analysis.ComputePayloadSubset(table, state.Payload, state.Site)
			return charts.PayloadScatter(subset, state.Site, table.CategoryIndex)
		},
	}
}

// Controller owns the binding registry for one launch table
type Controller struct {
	table    *launch.Table
	bindings []Binding
	log      *internal.Logger
}

// New returns a controller with the dashboard's two default bindings.
// A nil logger falls back to internal.DefaultLogger.
func New(table *launch.Table, logger *internal.Logger) *Controller {
	c := NewWithBindings(table, logger)
	// The defaults have distinct outputs and non-empty triggers.
	_ = c.Register(PieBinding())
	_ = c.Register(ScatterBinding())
	return c
}

// NewWithBindings returns a controller with no bindings registered
func NewWithBindings(table *launch.Table, logger *internal.Logger) *Controller {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Controller{
		table: table,
		log:   logger.With("Controller"),
	}
}

// Register adds a binding. Each output may be bound once.
func (c *Controller) Register(b Binding) error {
	if b.Handle == nil {
		return errors.InternalError(fmt.Sprintf("binding %s has no handler", b.Output))
	}
	if len(b.Triggers) == 0 {
		return errors.InternalError(fmt.Sprintf("binding %s has no triggers", b.Output))
	}
	for _, existing := range c.bindings {
		if existing.Output == b.Output {
			return errors.InternalError(fmt.Sprintf("output %s is already bound", b.Output))
		}
	}
	c.bindings = append(c.bindings, b)
	return nil
}

// Table returns the launch table the controller reads
func (c *Controller) Table() *launch.Table {
	return c.table
}

// Outputs lists bound outputs in registration order
func (c *Controller) Outputs() []OutputID {
	outputs := make([]OutputID, len(c.bindings))
	for i, b := range c.bindings {
		outputs[i] = b.Output
	}
	return outputs
}

// Controls lists every control some binding listens to
func (c *Controller) Controls() []ControlID {
	var controls []ControlID
	for _, b := range c.bindings {
		for _, t := range b.Triggers {
			if !slices.Contains(controls, t) {
				controls = append(controls, t)
			}
		}
	}
	return controls
}

// DefaultState is the page's initial selection: all sites, full range
func (c *Controller) DefaultState() State {
	return State{Site: launch.AllSites, Payload: c.table.FullRange()}
}

// Normalize fills an empty site with AllSites and clamps the payload range
// into the slider bounds [0, SliderMax], swapping reversed bounds.
func (c *Controller) Normalize(state State) State {
	if state.Site == "" {
		state.Site = launch.AllSites
	}

	upper := float64(c.table.SliderMax())
	clamp := func(v float64) float64 {
		return math.Min(math.Max(v, 0), upper)
	}
	low, high := clamp(state.Payload.Low), clamp(state.Payload.High)
	if low > high {
		low, high = high, low
	}
	state.Payload = launch.PayloadRange{Low: low, High: high}
	return state
}

// Validate rejects sites that are not in the table and non-finite bounds
func (c *Controller) Validate(state State) error {
	if !state.Site.IsAll() && !c.table.HasSite(string(state.Site)) {
		return errors.InvalidInput(fmt.Sprintf("unknown launch site %q", state.Site))
	}
	for _, v := range []float64{state.Payload.Low, state.Payload.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.InvalidInput("payload range bounds must be finite numbers")
		}
	}
	return nil
}

// Dispatch normalizes and validates the event state, then re-renders every
// chart bound to the triggering control. NaN bounds survive Normalize and
// are rejected by Validate.
func (c *Controller) Dispatch(ev Event) ([]Update, error) {
	state := c.Normalize(ev.State)
	if err := c.Validate(state); err != nil {
		return nil, err
	}

	var updates []Update
	for _, b := range c.bindings {
		if b.TriggeredBy(ev.Trigger) {
			updates = append(updates, Update{Output: b.Output, Figure: b.Handle(c.table, state)})
		}
	}
	if len(updates) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("no chart is bound to control %q", ev.Trigger))
	}

	c.log.Debug("%s changed (site=%s payload=[%g, %g]): %d chart(s) updated",
		ev.Trigger, state.Site, state.Payload.Low, state.Payload.High, len(updates))
	return updates, nil
}

// Initial renders every bound chart for the first page load. Handlers only
// read the table, so they run concurrently.
func (c *Controller) Initial(ctx context.Context, state State) ([]Update, error) {
	state = c.Normalize(state)
	if err := c.Validate(state); err != nil {
		return nil, err
	}

	updates := make([]Update, len(c.bindings))
	g, ctx := errgroup.WithContext(ctx)
	for i, b := range c.bindings {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			updates[i] = Update{Output: b.Output, Figure: b.Handle(c.table, state)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return updates, nil
}
