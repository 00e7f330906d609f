package controller

import (
	"context"
	"math"
	"testing"
	"time"

	"launchdash/domain/launch"
	"launchdash/internal/charts"
	"launchdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *launch.Table {
	t.Helper()
	table, err := launch.NewTable([]launch.Record{
		{Site: "siteA", PayloadMassKg: 500, Outcome: launch.Success, BoosterCategory: "v1"},
		{Site: "siteB", PayloadMassKg: 1500, Outcome: launch.Failure, BoosterCategory: "v2"},
		{Site: "siteA", PayloadMassKg: 2500.5, Outcome: launch.Success, BoosterCategory: "v1"},
	}, 500, 2500.5)
	require.NoError(t, err)
	return table
}

func outputs(updates []Update) []OutputID {
	ids := make([]OutputID, len(updates))
	for i, u := range updates {
		ids[i] = u.Output
	}
	return ids
}

func TestDefaultBindings(t *testing.T) {
	c := New(testTable(t), nil)

	assert.Equal(t, []OutputID{PieChart, ScatterChart}, c.Outputs())
	assert.Equal(t, []ControlID{SiteDropdown, PayloadSlider}, c.Controls())
	assert.Equal(t, State{Site: launch.AllSites, Payload: launch.PayloadRange{Low: 500, High: 2500.5}}, c.DefaultState())
}

func TestDispatchSiteChangeUpdatesBothCharts(t *testing.T) {
	c := New(testTable(t), nil)

	updates, err := c.Dispatch(Event{Trigger: SiteDropdown, State: State{Site: "siteA", Payload: c.Table().FullRange()}})
	require.NoError(t, err)

	assert.Equal(t, []OutputID{PieChart, ScatterChart}, outputs(updates))
	pie := updates[0].Figure
	require.Len(t, pie.Data, 1)
	assert.Equal(t, []string{"1"}, pie.Data[0].Labels)
	assert.Equal(t, []int{2}, pie.Data[0].Values)
	assert.Equal(t, "Launch Success vs Failed for Site: siteA", pie.Layout.Title.Text)

	scatter := updates[1].Figure
	require.Len(t, scatter.Data, 1)
	assert.Equal(t, []float64{500, 2500.5}, scatter.Data[0].X)
}

func TestDispatchSliderChangeUpdatesScatterOnly(t *testing.T) {
	c := New(testTable(t), nil)

	updates, err := c.Dispatch(Event{Trigger: PayloadSlider, State: State{Site: launch.AllSites, Payload: launch.PayloadRange{Low: 0, High: 2000}}})
	require.NoError(t, err)

	require.Equal(t, []OutputID{ScatterChart}, outputs(updates))
	fig := updates[0].Figure
	require.Len(t, fig.Data, 2)
	assert.Equal(t, []float64{500}, fig.Data[0].X)
	assert.Equal(t, []float64{1500}, fig.Data[1].X)
	assert.Equal(t, charts.Palette[1], fig.Data[1].Marker.Color)
}

func TestDispatchEmptySelectionIsNotAnError(t *testing.T) {
	c := New(testTable(t), nil)

	updates, err := c.Dispatch(Event{Trigger: PayloadSlider, State: State{Site: "siteB", Payload: launch.PayloadRange{Low: 2000, High: 2501}}})
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.True(t, updates[0].Figure.IsEmpty())
}

func TestDispatchRejectsBadInput(t *testing.T) {
	c := New(testTable(t), nil)

	tests := []struct {
		name string
		ev   Event
	}{
		{"unknown site", Event{Trigger: SiteDropdown, State: State{Site: "Mars", Payload: c.Table().FullRange()}}},
		{"nan bound", Event{Trigger: PayloadSlider, State: State{Site: launch.AllSites, Payload: launch.PayloadRange{Low: math.NaN(), High: 10}}}},
		{"unbound control", Event{Trigger: "launch-year", State: c.DefaultState()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Dispatch(tt.ev)
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		})
	}
}

func TestNormalize(t *testing.T) {
	c := New(testTable(t), nil)

	tests := []struct {
		name string
		in   State
		want State
	}{
		{"empty site", State{Payload: launch.PayloadRange{Low: 0, High: 100}}, State{Site: launch.AllSites, Payload: launch.PayloadRange{Low: 0, High: 100}}},
		{"clamp to slider", State{Site: "siteA", Payload: launch.PayloadRange{Low: -50, High: 99999}}, State{Site: "siteA", Payload: launch.PayloadRange{Low: 0, High: 2501}}},
		{"swap reversed", State{Site: launch.AllSites, Payload: launch.PayloadRange{Low: 2000, High: 1000}}, State{Site: launch.AllSites, Payload: launch.PayloadRange{Low: 1000, High: 2000}}},
		{"infinite high", State{Site: launch.AllSites, Payload: launch.PayloadRange{Low: 0, High: math.Inf(1)}}, State{Site: launch.AllSites, Payload: launch.PayloadRange{Low: 0, High: 2501}}},
		{"keeps true max", c.DefaultState(), c.DefaultState()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Normalize(tt.in))
		})
	}
}

func TestRegister(t *testing.T) {
	c := NewWithBindings(testTable(t), nil)
	noop := func(*launch.Table, State) charts.Figure { return charts.Figure{} }

	require.NoError(t, c.Register(Binding{Output: "table", Triggers: []ControlID{SiteDropdown}, Handle: noop}))
	assert.Error(t, c.Register(Binding{Output: "table", Triggers: []ControlID{SiteDropdown}, Handle: noop}), "duplicate output")
	assert.Error(t, c.Register(Binding{Output: "other", Handle: noop}), "no triggers")
	assert.Error(t, c.Register(Binding{Output: "other", Triggers: []ControlID{SiteDropdown}}), "no handler")
	assert.Equal(t, []OutputID{"table"}, c.Outputs())
}

func TestInitialRendersEveryBinding(t *testing.T) {
	c := New(testTable(t), nil)

	updates, err := c.Initial(context.Background(), c.DefaultState())
	require.NoError(t, err)

	assert.Equal(t, []OutputID{PieChart, ScatterChart}, outputs(updates))
	assert.Equal(t, "Total Launch Success vs Failed", updates[0].Figure.Layout.Title.Text)
	assert.Equal(t, "Payload vs. Launch Success for All Sites", updates[1].Figure.Layout.Title.Text)
	total := 0
	for _, tr := range updates[1].Figure.Data {
		total += len(tr.X)
	}
	assert.Equal(t, 3, total)
}

func TestInitialCancelledContext(t *testing.T) {
	c := New(testTable(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Initial(ctx, c.DefaultState())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoopProcessesEvents(t *testing.T) {
	c := New(testTable(t), nil)
	loop := NewLoop(c, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	updates, err := loop.Submit(ctx, Event{Trigger: SiteDropdown, State: c.DefaultState()})
	require.NoError(t, err)
	assert.Equal(t, []OutputID{PieChart, ScatterChart}, outputs(updates))

	_, err = loop.Submit(ctx, Event{Trigger: SiteDropdown, State: State{Site: "Mars"}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("dispatch loop did not stop")
	}
}

func TestLoopSubmitWithoutRunnerHonorsContext(t *testing.T) {
	loop := NewLoop(New(testTable(t), nil), 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := loop.Submit(ctx, Event{Trigger: SiteDropdown})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoopSubmitAfterStopFailsPromptly(t *testing.T) {
	loop := NewLoop(New(testTable(t), nil), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, loop.Run(ctx), context.Canceled)

	select {
	case <-loop.Done():
	default:
		t.Fatal("done channel still open after Run returned")
	}

	errc := make(chan error, 1)
	go func() {
		_, err := loop.Submit(context.Background(), Event{Trigger: SiteDropdown})
		errc <- err
	}()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a stopped loop")
	}
}

func TestLoopStopReleasesQueuedSubmit(t *testing.T) {
	loop := NewLoop(New(testTable(t), nil), 1)

	errc := make(chan error, 1)
	go func() {
		_, err := loop.Submit(context.Background(), Event{Trigger: SiteDropdown})
		errc <- err
	}()
	require.Eventually(t, func() bool { return len(loop.events) == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, loop.Run(ctx), context.Canceled)

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("queued Submit was not released")
	}
}
