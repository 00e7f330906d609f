package controller

import (
	"testing"

	"launchdash/domain/launch"
	"launchdash/internal/charts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHandler struct {
	mock.Mock
}

func (m *mockHandler) Handle(table *launch.Table, state State) charts.Figure {
	args := m.Called(table, state)
	return args.Get(0).(charts.Figure)
}

func TestDispatchCallsOnlyTriggeredHandlers(t *testing.T) {
	table := testTable(t)
	c := NewWithBindings(table, nil)

	pie := &mockHandler{}
	scatter := &mockHandler{}
	require.NoError(t, c.Register(Binding{Output: PieChart, Triggers: []ControlID{SiteDropdown}, Handle: pie.Handle}))
	require.NoError(t, c.Register(Binding{Output: ScatterChart, Triggers: []ControlID{SiteDropdown, PayloadSlider}, Handle: scatter.Handle}))

	want := State{Site: "siteB", Payload: launch.PayloadRange{Low: 1000, High: 2000}}
	fig := charts.Figure{Layout: charts.Layout{Title: charts.Text{Text: "scatter"}}}
	scatter.On("Handle", table, want).Return(fig).Once()

	updates, err := c.Dispatch(Event{Trigger: PayloadSlider, State: want})
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, ScatterChart, updates[0].Output)
	assert.Equal(t, "scatter", updates[0].Figure.Layout.Title.Text)

	scatter.AssertExpectations(t)
	pie.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestDispatchHandsNormalizedStateToHandlers(t *testing.T) {
	table := testTable(t)
	c := NewWithBindings(table, nil)

	h := &mockHandler{}
	require.NoError(t, c.Register(Binding{Output: PieChart, Triggers: []ControlID{SiteDropdown}, Handle: h.Handle}))

	normalized := State{Site: launch.AllSites, Payload: launch.PayloadRange{Low: 100, High: float64(table.SliderMax())}}
	h.On("Handle", table, normalized).Return(charts.Figure{}).Once()

	_, err := c.Dispatch(Event{
		Trigger: SiteDropdown,
		State:   State{Site: "", Payload: launch.PayloadRange{Low: 99999, High: 100}},
	})
	require.NoError(t, err)
	h.AssertExpectations(t)
}
