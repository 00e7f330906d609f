// Package container builds the application context once at startup and
// hands it to every handler. Nothing in it changes after New returns.
package container

import (
	"fmt"

	"launchdash/domain/launch"
	"launchdash/internal"
	"launchdash/internal/config"
	"launchdash/internal/controller"
	"launchdash/internal/dataset"
	"launchdash/internal/errors"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data
	Table *launch.Table

	// Reactive wiring
	Controller *controller.Controller
	Loop       *controller.Loop
}

// DispatchQueue is how many UI events may wait for the dispatch loop
const DispatchQueue = 64

// New loads the dataset named by cfg and wires the controller around it
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}

	table, err := dataset.Load(cfg.Data.File, newLogger(cfg))
	if err != nil {
		return nil, err
	}

	return NewWithTable(cfg, table)
}

// NewWithTable wires a container around an already loaded table
func NewWithTable(cfg *config.Config, table *launch.Table) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if table == nil {
		return nil, errors.InternalError("launch table cannot be nil")
	}

	logger := newLogger(cfg)
	ctrl := controller.New(table, logger)

	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Table:      table,
		Controller: ctrl,
		Loop:       controller.NewLoop(ctrl, DispatchQueue),
	}

	logger.With("Container").Info("initialized with %d launches, %d sites, outputs %v",
		table.Len(), len(table.Sites()), ctrl.Outputs())
	return c, nil
}

// newLogger builds the application logger from the configured level, not
// from the environment captured at package init
func newLogger(cfg *config.Config) *internal.Logger {
	return internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
}

// String summarizes the container for startup logs
func (c *Container) String() string {
	return fmt.Sprintf("launchdash{file=%s records=%d}", c.Config.Data.File, c.Table.Len())
}
