package opts

import (
	"context"
	"io"

	"github.com/juju/clock"
	"github.com/walteh/tabmigrate/pkg/config"
	"github.com/walteh/tabmigrate/pkg/remote"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Flags
	ConfigFile  string
	MetricsFile string
	Mode        string
	Debug       bool
	DryRun      bool
	Number      int
	NumberSet   bool

	// Dependencies
	Stdout    io.Writer
	Stderr    io.Writer
	Lookup    config.LookupFunc
	Connector remote.Connector
	Clock     clock.Clock
}

// LoadConfig reads the config file named by --config.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	return config.Load(ctx, o.ConfigFile, o.Lookup)
}
