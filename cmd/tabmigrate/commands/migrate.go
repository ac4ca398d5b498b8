package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/tabmigrate/cmd/tabmigrate/opts"
	"github.com/walteh/tabmigrate/pkg/inventory"
	"github.com/walteh/tabmigrate/pkg/metrics"
	"github.com/walteh/tabmigrate/pkg/migration"
	"github.com/walteh/tabmigrate/pkg/scratch"
	"github.com/walteh/tabmigrate/pkg/session"
	"github.com/walteh/tabmigrate/pkg/staleness"
	"github.com/walteh/tabmigrate/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// NewAllCmd creates the command that migrates every data source
func NewAllCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Migrate every data source",
		Long: `All migrates every data source on the source site.
For each data source it will:
1. Download it, extract included, into the scratch directory
2. Check that the destination project exists
3. Publish it into the destination project, overwriting any data source of the same name
4. Remove the downloaded file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd.Context(), o, migration.ModeAll)
		},
	}
}

// NewUpdatedCmd creates the command that migrates recently updated data sources
func NewUpdatedCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "updated",
		Short: "Migrate data sources updated within the configured window",
		Long: `Updated migrates only data sources whose last update falls inside the window
set by UPDATE_CRITERIA_TYPE (days, hours or minutes) and UPDATE_CRITERIA_VALUE.
Data sources without an update time are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd.Context(), o, migration.ModeUpdated)
		},
	}
}

func runMigration(ctx context.Context, o *opts.RootOpts, mode string) error {
	ctx = zerolog.Ctx(ctx).With().Str("command", mode).Logger().WithContext(ctx)

	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	dir := scratch.New(cfg.ScratchDir)
	if err := dir.Ensure(); err != nil {
		return err
	}

	rec := metrics.New()
	sessions := session.NewManager(o.Connector, cfg)

	orch := migration.New(
		inventory.NewLister(sessions, inventory.WithObserver(rec.RecordListed)),
		transfer.NewEngine(sessions, dir, cfg.ProjectID, transfer.WithClock(o.Clock)),
		staleness.New(cfg.Threshold, o.Clock),
		migration.WithRecorder(rec),
		migration.WithDryRun(o.DryRun),
	)

	var runErr error
	if mode == migration.ModeUpdated {
		_, runErr = orch.MigrateUpdated(ctx)
	} else {
		_, runErr = orch.MigrateAll(ctx)
	}

	if o.MetricsFile != "" {
		if err := rec.WriteTextfile(o.MetricsFile); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("could not write metrics")
		}
	}

	if runErr != nil {
		return errors.Errorf("migrating %s data sources: %w", mode, runErr)
	}
	return nil
}
