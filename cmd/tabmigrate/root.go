package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/tabmigrate/cmd/tabmigrate/commands"
	"github.com/walteh/tabmigrate/cmd/tabmigrate/opts"
	"github.com/walteh/tabmigrate/pkg/config"
	"github.com/walteh/tabmigrate/pkg/log"
	"github.com/walteh/tabmigrate/pkg/remote/tableau"
	"gitlab.com/tozd/go/errors"
)

var modes = []string{"all", "updated", "list-projects", "select-project"}

// newRootOpts creates rootOpts wired to the real process and the Tableau REST API
func newRootOpts(stdout, stderr io.Writer) *opts.RootOpts {
	return &opts.RootOpts{
		Stdout:    stdout,
		Stderr:    stderr,
		Lookup:    os.LookupEnv,
		Connector: tableau.NewConnector(),
		Clock:     clock.WallClock,
	}
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", config.DefaultConfigFile, "config file path (.env, .yaml or .hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.MetricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	cmd.PersistentFlags().BoolVar(&o.DryRun, "dry-run", false, "list and classify data sources without migrating them")
	cmd.PersistentFlags().IntVar(&o.Number, "number", 0, "project number to select (select-project)")
	cmd.Flags().StringVar(&o.Mode, "mode", "", "run a command by name: "+strings.Join(modes, ", "))
}

// setupLogging configures zerolog based on flags
func setupLogging(o *opts.RootOpts) zerolog.Logger {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: o.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	root := &cobra.Command{
		Use:   "tabmigrate",
		Short: "Migrate data sources from Tableau Server to Tableau Cloud",
		Long: `tabmigrate copies published data sources from a Tableau Server site into a
Tableau Cloud project, overwriting data sources of the same name.

Credentials and the destination project are read from the config file.
Run list-projects and select-project once to choose the destination project.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o.NumberSet = cmd.Flags().Changed("number")

			logger := setupLogging(o)
			ctx := logger.WithContext(cmd.Context())
			ctx = log.NewContext(ctx, log.New(o.Stdout))
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.Mode == "" {
				return cmd.Help()
			}
			sub, _, err := cmd.Find([]string{o.Mode})
			if err != nil || sub == cmd || sub.RunE == nil {
				return errors.Errorf("unknown mode %q, expected one of %s", o.Mode, strings.Join(modes, ", "))
			}
			sub.SetContext(cmd.Context())
			return sub.RunE(sub, args)
		},
	}

	root.SetOut(o.Stdout)
	root.SetErr(o.Stderr)
	addRootFlags(root, o)

	root.AddCommand(
		commands.NewAllCmd(o),
		commands.NewUpdatedCmd(o),
		commands.NewListProjectsCmd(o),
		commands.NewSelectProjectCmd(o),
	)

	return root
}

// execute runs the command line and returns the process exit status.
func execute(ctx context.Context, o *opts.RootOpts, args []string) int {
	root := newRootCmd(o)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		log.New(o.Stderr).Error(ctx, err.Error())
		return 1
	}
	return 0
}
