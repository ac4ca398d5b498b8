package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/tabmigrate/cmd/tabmigrate/opts"
	"github.com/walteh/tabmigrate/pkg/log"
	"github.com/walteh/tabmigrate/pkg/projects"
	"github.com/walteh/tabmigrate/pkg/session"
	"gitlab.com/tozd/go/errors"
)

// NewListProjectsCmd creates the command that prints destination projects
func NewListProjectsCmd(o *opts.RootOpts) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "list-projects",
		Short: "List the projects of the destination site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			list, err := projects.List(ctx, session.NewManager(o.Connector, cfg))
			if err != nil {
				return err
			}

			if name != "" {
				p, ok := projects.Find(list, name)
				if !ok {
					return errors.Errorf("no project named %q", name)
				}
				console.Successf(ctx, "project %s has id %s", p.Name, p.ID)
				return nil
			}

			console.Infof(ctx, "%d projects on the destination site", len(list))
			return projects.Render(ctx, console, list)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "print only the id of the project with this exact name")
	return cmd
}

// NewSelectProjectCmd creates the command that saves the destination project
func NewSelectProjectCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "select-project --number N",
		Short: "Save a destination project, by its list-projects number, to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			if !o.NumberSet {
				_ = cmd.Usage()
				return errors.New("select-project requires --number")
			}

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			list, err := projects.List(ctx, session.NewManager(o.Connector, cfg))
			if err != nil {
				return err
			}
			if err := projects.Render(ctx, console, list); err != nil {
				return err
			}

			chosen, err := projects.Select(ctx, cfg, o.Number, list)
			if err != nil {
				return err
			}

			console.Successf(ctx, "destination project set to %s (%s) in %s", chosen.Name, chosen.ID, cfg.Location())
			return nil
		},
	}
}
