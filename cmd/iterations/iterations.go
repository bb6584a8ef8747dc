package iterations

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/workops/internal/common"
	"github.com/bjulian5/workops/internal/dashboard"
	"github.com/bjulian5/workops/internal/ui"
)

// Command lists the iterations of the project's teams
type Command struct {
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "iterations",
		Short: "List iterations",
		Long: `List the iterations of every team in the project.

The iteration the to-do tree shows by default is marked with ►.
Pass a name or path from this list to --iteration.

Example:
  workops iterations`,
		Args: cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Clients, err = common.InitClients(cobraCmd.Context())
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run(cobraCmd.Context())
		},
	}

	parent.AddCommand(command)
}

func (c *Command) Run(ctx context.Context) error {
	st, err := c.Clients.LoadSettings(ctx, nil)
	if err != nil {
		return err
	}
	ui.Println(ui.RenderIterations(dashboard.IterationList(st)))
	return nil
}
