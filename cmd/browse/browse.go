package browse

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/workops/internal/common"
	"github.com/bjulian5/workops/internal/settings"
	"github.com/bjulian5/workops/internal/tui"
)

// Command starts the interactive tree browser
type Command struct {
	// Flags
	View  common.ViewFlags
	Links bool

	// Clients
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "browse",
		Short: "Browse the to-do tree interactively",
		Long: `Browse the to-do tree interactively.

Move with the arrow keys, expand with enter, open the selected item with o
and copy its URL with y. Press f to cycle the task filter, r to refresh and
? for every key.

Example:
  workops browse
  workops browse --filter All --links`,
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

	c.View.Register(command)
	command.Flags().BoolVarP(&c.Links, "links", "l", false, "Show the links of the selected item")

	parent.AddCommand(command)
}

func (c *Command) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d := c.Clients.Dashboard
	st, err := c.Clients.LoadSettings(ctx, func(fresh *settings.Settings) {
		if fresh, _, err := c.View.Resolve(fresh); err == nil {
			d.SetSettings(ctx, fresh)
		}
	})
	if err != nil {
		return err
	}
	st, err = c.Clients.Prepare(ctx, st, c.View)
	if err != nil {
		return err
	}

	return tui.Run(ctx, d, tui.Options{Settings: st, ShowLinks: c.Links})
}
