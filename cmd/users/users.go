package users

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bjulian5/workops/internal/common"
	"github.com/bjulian5/workops/internal/ui"
)

// Command lists the user directory
type Command struct {
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "users",
		Short: "List users",
		Long: `List the members of the project's teams.

Any alias, email or display name from this list can be passed to --user.

Example:
  workops users`,
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
	ui.Println(ui.RenderUsers(st.Users))
	return nil
}
