package open

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/bjulian5/workops/internal/common"
	"github.com/bjulian5/workops/internal/tree"
	"github.com/bjulian5/workops/internal/ui"
)

// Command opens a work item or pull request in the browser
type Command struct {
	// Arguments
	NodeID string

	// Flags
	View common.ViewFlags
	Copy bool

	// Clients
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "open [id]",
		Short: "Open a work item or pull request in the browser",
		Long: `Open a work item or pull request in the browser.

If no id is provided, opens an interactive fuzzy finder over the items and
pull requests of the to-do tree. Ids are the node ids shown by the finder,
or a bare work item number.

Examples:
  workops open                # Interactive fuzzy finder
  workops open 1234           # Work item 1234
  workops open pr4538         # Pull request 4538
  workops open --copy         # Copy the URL instead of opening it`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Clients, err = common.InitClients(cobraCmd.Context())
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				c.NodeID = args[0]
			}
			return c.Run(cobraCmd.Context())
		},
	}

	c.View.Register(command)
	command.Flags().BoolVarP(&c.Copy, "copy", "c", false, "Copy the URL to the clipboard instead of opening it")

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	st, err := c.Clients.LoadSettings(ctx, nil)
	if err != nil {
		return err
	}
	st, err = c.Clients.Prepare(ctx, st, c.View)
	if err != nil {
		return err
	}
	d := c.Clients.Dashboard
	d.SetSettings(ctx, st)

	id := c.NodeID
	switch {
	case id == "":
		selected, err := ui.SelectNode(d.Navigable(), d)
		if err != nil {
			return err
		}
		if selected == nil {
			// Cancelled, or nothing to open
			return nil
		}
		id = selected.ID
	case isNumber(id):
		id = "item" + id
	case !strings.Contains(id, ":"):
		id = canonicalID(d.Navigable(), id)
	}

	if c.Copy {
		url, err := d.Select(id)
		if err != nil {
			return err
		}
		if url == "" {
			return fmt.Errorf("%q cannot be opened", id)
		}
		if err := clipboard.WriteAll(url); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		ui.Successf("Copied %s", url)
		return nil
	}

	url, err := d.Open(id)
	if err != nil {
		return err
	}
	if url == "" {
		return fmt.Errorf("%q cannot be opened", id)
	}
	ui.Successf("Opening %s", url)
	return nil
}

// canonicalID maps a bare pull request id such as "pr4538" to the first node
// showing that pull request.
func canonicalID(nodes []*tree.Node, id string) string {
	target := tree.ParseID(id)
	if target.Kind != tree.TargetPullRequest {
		return id
	}
	for _, n := range nodes {
		if tree.ParseID(n.ID) == target {
			return n.ID
		}
	}
	return id
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
