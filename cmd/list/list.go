package list

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bjulian5/workops/internal/common"
	"github.com/bjulian5/workops/internal/dashboard"
	"github.com/bjulian5/workops/internal/settings"
	"github.com/bjulian5/workops/internal/ui"
)

type Command struct {
	// Flags
	View   common.ViewFlags
	Expand bool
	Links  bool
	Watch  time.Duration

	// Clients
	Clients *common.Clients
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "list",
		Short: "Show the to-do tree",
		Long: `Show the to-do tree for the current iteration.

Work items are grouped by area, followed by items that mention you and the
pull requests you created or review. Parent items are collapsed unless
--expand is given.

Cached project settings are used right away and checked against the server
afterwards; the tree is printed again if they changed.

Example:
  workops list
  workops list --filter Waiting
  workops list --user alice@contoso.com --iteration "Sprint 12"
  workops list --expand --links
  workops list --watch 1m`,
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
	command.Flags().BoolVarP(&c.Expand, "expand", "e", false, "Expand every group and parent item")
	command.Flags().BoolVarP(&c.Links, "links", "l", false, "Show branches, commits and pull requests linked to items")
	command.Flags().DurationVarP(&c.Watch, "watch", "w", 0, "Refresh and redraw at this interval")

	parent.AddCommand(command)
}

func (c *Command) Run(ctx context.Context) error {
	revalidated := make(chan *settings.Settings, 1)
	st, err := c.Clients.LoadSettings(ctx, func(fresh *settings.Settings) {
		revalidated <- fresh
	})
	if err != nil {
		return err
	}
	st, err = c.Clients.Prepare(ctx, st, c.View)
	if err != nil {
		return err
	}

	d := c.Clients.Dashboard
	d.SetSettings(ctx, st)
	c.render(ctx, d)

	if c.Watch <= 0 {
		c.Clients.Settings.Wait()
		select {
		case fresh := <-revalidated:
			if err := c.apply(ctx, d, fresh); err != nil {
				return err
			}
			ui.Infof("Settings for %s changed", d.Settings().Project.ProjectName)
			c.render(ctx, d)
		default:
		}
		return nil
	}

	ticker := time.NewTicker(c.Watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fresh := <-revalidated:
			if err := c.apply(ctx, d, fresh); err != nil {
				return err
			}
		case <-ticker.C:
			d.Refresh(ctx)
		}
		ui.ClearScreen()
		c.render(ctx, d)
	}
}

// apply switches to revalidated settings, keeping the requested iteration.
func (c *Command) apply(ctx context.Context, d *dashboard.Dashboard, fresh *settings.Settings) error {
	fresh, _, err := c.View.Resolve(fresh)
	if err != nil {
		return fmt.Errorf("failed to apply refreshed settings: %w", err)
	}
	d.SetSettings(ctx, fresh)
	return nil
}

func (c *Command) render(ctx context.Context, d *dashboard.Dashboard) {
	if c.Expand {
		d.SetExpanded(ctx, true)
	}
	if c.Links {
		d.ResolveVisible(ctx)
		d.WaitLinks()
	}

	ui.Println(ui.RenderHeader(d.Settings(), d.Filter(), d.UserKey()))
	if c.Watch > 0 {
		ui.Println(ui.SubtitleStyle.Render(fmt.Sprintf("every %s, updated %s", c.Watch, time.Now().Format("15:04:05"))))
	}
	ui.Println(ui.FitWidth(ui.RenderTree(d.Tree(), d, ui.TreeOptions{ShowLinks: c.Links}), ui.GetTerminalWidth()))
}
