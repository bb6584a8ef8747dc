package common

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/settings"
)

// ViewFlags selects what the to-do tree shows.
type ViewFlags struct {
	Filter    string
	User      string
	Iteration string
}

// Register binds the view flags to command.
func (v *ViewFlags) Register(command *cobra.Command) {
	command.Flags().StringVarP(&v.Filter, "filter", "f", string(model.FilterActive), "Task filter: Active, Waiting, Done or All")
	command.Flags().StringVarP(&v.User, "user", "u", model.MeAlias, "Show the to-do list of another user (alias, email or name)")
	command.Flags().StringVarP(&v.Iteration, "iteration", "i", "", "Iteration name or path (default: the current iteration)")
}

// Resolve validates v against st. It returns st with the requested iteration
// selected and the parsed task filter. Settings that are not ready are
// returned unchanged.
func (v ViewFlags) Resolve(st *settings.Settings) (*settings.Settings, model.TaskFilter, error) {
	filter, err := model.ParseTaskFilter(v.Filter)
	if err != nil {
		return nil, "", err
	}
	if !st.Ready() {
		return st, filter, nil
	}

	if _, err := st.Lookup(v.User); err != nil {
		return nil, "", fmt.Errorf("unknown user: %w", err)
	}
	if v.Iteration != "" {
		it, err := model.FirstMatching(st.Iterations, func(it model.Iteration) bool {
			return it.Path == v.Iteration || it.Name == v.Iteration
		})
		if err != nil {
			return nil, "", fmt.Errorf("unknown iteration %q: %w", v.Iteration, err)
		}
		st = st.WithIteration(it.Path)
	}
	return st, filter, nil
}

// Prepare applies v to the dashboard before its first refresh and returns
// the settings to start it with.
func (c *Clients) Prepare(ctx context.Context, st *settings.Settings, v ViewFlags) (*settings.Settings, error) {
	st, filter, err := v.Resolve(st)
	if err != nil {
		return nil, err
	}
	c.Dashboard.SetTaskFilter(ctx, filter)
	if err := c.Dashboard.SetUserFilter(ctx, v.User); err != nil {
		return nil, err
	}
	return st, nil
}
