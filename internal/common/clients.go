package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/bjulian5/workops/internal/ado"
	"github.com/bjulian5/workops/internal/config"
	"github.com/bjulian5/workops/internal/dashboard"
	"github.com/bjulian5/workops/internal/links"
	"github.com/bjulian5/workops/internal/pullrequests"
	"github.com/bjulian5/workops/internal/settings"
	"github.com/bjulian5/workops/internal/ui"
	"github.com/bjulian5/workops/internal/workitems"
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	OrgURL  string
	Project string
}

// Globals is bound to the root command's persistent flags.
var Globals GlobalFlags

// Clients bundles everything a command needs to talk to Azure DevOps.
type Clients struct {
	Config    *config.Config
	ADO       *ado.Client
	Settings  *settings.Resolver
	Links     *links.Cache
	Dashboard *dashboard.Dashboard
}

// InitClients loads configuration and builds the service clients.
// Returns an error that is suitable for use in PreRunE hooks
func InitClients(ctx context.Context) (*Clients, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Override(Globals.OrgURL, Globals.Project)

	client, err := ado.NewClient(ctx, cfg)
	if err != nil {
		if errors.Is(err, config.ErrMissingConfig) {
			ui.Error("Azure DevOps is not configured")
		}
		return nil, fmt.Errorf("azure devops client initialization failed: %w", err)
	}

	store := settings.NewStore(cfg.SettingsPath)
	cache := links.NewCache(client)

	return &Clients{
		Config:   cfg,
		ADO:      client,
		Settings: settings.NewResolver(client, store, cfg.Project, cfg.RevalidateDelay),
		Links:    cache,
		Dashboard: dashboard.New(dashboard.Options{
			OrgURL:       client.OrgURL(),
			WorkItems:    workitems.NewFetcher(client, cfg.MaxConcurrent),
			PullRequests: pullrequests.NewFetcher(client, cfg.MaxConcurrent),
			Links:        cache,
		}),
	}, nil
}

// LoadSettings returns the session settings and applies them to the
// dashboard. Cached settings are served at once and revalidated in the
// background; onChange receives fresh settings when they differ.
func (c *Clients) LoadSettings(ctx context.Context, onChange func(*settings.Settings)) (*settings.Settings, error) {
	st, err := c.Settings.Start(ctx, onChange)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings: %w", err)
	}
	if !st.Ready() {
		ui.Warning("No project configured: set AZURE_DEVOPS_PROJECT or pass --project")
	}
	return st, nil
}
