package ado

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/core"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/location"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/work"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"

	"github.com/bjulian5/workops/internal/config"
)

// Client provides Azure DevOps operations through the REST SDK.
// It satisfies the service interfaces of the settings, workitems,
// pullrequests and links packages.
type Client struct {
	orgURL   string
	core     core.Client
	work     work.Client
	wit      workitemtracking.Client
	git      git.Client
	location location.Client
}

// NewClient connects to the organization in cfg with its personal access token.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn := azuredevops.NewPatConnection(cfg.OrgURL, cfg.PAT)

	coreClient, err := core.NewClient(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create core client: %w", err)
	}
	workClient, err := work.NewClient(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create work client: %w", err)
	}
	witClient, err := workitemtracking.NewClient(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create work item tracking client: %w", err)
	}
	gitClient, err := git.NewClient(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create git client: %w", err)
	}

	return &Client{
		orgURL:   cfg.OrgURL,
		core:     coreClient,
		work:     workClient,
		wit:      witClient,
		git:      gitClient,
		location: location.NewClient(ctx, conn),
	}, nil
}

// OrgURL returns the organization URL the client talks to.
func (c *Client) OrgURL() string {
	return c.orgURL
}

func ptr[T any](v T) *T {
	return &v
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolVal(p *bool) bool {
	return p != nil && *p
}
