package ado

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/core"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/identity"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/location"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/work"

	"github.com/bjulian5/workops/internal/model"
)

// Project looks up a project by name or id.
func (c *Client) Project(ctx context.Context, nameOrID string) (model.Project, error) {
	p, err := c.core.GetProject(ctx, core.GetProjectArgs{ProjectId: ptr(nameOrID)})
	if isNotFound(err) {
		return model.Project{}, fmt.Errorf("project %q: %w", nameOrID, model.ErrNotFound)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to get project %q: %w", nameOrID, err)
	}
	return model.Project{ID: uuidString(p.Id), Name: str(p.Name)}, nil
}

// CurrentUser returns the identity the connection is authenticated as.
func (c *Client) CurrentUser(ctx context.Context) (model.Identity, error) {
	data, err := c.location.GetConnectionData(ctx, location.GetConnectionDataArgs{})
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to get connection data: %w", err)
	}
	if data.AuthenticatedUser == nil {
		return model.Identity{}, fmt.Errorf("connection has no authenticated user")
	}
	return toIdentity(data.AuthenticatedUser), nil
}

// Teams lists the teams of a project the current user belongs to.
func (c *Client) Teams(ctx context.Context, projectID string) ([]model.Team, error) {
	teams, err := c.core.GetTeams(ctx, core.GetTeamsArgs{
		ProjectId: ptr(projectID),
		Mine:      ptr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if teams == nil {
		return nil, nil
	}

	result := make([]model.Team, 0, len(*teams))
	for _, t := range *teams {
		result = append(result, model.Team{ID: uuidString(t.Id), Name: str(t.Name)})
	}
	return result, nil
}

// TeamMembers lists the members of a team.
func (c *Client) TeamMembers(ctx context.Context, projectID, teamID string) ([]model.Identity, error) {
	members, err := c.core.GetTeamMembersWithExtendedProperties(ctx, core.GetTeamMembersWithExtendedPropertiesArgs{
		ProjectId: ptr(projectID),
		TeamId:    ptr(teamID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %s: %w", teamID, err)
	}
	if members == nil {
		return nil, nil
	}

	result := make([]model.Identity, 0, len(*members))
	for _, m := range *members {
		if m.Identity == nil {
			continue
		}
		result = append(result, toIdentityRef(m.Identity))
	}
	return result, nil
}

// TeamIterations lists the iterations a team subscribes to.
func (c *Client) TeamIterations(ctx context.Context, projectID, teamID string) ([]model.Iteration, error) {
	iters, err := c.work.GetTeamIterations(ctx, work.GetTeamIterationsArgs{
		Project: ptr(projectID),
		Team:    ptr(teamID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list iterations of team %s: %w", teamID, err)
	}
	if iters == nil {
		return nil, nil
	}

	result := make([]model.Iteration, 0, len(*iters))
	for _, it := range *iters {
		result = append(result, toIteration(it))
	}
	return result, nil
}

func toIteration(it work.TeamSettingsIteration) model.Iteration {
	iter := model.Iteration{
		ID:   uuidString(it.Id),
		Name: str(it.Name),
		Path: str(it.Path),
	}
	if it.Attributes != nil {
		iter.StartDate = timeVal(it.Attributes.StartDate)
		iter.FinishDate = timeVal(it.Attributes.FinishDate)
	}
	return iter
}

// toIdentity converts the authenticated identity. The unique name lives in
// the "Account" property bag entry.
func toIdentity(id *identity.Identity) model.Identity {
	result := model.Identity{
		ID:          uuidString(id.Id),
		DisplayName: str(id.ProviderDisplayName),
	}
	if id.CustomDisplayName != nil && *id.CustomDisplayName != "" {
		result.DisplayName = *id.CustomDisplayName
	}
	result.UniqueName = propertyString(id.Properties, "Account")
	return result
}

func toIdentityRef(ref *webapi.IdentityRef) model.Identity {
	return model.Identity{
		ID:          str(ref.Id),
		DisplayName: str(ref.DisplayName),
		UniqueName:  str(ref.UniqueName),
	}
}

// propertyString reads a value out of an identity property bag, which
// decodes as {"Key": {"$type": "...", "$value": "..."}}.
func propertyString(props interface{}, key string) string {
	bag, ok := props.(map[string]interface{})
	if !ok {
		return ""
	}
	switch v := bag[key].(type) {
	case string:
		return v
	case map[string]interface{}:
		if s, ok := v["$value"].(string); ok {
			return s
		}
	}
	return ""
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func timeVal(t *azuredevops.Time) *time.Time {
	if t == nil || t.Time.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// isNotFound reports whether err is a service error with status 404.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var wrapped azuredevops.WrappedError
	if errors.As(err, &wrapped) {
		return wrapped.StatusCode != nil && *wrapped.StatusCode == http.StatusNotFound
	}
	var wrappedPtr *azuredevops.WrappedError
	if errors.As(err, &wrappedPtr) && wrappedPtr != nil {
		return wrappedPtr.StatusCode != nil && *wrappedPtr.StatusCode == http.StatusNotFound
	}
	return false
}
