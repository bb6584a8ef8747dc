package ado

import (
	"context"
	"fmt"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"

	"github.com/bjulian5/workops/internal/model"
)

// Work item field reference names.
const (
	fieldType       = "System.WorkItemType"
	fieldTitle      = "System.Title"
	fieldState      = "System.State"
	fieldAssignedTo = "System.AssignedTo"
	fieldAreaPath   = "System.AreaPath"
	fieldPriority   = "Microsoft.VSTS.Common.Priority"
	fieldRelease    = "Custom.Release"

	// fieldReleaseLegacy is the release field of process templates that
	// predate the Custom.Release reference name.
	fieldReleaseLegacy = "Custom.319d7677-7313-48ce-858e-746a615b8704"
)

// QueryLinks runs a WIQL link query and returns its rows.
func (c *Client) QueryLinks(ctx context.Context, project, wiql string) ([]model.LinkRow, error) {
	res, err := c.queryByWiql(ctx, project, wiql)
	if err != nil {
		return nil, err
	}
	if res.WorkItemRelations == nil {
		return nil, nil
	}

	rows := make([]model.LinkRow, 0, len(*res.WorkItemRelations))
	for _, l := range *res.WorkItemRelations {
		rows = append(rows, toLinkRow(l))
	}
	return rows, nil
}

// QueryIDs runs a flat WIQL query and returns the matching ids in order.
func (c *Client) QueryIDs(ctx context.Context, project, wiql string) ([]int, error) {
	res, err := c.queryByWiql(ctx, project, wiql)
	if err != nil {
		return nil, err
	}
	if res.WorkItems == nil {
		return nil, nil
	}

	ids := make([]int, 0, len(*res.WorkItems))
	for _, ref := range *res.WorkItems {
		if ref.Id != nil {
			ids = append(ids, *ref.Id)
		}
	}
	return ids, nil
}

func (c *Client) queryByWiql(ctx context.Context, project, wiql string) (*workitemtracking.WorkItemQueryResult, error) {
	res, err := c.wit.QueryByWiql(ctx, workitemtracking.QueryByWiqlArgs{
		Wiql:    &workitemtracking.Wiql{Query: ptr(wiql)},
		Project: ptr(project),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run work item query: %w", err)
	}
	return res, nil
}

// WorkItems fetches one batch of work items with their relations expanded.
func (c *Client) WorkItems(ctx context.Context, project string, ids []int) ([]model.WorkItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := c.wit.GetWorkItems(ctx, workitemtracking.GetWorkItemsArgs{
		Ids:     &ids,
		Project: ptr(project),
		Expand:  &workitemtracking.WorkItemExpandValues.Relations,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get work items: %w", err)
	}
	if items == nil {
		return nil, nil
	}

	result := make([]model.WorkItem, 0, len(*items))
	for _, it := range *items {
		result = append(result, toWorkItem(it))
	}
	return result, nil
}

// WorkItemComments returns the discussion of a work item, oldest first.
// It follows continuation tokens until the last page.
func (c *Client) WorkItemComments(ctx context.Context, project string, id int) ([]model.WorkItemComment, error) {
	var result []model.WorkItemComment
	var token *string
	for {
		list, err := c.wit.GetComments(ctx, workitemtracking.GetCommentsArgs{
			Project:           ptr(project),
			WorkItemId:        ptr(id),
			Order:             &workitemtracking.CommentSortOrderValues.Asc,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get comments of work item %d: %w", id, err)
		}
		if list == nil {
			return result, nil
		}
		if list.Comments != nil {
			for _, cm := range *list.Comments {
				comment := model.WorkItemComment{Text: str(cm.Text)}
				if cm.CreatedBy != nil {
					comment.Author = toIdentityRef(cm.CreatedBy)
				}
				result = append(result, comment)
			}
		}
		if list.ContinuationToken == nil || *list.ContinuationToken == "" {
			return result, nil
		}
		token = list.ContinuationToken
	}
}

func toLinkRow(l workitemtracking.WorkItemLink) model.LinkRow {
	row := model.LinkRow{Rel: str(l.Rel)}
	if l.Source != nil {
		row.SourceID = intVal(l.Source.Id)
	}
	if l.Target != nil {
		row.TargetID = intVal(l.Target.Id)
	}
	return row
}

func toWorkItem(it workitemtracking.WorkItem) model.WorkItem {
	var fields map[string]interface{}
	if it.Fields != nil {
		fields = *it.Fields
	}

	item := model.WorkItem{
		ID:         intVal(it.Id),
		Type:       fieldString(fields, fieldType),
		Title:      fieldString(fields, fieldTitle),
		State:      fieldString(fields, fieldState),
		AssignedTo: fieldIdentity(fields, fieldAssignedTo),
		AreaPath:   fieldString(fields, fieldAreaPath),
		Priority:   fieldInt(fields, fieldPriority),
		Release:    fieldString(fields, fieldRelease),
	}
	if item.Release == "" {
		item.Release = fieldString(fields, fieldReleaseLegacy)
	}

	if it.Relations != nil {
		for _, r := range *it.Relations {
			if str(r.Rel) != model.RelArtifactLink {
				continue
			}
			item.Relations = append(item.Relations, model.ArtifactLink{Rel: str(r.Rel), URL: str(r.Url)})
		}
	}
	return item
}

func fieldString(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

// fieldInt reads a numeric field; JSON numbers decode as float64.
func fieldInt(fields map[string]interface{}, key string) int {
	switch v := fields[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func fieldIdentity(fields map[string]interface{}, key string) *model.Identity {
	m, ok := fields[key].(map[string]interface{})
	if !ok {
		return nil
	}
	id := &model.Identity{
		ID:          fieldString(m, "id"),
		DisplayName: fieldString(m, "displayName"),
		UniqueName:  fieldString(m, "uniqueName"),
	}
	if id.IsZero() && id.DisplayName == "" {
		return nil
	}
	return id
}
