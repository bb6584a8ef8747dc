package dashboard

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/pullrequests"
	"github.com/bjulian5/workops/internal/workitems"
)

type MockWorkItemFetcher struct {
	mock.Mock
}

// Fetch implements WorkItemFetcher.
func (m *MockWorkItemFetcher) Fetch(ctx context.Context, project, iterationPath string, filter model.TaskFilter, user string) ([]model.WorkItem, []model.LinkEdge, error) {
	args := m.Called(ctx, project, iterationPath, filter, user)
	var items []model.WorkItem
	if v := args.Get(0); v != nil {
		items = v.([]model.WorkItem)
	}
	var edges []model.LinkEdge
	if v := args.Get(1); v != nil {
		edges = v.([]model.LinkEdge)
	}
	return items, edges, args.Error(2)
}

// FetchMentioned implements WorkItemFetcher.
func (m *MockWorkItemFetcher) FetchMentioned(ctx context.Context, project string) ([]workitems.Mentioned, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]workitems.Mentioned), args.Error(1)
}

type MockPullRequestFetcher struct {
	mock.Mock
}

// Fetch implements PullRequestFetcher.
func (m *MockPullRequestFetcher) Fetch(ctx context.Context, role pullrequests.Role, projectID string, subject model.Identity, filter model.TaskFilter) ([]pullrequests.Info, error) {
	args := m.Called(ctx, role, projectID, subject, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pullrequests.Info), args.Error(1)
}
