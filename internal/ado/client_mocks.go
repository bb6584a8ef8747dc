package ado

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bjulian5/workops/internal/model"
)

// MockClient is a testify mock of the Azure DevOps client.
type MockClient struct {
	mock.Mock
}

// Project implements settings.Service.
func (m *MockClient) Project(ctx context.Context, nameOrID string) (model.Project, error) {
	args := m.Called(ctx, nameOrID)
	return args.Get(0).(model.Project), args.Error(1)
}

// CurrentUser implements settings.Service.
func (m *MockClient) CurrentUser(ctx context.Context) (model.Identity, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Identity), args.Error(1)
}

// Teams implements settings.Service.
func (m *MockClient) Teams(ctx context.Context, projectID string) ([]model.Team, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Team), args.Error(1)
}

// TeamIterations implements settings.Service.
func (m *MockClient) TeamIterations(ctx context.Context, projectID, teamID string) ([]model.Iteration, error) {
	args := m.Called(ctx, projectID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Iteration), args.Error(1)
}

// TeamMembers implements settings.Service.
func (m *MockClient) TeamMembers(ctx context.Context, projectID, teamID string) ([]model.Identity, error) {
	args := m.Called(ctx, projectID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Identity), args.Error(1)
}

// QueryLinks implements workitems.Service.
func (m *MockClient) QueryLinks(ctx context.Context, project, wiql string) ([]model.LinkRow, error) {
	args := m.Called(ctx, project, wiql)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LinkRow), args.Error(1)
}

// QueryIDs implements workitems.Service.
func (m *MockClient) QueryIDs(ctx context.Context, project, wiql string) ([]int, error) {
	args := m.Called(ctx, project, wiql)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// WorkItems implements workitems.Service.
func (m *MockClient) WorkItems(ctx context.Context, project string, ids []int) ([]model.WorkItem, error) {
	args := m.Called(ctx, project, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkItem), args.Error(1)
}

// WorkItemComments implements workitems.Service.
func (m *MockClient) WorkItemComments(ctx context.Context, project string, id int) ([]model.WorkItemComment, error) {
	args := m.Called(ctx, project, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkItemComment), args.Error(1)
}

// PullRequests implements pullrequests.Service.
func (m *MockClient) PullRequests(ctx context.Context, projectID string, search model.PRSearch) ([]model.PullRequest, error) {
	args := m.Called(ctx, projectID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PullRequest), args.Error(1)
}

// Threads implements pullrequests.Service.
func (m *MockClient) Threads(ctx context.Context, projectID, repositoryID string, prID int) ([]model.CommentThread, error) {
	args := m.Called(ctx, projectID, repositoryID, prID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CommentThread), args.Error(1)
}

// PullRequestByID implements links.Service.
func (m *MockClient) PullRequestByID(ctx context.Context, projectID string, id int) (model.PullRequest, error) {
	args := m.Called(ctx, projectID, id)
	return args.Get(0).(model.PullRequest), args.Error(1)
}

// Branch implements links.Service.
func (m *MockClient) Branch(ctx context.Context, projectID, repositoryID, name string) (model.BranchRef, error) {
	args := m.Called(ctx, projectID, repositoryID, name)
	return args.Get(0).(model.BranchRef), args.Error(1)
}

// Commit implements links.Service.
func (m *MockClient) Commit(ctx context.Context, projectID, repositoryID, commitID string) (model.CommitRef, error) {
	args := m.Called(ctx, projectID, repositoryID, commitID)
	return args.Get(0).(model.CommitRef), args.Error(1)
}
