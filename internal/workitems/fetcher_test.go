package workitems

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/workops/internal/ado"
	"github.com/bjulian5/workops/internal/model"
)

const project = "p1"

func TestQueries(t *testing.T) {
	q := TaskLinksQuery(`Fabrikam\Sprint 5`, model.FilterActive, model.MeAlias)
	assert.Contains(t, q, "[Target].[System.AssignedTo] = @me")
	assert.Contains(t, q, `[Target].[System.IterationPath] = 'Fabrikam\Sprint 5'`)
	assert.Contains(t, q, "[Target].[System.State] IN ('Ready', 'Active')")

	q = TopLevelQuery("", model.FilterAll, "o'neil@example.com")
	assert.Contains(t, q, "[System.AssignedTo] = 'o''neil@example.com'")
	assert.Contains(t, q, "[System.IterationPath] = @CurrentIteration")
	assert.Contains(t, q, "IN ('Bug', 'User Story', 'Impediment')")
	assert.Contains(t, q, "[System.State] IN ('New', 'Ready', 'Active')")

	assert.Contains(t, ChildLinksQuery([]int{1, 2, 3}), "[Source].[System.Id] IN (1, 2, 3)")
}

func TestStateTables(t *testing.T) {
	tests := []struct {
		filter   model.TaskFilter
		tasks    []string
		topLevel []string
	}{
		{model.FilterActive, []string{"Ready", "Active"}, []string{"Ready", "Active"}},
		{model.FilterWaiting, []string{"New"}, nil},
		{model.FilterDone, []string{"Resolved"}, nil},
		{model.FilterAll, []string{"New", "Ready", "Active", "Resolved"}, []string{"New", "Ready", "Active"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			assert.Equal(t, tt.tasks, TaskStates(tt.filter))
			assert.Equal(t, tt.topLevel, TopLevelStates(tt.filter))
		})
	}
}

func TestChunk(t *testing.T) {
	ids := make([]int, 450)
	for i := range ids {
		ids[i] = i + 1
	}
	chunks := chunk(ids, BatchSize)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 200)
	assert.Len(t, chunks[2], 50)
	assert.Equal(t, 401, chunks[2][0])
	assert.Nil(t, chunk(nil, BatchSize))
}

func teamAService() *ado.MockClient {
	svc := &ado.MockClient{}
	taskQuery := TaskLinksQuery("P\\S1", model.FilterActive, model.MeAlias)
	svc.On("QueryLinks", mock.Anything, project, taskQuery).Return([]model.LinkRow{
		{TargetID: 10},
		{SourceID: 10, TargetID: 11, Rel: LinkTypeChild},
	}, nil)
	svc.On("QueryIDs", mock.Anything, project, TopLevelQuery("P\\S1", model.FilterActive, model.MeAlias)).
		Return([]int{20, 10}, nil)
	svc.On("QueryLinks", mock.Anything, project, ChildLinksQuery([]int{10, 20})).Return([]model.LinkRow{
		{TargetID: 10},
		{TargetID: 20},
		{SourceID: 10, TargetID: 11, Rel: LinkTypeChild},
		{SourceID: 10, TargetID: 12, Rel: LinkTypeChild},
		{SourceID: 20, TargetID: 99, Rel: LinkTypeChild},
	}, nil)
	svc.On("WorkItems", mock.Anything, project, []int{10, 20, 11, 12, 99}).Return([]model.WorkItem{
		{ID: 10, Type: model.TypeUserStory},
		{ID: 20, Type: model.TypeBug},
		{ID: 11, Type: model.TypeTask},
		{ID: 12, Type: model.TypeTask},
	}, nil)
	return svc
}

func TestFetch(t *testing.T) {
	svc := teamAService()
	f := NewFetcher(svc, 4)

	items, edges, err := f.Fetch(context.Background(), project, "P\\S1", model.FilterActive, model.MeAlias)
	require.NoError(t, err)

	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	assert.Equal(t, []int{10, 20, 11, 12}, ids)
	assert.Equal(t, []model.LinkEdge{
		{SourceID: 10, TargetID: 11, IsChildRel: true},
		{SourceID: 10, TargetID: 12, IsChildRel: true},
	}, edges, "edges to unfetched items are dropped")

	items2, edges2, err := f.Fetch(context.Background(), project, "P\\S1", model.FilterActive, model.MeAlias)
	require.NoError(t, err)
	assert.Equal(t, items, items2)
	assert.Equal(t, edges, edges2)
	svc.AssertExpectations(t)
}

func TestFetch_EmptySeedsSkipsFollowUps(t *testing.T) {
	svc := &ado.MockClient{}
	svc.On("QueryLinks", mock.Anything, project, TaskLinksQuery("", model.FilterWaiting, model.MeAlias)).
		Return([]model.LinkRow{}, nil)

	items, edges, err := NewFetcher(svc, 4).Fetch(context.Background(), project, "", model.FilterWaiting, model.MeAlias)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, edges)
	svc.AssertNotCalled(t, "QueryIDs", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "WorkItems", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNumberOfCalls(t, "QueryLinks", 1)
}

func TestFetch_PropagatesErrors(t *testing.T) {
	svc := &ado.MockClient{}
	svc.On("QueryLinks", mock.Anything, project, mock.Anything).Return(nil, errors.New("boom"))
	svc.On("QueryIDs", mock.Anything, project, mock.Anything).Return([]int{}, nil)

	_, _, err := NewFetcher(svc, 4).Fetch(context.Background(), project, "", model.FilterActive, model.MeAlias)
	assert.ErrorContains(t, err, "boom")
}

func TestFetchMentioned(t *testing.T) {
	svc := &ado.MockClient{}
	svc.On("QueryIDs", mock.Anything, project, MentionsQuery).Return([]int{5, 6}, nil)
	svc.On("WorkItems", mock.Anything, project, []int{5, 6}).Return([]model.WorkItem{{ID: 5}, {ID: 6}}, nil)
	svc.On("WorkItemComments", mock.Anything, project, 5).Return([]model.WorkItemComment{{Text: "hi @Jan"}}, nil)
	svc.On("WorkItemComments", mock.Anything, project, 6).Return([]model.WorkItemComment{}, nil)

	got, err := NewFetcher(svc, 2).FetchMentioned(context.Background(), project)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Item.ID)
	assert.Equal(t, "hi @Jan", got[0].Comments[0].Text)
	assert.Empty(t, got[1].Comments)
}
