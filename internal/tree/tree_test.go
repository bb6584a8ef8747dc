package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/workops/internal/links"
	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/pullrequests"
	"github.com/bjulian5/workops/internal/workitems"
)

var viewer = model.Identity{ID: "me-id", DisplayName: "Jan Kowalski", UniqueName: "jan@example.com"}

func teamAItems() ([]model.WorkItem, []model.LinkEdge) {
	me := viewer
	items := []model.WorkItem{
		{ID: 1, Type: model.TypeUserStory, Title: "S1", State: model.StateActive, AreaPath: "TeamA"},
		{ID: 2, Type: model.TypeTask, Title: "T1", State: model.StateActive, AreaPath: "TeamA", AssignedTo: &me},
		{ID: 3, Type: model.TypeTask, Title: "T2", State: model.StateActive, AreaPath: "TeamA"},
	}
	edges := []model.LinkEdge{
		{SourceID: 1, TargetID: 2, IsChildRel: true},
		{SourceID: 1, TargetID: 3, IsChildRel: true},
	}
	return items, edges
}

func TestBuildAreas_GroupsStoryWithTasks(t *testing.T) {
	items, edges := teamAItems()

	roots := BuildAreas(items, edges, viewer)
	require.Len(t, roots, 1)

	area := roots[0]
	assert.Equal(t, "area:TeamA", area.ID)
	assert.Equal(t, KindArea, area.Kind)
	assert.True(t, area.ExpandedByDefault)
	require.Len(t, area.Children, 1)

	story := area.Children[0]
	assert.Equal(t, "item1", story.ID)
	assert.Equal(t, "1: S1", story.Title)
	assert.False(t, story.Mine)
	require.Len(t, story.Children, 2)
	assert.Equal(t, "item2:item1", story.Children[0].ID)
	assert.Equal(t, "item3:item1", story.Children[1].ID)

	mine := story.Children[0]
	assert.True(t, mine.Active)
	assert.True(t, mine.Mine)
	assert.Equal(t, "Jan Kowalski", mine.AssignedTo)
	assert.False(t, story.Children[1].Mine)
}

func TestBuildAreas_SortsGroupsAndDropsDanglingEdges(t *testing.T) {
	items := []model.WorkItem{
		{ID: 10, Type: model.TypeBug, Title: "B", AreaPath: "TeamB"},
		{ID: 11, Type: model.TypeFeature, Title: "F", AreaPath: "TeamA"},
		{ID: 12, Type: model.TypeTask, Title: "orphan", AreaPath: "TeamA"},
	}
	edges := []model.LinkEdge{
		{SourceID: 10, TargetID: 99, IsChildRel: true},
		{SourceID: 98, TargetID: 11, IsChildRel: true},
	}

	roots := BuildAreas(items, edges, viewer)
	require.Len(t, roots, 2)
	assert.Equal(t, "TeamA", roots[0].Title)
	assert.Equal(t, "TeamB", roots[1].Title)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "item11", roots[0].Children[0].ID)
	assert.Empty(t, roots[1].Children[0].Children)
}

func TestBuildAreas_StopsAtCycles(t *testing.T) {
	items := []model.WorkItem{
		{ID: 1, Type: model.TypeFeature, AreaPath: "A"},
		{ID: 2, Type: model.TypeUserStory, AreaPath: "A"},
	}
	edges := []model.LinkEdge{
		{SourceID: 1, TargetID: 2, IsChildRel: true},
		{SourceID: 2, TargetID: 1, IsChildRel: true},
	}

	roots := BuildAreas(items, edges, viewer)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 2)

	feature := roots[0].Children[0]
	require.Len(t, feature.Children, 1)
	assert.Equal(t, "item2:item1", feature.Children[0].ID)
	assert.Empty(t, feature.Children[0].Children)
}

func TestItemNode_Refs(t *testing.T) {
	items := []model.WorkItem{{
		ID:       7,
		Type:     model.TypeBug,
		AreaPath: "A",
		Relations: []model.ArtifactLink{
			{Rel: model.RelArtifactLink, URL: "vstfs:///Git/PullRequestId/p%2Fr%2F42"},
			{Rel: model.RelArtifactLink, URL: "vstfs:///Git/Commit/p%2Fr%2Fabc"},
		},
	}}

	roots := BuildAreas(items, nil, viewer)
	refs := roots[0].Children[0].Refs
	require.Len(t, refs, 3)
	assert.Equal(t, links.KindPR, refs[0].Kind)
	assert.Equal(t, IconPullRequest, refs[0].Icon)
	assert.Equal(t, links.KindPRBranch, refs[1].Kind)
	assert.Equal(t, IconBranch, refs[1].Icon)
	assert.Equal(t, IconCommit, refs[2].Icon)
	assert.Equal(t, links.Key(links.KindCommit, "vstfs:///Git/Commit/p%2Fr%2Fabc"), refs[2].Key)
}

func TestBuildMentioned(t *testing.T) {
	me := viewer
	mentioned := []workitems.Mentioned{
		{Item: model.WorkItem{ID: 5, Type: model.TypeBug, AssignedTo: &me}},
		{
			Item:     model.WorkItem{ID: 6, Type: model.TypeBug},
			Comments: []model.WorkItemComment{{Text: "@Jan Kowalski can you look?"}, {Author: viewer, Text: "done"}},
		},
	}

	tests := []struct {
		name   string
		filter model.TaskFilter
		want   []string
	}{
		{name: "active shows open mentions", filter: model.FilterActive, want: []string{"item5:mentioned"}},
		{name: "done shows answered mentions", filter: model.FilterDone, want: []string{"item6:mentioned"}},
		{name: "all shows everything", filter: model.FilterAll, want: []string{"item5:mentioned", "item6:mentioned"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := BuildMentioned(mentioned, tt.filter, viewer)
			require.NotNil(t, g)
			assert.Equal(t, IDMentioned, g.ID)

			var ids []string
			for _, c := range g.Children {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestBuildMentioned_WaitingSuppressesGroup(t *testing.T) {
	me := viewer
	mentioned := []workitems.Mentioned{{Item: model.WorkItem{ID: 5, AssignedTo: &me}}}

	assert.Nil(t, BuildMentioned(mentioned, model.FilterWaiting, viewer))
	assert.Nil(t, BuildMentioned(nil, model.FilterAll, viewer))

	roots := Build(Input{Filter: model.FilterWaiting, Viewer: viewer, Mentioned: mentioned})
	assert.Nil(t, Find(roots, IDMentioned))
}

func TestBuildPullRequests(t *testing.T) {
	created := []pullrequests.Info{{
		PR: model.PullRequest{
			ID:        4538,
			Title:     "Add login",
			CreatedBy: viewer,
			Status:    model.PRActive,
			SourceRef: "refs/heads/feature/login",
			TargetRef: "refs/heads/main",
			ProjectID: "p", RepositoryID: "r",
			WebURL: "https://x/_git/r/pullrequest/4538",
		},
		Role: pullrequests.RoleCreator,
	}}
	assigned := []pullrequests.Info{{
		PR: model.PullRequest{
			ID:        77,
			Title:     "Fix build",
			CreatedBy: model.Identity{ID: "other"},
			Status:    model.PRActive,
			Reviewers: []model.Reviewer{{Identity: viewer, Vote: model.VoteApproved}},
		},
		Role: pullrequests.RoleReviewer,
	}}

	g := BuildPullRequests(KindPRCreatedGroup, created, model.FilterActive, viewer)
	require.NotNil(t, g)
	assert.Equal(t, IDPRCreated, g.ID)
	assert.True(t, g.ExpandedByDefault)
	require.Len(t, g.Children, 1)

	pr := g.Children[0]
	assert.Equal(t, "pr4538:created", pr.ID)
	assert.Equal(t, TypePullRequest, pr.Type)
	assert.Equal(t, "Ready", pr.State)
	assert.True(t, pr.Active)
	assert.True(t, pr.Mine)
	assert.Equal(t, "feature/login", pr.Area)
	assert.Equal(t, "main", pr.Release)
	assert.Equal(t, "https://x/_git/r/pullrequest/4538", pr.URL)
	require.Len(t, pr.Refs, 2)
	assert.Equal(t, links.Key(links.KindBranch, links.BranchURI("p", "r", "feature/login")), pr.Refs[0].Key)
	assert.Equal(t, IconTargetBranch, pr.Refs[1].Icon)

	assert.Nil(t, BuildPullRequests(KindPRAssignedGroup, assigned, model.FilterActive, viewer))

	g = BuildPullRequests(KindPRAssignedGroup, assigned, model.FilterDone, viewer)
	require.NotNil(t, g)
	assert.False(t, g.ExpandedByDefault)
	assert.Equal(t, "pr77:assigned", g.Children[0].ID)
	assert.Equal(t, "Approved", g.Children[0].State)

	assert.Nil(t, BuildPullRequests(KindArea, created, model.FilterAll, viewer))
}

func TestBuild_RootOrder(t *testing.T) {
	items, edges := teamAItems()
	me := viewer
	pr := pullrequests.Info{PR: model.PullRequest{ID: 1, CreatedBy: viewer, Status: model.PRActive, Reviewers: []model.Reviewer{{Identity: viewer}}}}

	roots := Build(Input{
		Filter:    model.FilterAll,
		Viewer:    viewer,
		Items:     items,
		Edges:     edges,
		Mentioned: []workitems.Mentioned{{Item: model.WorkItem{ID: 9, AssignedTo: &me}}},
		Created:   []pullrequests.Info{pr},
		Assigned:  []pullrequests.Info{pr},
	})

	var ids []string
	for _, r := range roots {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"area:TeamA", IDMentioned, IDPRCreated, IDPRAssigned}, ids)
}

func TestApplyExpanded(t *testing.T) {
	items, edges := teamAItems()
	roots := BuildAreas(items, edges, viewer)

	kept := ApplyExpanded(roots, map[string]bool{
		"item1":   true,
		"item404": true,
	})
	assert.Equal(t, map[string]bool{"item1": true}, kept)

	rows := Visible(roots)
	require.Len(t, rows, 4)
	assert.Equal(t, 0, rows[0].Depth)
	assert.Equal(t, "item3:item1", rows[3].Node.ID)
	assert.Equal(t, 2, rows[3].Depth)

	ApplyExpanded(roots, map[string]bool{"area:TeamA": false})
	assert.Len(t, Visible(roots), 1)
}

func TestFind(t *testing.T) {
	items, edges := teamAItems()
	roots := BuildAreas(items, edges, viewer)

	n := Find(roots, "item3:item1")
	require.NotNil(t, n)
	assert.Equal(t, 3, n.Item.ID)
	assert.Nil(t, Find(roots, "item3"))
}

func TestSpecialNodes(t *testing.T) {
	n := ErrorNode(errors.New("boom"))
	assert.Equal(t, IDError, n.ID)
	assert.Equal(t, "boom", n.Title)
	assert.False(t, n.HasChildren())

	assert.Equal(t, KindLoading, LoadingNode().Kind)
	assert.True(t, KindMentioned.IsGroup())
	assert.False(t, KindLeaf.IsGroup())
}

func TestParseID(t *testing.T) {
	tests := []struct {
		id   string
		want Target
	}{
		{id: "item12", want: Target{Kind: TargetWorkItem, ID: 12}},
		{id: "item3:item1", want: Target{Kind: TargetWorkItem, ID: 3}},
		{id: "item5:mentioned", want: Target{Kind: TargetWorkItem, ID: 5}},
		{id: "pr4538:created", want: Target{Kind: TargetPullRequest, ID: 4538}},
		{id: "area:TeamA"},
		{id: IDMentioned},
		{id: "item"},
		{id: "itemX"},
		{id: "pr-1"},
		{id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseID(tt.id))
		})
	}
}
