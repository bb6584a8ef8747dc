package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/bjulian5/workops/internal/dashboard"
	"github.com/bjulian5/workops/internal/links"
	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/tree"
)

type fakeLinks map[string]links.Resolution

func (f fakeLinks) Link(ref tree.InlineRef) (links.Resolution, bool) {
	r, ok := f[ref.Key]
	return r, ok
}

const branchURI = "vstfs:///Git/Ref/p%2Fr%2FGBfeature%2Flogin"

func sampleTree() []*tree.Node {
	me := model.Identity{ID: "me", DisplayName: "Jan Kowalski"}
	items := []model.WorkItem{
		{
			ID: 1, Type: model.TypeUserStory, Title: "S1", State: model.StateActive, AreaPath: "TeamA",
			Relations: []model.ArtifactLink{{Rel: model.RelArtifactLink, URL: branchURI}},
		},
		{ID: 2, Type: model.TypeTask, Title: "T1", State: model.StateActive, AreaPath: "TeamA", AssignedTo: &me},
		{ID: 3, Type: model.TypeTask, Title: "T2", State: model.StateNew, AreaPath: "TeamA"},
	}
	edges := []model.LinkEdge{{SourceID: 1, TargetID: 2}, {SourceID: 1, TargetID: 3}}
	return tree.BuildAreas(items, edges, me)
}

func TestRenderTree(t *testing.T) {
	roots := sampleTree()
	tree.ApplyExpanded(roots, nil)
	src := fakeLinks{}

	out := RenderTree(roots, src, TreeOptions{})
	assert.Contains(t, out, "TeamA")
	assert.Contains(t, out, "1: S1")
	assert.Contains(t, out, "▸ 2")
	assert.NotContains(t, out, "2: T1")

	tree.ApplyExpanded(roots, map[string]bool{"item1": true})
	out = RenderTree(roots, src, TreeOptions{})
	assert.Contains(t, out, "2: T1")
	assert.Contains(t, out, "Jan Kowalski")
	assert.Contains(t, out, "3: T2")
	assert.Contains(t, out, "╰─ ")

	out = RenderTree(roots, src, TreeOptions{ShowLinks: true})
	assert.Contains(t, out, "branch …")

	src[links.Key(links.KindBranch, branchURI)] = links.Degraded("feature/login")
	out = RenderTree(roots, src, TreeOptions{ShowLinks: true})
	assert.Contains(t, out, "feature/login [R]")
}

func TestRenderTree_SpecialNodes(t *testing.T) {
	assert.Contains(t, RenderTree(nil, fakeLinks{}, TreeOptions{}), "Nothing to do.")
	assert.Contains(t, RenderTree([]*tree.Node{tree.LoadingNode()}, fakeLinks{}, TreeOptions{}), "Loading...")
	assert.Contains(t, RenderTree([]*tree.Node{{ID: tree.IDError, Kind: tree.KindError, Title: "TF400813"}}, fakeLinks{}, TreeOptions{}), "✗ TF400813")
}

func TestFormatRef(t *testing.T) {
	ref := tree.InlineRef{Kind: links.KindBranch, Key: "k", Text: "branch", Icon: tree.IconTargetBranch}

	assert.Contains(t, FormatRef(ref, fakeLinks{}), "→ branch …")
	assert.Contains(t, FormatRef(ref, fakeLinks{"k": {Name: "main", Title: "main"}}), "→ main")

	got := FormatRef(ref, fakeLinks{"k": {Name: "c696e15d", Title: "Fix login"}})
	assert.Contains(t, got, "c696e15d")
	assert.Contains(t, got, "Fix login")
}

func TestTruncatePlain(t *testing.T) {
	assert.Equal(t, "hello...", TruncatePlain("hello world", 8))
	assert.Equal(t, "short", TruncatePlain("short", 8))
	assert.Equal(t, "日本...", TruncatePlain("日本語テキスト", 7))
	assert.Equal(t, "", TruncatePlain("x", 0))
}

func TestFitWidth(t *testing.T) {
	out := FitWidth("short\n"+ErrorStyle.Render("a much longer line"), 8)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 8)
	}
	assert.Contains(t, out, "short")
	assert.Equal(t, "abc", FitWidth("abc", 0))
}

func TestFormatNodePreview(t *testing.T) {
	n := &tree.Node{
		Title:       "4538: Add login",
		Type:        tree.TypePullRequest,
		State:       "Waiting Me",
		Description: "A reviewer is waiting for changes",
		AssignedTo:  "Jan Kowalski",
		Area:        "feature/login",
		Release:     "main",
		Refs:        []tree.InlineRef{{Key: "k", Text: "feature/login", Icon: tree.IconBranch}},
	}

	out := FormatNodePreview(n, fakeLinks{})
	assert.Contains(t, out, "Author:    Jan Kowalski")
	assert.Contains(t, out, "Source:    feature/login")
	assert.Contains(t, out, "Target:    main")
	assert.NotContains(t, out, "Assigned:")
	assert.Contains(t, out, "⑂ feature/login")

	assert.Equal(t, "Pull Request 4538: Add login [Waiting Me]", FormatNodeFinderLine(n))
}

func TestRenderTables(t *testing.T) {
	start := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	its := []dashboard.Iteration{
		{Iteration: model.Iteration{Name: "Sprint 1", Path: `P\Sprint 1`}, Label: "Sprint 1"},
		{Iteration: model.Iteration{Name: "Sprint 2", Path: `P\Sprint 2`, StartDate: &start}, Label: "Sprint 2 (Current)", Current: true},
	}
	out := RenderIterations(its)
	assert.Contains(t, out, "Sprint 2 (Current)")
	assert.Contains(t, out, "►")
	assert.Contains(t, out, "2026-10-05")
	assert.Contains(t, RenderIterations(nil), "No iterations")

	out = RenderUsers([]model.UserEntry{{Alias: model.MeAlias, Identity: model.Identity{DisplayName: "Jan Kowalski", UniqueName: "jan@contoso.com"}}})
	assert.Contains(t, out, "@me")
	assert.Contains(t, out, "jan@contoso.com")
}

func TestGetStatus(t *testing.T) {
	assert.Equal(t, IconActive, GetStatus(model.StateActive).Icon)
	assert.Equal(t, IconClosed, GetStatus(model.StateClosed).Icon)
	assert.Equal(t, IconUnknown, GetStatus("Waiting Me").Icon)
	assert.Equal(t, "•", RefIcon("unknown"))
}
