package tree

import (
	"fmt"
	"slices"
	"sort"

	"github.com/bjulian5/workops/internal/classify"
	"github.com/bjulian5/workops/internal/links"
	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/pullrequests"
	"github.com/bjulian5/workops/internal/workitems"
)

// Input is everything one refresh fetched.
type Input struct {
	Filter    model.TaskFilter
	Viewer    model.Identity
	Items     []model.WorkItem
	Edges     []model.LinkEdge
	Mentioned []workitems.Mentioned
	Created   []pullrequests.Info
	Assigned  []pullrequests.Info
}

// Build assembles the root nodes: area groups, then mentions, then pull
// requests created and pull requests to review. Empty groups are omitted.
func Build(in Input) []*Node {
	roots := BuildAreas(in.Items, in.Edges, in.Viewer)
	if n := BuildMentioned(in.Mentioned, in.Filter, in.Viewer); n != nil {
		roots = append(roots, n)
	}
	if n := BuildPullRequests(KindPRCreatedGroup, in.Created, in.Filter, in.Viewer); n != nil {
		roots = append(roots, n)
	}
	if n := BuildPullRequests(KindPRAssignedGroup, in.Assigned, in.Filter, in.Viewer); n != nil {
		roots = append(roots, n)
	}
	return roots
}

// BuildAreas groups non-Task items by area path. Groups are sorted by path
// and keep fetch order inside; each item expands into its children through
// the link edges.
func BuildAreas(items []model.WorkItem, edges []model.LinkEdge, viewer model.Identity) []*Node {
	byID := make(map[int]*model.WorkItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	children := make(map[int][]int)
	for _, e := range edges {
		if _, ok := byID[e.SourceID]; !ok {
			continue
		}
		if _, ok := byID[e.TargetID]; !ok {
			continue
		}
		children[e.SourceID] = append(children[e.SourceID], e.TargetID)
	}

	groups := make(map[string]*Node)
	for i := range items {
		it := &items[i]
		if it.IsTask() {
			continue
		}
		g, ok := groups[it.AreaPath]
		if !ok {
			g = &Node{
				ID:                "area:" + it.AreaPath,
				Kind:              KindArea,
				Title:             it.AreaPath,
				ExpandedByDefault: true,
			}
			groups[it.AreaPath] = g
		}
		id := fmt.Sprintf("item%d", it.ID)
		g.Children = append(g.Children, itemSubtree(it, id, byID, children, viewer, []int{it.ID}))
	}

	paths := make([]string, 0, len(groups))
	for p := range groups {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	roots := make([]*Node, 0, len(paths))
	for _, p := range paths {
		roots = append(roots, groups[p])
	}
	return roots
}

// itemSubtree builds the node for it and, unless it is a Task, its
// children. path holds the ancestors and stops cycles.
func itemSubtree(it *model.WorkItem, id string, byID map[int]*model.WorkItem, children map[int][]int, viewer model.Identity, path []int) *Node {
	n := itemNode(it, id, classify.ClassifyWorkItem(*it, nil, viewer))
	if it.IsTask() {
		return n
	}
	for _, childID := range children[it.ID] {
		if slices.Contains(path, childID) {
			continue
		}
		child := byID[childID]
		childPath := append(slices.Clone(path), childID)
		n.Children = append(n.Children, itemSubtree(child, fmt.Sprintf("item%d:%s", childID, id), byID, children, viewer, childPath))
	}
	return n
}

func itemNode(it *model.WorkItem, id string, c classify.WorkItemClassification) *Node {
	n := &Node{
		ID:       id,
		Kind:     KindLeaf,
		Title:    fmt.Sprintf("%d: %s", it.ID, it.Title),
		Type:     it.Type,
		State:    it.State,
		Area:     it.AreaPath,
		Priority: it.Priority,
		Release:  it.Release,
		Active:   c.IsActive,
		Mine:     c.IsMine,
		Item:     it,
	}
	if it.AssignedTo != nil {
		n.AssignedTo = it.AssignedTo.DisplayName
	}
	for _, rel := range links.Relations(*it) {
		n.Refs = append(n.Refs, InlineRef{Kind: rel.Kind, Key: rel.Key(), Text: string(rel.Kind), Icon: refIcon(rel.Kind)})
	}
	return n
}

// BuildMentioned groups the items the viewer was mentioned in that match
// the filter. It returns nil for Waiting or when nothing matches.
func BuildMentioned(mentioned []workitems.Mentioned, filter model.TaskFilter, viewer model.Identity) *Node {
	if filter == model.FilterWaiting {
		return nil
	}

	g := &Node{
		ID:                IDMentioned,
		Kind:              KindMentioned,
		Title:             "Mentioned",
		ExpandedByDefault: true,
	}
	for i := range mentioned {
		m := &mentioned[i]
		c := classify.ClassifyWorkItem(m.Item, m.Comments, viewer)
		if !classify.MentionIncluded(filter, c.IsMentioned) {
			continue
		}
		g.Children = append(g.Children, itemNode(&m.Item, fmt.Sprintf("item%d:mentioned", m.Item.ID), c))
	}
	if len(g.Children) == 0 {
		return nil
	}
	return g
}

// BuildPullRequests groups pull requests whose bucket matches the filter.
// Created requests start expanded, review requests collapsed.
func BuildPullRequests(kind Kind, infos []pullrequests.Info, filter model.TaskFilter, viewer model.Identity) *Node {
	g := &Node{Kind: kind}
	suffix := "created"
	switch kind {
	case KindPRCreatedGroup:
		g.ID = IDPRCreated
		g.Title = "Pull requests created"
		g.ExpandedByDefault = true
	case KindPRAssignedGroup:
		g.ID = IDPRAssigned
		g.Title = "Pull requests to review"
		suffix = "assigned"
	default:
		return nil
	}

	for _, info := range infos {
		c := classify.ClassifyPullRequest(info.PR, info.Threads, viewer)
		if !classify.IncludedBy(filter, c.Bucket) {
			continue
		}
		g.Children = append(g.Children, prNode(info.PR, c, suffix))
	}
	if len(g.Children) == 0 {
		return nil
	}
	return g
}

func prNode(pr model.PullRequest, c classify.PRClassification, suffix string) *Node {
	source, target, _, _ := links.PullRequestBranches(pr)
	return &Node{
		ID:          fmt.Sprintf("pr%d:%s", pr.ID, suffix),
		Kind:        KindLeaf,
		Title:       fmt.Sprintf("%d: %s", pr.ID, pr.Title),
		Type:        TypePullRequest,
		State:       c.Label,
		Description: c.Description,
		AssignedTo:  pr.CreatedBy.DisplayName,
		Area:        model.BranchName(pr.SourceRef),
		Release:     model.BranchName(pr.TargetRef),
		Active:      c.Bucket == model.BucketReady,
		Mine:        c.IsMine,
		URL:         pr.WebURL,
		Refs: []InlineRef{
			{Kind: links.KindBranch, Key: source.Key(), Text: model.BranchName(pr.SourceRef), Icon: IconBranch},
			{Kind: links.KindBranch, Key: target.Key(), Text: model.BranchName(pr.TargetRef), Icon: IconTargetBranch},
		},
	}
}
