package workitems

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/bjulian5/workops/internal/model"
)

// BatchSize is the largest number of ids fetched in one request.
const BatchSize = 200

// Service is the subset of the tracking service the fetcher needs.
type Service interface {
	QueryLinks(ctx context.Context, project, wiql string) ([]model.LinkRow, error)
	QueryIDs(ctx context.Context, project, wiql string) ([]int, error)
	WorkItems(ctx context.Context, project string, ids []int) ([]model.WorkItem, error)
	WorkItemComments(ctx context.Context, project string, id int) ([]model.WorkItemComment, error)
}

// Fetcher loads the work items assigned to a user in an iteration.
type Fetcher struct {
	svc           Service
	maxConcurrent int
}

// NewFetcher creates a fetcher. maxConcurrent bounds per-item requests.
func NewFetcher(svc Service, maxConcurrent int) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Fetcher{svc: svc, maxConcurrent: maxConcurrent}
}

// Fetch returns the user's items in the iteration together with the
// parent/child edges among them. Items come back seeds first, in query
// order, followed by their children.
func (f *Fetcher) Fetch(ctx context.Context, project, iterationPath string, filter model.TaskFilter, user string) ([]model.WorkItem, []model.LinkEdge, error) {
	seeds, err := f.seeds(ctx, project, iterationPath, filter, user)
	if err != nil {
		return nil, nil, err
	}
	if len(seeds) == 0 {
		return nil, nil, nil
	}

	rows, err := f.svc.QueryLinks(ctx, project, ChildLinksQuery(seeds))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query children: %w", err)
	}

	ids := slices.Clone(seeds)
	seen := make(map[int]bool, len(seeds))
	for _, id := range seeds {
		seen[id] = true
	}
	for _, row := range rows {
		if row.Rel == "" || seen[row.TargetID] {
			continue
		}
		seen[row.TargetID] = true
		ids = append(ids, row.TargetID)
	}

	items, err := f.batch(ctx, project, ids)
	if err != nil {
		return nil, nil, err
	}

	return items, edgesAmong(rows, items), nil
}

// seeds runs the task-parent and top-level queries concurrently and merges
// their ids, parents of tasks first.
func (f *Fetcher) seeds(ctx context.Context, project, iterationPath string, filter model.TaskFilter, user string) ([]int, error) {
	var parents, topLevel []int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := f.svc.QueryLinks(gctx, project, TaskLinksQuery(iterationPath, filter, user))
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", describe(filter), err)
		}
		for _, row := range rows {
			if row.Rel == "" {
				parents = append(parents, row.TargetID)
			}
		}
		return nil
	})
	if len(TopLevelStates(filter)) > 0 {
		g.Go(func() error {
			ids, err := f.svc.QueryIDs(gctx, project, TopLevelQuery(iterationPath, filter, user))
			if err != nil {
				return fmt.Errorf("failed to query top-level %s: %w", describe(filter), err)
			}
			topLevel = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var seeds []int
	for _, id := range append(parents, topLevel...) {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		seeds = append(seeds, id)
	}
	return seeds, nil
}

// batch fetches ids in chunks of BatchSize, keeping request order.
func (f *Fetcher) batch(ctx context.Context, project string, ids []int) ([]model.WorkItem, error) {
	chunks := chunk(ids, BatchSize)
	results := make([][]model.WorkItem, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)
	for i, c := range chunks {
		g.Go(func() error {
			items, err := f.svc.WorkItems(gctx, project, c)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []model.WorkItem
	for _, r := range results {
		items = append(items, r...)
	}
	return items, nil
}

// edgesAmong keeps the child links whose ends were both fetched.
func edgesAmong(rows []model.LinkRow, items []model.WorkItem) []model.LinkEdge {
	fetched := make(map[int]bool, len(items))
	for _, it := range items {
		fetched[it.ID] = true
	}

	var edges []model.LinkEdge
	for _, row := range rows {
		if row.Rel == "" || !fetched[row.SourceID] || !fetched[row.TargetID] {
			continue
		}
		edges = append(edges, model.LinkEdge{
			SourceID:   row.SourceID,
			TargetID:   row.TargetID,
			IsChildRel: row.Rel == LinkTypeChild,
		})
	}
	return edges
}

// Mentioned is a work item the user was mentioned in, with its discussion.
type Mentioned struct {
	Item     model.WorkItem
	Comments []model.WorkItemComment
}

// FetchMentioned returns the items the signed-in user was recently
// mentioned in. Comment histories are fetched concurrently.
func (f *Fetcher) FetchMentioned(ctx context.Context, project string) ([]Mentioned, error) {
	ids, err := f.svc.QueryIDs(ctx, project, MentionsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentions: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := f.batch(ctx, project, ids)
	if err != nil {
		return nil, err
	}

	result := make([]Mentioned, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)
	for i, it := range items {
		result[i].Item = it
		g.Go(func() error {
			comments, err := f.svc.WorkItemComments(gctx, project, it.ID)
			if err != nil {
				return err
			}
			result[i].Comments = comments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
