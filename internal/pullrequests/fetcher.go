package pullrequests

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bjulian5/workops/internal/model"
)

// Role is the user's relation to a pull request.
type Role int

const (
	RoleCreator Role = iota
	RoleReviewer
)

func (r Role) String() string {
	if r == RoleReviewer {
		return "reviewer"
	}
	return "creator"
}

// Info is a fetched pull request with its threads and the role it was
// searched under.
type Info struct {
	PR      model.PullRequest
	Threads []model.CommentThread
	Role    Role
}

// Service is the subset of the source-control service the fetcher needs.
type Service interface {
	PullRequests(ctx context.Context, projectID string, search model.PRSearch) ([]model.PullRequest, error)
	Threads(ctx context.Context, projectID, repositoryID string, prID int) ([]model.CommentThread, error)
}

// Fetcher loads pull requests and their discussions.
type Fetcher struct {
	svc           Service
	maxConcurrent int
}

// NewFetcher creates a fetcher. maxConcurrent bounds thread requests.
func NewFetcher(svc Service, maxConcurrent int) *Fetcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Fetcher{svc: svc, maxConcurrent: maxConcurrent}
}

// Fetch searches the pull requests subject created or reviews. Drafts are
// left out unless filter is All, which also widens the search to every
// status.
func (f *Fetcher) Fetch(ctx context.Context, role Role, projectID string, subject model.Identity, filter model.TaskFilter) ([]Info, error) {
	search := model.PRSearch{AllStatuses: filter == model.FilterAll}
	if role == RoleReviewer {
		search.ReviewerID = subject.ID
	} else {
		search.CreatorID = subject.ID
	}

	prs, err := f.svc.PullRequests(ctx, projectID, search)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests as %s: %w", role, err)
	}

	var infos []Info
	for _, pr := range prs {
		if pr.IsDraft && filter != model.FilterAll {
			continue
		}
		infos = append(infos, Info{PR: pr, Role: role})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)
	for i := range infos {
		pr := infos[i].PR
		g.Go(func() error {
			project := pr.ProjectID
			if project == "" {
				project = projectID
			}
			threads, err := f.svc.Threads(gctx, project, pr.RepositoryID, pr.ID)
			if err != nil {
				return err
			}
			infos[i].Threads = threads
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return infos, nil
}
