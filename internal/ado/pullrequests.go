package ado

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/git"

	"github.com/bjulian5/workops/internal/model"
)

// PullRequests searches pull requests across every repository of a project.
func (c *Client) PullRequests(ctx context.Context, projectID string, search model.PRSearch) ([]model.PullRequest, error) {
	criteria := &git.GitPullRequestSearchCriteria{
		Status: &git.PullRequestStatusValues.Active,
	}
	if search.AllStatuses {
		criteria.Status = &git.PullRequestStatusValues.All
	}
	if search.CreatorID != "" {
		id, err := uuid.Parse(search.CreatorID)
		if err != nil {
			return nil, fmt.Errorf("invalid creator id %q: %w", search.CreatorID, err)
		}
		criteria.CreatorId = &id
	}
	if search.ReviewerID != "" {
		id, err := uuid.Parse(search.ReviewerID)
		if err != nil {
			return nil, fmt.Errorf("invalid reviewer id %q: %w", search.ReviewerID, err)
		}
		criteria.ReviewerId = &id
	}

	prs, err := c.git.GetPullRequestsByProject(ctx, git.GetPullRequestsByProjectArgs{
		Project:        ptr(projectID),
		SearchCriteria: criteria,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search pull requests: %w", err)
	}
	if prs == nil {
		return nil, nil
	}

	result := make([]model.PullRequest, 0, len(*prs))
	for _, pr := range *prs {
		result = append(result, c.toPullRequest(pr))
	}
	return result, nil
}

// PullRequestByID fetches a single pull request.
func (c *Client) PullRequestByID(ctx context.Context, projectID string, id int) (model.PullRequest, error) {
	pr, err := c.git.GetPullRequestById(ctx, git.GetPullRequestByIdArgs{
		PullRequestId: ptr(id),
		Project:       ptr(projectID),
	})
	if err != nil {
		return model.PullRequest{}, fmt.Errorf("failed to get pull request %d: %w", id, err)
	}
	return c.toPullRequest(*pr), nil
}

// Threads returns the comment threads of a pull request.
func (c *Client) Threads(ctx context.Context, projectID, repositoryID string, prID int) ([]model.CommentThread, error) {
	threads, err := c.git.GetThreads(ctx, git.GetThreadsArgs{
		RepositoryId:  ptr(repositoryID),
		PullRequestId: ptr(prID),
		Project:       ptr(projectID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get threads of pull request %d: %w", prID, err)
	}
	if threads == nil {
		return nil, nil
	}

	result := make([]model.CommentThread, 0, len(*threads))
	for _, t := range *threads {
		result = append(result, toThread(t))
	}
	return result, nil
}

// Branch looks up a branch by name in a repository.
func (c *Client) Branch(ctx context.Context, projectID, repositoryID, name string) (model.BranchRef, error) {
	b, err := c.git.GetBranch(ctx, git.GetBranchArgs{
		RepositoryId: ptr(repositoryID),
		Name:         ptr(name),
		Project:      ptr(projectID),
	})
	if err != nil {
		return model.BranchRef{}, fmt.Errorf("failed to get branch %s: %w", name, err)
	}
	branch := str(b.Name)
	if branch == "" {
		branch = name
	}
	return model.BranchRef{
		Name:   branch,
		WebURL: model.BranchWebURL(c.RepositoryURL(projectID, repositoryID), branch),
	}, nil
}

// Commit looks up a commit in a repository.
func (c *Client) Commit(ctx context.Context, projectID, repositoryID, commitID string) (model.CommitRef, error) {
	cm, err := c.git.GetCommit(ctx, git.GetCommitArgs{
		CommitId:     ptr(commitID),
		RepositoryId: ptr(repositoryID),
		Project:      ptr(projectID),
	})
	if err != nil {
		return model.CommitRef{}, fmt.Errorf("failed to get commit %s: %w", commitID, err)
	}
	id := str(cm.CommitId)
	if id == "" {
		id = commitID
	}
	return model.CommitRef{
		ID:      id,
		Comment: str(cm.Comment),
		WebURL:  c.RepositoryURL(projectID, repositoryID) + "/commit/" + id,
	}, nil
}

// RepositoryURL is the web address of a repository.
func (c *Client) RepositoryURL(projectID, repositoryID string) string {
	return c.orgURL + "/" + projectID + "/_git/" + repositoryID
}

// WorkItemURL is the web address of the work item editor.
func WorkItemURL(orgURL, project string, id int) string {
	return fmt.Sprintf("%s/%s/_workitems/edit/%d", orgURL, url.PathEscape(project), id)
}

func (c *Client) toPullRequest(pr git.GitPullRequest) model.PullRequest {
	result := model.PullRequest{
		ID:        intVal(pr.PullRequestId),
		Title:     str(pr.Title),
		SourceRef: str(pr.SourceRefName),
		TargetRef: str(pr.TargetRefName),
		IsDraft:   boolVal(pr.IsDraft),
	}
	if pr.Status != nil {
		result.Status = model.PRStatus(*pr.Status)
	}
	if pr.CreatedBy != nil {
		result.CreatedBy = toIdentityRef(pr.CreatedBy)
	}
	if pr.Reviewers != nil {
		for _, r := range *pr.Reviewers {
			result.Reviewers = append(result.Reviewers, model.Reviewer{
				Identity: model.Identity{
					ID:          str(r.Id),
					DisplayName: str(r.DisplayName),
					UniqueName:  str(r.UniqueName),
				},
				Vote:       intVal(r.Vote),
				IsRequired: boolVal(r.IsRequired),
			})
		}
	}
	if pr.Repository != nil {
		result.RepositoryID = uuidString(pr.Repository.Id)
		if pr.Repository.Project != nil {
			result.ProjectID = uuidString(pr.Repository.Project.Id)
		}
	}

	result.RepoWebURL = repoWebURL(str(pr.Url))
	if result.RepoWebURL == "" && result.RepositoryID != "" {
		result.RepoWebURL = c.RepositoryURL(result.ProjectID, result.RepositoryID)
	}
	result.WebURL = fmt.Sprintf("%s/pullrequest/%d", result.RepoWebURL, result.ID)
	return result
}

// repoWebURL turns a pull request API address
// ({org}/{project}/_apis/git/repositories/{repo}/pullRequests/{id})
// into the repository web address.
func repoWebURL(apiURL string) string {
	i := strings.Index(apiURL, "/pullRequests/")
	if i < 0 || !strings.Contains(apiURL, "/_apis/git/repositories/") {
		return ""
	}
	return strings.Replace(apiURL[:i], "/_apis/git/repositories/", "/_git/", 1)
}

func toThread(t git.GitPullRequestCommentThread) model.CommentThread {
	thread := model.CommentThread{}
	if t.Status != nil {
		thread.Status = model.ThreadStatus(*t.Status)
	}
	if t.Comments == nil {
		return thread
	}
	for _, cm := range *t.Comments {
		comment := model.ThreadComment{
			Content:   str(cm.Content),
			IsDeleted: boolVal(cm.IsDeleted),
		}
		if cm.Author != nil {
			comment.Author = toIdentityRef(cm.Author)
		}
		if cm.CommentType != nil {
			comment.Type = string(*cm.CommentType)
		}
		thread.Comments = append(thread.Comments, comment)
	}
	return thread
}
