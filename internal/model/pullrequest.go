package model

import "strings"

// PRStatus is the lifecycle status of a pull request.
type PRStatus string

const (
	PRActive    PRStatus = "active"
	PRAbandoned PRStatus = "abandoned"
	PRCompleted PRStatus = "completed"
)

// Reviewer votes.
const (
	VoteApproved            = 10
	VoteApprovedSuggestions = 5
	VoteNone                = 0
	VoteWaitingForAuthor    = -5
	VoteRejected            = -10
)

// PullRequest is a fetched pull request.
type PullRequest struct {
	ID           int
	Title        string
	SourceRef    string
	TargetRef    string
	CreatedBy    Identity
	IsDraft      bool
	Status       PRStatus
	Reviewers    []Reviewer
	ProjectID    string
	RepositoryID string
	WebURL       string
	RepoWebURL   string
}

// Reviewer is a reviewer entry with its vote.
type Reviewer struct {
	Identity
	Vote       int
	IsRequired bool
}

// ThreadStatus is the status of a pull request comment thread.
type ThreadStatus string

const (
	ThreadActive  ThreadStatus = "active"
	ThreadPending ThreadStatus = "pending"
)

// CommentTypeText is the type of user-written comments.
const CommentTypeText = "text"

// CommentThread is a pull request discussion thread.
type CommentThread struct {
	Status   ThreadStatus
	Comments []ThreadComment
}

// ThreadComment is one comment inside a thread.
type ThreadComment struct {
	Author    Identity
	Content   string
	IsDeleted bool
	Type      string
}

// Bucket is the coarse status class of a pull request.
type Bucket int

const (
	BucketNew Bucket = iota
	BucketReady
	BucketDone
	BucketOther
)

func (b Bucket) String() string {
	switch b {
	case BucketNew:
		return "New"
	case BucketReady:
		return "Ready"
	case BucketDone:
		return "Done"
	default:
		return "Other"
	}
}

// BranchRef is a resolved git branch.
type BranchRef struct {
	Name   string
	WebURL string
}

// CommitRef is a resolved git commit.
type CommitRef struct {
	ID      string
	Comment string
	WebURL  string
}

// BranchName strips the "refs/heads/" style prefix from a git ref.
func BranchName(ref string) string {
	parts := strings.SplitN(ref, "/", 3)
	if len(parts) < 3 {
		return ref
	}
	return parts[2]
}

// PRSearch narrows a pull request search. Empty ids are not applied.
type PRSearch struct {
	CreatorID   string
	ReviewerID  string
	AllStatuses bool
}

// BranchWebURL is the web address of a branch inside a repository.
func BranchWebURL(repoURL, branch string) string {
	return repoURL + "?version=GB" + strings.ReplaceAll(branch, "/", "%2f")
}
