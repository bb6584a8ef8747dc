package classify

import (
	"fmt"
	"strings"

	"github.com/bjulian5/workops/internal/model"
)

// mentionMarker opens every structured mention in pull request comments.
const mentionMarker = "@<"

// PRClassification is the status of a pull request from the viewer's side.
type PRClassification struct {
	IsMine          bool
	Bucket          model.Bucket
	Label           string
	Description     string
	CommentCount    int
	UnansweredCount int
}

// ClassifyPullRequest derives the viewer's status for pr from its reviewer
// votes and discussion threads.
func ClassifyPullRequest(pr model.PullRequest, threads []model.CommentThread, viewer model.Identity) PRClassification {
	c := PRClassification{IsMine: sameUser(pr.CreatedBy, viewer)}
	c.CommentCount, c.UnansweredCount = countThreads(threads, viewer, c.IsMine)

	switch {
	case pr.IsDraft:
		return c.other("Draft", "Pull request is a draft")
	case pr.Status == model.PRAbandoned:
		return c.other("Abandoned", "Pull request was abandoned")
	case pr.Status == model.PRCompleted:
		return c.other("Completed", "Pull request was completed")
	}

	if c.IsMine {
		c.classifyAuthor(pr)
	} else {
		c.classifyReviewer(pr, viewer)
	}

	if c.UnansweredCount > 0 {
		c.Label = fmt.Sprintf("%s (%d)", c.Label, c.UnansweredCount)
		c.Bucket = model.BucketReady
		c.Description = fmt.Sprintf("%s; %d unanswered %s", c.Description, c.UnansweredCount, plural(c.UnansweredCount, "comment"))
	}
	return c
}

func (c PRClassification) other(label, description string) PRClassification {
	c.Bucket = model.BucketOther
	c.Label = label
	c.Description = description
	return c
}

func (c *PRClassification) classifyAuthor(pr model.PullRequest) {
	switch {
	case hasVote(pr.Reviewers, model.VoteWaitingForAuthor):
		c.set(model.BucketReady, "Waiting Me", "A reviewer is waiting for changes")
	case hasVote(pr.Reviewers, model.VoteRejected):
		c.set(model.BucketReady, "Waiting Me", "A reviewer rejected the changes")
	case c.UnansweredCount == 1:
		c.set(model.BucketReady, "Comment", "A comment needs an answer")
	case c.UnansweredCount > 1:
		c.set(model.BucketReady, "Comments", "Comments need answers")
	case reviewWaiting(pr.Reviewers):
		c.set(model.BucketDone, "Review", "Waiting for reviewers")
	case c.CommentCount == 1:
		c.set(model.BucketReady, "Active Comment", "One discussion is open")
	case c.CommentCount > 1:
		c.set(model.BucketReady, fmt.Sprintf("Active Comments %d", c.CommentCount), fmt.Sprintf("%d discussions are open", c.CommentCount))
	default:
		c.set(model.BucketReady, "Ready", "Ready to complete")
	}
}

func (c *PRClassification) classifyReviewer(pr model.PullRequest, viewer model.Identity) {
	own, err := model.FirstMatching(pr.Reviewers, func(r model.Reviewer) bool {
		return sameUser(r.Identity, viewer)
	})
	if err != nil {
		c.set(model.BucketReady, "Unknown", "You are not a listed reviewer")
		return
	}

	switch own.Vote {
	case model.VoteApproved:
		c.set(model.BucketDone, "Approved", "You approved")
	case model.VoteApprovedSuggestions:
		c.set(model.BucketDone, "Approved/S", "You approved with suggestions")
	case model.VoteNone:
		c.set(model.BucketReady, "Review", "Your review is requested")
	case model.VoteWaitingForAuthor:
		c.set(model.BucketNew, "Waiting", "Waiting for the author")
	case model.VoteRejected:
		c.set(model.BucketDone, "Rejected", "You rejected")
	default:
		c.set(model.BucketReady, "Unknown", fmt.Sprintf("Unrecognized vote %d", own.Vote))
	}
}

func (c *PRClassification) set(b model.Bucket, label, description string) {
	c.Bucket = b
	c.Label = label
	c.Description = description
}

// countThreads counts open threads with at least one text comment, and
// among them those still waiting on the viewer. Only threads on the
// viewer's own pull request can wait on them: a thread waits after a
// comment mentioning the viewer or a comment without any mention, until
// the viewer comments again.
func countThreads(threads []model.CommentThread, viewer model.Identity, isMine bool) (comments, unanswered int) {
	for _, th := range threads {
		if th.Status != model.ThreadActive && th.Status != model.ThreadPending {
			continue
		}

		active := false
		surviving := 0
		for _, cm := range th.Comments {
			if cm.IsDeleted || cm.Type != model.CommentTypeText {
				continue
			}
			surviving++
			if isMine && (viewer.IsMentionedIn(cm.Content) || !strings.Contains(cm.Content, mentionMarker)) {
				active = true
			}
			if sameUser(cm.Author, viewer) {
				active = false
			}
		}

		if surviving == 0 {
			continue
		}
		comments++
		if active {
			unanswered++
		}
	}
	return comments, unanswered
}

// reviewWaiting reports whether reviewers still owe a vote: a required
// reviewer has not voted, or there are only optional reviewers and none
// has voted.
func reviewWaiting(reviewers []model.Reviewer) bool {
	for _, r := range reviewers {
		if r.IsRequired && r.Vote == model.VoteNone {
			return true
		}
	}
	if len(reviewers) == 0 {
		return false
	}
	for _, r := range reviewers {
		if r.IsRequired || r.Vote != model.VoteNone {
			return false
		}
	}
	return true
}

func hasVote(reviewers []model.Reviewer, vote int) bool {
	for _, r := range reviewers {
		if r.Vote == vote {
			return true
		}
	}
	return false
}

// IncludedBy reports whether a pull request in bucket b is shown under filter f.
func IncludedBy(f model.TaskFilter, b model.Bucket) bool {
	switch f {
	case model.FilterActive:
		return b == model.BucketReady
	case model.FilterWaiting:
		return b == model.BucketNew
	case model.FilterDone:
		return b == model.BucketDone
	case model.FilterAll:
		return true
	}
	return false
}

func sameUser(a, b model.Identity) bool {
	if a.ID != "" && strings.EqualFold(a.ID, b.ID) {
		return true
	}
	return a.Is(b.UniqueName)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
