package tree

import (
	"strconv"
	"strings"
)

// TargetKind is what selecting a node navigates to.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetWorkItem
	TargetPullRequest
)

// Target is the navigation target encoded in a node id.
type Target struct {
	Kind TargetKind
	ID   int
}

// ParseID decodes a node id. "item<N>..." targets work item N and
// "pr<N>..." targets pull request N; every other id is inert.
func ParseID(id string) Target {
	head, _, _ := strings.Cut(id, ":")
	if n, ok := numberAfter(head, "item"); ok {
		return Target{Kind: TargetWorkItem, ID: n}
	}
	if n, ok := numberAfter(head, "pr"); ok {
		return Target{Kind: TargetPullRequest, ID: n}
	}
	return Target{}
}

func numberAfter(s, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}
