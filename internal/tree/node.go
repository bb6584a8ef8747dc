package tree

import (
	"github.com/bjulian5/workops/internal/links"
	"github.com/bjulian5/workops/internal/model"
)

// Kind is the role of a node in the tree.
type Kind int

const (
	KindArea Kind = iota
	KindMentioned
	KindPRCreatedGroup
	KindPRAssignedGroup
	KindLeaf
	KindError
	KindLoading
)

// IsGroup reports whether nodes of this kind only hold other nodes.
func (k Kind) IsGroup() bool {
	switch k {
	case KindArea, KindMentioned, KindPRCreatedGroup, KindPRAssignedGroup:
		return true
	}
	return false
}

// Fixed node ids.
const (
	IDMentioned  = "group:mentioned"
	IDPRCreated  = "group:pr-created"
	IDPRAssigned = "group:pr-assigned"
	IDError      = "error"
	IDLoading    = "loading"
)

// TypePullRequest is the Type of pull request leaves.
const TypePullRequest = "Pull Request"

// Icon names of inline references.
const (
	IconPullRequest  = "pull-request"
	IconBranch       = "branch"
	IconTargetBranch = "target-branch"
	IconCommit       = "commit"
)

// InlineRef is a link shown under a node's title. Text is the fallback
// shown until the key resolves in the link cache.
type InlineRef struct {
	Kind links.Kind
	Key  string
	Text string
	Icon string
}

func refIcon(kind links.Kind) string {
	switch kind {
	case links.KindPR:
		return IconPullRequest
	case links.KindCommit:
		return IconCommit
	default:
		return IconBranch
	}
}

// Node is one row of the to-do tree.
type Node struct {
	ID    string
	Kind  Kind
	Title string
	// Type is the work item type, or TypePullRequest.
	Type        string
	State       string
	Description string
	AssignedTo  string
	Area        string
	Priority    int
	Release     string

	Active bool
	Mine   bool

	Refs []InlineRef
	// URL is the navigation target of pull request leaves.
	URL string
	// Item is the work item behind a work item leaf.
	Item *model.WorkItem

	Children          []*Node
	ExpandedByDefault bool
	Expanded          bool
}

// HasChildren reports whether the node can be expanded.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// ErrorNode is the single node shown when a refresh fails.
func ErrorNode(err error) *Node {
	return &Node{ID: IDError, Kind: KindError, Title: err.Error()}
}

// LoadingNode is the placeholder shown before the first refresh completes.
func LoadingNode() *Node {
	return &Node{ID: IDLoading, Kind: KindLoading, Title: "Loading..."}
}

// Walk visits nodes depth first. Returning false skips the node's children.
func Walk(roots []*Node, fn func(n *Node, depth int) bool) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if fn(n, depth) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(roots, 0)
}

// Find returns the node with id, or nil.
func Find(roots []*Node, id string) *Node {
	var found *Node
	Walk(roots, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Visible lists the nodes reachable through expanded parents, with depth.
func Visible(roots []*Node) []Row {
	var rows []Row
	Walk(roots, func(n *Node, depth int) bool {
		rows = append(rows, Row{Node: n, Depth: depth})
		return n.Expanded
	})
	return rows
}

// Row is a node with its nesting depth.
type Row struct {
	Node  *Node
	Depth int
}

// ApplyExpanded sets every node's Expanded flag from overrides, falling
// back to its default. It returns the overrides whose ids still exist.
func ApplyExpanded(roots []*Node, overrides map[string]bool) map[string]bool {
	kept := make(map[string]bool, len(overrides))
	Walk(roots, func(n *Node, _ int) bool {
		n.Expanded = n.ExpandedByDefault
		if v, ok := overrides[n.ID]; ok {
			n.Expanded = v
			kept[n.ID] = v
		}
		return true
	})
	return kept
}
