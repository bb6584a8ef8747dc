package ui

import (
	"strings"

	ltree "github.com/charmbracelet/lipgloss/tree"

	"github.com/bjulian5/workops/internal/tree"
)

// TreeOptions controls RenderTree.
type TreeOptions struct {
	// ShowLinks lists the inline references under each item.
	ShowLinks bool
}

// RenderTree renders the expanded part of the to-do tree.
// Example output:
//
//	TeamA
//	╰─ ▤ 1: Login page ● Active
//	   ├─ ☐ 2: Write tests ● Active  Jan Kowalski
//	   ╰─ ☐ 3: Review copy ○ New
//	Pull requests created
//	╰─ ⇄ 4538: Add login ● Ready
//	   ├─ ⑂ feature/login
//	   ╰─ → main
func RenderTree(roots []*tree.Node, src LinkSource, opts TreeOptions) string {
	if len(roots) == 0 {
		return Dim("Nothing to do.")
	}

	lines := make([]string, 0, len(roots))
	for _, n := range roots {
		switch r := renderNode(n, src, opts).(type) {
		case *ltree.Tree:
			lines = append(lines, r.String())
		case string:
			lines = append(lines, r)
		}
	}
	return strings.Join(lines, "\n")
}

func renderNode(n *tree.Node, src LinkSource, opts TreeOptions) any {
	label := FormatNodeLine(n)

	var children []any
	if opts.ShowLinks {
		for _, ref := range n.Refs {
			children = append(children, FormatRef(ref, src))
		}
	}
	if n.Expanded {
		for _, c := range n.Children {
			children = append(children, renderNode(c, src, opts))
		}
	}
	if len(children) == 0 {
		return label
	}

	t := ltree.Root(label).Child(children...)
	styleTree(t)
	return t
}

func styleTree(t *ltree.Tree) {
	enumerator := getRoundedEnumerator()
	if Display.TreeEnumerator == TreeDefault {
		enumerator = getDefaultEnumerator()
	}
	t.Enumerator(enumerator).
		EnumeratorStyle(TreeEnumeratorStyle).
		Indenter(RenderTreeIndenter())
}

// getRoundedEnumerator returns a custom rounded enumerator for trees
func getRoundedEnumerator() ltree.Enumerator {
	return func(children ltree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}
		if i == children.Length()-1 {
			return "╰─ "
		}
		return "├─ "
	}
}

// getDefaultEnumerator returns the default tree enumerator
func getDefaultEnumerator() ltree.Enumerator {
	return func(children ltree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}
		if i == children.Length()-1 {
			return "└─ "
		}
		return "├─ "
	}
}

// RenderTreeIndenter returns an indenter function for trees
func RenderTreeIndenter() ltree.Indenter {
	return func(children ltree.Children, i int) string {
		if children.Length() == 0 {
			return ""
		}
		if i == children.Length()-1 {
			return "   "
		}
		return "│  "
	}
}
