package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/bjulian5/workops/internal/tree"
)

func init() {
	// Force lipgloss to initialize and detect terminal before fuzzy finder starts
	// This prevents ANSI escape sequences from leaking into the finder input
	_ = lipgloss.NewStyle().Render("")
	_ = lipgloss.HasDarkBackground()
}

// SelectNode presents a fuzzy finder over nodes. It returns nil if the user
// cancelled the selection.
func SelectNode(nodes []*tree.Node, src LinkSource) (*tree.Node, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	// Flush stdout/stderr before starting fuzzy finder to clear any ANSI sequences
	os.Stdout.Sync()
	os.Stderr.Sync()

	idx, err := fuzzyfinder.Find(
		nodes,
		func(i int) string {
			return FormatNodeFinderLine(nodes[i])
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return FormatNodePreview(nodes[i], src)
		}),
	)
	if err != nil {
		// User cancelled (Ctrl+C or ESC)
		return nil, nil
	}
	return nodes[idx], nil
}
