package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/bjulian5/workops/internal/links"
	"github.com/bjulian5/workops/internal/tree"
)

// LinkSource looks up the resolution of an inline reference.
type LinkSource interface {
	Link(ref tree.InlineRef) (links.Resolution, bool)
}

// FitWidth truncates every line of styled text to width columns. A width of
// zero leaves text unchanged.
func FitWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "…")
	}
	return strings.Join(lines, "\n")
}

// TruncatePlain truncates unstyled text to maxLen display columns, counting
// wide runes twice.
func TruncatePlain(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "...")
}

// RenderKeyValue renders "key: value" with a dimmed key.
func RenderKeyValue(key string, value string) string {
	return fmt.Sprintf("%s %s", DimStyle.Render(key+":"), value)
}

// RenderKeyValueList renders key/value pairs with aligned keys, in keys order.
func RenderKeyValueList(pairs map[string]string, keys []string) string {
	maxKeyLen := 0
	for _, key := range keys {
		maxKeyLen = max(maxKeyLen, lipgloss.Width(key))
	}

	var lines []string
	for _, key := range keys {
		if pairs[key] == "" {
			continue
		}
		padded := lipgloss.PlaceHorizontal(maxKeyLen, lipgloss.Left, key)
		lines = append(lines, fmt.Sprintf("%s %s", DimStyle.Render(padded+":"), pairs[key]))
	}
	return strings.Join(lines, "\n")
}

// FormatNodeLine formats a node as a single styled line.
// Example output:
//
//	▤ 1: Login page ● Active  Jan Kowalski
//	☐ 2: Write tests ● Active  Jan Kowalski
//	⇄ 4538: Add login ◯ Waiting Me (2)
func FormatNodeLine(n *tree.Node) string {
	switch n.Kind {
	case tree.KindError:
		return ErrorStyle.Render("✗ " + n.Title)
	case tree.KindLoading:
		return Dim(n.Title)
	}
	if n.Kind.IsGroup() {
		title := TreeGroupStyle.Render(n.Title)
		if !n.Expanded && n.HasChildren() {
			title += Dim(fmt.Sprintf(" (%d)", len(n.Children)))
		}
		return title
	}

	title := TruncatePlain(n.Title, Display.MaxTitleLength)
	switch {
	case n.Mine && n.Active:
		title = ActiveMineStyle.Render(title)
	case n.Mine:
		title = MineStyle.Render(title)
	}

	parts := []string{TypeIcon(n.Type), title, GetStatus(n.State).Render()}
	if n.AssignedTo != "" {
		parts = append(parts, Dim(TruncatePlain(n.AssignedTo, Display.MaxAssigneeLength)))
	}
	if !n.Expanded && n.HasChildren() {
		parts = append(parts, Dim(fmt.Sprintf("▸ %d", len(n.Children))))
	}
	return strings.Join(parts, " ")
}

// FormatRef formats an inline reference, using its resolution when known.
func FormatRef(ref tree.InlineRef, src LinkSource) string {
	icon := RefIcon(ref.Icon)
	res, ok := src.Link(ref)
	if !ok {
		return Dim(icon + " " + ref.Text + " …")
	}
	name := TruncatePlain(res.Name, Display.MaxRefLength)
	if res.Degraded {
		return RefDegradedStyle.Render(icon + " " + name)
	}
	line := RefStyle.Render(icon + " " + name)
	if res.Title != "" && res.Title != res.Name {
		line += " " + Dim(TruncatePlain(res.Title, Display.MaxTitleLength))
	}
	return line
}

// FormatNodeFinderLine formats a node for the fuzzy finder.
// Fuzzy finder doesn't support ANSI codes, so we use plain text
func FormatNodeFinderLine(n *tree.Node) string {
	line := fmt.Sprintf("%-8s %s", n.Type, TruncatePlain(n.Title, Display.MaxTitleLength))
	if n.State != "" {
		line += " [" + n.State + "]"
	}
	return line
}

// FormatNodePreview formats the preview pane of a node in the fuzzy finder.
func FormatNodePreview(n *tree.Node, src LinkSource) string {
	var b strings.Builder
	b.WriteString(n.Title)
	b.WriteString("\n\n")

	keys := []string{"Type", "State", "Status", "Assigned", "Author", "Area", "Priority", "Release", "Source", "Target"}
	pairs := map[string]string{
		"Type":   n.Type,
		"State":  n.State,
		"Status": n.Description,
	}
	if n.Type == tree.TypePullRequest {
		pairs["Author"] = n.AssignedTo
		pairs["Source"] = n.Area
		pairs["Target"] = n.Release
	} else {
		pairs["Assigned"] = n.AssignedTo
		pairs["Area"] = n.Area
		pairs["Release"] = n.Release
		if n.Priority > 0 {
			pairs["Priority"] = fmt.Sprintf("%d", n.Priority)
		}
	}
	for _, key := range keys {
		if pairs[key] == "" {
			continue
		}
		fmt.Fprintf(&b, "%-10s %s\n", key+":", pairs[key])
	}

	if len(n.Refs) > 0 {
		b.WriteString("\nLinks:\n")
		for i, ref := range n.Refs {
			if i == Display.MaxPreviewRefs {
				fmt.Fprintf(&b, "  ... and %d more\n", len(n.Refs)-i)
				break
			}
			name := ref.Text
			if res, ok := src.Link(ref); ok {
				name = res.Name
			}
			fmt.Fprintf(&b, "  %s %s\n", RefIcon(ref.Icon), name)
		}
	}
	return b.String()
}
