package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bjulian5/workops/internal/model"
	"github.com/bjulian5/workops/internal/tree"
)

// State icons
const (
	IconNew      = "○"
	IconActive   = "●"
	IconReady    = "◐"
	IconResolved = "◆"
	IconClosed   = "✓"
	IconRemoved  = "✗"
	IconUnknown  = "◯"
)

// Type icons
const (
	IconTask        = "☐"
	IconBug         = "✱"
	IconStory       = "▤"
	IconFeature     = "★"
	IconImpediment  = "⚑"
	IconPullRequest = "⇄"
	IconWorkItem    = "▪"
)

// Reference icons, keyed by tree icon name.
var refIcons = map[string]string{
	tree.IconPullRequest:  "⇄",
	tree.IconBranch:       "⑂",
	tree.IconTargetBranch: "→",
	tree.IconCommit:       "◉",
}

// Status is a work item state or pull request label with rendering
// capabilities.
type Status struct {
	Icon  string
	Label string
	Style lipgloss.Style
}

// GetStatus returns the Status for a state or status label.
func GetStatus(state string) Status {
	icon := IconUnknown
	switch state {
	case model.StateNew:
		icon = IconNew
	case model.StateActive:
		icon = IconActive
	case model.StateReady:
		icon = IconReady
	case model.StateResolved, model.StateCompleted:
		icon = IconResolved
	case model.StateClosed:
		icon = IconClosed
	case model.StateRemoved:
		icon = IconRemoved
	}
	return Status{
		Icon:  icon,
		Label: state,
		Style: lipgloss.NewStyle().Foreground(GetStateColor(state)),
	}
}

// Render returns the status as "icon label"
func (s Status) Render() string {
	return s.Style.Render(s.Icon + " " + s.Label)
}

// RenderIcon returns just the styled icon
func (s Status) RenderIcon() string {
	return s.Style.Render(s.Icon)
}

// TypeIcon returns the styled icon of a work item type.
func TypeIcon(typ string) string {
	icon := IconWorkItem
	switch typ {
	case model.TypeTask:
		icon = IconTask
	case model.TypeBug:
		icon = IconBug
	case model.TypeUserStory:
		icon = IconStory
	case model.TypeFeature:
		icon = IconFeature
	case model.TypeImpediment:
		icon = IconImpediment
	case tree.TypePullRequest:
		icon = IconPullRequest
	}
	return lipgloss.NewStyle().Foreground(GetTypeColor(typ)).Render(icon)
}

// RefIcon returns the glyph of an inline reference icon name.
func RefIcon(name string) string {
	if icon, ok := refIcons[name]; ok {
		return icon
	}
	return "•"
}
