package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bjulian5/workops/internal/model"
)

// Color palette
var (
	// Primary colors
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#6366F1") // Indigo

	// Status colors
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorInfo    = lipgloss.Color("#3B82F6") // Blue

	// Work item state colors
	ColorNew      = lipgloss.Color("#9CA3AF") // Light gray
	ColorActive   = lipgloss.Color("#3B82F6") // Blue
	ColorReady    = lipgloss.Color("#06B6D4") // Cyan
	ColorResolved = lipgloss.Color("#10B981") // Green
	ColorClosed   = lipgloss.Color("#6B7280") // Gray

	// Work item type colors
	ColorTask       = lipgloss.Color("#F59E0B") // Amber
	ColorBug        = lipgloss.Color("#EF4444") // Red
	ColorStory      = lipgloss.Color("#3B82F6") // Blue
	ColorFeature    = lipgloss.Color("#8B5CF6") // Purple
	ColorImpediment = lipgloss.Color("#EC4899") // Pink

	// Text colors
	ColorText       = lipgloss.Color("#F3F4F6") // Light gray
	ColorTextMuted  = lipgloss.Color("#9CA3AF") // Gray
	ColorTextBright = lipgloss.Color("#FFFFFF") // White

	// Background colors
	ColorBgSubtle = lipgloss.Color("#1F2937") // Dark gray
	ColorBgMuted  = lipgloss.Color("#111827") // Darker gray

	// Border colors
	ColorBorder = lipgloss.Color("#374151") // Medium gray
)

// Base styles
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// Text styles
var (
	BoldStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextBright)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

// Message styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)
)

// Tree styles
var (
	TreeGroupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	TreeEnumeratorStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)

	// MineStyle marks items assigned to or created by the viewer.
	MineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextBright)

	// ActiveMineStyle marks the viewer's items that are being worked on.
	ActiveMineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorActive)

	RefStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	RefDegradedStyle = lipgloss.NewStyle().
				Foreground(ColorClosed).
				Strikethrough(true)

	SelectedStyle = lipgloss.NewStyle().
			Background(ColorBgSubtle)
)

// Table styles
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorTextBright)

	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TableRowAltStyle = lipgloss.NewStyle().
				Background(ColorBgMuted).
				Padding(0, 1)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)
)

// GetStateColor returns the color for a work item state or pull request
// status label.
func GetStateColor(state string) lipgloss.Color {
	switch state {
	case model.StateNew:
		return ColorNew
	case model.StateActive:
		return ColorActive
	case model.StateReady:
		return ColorReady
	case model.StateResolved, model.StateCompleted:
		return ColorResolved
	case model.StateClosed, model.StateRemoved:
		return ColorClosed
	default:
		return ColorTextMuted
	}
}

// GetTypeColor returns the color for a work item type.
func GetTypeColor(typ string) lipgloss.Color {
	switch typ {
	case model.TypeTask:
		return ColorTask
	case model.TypeBug:
		return ColorBug
	case model.TypeUserStory:
		return ColorStory
	case model.TypeFeature:
		return ColorFeature
	case model.TypeImpediment:
		return ColorImpediment
	default:
		return ColorSecondary
	}
}
