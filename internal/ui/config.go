package ui

// DisplayConfig holds configuration for UI rendering
type DisplayConfig struct {
	// Truncation limits
	MaxTitleLength     int
	MaxAssigneeLength  int
	MaxRefLength       int
	MaxPreviewRefs     int
	DefaultTermWidth   int
	TreeEnumerator     TreeEnumStyle
	ShowLinksByDefault bool
}

// TreeEnumStyle defines tree line styles
type TreeEnumStyle int

const (
	TreeRounded TreeEnumStyle = iota // ╰─ style
	TreeDefault                      // └─ style
)

// DefaultConfig returns the default display configuration
func DefaultConfig() DisplayConfig {
	return DisplayConfig{
		MaxTitleLength:    60,
		MaxAssigneeLength: 24,
		MaxRefLength:      40,
		MaxPreviewRefs:    10,
		DefaultTermWidth:  120,
		TreeEnumerator:    TreeRounded,
	}
}

// Display is the global display configuration.
var Display = DefaultConfig()
