package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// GetTerminalWidth returns the current terminal width in columns.
// Non-TTY output and size errors fall back to Display.DefaultTermWidth.
func GetTerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return Display.DefaultTermWidth
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return Display.DefaultTermWidth
	}
	return width
}

// ClearScreen moves the cursor home and clears a terminal. It does nothing
// when stdout is not a terminal.
func ClearScreen() {
	if IsTerminal() {
		os.Stdout.WriteString("\033[H\033[2J")
	}
}
