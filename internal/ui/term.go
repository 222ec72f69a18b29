package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the CLI output.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Scheduled sessions: cyan, the calendar's working state
	colorScheduled = color.New(color.FgCyan)

	// Collected payments and positive totals: green
	colorPaid = color.New(color.FgGreen)

	// No-shows and pending payments: yellow
	colorWarn = color.New(color.FgYellow)

	// Canceled sessions and secondary information: dim
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}
