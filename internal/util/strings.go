// Package util provides shared utility functions used across the codebase.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// TruncateDisplay truncates a string to maxWidth visual columns, adding
// "..." if truncated. It handles ANSI escape codes and wide characters, so
// it is safe for hub values rendered to a styled terminal.
func TruncateDisplay(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, "...")
}
