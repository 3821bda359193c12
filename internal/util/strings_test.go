package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateDisplay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "hello",
			maxWidth: 10,
			expected: "hello",
		},
		{
			name:     "exact width unchanged",
			input:    "hello",
			maxWidth: 5,
			expected: "hello",
		},
		{
			name:     "long string truncated",
			input:    "hello world",
			maxWidth: 8,
			expected: "hello...",
		},
		{
			name:     "tiny width collapses to ellipsis",
			input:    "hello",
			maxWidth: 3,
			expected: "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateDisplay(tt.input, tt.maxWidth)
			if got != tt.expected {
				t.Errorf("TruncateDisplay(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
		})
	}
}

func TestTruncateDisplayStyled(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("a long styled value here")

	got := TruncateDisplay(styled, 10)
	if w := lipgloss.Width(got); w > 10 {
		t.Errorf("truncated width %d exceeds limit", w)
	}
}
