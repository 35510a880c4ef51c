package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Half-Life", 20, "Half-Life"},
		{"Counter-Strike", 8, "Counter…"},
		{"Portal", 0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.width), tt.in)
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "abc   ", Pad("abc", 6))
	assert.Equal(t, "abcd", Pad("abcdef", 4))
	assert.Equal(t, 5, lipgloss.Width(Pad("Checking…", 5)))
}

func TestRenderListRow_FillsWidth(t *testing.T) {
	row := RenderListRow([]RowPart{{Text: "Portal"}, {Text: " added", Foreground: &Green}}, true, 30)
	assert.Equal(t, 30, lipgloss.Width(row))
}
