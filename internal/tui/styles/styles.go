package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Color palette
var (
	SteamBlue  = lipgloss.Color("#66C0F4")
	SlateDark  = lipgloss.Color("#1B2838")
	SlateLight = lipgloss.Color("#2A475E")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(SteamBlue)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Button styles for the page's button row
var (
	ButtonStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateLight).
			Padding(0, 1)

	ToolButtonStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(SteamBlue).
			Bold(true).
			Padding(0, 1)

	BusyButtonStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SteamBlue).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)

	ActionStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(SteamBlue).
			Padding(0, 2)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(SteamBlue)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

var SpinnerStyle = lipgloss.NewStyle().
	Foreground(SteamBlue)

// Filter styles
var (
	FilterStyle = lipgloss.NewStyle().
			Foreground(SteamBlue)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(SteamBlue).
				Bold(true)
)

// Truncate shortens s to at most width cells, ending with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// Pad truncates or right-pads s to exactly width cells
func Pad(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if gap := width - ansi.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// RenderListRow joins row parts into a line of the given width, highlighting
// the whole line when selected. Parts render separately so that a colored
// part does not reset the selection background of the rest.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	base := lipgloss.NewStyle().Foreground(LightGray)
	if selected {
		base = base.Foreground(White).Background(SlateLight)
	}

	var b strings.Builder
	b.WriteString(base.Render(" "))
	used := 2
	for _, part := range parts {
		style := base
		if part.Foreground != nil {
			style = style.Foreground(*part.Foreground)
		}
		b.WriteString(style.Render(part.Text))
		used += lipgloss.Width(part.Text)
	}
	if fill := width - used; fill > 0 {
		b.WriteString(base.Render(strings.Repeat(" ", fill)))
	}
	b.WriteString(base.Render(" "))
	return b.String()
}

// RowPart is a piece of a row with an optional foreground color
type RowPart struct {
	Text       string
	Foreground *lipgloss.Color
}
