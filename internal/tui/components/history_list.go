package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/search"
	"github.com/mmcdole/reverig/internal/tui/styles"
)

const (
	BorderWidth          = 2
	BorderHeight         = 2
	ScrollIndicatorLines = 2
)

// HistoryList is a scrollable, filterable list of recorded operations
type HistoryList struct {
	entries []domain.HistoryEntry
	index   *search.FilterIndex
	results []search.FilterResult

	cursor     int
	offset     int
	maxVisible int
	width      int
	height     int
	focused    bool

	filterActive bool
	filterInput  textinput.Model
}

// NewHistoryList creates an empty history list
func NewHistoryList() *HistoryList {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 50
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	l := &HistoryList{filterInput: ti, focused: true}
	l.SetEntries(nil)
	return l
}

// SetEntries replaces the list contents and reapplies the current filter
func (l *HistoryList) SetEntries(entries []domain.HistoryEntry) {
	l.entries = entries
	l.index = search.NewFilterIndex(entries)
	l.applyFilter()
}

// SetSize sets the rendered size including the border
func (l *HistoryList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.recalcMaxVisible()
	l.ensureVisible()
}

func (l *HistoryList) SetFocused(focused bool) {
	l.focused = focused
}

// Update handles navigation and filter typing
func (l *HistoryList) Update(msg tea.Msg) tea.Cmd {
	if !l.focused {
		return nil
	}

	if l.IsFilterTyping() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				l.ClearFilter()
				return nil
			case "enter":
				l.filterInput.Blur()
				return nil
			case "backspace":
				if l.filterInput.Value() == "" {
					l.ClearFilter()
					return nil
				}
			}
		}
		var cmd tea.Cmd
		l.filterInput, cmd = l.filterInput.Update(msg)
		l.applyFilter()
		return cmd
	}

	count := len(l.results)
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "esc":
		if l.filterActive {
			l.ClearFilter()
		}
	case "j", "down":
		if l.cursor < count-1 {
			l.cursor++
			l.ensureVisible()
		}
	case "k", "up":
		if l.cursor > 0 {
			l.cursor--
			l.ensureVisible()
		}
	case "g", "home":
		l.cursor = 0
		l.offset = 0
	case "G", "end":
		if count > 0 {
			l.cursor = count - 1
			l.ensureVisible()
		}
	}
	return nil
}

// ToggleFilter activates the filter input
func (l *HistoryList) ToggleFilter() tea.Cmd {
	l.filterActive = true
	l.recalcMaxVisible()
	return l.filterInput.Focus()
}

// IsFiltering returns true if filter mode is active
func (l *HistoryList) IsFiltering() bool {
	return l.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (l *HistoryList) IsFilterTyping() bool {
	return l.filterActive && l.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all entries
func (l *HistoryList) ClearFilter() {
	l.filterActive = false
	l.filterInput.SetValue("")
	l.filterInput.Blur()
	l.applyFilter()
	l.recalcMaxVisible()
}

// Query returns the current filter text
func (l *HistoryList) Query() string {
	return l.filterInput.Value()
}

// Len returns the number of visible (filtered) entries
func (l *HistoryList) Len() int {
	return len(l.results)
}

// Selected returns the entry under the cursor
func (l *HistoryList) Selected() (domain.HistoryEntry, bool) {
	if l.cursor < 0 || l.cursor >= len(l.results) {
		return domain.HistoryEntry{}, false
	}
	return l.results[l.cursor].Entry, true
}

// View renders the list inside a border
func (l *HistoryList) View() string {
	style := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(styles.DimGray)
	if l.focused {
		style = style.BorderForeground(styles.SteamBlue)
	}
	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(l.width-frameW, 0)).
		Height(max(l.height-frameH, 0)).
		Render(l.renderContent())
}

func (l *HistoryList) applyFilter() {
	l.results = l.index.Filter(l.filterInput.Value())
	l.cursor = 0
	l.offset = 0
}

func (l *HistoryList) recalcMaxVisible() {
	l.maxVisible = l.height - BorderHeight - ScrollIndicatorLines - 1
	if l.filterActive {
		l.maxVisible--
	}
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
}

func (l *HistoryList) ensureVisible() {
	if l.maxVisible <= 0 {
		return
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.maxVisible {
		l.offset = l.cursor - l.maxVisible + 1
	}
}

func (l *HistoryList) renderContent() string {
	itemWidth := l.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}
	titleLine := styles.AccentStyle.Render(styles.Truncate("History", itemWidth))

	count := len(l.results)
	if count == 0 {
		msg := "No operations yet"
		if l.filterActive && l.Query() != "" {
			msg = "No matches"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(msg) + "\n "
		if l.filterActive {
			content += "\n" + l.filterInput.View()
		}
		return content
	}

	end := min(l.offset+l.maxVisible, count)
	lines := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		lines = append(lines, l.renderRow(l.results[i], i == l.cursor, itemWidth))
	}

	header := " "
	if l.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if l.filterActive {
		content += "\n" + l.filterInput.View()
	}
	return content
}

func (l *HistoryList) renderRow(r search.FilterResult, selected bool, width int) string {
	e := r.Entry
	var outcomeColor lipgloss.Color
	switch e.Outcome {
	case domain.OutcomeSucceeded:
		outcomeColor = styles.Green
	case domain.OutcomeFailed:
		outcomeColor = styles.Red
	default:
		outcomeColor = styles.DimGray
	}
	when := e.FinishedAt.Local().Format("Jan 02 15:04")
	meta := fmt.Sprintf(" %-7s %-9s %s", e.Operation, e.Outcome, when)
	titleWidth := max(width-lipgloss.Width(meta)-2, 8)

	title := styles.Pad(styles.Truncate(e.DisplayTitle(), titleWidth), titleWidth)
	return styles.RenderListRow([]styles.RowPart{
		{Text: title},
		{Text: fmt.Sprintf(" %-7s", e.Operation)},
		{Text: fmt.Sprintf(" %-9s", e.Outcome), Foreground: &outcomeColor},
		{Text: " " + when},
	}, selected, width)
}
