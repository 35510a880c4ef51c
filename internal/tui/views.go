package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/tui/styles"
	"github.com/mmcdole/reverig/internal/workflow"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmRestart:
		return m.renderRestartConfirmation()
	}

	if m.Page.OverlayOpen {
		return m.renderOverlay()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderButtonRow(),
		"",
		m.History.View(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.Title
	if title == "" {
		title = fmt.Sprintf("App %d", m.AppID)
	}
	phase := ""
	if m.Phase != domain.PhaseIdle && m.Phase != "" {
		phase = "  " + styles.DimStyle.Render(string(m.Phase))
	}
	return styles.TitleStyle.Render(title) + " " + styles.DimStyle.Render(fmt.Sprintf("(%d)", m.AppID)) + phase
}

// renderButtonRow draws the page's buttons in insertion order
func (m Model) renderButtonRow() string {
	if !m.Page.ButtonRow {
		return styles.DimStyle.Render("No button row on this page")
	}

	parts := []string{styles.ButtonStyle.Render("SteamDB")}
	if m.Page.RestartButton {
		parts = append(parts, styles.ButtonStyle.Render(domain.LabelRestart))
	}
	if m.Page.ToolButton {
		label := m.Page.Mode.Label()
		if m.controller != nil && m.controller.InProgress(m.AppID) {
			parts = append(parts, styles.BusyButtonStyle.Render(m.spinner.View()+" "+label))
		} else {
			parts = append(parts, styles.ToolButtonStyle.Render(label))
		}
	} else if !m.SetupDone {
		parts = append(parts, m.spinner.View()+styles.DimStyle.Render(" checking…"))
	}
	return strings.Join(parts, " ")
}

// renderOverlay renders the progress modal centered on screen
func (m Model) renderOverlay() string {
	modal := m.Page.Modal

	lines := []string{styles.ModalTitleStyle.Render(modal.Title)}

	status := modal.Status
	switch {
	case modal.Status == domain.LabelAdded:
		status = styles.SuccessStyle.Render(status)
	case strings.HasPrefix(modal.Status, domain.LabelFailed):
		status = styles.ErrorStyle.Render(status)
	case modal.Action != workflow.ActionDone:
		status = m.spinner.View() + " " + status
	}
	lines = append(lines, status)

	if modal.ProgressVisible {
		bar := m.progress.ViewAs(float64(modal.Percent) / 100)
		lines = append(lines, "", bar+" "+styles.AccentStyle.Render(modal.PercentText()))
	}

	lines = append(lines, "",
		lipgloss.PlaceHorizontal(modalWidth-6, lipgloss.Right,
			styles.ActionStyle.Render(modal.Action)+" "+styles.DimStyle.Render("c")))

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Width(modalWidth).Render(strings.Join(lines, "\n")))
}

// renderFooter renders status on the left, hints in the center and help on the right
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	case m.History.IsFiltering() && m.History.Query() != "":
		left = styles.FilterStyle.Render(fmt.Sprintf("%d matches", m.History.Len()))
	}

	center := styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" "+strings.ToLower(m.Page.Mode.Label()))
	if m.Page.RestartButton {
		center += "  " + styles.HelpKeyStyle.Render("R") + styles.HelpDescStyle.Render(" restart")
	}

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
WORKFLOW                        HISTORY
  enter/a    Add or remove        j/k    Up/down
  c/esc      Close dialog         g/G    First/last
  r          Re-run setup         /      Filter
  R          Restart Steam        esc    Clear filter

OTHER
  q          Quit
  ?          This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderRestartConfirmation renders the restart confirmation modal
func (m Model) renderRestartConfirmation() string {
	modal := `
            Restart Steam?

  Steam will close and start again.
  Running downloads are interrupted.

        [Y] Yes      [N] No
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(modal))
}
