package workflow

import "github.com/mmcdole/reverig/internal/domain"

// ModalTitle is the base title of the progress overlay
const ModalTitle = "reverig-tool"

// Action button labels
const (
	ActionClose = "Close"
	ActionDone  = "Done"
)

// Modal is the state of the single progress overlay
type Modal struct {
	Title           string
	Status          string
	ProgressVisible bool
	Percent         int
	Action          string
}

// NewModal returns the overlay as first shown by the add action
func NewModal() Modal {
	return Modal{
		Title:  ModalTitle,
		Status: domain.LabelWorking,
		Action: ActionClose,
	}
}

// TitleFor returns the overlay title for the backend source in use
func TitleFor(currentAPI string) string {
	if currentAPI == "" {
		return ModalTitle
	}
	return ModalTitle + " · " + currentAPI
}

// PercentText renders the percent readout
func (m Modal) PercentText() string {
	return domain.FormatPercent(m.Percent)
}
