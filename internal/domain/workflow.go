package domain

import "time"

// Mode is the affordance the tool button currently offers
type Mode string

const (
	ModeAdd    Mode = "add"
	ModeRemove Mode = "remove"
)

// Label returns the button text for the mode
func (m Mode) Label() string {
	if m == ModeRemove {
		return "Remove via reverig-tool"
	}
	return "Add via reverig-tool"
}

// ParseMode maps an attribute value to a Mode, defaulting to ModeAdd
func ParseMode(v string) Mode {
	if Mode(v) == ModeRemove {
		return ModeRemove
	}
	return ModeAdd
}

// Phase is the controller-side state of the workflow for one identifier
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseStarting    Phase = "starting"
	PhaseChecking    Phase = "checking"
	PhaseDownloading Phase = "downloading"
	PhaseProcessing  Phase = "processing"
	PhaseInstalling  Phase = "installing"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
	PhaseRemoving    Phase = "removing"
)

// PhaseFor maps a backend status to the workflow phase it represents.
// Statuses without a phase keep the current one.
func PhaseFor(s Status, current Phase) Phase {
	switch s {
	case StatusChecking:
		return PhaseChecking
	case StatusDownloading:
		return PhaseDownloading
	case StatusProcessing:
		return PhaseProcessing
	case StatusInstalling:
		return PhaseInstalling
	case StatusDone:
		return PhaseDone
	case StatusFailed:
		return PhaseFailed
	default:
		return current
	}
}

// Operation identifies a user-initiated action
type Operation string

const (
	OperationAdd     Operation = "add"
	OperationRemove  Operation = "remove"
	OperationRestart Operation = "restart"
)

// WorkflowEvent reports a transition of the workflow
type WorkflowEvent struct {
	AppID     AppID
	Operation Operation
	Phase     Phase
	State     StatusState // last poll state (zero outside add polling)
	Percent   int
	Mode      Mode // button mode after the transition
	Err       error
	At        time.Time
}

// Terminal returns true if the event ends an operation
func (e WorkflowEvent) Terminal() bool {
	return e.Phase == PhaseDone || e.Phase == PhaseFailed || e.Phase == PhaseIdle
}

// WorkflowObserver receives workflow transitions
type WorkflowObserver interface {
	OnEvent(event WorkflowEvent)
}

// NoOpObserver discards workflow events
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(WorkflowEvent) {}

// ObserverFunc adapts a function to WorkflowObserver
type ObserverFunc func(WorkflowEvent)

func (f ObserverFunc) OnEvent(e WorkflowEvent) { f(e) }

// MultiObserver fans events out to several observers in order
type MultiObserver []WorkflowObserver

func (m MultiObserver) OnEvent(e WorkflowEvent) {
	for _, o := range m {
		if o != nil {
			o.OnEvent(e)
		}
	}
}
