package domain

import "fmt"

// Status is the backend-reported phase of an add operation
type Status string

const (
	StatusQueued      Status = "queued"
	StatusChecking    Status = "checking"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusInstalling  Status = "installing"
	StatusDone        Status = "done"
	StatusFailed      Status = "failed"
	StatusUnknown     Status = "unknown"
)

// User-visible status lines
const (
	LabelWorking     = "Working…"
	LabelChecking    = "Checking availability…"
	LabelDownloading = "Downloading…"
	LabelProcessing  = "Processing package…"
	LabelInstalling  = "Installing…"
	LabelFinishing   = "Finishing…"
	LabelFailed      = "Failed"
	LabelAdded       = "Game Added!"
	LabelFailedHelp  = "Failed: request game in discord"

	LabelRestart = "Restart Steam"
)

// IsTerminal returns true for statuses after which polling stops
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusFailed
}

// Label returns the status line shown while the status is current.
// Statuses without a label (queued, unknown, empty) return "".
func (s Status) Label() string {
	switch s {
	case StatusChecking:
		return LabelChecking
	case StatusDownloading:
		return LabelDownloading
	case StatusProcessing:
		return LabelProcessing
	case StatusInstalling:
		return LabelInstalling
	case StatusDone:
		return LabelFinishing
	case StatusFailed:
		return LabelFailed
	default:
		return ""
	}
}

// String returns the wire representation of the status
func (s Status) String() string {
	return string(s)
}

// StatusState is the record returned by a status poll
type StatusState struct {
	Status     Status `json:"status"`
	CurrentAPI string `json:"currentApi,omitempty"`
	BytesRead  int64  `json:"bytesRead,omitempty"`
	TotalBytes int64  `json:"totalBytes,omitempty"` // 0 = unknown
	Error      string `json:"error,omitempty"`
}

// Percent returns the download progress for the state
func (s StatusState) Percent() int {
	return Percent(s.BytesRead, s.TotalBytes)
}

// Percent computes floor(read/total*100) clamped to [0,100].
// With an unknown total it reports 1 once any bytes are read.
func Percent(read, total int64) int {
	if total <= 0 {
		if read > 0 {
			return 1
		}
		return 0
	}
	if read <= 0 {
		return 0
	}
	if read >= total {
		return 100
	}
	return int(read * 100 / total)
}

// FormatPercent renders a percent readout ("50%")
func FormatPercent(pct int) string {
	return fmt.Sprintf("%d%%", pct)
}
