package domain

import "context"

// PresenceResult is the answer of HasReverigToolForApp
type PresenceResult struct {
	Success bool   `json:"success"`
	Exists  bool   `json:"exists"`
	Error   string `json:"error,omitempty"`
}

// StatusResult is the answer of GetAddViaReverigToolStatus
type StatusResult struct {
	Success bool        `json:"success"`
	State   StatusState `json:"state"`
	Error   string      `json:"error,omitempty"`
}

// RemoveResult is the answer of RemoveReverigToolForApp
type RemoveResult struct {
	Success bool   `json:"success"`
	Removed bool   `json:"removed"`
	Error   string `json:"error,omitempty"`
}

// DLCResult is the answer of AddDLCs
type DLCResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ToolRepository is the backend RPC surface the workflow consumes.
// Callers treat a failed or malformed response as an empty result.
type ToolRepository interface {
	// HasTool reports whether the item is already installed
	HasTool(ctx context.Context, id AppID) (PresenceResult, error)

	// StartAdd kicks off the backend install (fire-and-forget)
	StartAdd(ctx context.Context, id AppID) error

	// AddStatus returns the current install state
	AddStatus(ctx context.Context, id AppID) (StatusResult, error)

	// RemoveTool uninstalls the item
	RemoveTool(ctx context.Context, id AppID) (RemoveResult, error)

	// AddDLCs adds related downloadable content after a successful install
	AddDLCs(ctx context.Context, id AppID) (DLCResult, error)

	// RestartHost asks the backend to restart the host client (fire-and-forget)
	RestartHost(ctx context.Context) error
}

// RemoteLogger forwards log lines to the backend log
type RemoteLogger interface {
	Warn(ctx context.Context, message string) error
}
