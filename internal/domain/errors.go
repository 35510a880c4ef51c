package domain

import "errors"

// Sentinel errors for workflow operations
var (
	// ErrBackendUnavailable indicates the host bridge could not reach the backend
	ErrBackendUnavailable = errors.New("backend is unreachable")

	// ErrInvalidAppID indicates the identifier is missing or not a positive number
	ErrInvalidAppID = errors.New("invalid app id")

	// ErrInProgress indicates an operation for the same identifier is running
	ErrInProgress = errors.New("operation already in progress for this appid")

	// ErrRemoteFailure indicates the backend answered with success=false
	ErrRemoteFailure = errors.New("backend reported failure")

	// ErrEntryNotFound indicates the requested history entry does not exist
	ErrEntryNotFound = errors.New("history entry not found")
)
