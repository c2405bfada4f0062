package errors

import (
	"fmt"
)

// Network creates an error for a request that never produced a response.
func Network(op string, err error) *DashError {
	return Wrap(err, ErrCodeNetwork, fmt.Sprintf("request failed: %s", op)).
		WithDetail("operation", op)
}

// ServerRejected creates an error for a non-2xx response. The detail message,
// when present, is the server-supplied explanation and is safe to show verbatim.
func ServerRejected(op string, status int, detail string) *DashError {
	msg := fmt.Sprintf("server rejected %s (status %d)", op, status)
	if detail != "" {
		msg = detail
	}
	return New(ErrCodeServerRejected, msg).
		WithDetail("operation", op).
		WithDetail("status", status)
}

// Malformed creates an error for a response body that failed to parse.
// This indicates a backward-incompatible API change and is always logged.
func Malformed(op string, err error) *DashError {
	return Wrap(err, ErrCodeMalformed, fmt.Sprintf("unexpected response shape from %s", op)).
		WithDetail("operation", op)
}

// MutationInFlight creates a busy error for a second concurrent mutation on
// the same entity.
func MutationInFlight(entityID string) *DashError {
	return New(ErrCodeMutationInFlight,
		fmt.Sprintf("a change to %s is already in progress", entityID)).
		WithDetail("entityId", entityID)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *DashError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *DashError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// StorageWrite creates an error for a failed preference write. Callers log
// this and continue; it never aborts the in-memory state change.
func StorageWrite(key string, err error) *DashError {
	return Wrap(err, ErrCodeStorageWrite, fmt.Sprintf("failed to persist %s", key)).
		WithDetail("key", key)
}

// StorageRead creates an error for an unreadable preference file.
func StorageRead(key string, err error) *DashError {
	return Wrap(err, ErrCodeStorageRead, fmt.Sprintf("failed to load %s", key)).
		WithDetail("key", key)
}
