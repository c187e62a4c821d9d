package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is returned by Add when the identity is already occupied
	ErrConflict = errors.New("provider config already exists")

	// ErrNotFound is returned by Update and Remove when the identity is absent
	ErrNotFound = errors.New("provider config not found")
)

// ValidationError rejects a config before any state is touched
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// LaunchError wraps a plugin start failure. State is rolled back before it
// is surfaced.
type LaunchError struct {
	ID  ID
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.ID, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// StopError wraps a plugin termination failure
type StopError struct {
	ID  ID
	Err error
}

func (e *StopError) Error() string {
	return fmt.Sprintf("stop %s: %v", e.ID, e.Err)
}

func (e *StopError) Unwrap() error {
	return e.Err
}

// DegradedError reports the Update edge case: the new instance failed to
// start and restoring the previous config also failed. The new config is
// persisted but nothing is running under the identity.
type DegradedError struct {
	ID         ID
	LaunchErr  error
	RestoreErr error
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("degraded: %s: launch failed: %v; restore failed: %v", e.ID, e.LaunchErr, e.RestoreErr)
}

// CorruptRecordError marks an unparsable persisted file. Scans log and skip it.
type CorruptRecordError struct {
	Path string
	Err  error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt record %s: %v", e.Path, e.Err)
}

func (e *CorruptRecordError) Unwrap() error {
	return e.Err
}
