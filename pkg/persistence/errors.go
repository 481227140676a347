package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrPresetNotFound indicates no preset exists under the given name.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrInvalidPresetName indicates an empty or oversized preset name.
	ErrInvalidPresetName = errors.New("invalid preset name")

	// ErrInvalidCollection indicates an import payload that is not a preset collection.
	ErrInvalidCollection = errors.New("invalid preset collection")

	// ErrInvalidNamespace indicates a namespace without workflow id.
	ErrInvalidNamespace = errors.New("invalid preset namespace")

	// ErrAdapterUnavailable indicates the backend could not be reached.
	ErrAdapterUnavailable = errors.New("preset storage unavailable")
)

// PresetError wraps preset-related errors with additional context.
type PresetError struct {
	Op        string // Operation being performed (e.g., "Get", "Save", "Import")
	Namespace Namespace
	Name      string // Preset name if applicable
	Err       error
}

func (e *PresetError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s operation failed for preset %q in %s: %v", e.Op, e.Name, e.Namespace, e.Err)
	}

	return fmt.Sprintf("%s operation failed for presets in %s: %v", e.Op, e.Namespace, e.Err)
}

func (e *PresetError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for preset errors.
func (e *PresetError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewPresetError creates a new preset error with context.
func NewPresetError(op string, ns Namespace, name string, err error) *PresetError {
	return &PresetError{Op: op, Namespace: ns, Name: name, Err: err}
}

// RemoteError is a non-success response of the preset API.
type RemoteError struct {
	StatusCode int
	Type       string
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("preset API returned %d (%s): %s", e.StatusCode, e.Type, e.Detail)
	}

	return fmt.Sprintf("preset API returned %d", e.StatusCode)
}

// IsPresetNotFound checks if an error indicates a preset was not found.
func IsPresetNotFound(err error) bool {
	return errors.Is(err, ErrPresetNotFound)
}

// IsInvalidPresetName checks if an error indicates a rejected preset name.
func IsInvalidPresetName(err error) bool {
	return errors.Is(err, ErrInvalidPresetName)
}

// IsInvalidCollection checks if an error indicates a rejected import payload.
func IsInvalidCollection(err error) bool {
	return errors.Is(err, ErrInvalidCollection)
}
