// Package errors provides domain-specific error types for the host.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/retrohost/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// Sentinel causes wrapped by the typed errors below.
var (
	// ErrUnsupported is returned by a provider that declines a request.
	// The dispatcher reports it to the core as a plain false.
	ErrUnsupported = stdErrors.New("unsupported")

	ErrUnregisteredExtension = stdErrors.New("extension is not registered by the core")
	ErrSubsystemROMCount     = stdErrors.New("content count does not match the subsystem's rom count")
	ErrUnknownSubsystem      = stdErrors.New("unknown subsystem")
	ErrFullpathRequired      = stdErrors.New("in-memory content cannot satisfy need_fullpath")
	ErrExtractionBlocked     = stdErrors.New("content needs a full path but archive extraction is blocked")
	ErrRequiredContent       = stdErrors.New("required content is missing")
	ErrNoSystemInfo          = stdErrors.New("system info has not been set")

	ErrNullPayload = stdErrors.New("null payload")

	ErrArenaReleased = stdErrors.New("arena already released")
)

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
// This function recognizes custom error types and categorizes them appropriately.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// ContentError reports a content resolution or staging failure. It aborts
// the whole load operation it occurred in.
type ContentError struct {
	Err  error
	Op   string // "resolve", "stage", "load"
	Path string // content path, when one exists
	Slot int    // subsystem rom slot, -1 outside subsystem loads
}

func (e *ContentError) Error() string {
	where := e.Op
	if e.Slot >= 0 {
		where = fmt.Sprintf("%s slot %d", where, e.Slot)
	}
	if e.Path != "" {
		return fmt.Sprintf("content %s failed for %s: %v", where, e.Path, e.Err)
	}
	return fmt.Sprintf("content %s failed: %v", where, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ContentError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "content", Code: e.Op}
	if stdErrors.Is(e.Err, ErrRequiredContent) || stdErrors.Is(e.Err, ErrUnknownSubsystem) {
		detail.Missing = true
	}
	return detail
}

// NewContentError builds a ContentError outside any subsystem slot.
func NewContentError(op, path string, err error) *ContentError {
	return &ContentError{Op: op, Path: path, Slot: -1, Err: err}
}

// ProtocolError reports a core calling a command in a way the ABI forbids,
// such as a null payload for a command that does not accept one. It is
// fatal to the offending call only.
type ProtocolError struct {
	Err    error
	Cmd    string
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("protocol violation in %s: %s", e.Cmd, e.Reason)
	}
	return fmt.Sprintf("protocol violation in %s: %v", e.Cmd, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ProtocolError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "protocol", Code: e.Cmd}
}

// ConfigError represents a configuration or composition error raised before
// a session starts.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// CoreError represents a failure at the native core boundary.
type CoreError struct {
	Err error
	Op  string
}

func (e *CoreError) Error() string {
	return fmt.Sprintf("core %s failed: %v", e.Op, e.Err)
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CoreError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "core", Code: e.Op}
}

// PanicError wraps a value recovered from a panicking environment handler.
type PanicError struct {
	Value any
	Cmd   string
	Stack []byte
}

func (e *PanicError) Error() string {
	switch v := e.Value.(type) {
	case error:
		return fmt.Sprintf("panic in %s: %v", e.Cmd, v)
	case string:
		return fmt.Sprintf("panic in %s: %s", e.Cmd, v)
	default:
		return fmt.Sprintf("panic in %s: panic recovered", e.Cmd)
	}
}

// ToErrorDetail implements DetailedError.
func (e *PanicError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "panic", Code: e.Cmd, Stack: e.Stack}
}

// MemoryError represents an arena allocation over its limit.
type MemoryError struct {
	Requested int // Requested allocation size
	Current   int // Current total allocated
	Limit     int // Maximum allowed
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory allocation failed: requested %d bytes, current %d bytes, limit %d bytes",
		e.Requested, e.Current, e.Limit)
}

// ToErrorDetail implements DetailedError.
func (e *MemoryError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "memory_limit"}
}
