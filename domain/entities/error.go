package entities

import "fmt"

// ErrorDetail is the structured form of a load failure or dispatcher fault,
// suitable for logging or handing to a frontend UI.
//
// Type is one of "content", "protocol", "config", "core", "panic" or
// "internal". Code narrows it: the content operation, command name, config
// field or core entry point involved.
type ErrorDetail struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`

	// Missing marks failures caused by absent content or an unknown
	// subsystem, as opposed to content the core could not accept.
	Missing bool `json:"missing,omitempty"`

	Stack []byte `json:"stack,omitempty"`
}

func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s %s)", e.Message, e.Type, e.Code)
}

// NewErrorDetail creates an ErrorDetail of the given type.
func NewErrorDetail(typ, code, message string) *ErrorDetail {
	return &ErrorDetail{Type: typ, Code: code, Message: message}
}
