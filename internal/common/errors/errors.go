// Package errors provides standardized error handling for the job
// negotiation and delivery lifecycle.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnknownJobKind     ErrorCode = "UNKNOWN_JOB_KIND"
	ErrCodeNegotiationFailed  ErrorCode = "NEGOTIATION_FAILED"
	ErrCodeDeliveryFailed     ErrorCode = "DELIVERY_FAILED"
	ErrCodeTransportError     ErrorCode = "TRANSPORT_ERROR"
	ErrCodeTransportTimeout   ErrorCode = "TRANSPORT_TIMEOUT"
	ErrCodeCredentialsMissing ErrorCode = "CREDENTIALS_MISSING"
	ErrCodeStoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
)

// AgentError represents a structured application error.
type AgentError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("AgentError[%s]: %s", e.Code, e.Message)
}

// NewValidationFailedError flags invalid requirement input. Validation
// failures never abort computation, so the error is non-retryable metadata.
func NewValidationFailedError(details string) *AgentError {
	return &AgentError{
		Code:      ErrCodeValidationFailed,
		Message:   "Requirement validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownJobKindError covers unresolved or missing job kind names.
func NewUnknownJobKindError(kind string) *AgentError {
	return &AgentError{
		Code:      ErrCodeUnknownJobKind,
		Message:   "Job kind is not offered by this agent",
		Details:   fmt.Sprintf("kind: %q", kind),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNegotiationFailedError wraps a failure while deciding or signaling
// acceptance. It is surfaced to the counterparty as an explicit rejection.
func NewNegotiationFailedError(err error) *AgentError {
	return &AgentError{
		Code:      ErrCodeNegotiationFailed,
		Message:   "Job negotiation failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeliveryFailedError wraps a failure while submitting a deliverable.
func NewDeliveryFailedError(err error) *AgentError {
	return &AgentError{
		Code:      ErrCodeDeliveryFailed,
		Message:   "Deliverable submission failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError wraps a transient gateway failure.
func NewTransportError(operation string, err error) *AgentError {
	return &AgentError{
		Code:      ErrCodeTransportError,
		Message:   fmt.Sprintf("Transport operation '%s' failed", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportTimeoutError wraps a gateway timeout.
func NewTransportTimeoutError(operation string, err error) *AgentError {
	return &AgentError{
		Code:      ErrCodeTransportTimeout,
		Message:   fmt.Sprintf("Transport operation '%s' timed out", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCredentialsMissingError is the only fatal class: the agent cannot
// participate in the protocol without its identity.
func NewCredentialsMissingError(field string) *AgentError {
	return &AgentError{
		Code:      ErrCodeCredentialsMissing,
		Message:   "Required protocol credentials are missing",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError wraps a job context store failure.
func NewStoreUnavailableError(err error) *AgentError {
	return &AgentError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Job context store unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether err is an AgentError marked retryable.
func IsRetryable(err error) bool {
	if ae, ok := err.(*AgentError); ok {
		return ae.Retryable
	}
	return false
}
