// Package errors provides the standardized error taxonomy for analysis actions.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputTooShort ErrorCode = "INPUT_TOO_SHORT"

	ErrCodeWorkflowTransportFailed ErrorCode = "WORKFLOW_TRANSPORT_FAILED"
	ErrCodeWorkflowServerError     ErrorCode = "WORKFLOW_SERVER_ERROR"
	ErrCodeWorkflowInvalidFormat   ErrorCode = "WORKFLOW_INVALID_FORMAT"

	ErrCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInputTooShortError rejects input below the minimum length. The user
// fixes the text and submits again; nothing is sent to the workflow.
func NewInputTooShortError(length, minimum int, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputTooShort,
		Message:   "Input text is too short",
		Details:   details,
		Retryable: false,
		Metadata: map[string]interface{}{
			"length":  length,
			"minimum": minimum,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowTransportError wraps a network-level failure. Details carry the
// underlying message verbatim.
func NewWorkflowTransportError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowTransportFailed,
		Message:   "Workflow endpoint unreachable",
		Details:   err.Error(),
		Retryable: true,
		Metadata: map[string]interface{}{
			"endpoint": endpoint,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowServerError reports a non-200 answer from the workflow.
func NewWorkflowServerError(statusCode int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowServerError,
		Message:   fmt.Sprintf("Workflow returned status %d", statusCode),
		Details:   body,
		Retryable: statusCode >= 500 || statusCode == http.StatusNotFound,
		Metadata: map[string]interface{}{
			"statusCode": statusCode,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowInvalidFormatError reports a 200 answer whose body is not JSON.
func NewWorkflowInvalidFormatError(body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowInvalidFormat,
		Message:   "Workflow response is not JSON",
		Details:   body,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidRequestBodyError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequestBody,
		Message:   "Request body must be a JSON object with a content field",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryableErrorCode reports whether pressing the button again can help
// without changing the input.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeWorkflowTransportFailed, ErrCodeWorkflowServerError:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TRANSPORT"):
		return "CONNECTION"
	case strings.Contains(codeStr, "SERVER"):
		return "SERVER"
	case strings.Contains(codeStr, "FORMAT"):
		return "FORMAT"
	case strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "REQUEST"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps an error code to the status the JSON API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInputTooShort:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidRequestBody:
		return http.StatusBadRequest
	case ErrCodeWorkflowTransportFailed, ErrCodeWorkflowServerError, ErrCodeWorkflowInvalidFormat:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
