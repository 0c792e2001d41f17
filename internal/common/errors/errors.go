// internal/common/errors/errors.go

// Package errors provides standardized error handling for the suggestion pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSlotConfigMissing ErrorCode = "SLOT_CONFIG_MISSING"
	ErrCodeMalformedRequest  ErrorCode = "MALFORMED_REQUEST"

	ErrCodeQueueReceiveFailed ErrorCode = "QUEUE_RECEIVE_FAILED"
	ErrCodeQueueDeleteFailed  ErrorCode = "QUEUE_DELETE_FAILED"
	ErrCodeEnqueueFailed      ErrorCode = "ENQUEUE_FAILED"
	ErrCodeDeadLetterFailed   ErrorCode = "DEAD_LETTER_FAILED"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeDetailLookupFailed ErrorCode = "DETAIL_LOOKUP_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
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

// NewSlotConfigMissingError creates a non-retryable conversation configuration error.
// A required slot is absent from the conversation definition itself, so looping
// on the user would never resolve it.
func NewSlotConfigMissingError(slotKey string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSlotConfigMissing,
		Message:   "Required slot missing from conversation configuration",
		Details:   fmt.Sprintf("slotKey: %s", slotKey),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedRequestError creates a non-retryable payload error.
func NewMalformedRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedRequest,
		Message:   "Fulfillment request payload failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueReceiveFailedError creates a retryable queue receive error.
func NewQueueReceiveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueReceiveFailed,
		Message:   "Failed to receive messages from the request queue",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueDeleteFailedError creates a retryable queue acknowledgement error.
func NewQueueDeleteFailedError(messageID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueDeleteFailed,
		Message:   "Failed to delete message from the request queue",
		Details:   fmt.Sprintf("messageId: %s, error: %s", messageID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnqueueFailedError creates a retryable enqueue error.
func NewEnqueueFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnqueueFailed,
		Message:   "Failed to enqueue fulfillment request",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeadLetterFailedError creates a retryable dead-letter forwarding error.
func NewDeadLetterFailedError(messageID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeadLetterFailed,
		Message:   "Failed to forward message to the dead-letter queue",
		Details:   fmt.Sprintf("messageId: %s, error: %s", messageID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(cuisine string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Restaurant index query error",
		Details:   fmt.Sprintf("cuisine: %s, error: %s", cuisine, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(cuisine string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Restaurant index query timeout",
		Details:   fmt.Sprintf("cuisine: %s", cuisine),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDetailLookupFailedError creates a retryable detail store error.
func NewDetailLookupFailedError(restaurantID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDetailLookupFailed,
		Message:   "Restaurant detail lookup error",
		Details:   fmt.Sprintf("restaurantId: %s, error: %s", restaurantID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Suggestion email delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeQueueReceiveFailed,
		ErrCodeQueueDeleteFailed,
		ErrCodeEnqueueFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeDetailLookupFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeDeadLetterFailed:
		return 3 // Retryable technical errors

	case ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Configuration/payload errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SLOT"):
		return "DIALOG"
	case strings.Contains(codeStr, "QUEUE") || strings.Contains(codeStr, "ENQUEUE") || strings.Contains(codeStr, "DEAD_LETTER"):
		return "QUEUE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "DETAIL"):
		return "DETAIL_STORE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "MALFORMED"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
