// Package errors provides standardized error handling for the strategist
// pipeline, including conversion to BPMN errors for workflow integration.
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
	// Collection stage
	ErrCodeSourceUnavailable   ErrorCode = "SOURCE_UNAVAILABLE"
	ErrCodeSchemaDrift         ErrorCode = "SCHEMA_DRIFT"
	ErrCodeNoSignalsCollected  ErrorCode = "NO_SIGNALS_COLLECTED"
	ErrCodeInvalidBusinessType ErrorCode = "INVALID_BUSINESS_TYPE"

	// Scoring stage
	ErrCodeScoringFailed   ErrorCode = "SCORING_FAILED"
	ErrCodeInvalidWeights  ErrorCode = "INVALID_WEIGHTS"
	ErrCodeLLMRerankFailed ErrorCode = "LLM_RERANK_FAILED"
	ErrCodeLLMTimeout      ErrorCode = "LLM_TIMEOUT"

	// Planning stage
	ErrCodePlanBuildFailed   ErrorCode = "PLAN_BUILD_FAILED"
	ErrCodeIncompletePlanTip ErrorCode = "INCOMPLETE_PLAN_TIP"

	// Profile store
	ErrCodeProfileReadFailed    ErrorCode = "PROFILE_READ_FAILED"
	ErrCodeProfileWriteFailed   ErrorCode = "PROFILE_WRITE_FAILED"
	ErrCodeProfileMergeConflict ErrorCode = "PROFILE_MERGE_CONFLICT"
	ErrCodeInvalidProfileDelta  ErrorCode = "INVALID_PROFILE_DELTA"

	// Infrastructure
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeArchiveIndexFailed       ErrorCode = "ARCHIVE_INDEX_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
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
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	if e.ErrorVariables != nil {
		for k, v := range e.ErrorVariables {
			vars[k] = v
		}
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewSourceUnavailableError marks one connector's fetch as failed. Recovered
// locally by the aggregator, so it is not retryable at the job level.
func NewSourceUnavailableError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceUnavailable,
		Message:   fmt.Sprintf("Source '%s' unavailable", source),
		Details:   err.Error(),
		Retryable: false,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaDriftError marks an upstream response that no longer matches the
// expected shape. Treated identically to SOURCE_UNAVAILABLE downstream.
func NewSchemaDriftError(source, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaDrift,
		Message:   fmt.Sprintf("Source '%s' response shape changed", source),
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewNoSignalsCollectedError is fatal: every connector failed.
func NewNoSignalsCollectedError(attempted []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoSignalsCollected,
		Message:   "All trend sources failed, nothing to score",
		Details:   fmt.Sprintf("attempted sources: %s", strings.Join(attempted, ", ")),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidBusinessTypeError rejects an unknown business type at the entry
// boundary, before any fetch is attempted.
func NewInvalidBusinessTypeError(businessType string, available []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidBusinessType,
		Message:   fmt.Sprintf("Unknown business type: '%s'", businessType),
		Details:   fmt.Sprintf("supported: %s", strings.Join(available, ", ")),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidWeightsError reports a scoring weight set that does not sum to 1.
func NewInvalidWeightsError(businessType string, sum float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidWeights,
		Message:   "Scoring weights must sum to 1.0",
		Details:   fmt.Sprintf("businessType: %s, sum: %f", businessType, sum),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM re-rank call timeout",
		Details:   "call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMRerankFailedError creates a retryable LLM re-rank error. The scorer
// falls back to the deterministic ordering, so this is informational.
func NewLLMRerankFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMRerankFailed,
		Message:   "LLM re-rank call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIncompletePlanTipError records a generated day that was missing a
// platform tip. Always self-healed before the record is emitted.
func NewIncompletePlanTipError(day, platform string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIncompletePlanTip,
		Message:   "Generated day missing a platform tip",
		Details:   fmt.Sprintf("day: %s, platform: %s", day, platform),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileReadFailedError creates a retryable profile read error.
func NewProfileReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileReadFailed,
		Message:   "Database error reading business profile",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileWriteFailedError creates a retryable profile write error.
func NewProfileWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileWriteFailed,
		Message:   "Database error writing business profile",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileMergeConflictError reports a concurrent write detected during a
// merge. Resolved last-write-wins; surfaced as a warning only.
func NewProfileMergeConflictError(expected, actual string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileMergeConflict,
		Message:   "Profile changed underneath a merge",
		Details:   fmt.Sprintf("expected last_updated %s, found %s", expected, actual),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidProfileDeltaError creates a non-retryable delta validation error.
func NewInvalidProfileDeltaError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidProfileDelta,
		Message:   "Profile delta failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewArchiveIndexFailedError creates a retryable audit-archive error.
func NewArchiveIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArchiveIndexFailed,
		Message:   "Signal audit archive indexing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Plan notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes (identical).
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeSourceUnavailable:        "SOURCE_UNAVAILABLE",
	ErrCodeSchemaDrift:              "SCHEMA_DRIFT",
	ErrCodeNoSignalsCollected:       "NO_SIGNALS_COLLECTED",
	ErrCodeInvalidBusinessType:      "INVALID_BUSINESS_TYPE",
	ErrCodeScoringFailed:            "SCORING_FAILED",
	ErrCodeInvalidWeights:           "INVALID_WEIGHTS",
	ErrCodeLLMRerankFailed:          "LLM_RERANK_FAILED",
	ErrCodeLLMTimeout:               "LLM_TIMEOUT",
	ErrCodePlanBuildFailed:          "PLAN_BUILD_FAILED",
	ErrCodeIncompletePlanTip:        "INCOMPLETE_PLAN_TIP",
	ErrCodeProfileReadFailed:        "PROFILE_READ_FAILED",
	ErrCodeProfileWriteFailed:       "PROFILE_WRITE_FAILED",
	ErrCodeProfileMergeConflict:     "PROFILE_MERGE_CONFLICT",
	ErrCodeInvalidProfileDelta:      "INVALID_PROFILE_DELTA",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeArchiveIndexFailed:       "ARCHIVE_INDEX_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeNoSignalsCollected,
		ErrCodeProfileReadFailed,
		ErrCodeProfileWriteFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeArchiveIndexFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeLLMRerankFailed:
		return 3 // Retryable technical errors

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for the engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code) // Fallback
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SOURCE") || strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "SIGNALS"):
		return "COLLECTION"
	case strings.Contains(codeStr, "SCORING") || strings.Contains(codeStr, "WEIGHTS") || strings.Contains(codeStr, "LLM"):
		return "SCORING"
	case strings.Contains(codeStr, "PLAN"):
		return "PLANNING"
	case strings.Contains(codeStr, "PROFILE"):
		return "PROFILE"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "ARCHIVE"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
