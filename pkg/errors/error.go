// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid periods, capital, price series and signals
//   - Data errors (200-299): Insufficient or unavailable price data, query failures
//   - Computation errors (300-399): Division by zero, degenerate statistics
//   - Backtest errors (600-699): Engine configuration and result persistence
//   - Market data errors (700-799): Market data fetching and writing
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidPeriod, "period must be positive")
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeQueryFailed, "failed to read prices", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeDivisionByZero) { ... }
//
// Two failures carry extra context and have their own types: InsufficientDataError
// (not enough bars for the requested windows) and DegenerateStatisticsError
// (a statistic that is undefined for the given observations).
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error.
// InsufficientDataError and DegenerateStatisticsError report their own codes.
// Returns ErrCodeUnknown if the error carries no code.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	if IsInsufficientDataError(err) {
		return ErrCodeInsufficientData
	}

	if IsDegenerateStatisticsError(err) {
		return ErrCodeDegenerateStatistics
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError represents an error when there is not enough data
// for a calculation (e.g., a moving average longer than the price series).
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Actual data points available
	Symbol   string // Optional: symbol context
	Message  string // Human-readable message
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, symbol, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, symbol, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Symbol:   symbol,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
// It uses errors.As to check the error chain.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}

// DegenerateStatisticsError is returned when a statistic is undefined for its inputs,
// such as a Sharpe ratio over fewer than two returns or over returns with zero variance.
type DegenerateStatisticsError struct {
	Statistic    string // Name of the statistic, e.g. "sharpe_ratio"
	Observations int    // Number of observations the statistic was computed over
	Reason       string // Why the statistic is undefined
}

// NewDegenerateStatisticsError creates a new DegenerateStatisticsError.
func NewDegenerateStatisticsError(statistic string, observations int, reason string) *DegenerateStatisticsError {
	return &DegenerateStatisticsError{
		Statistic:    statistic,
		Observations: observations,
		Reason:       reason,
	}
}

// Error implements the error interface.
func (e *DegenerateStatisticsError) Error() string {
	return fmt.Sprintf("%s is undefined over %d observations: %s", e.Statistic, e.Observations, e.Reason)
}

// IsDegenerateStatisticsError checks if an error is a DegenerateStatisticsError.
func IsDegenerateStatisticsError(err error) bool {
	var degenerateErr *DegenerateStatisticsError

	return errors.As(err, &degenerateErr)
}
