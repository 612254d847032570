package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Category labels the failure domain of an error for logging and metrics.
type Category string

const (
	// Errors that should stop the trader
	CategoryFatal       Category = "FATAL"
	CategoryConnection  Category = "CONNECTION"
	CategoryCredentials Category = "CREDENTIALS"
	CategoryConfig      Category = "CONFIG"

	// Errors contained within one cycle
	CategoryMarketData Category = "MARKET_DATA"
	CategoryPrediction Category = "PREDICTION"
	CategoryExecution  Category = "EXECUTION"
	CategoryPosition   Category = "POSITION"
	CategoryJournal    Category = "JOURNAL"

	// Temporary errors
	CategoryRateLimit Category = "RATE_LIMIT"
	CategoryTimeout   Category = "TIMEOUT"
)

// TraderError is a categorized error with the component and operation that
// produced it.
type TraderError struct {
	Category   Category
	Component  string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *TraderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *TraderError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether this error should stop the trader rather than be
// absorbed by the cycle boundary.
func (e *TraderError) IsFatal() bool {
	switch e.Category {
	case CategoryFatal, CategoryConnection, CategoryCredentials, CategoryConfig:
		return true
	}
	return false
}

// New creates a categorized trader error.
func New(category Category, component, operation, message string) *TraderError {
	return &TraderError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// Wrap attaches category and context to an existing error.
func Wrap(err error, category Category, component, operation string) *TraderError {
	return &TraderError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
	}
}

// Classify maps an arbitrary error to a category, preferring an embedded
// TraderError and falling back to message heuristics. Used to label error
// metrics with a stable low-cardinality type.
func Classify(err error) Category {
	if err == nil {
		return ""
	}

	var te *TraderError
	if errors.As(err, &te) {
		return te.Category
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"):
		return CategoryRateLimit
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return CategoryTimeout
	case strings.Contains(msg, "credential") || strings.Contains(msg, "unauthorized"):
		return CategoryCredentials
	case strings.Contains(msg, "connect") || strings.Contains(msg, "connection"):
		return CategoryConnection
	case strings.Contains(msg, "market data") || strings.Contains(msg, "snapshot"):
		return CategoryMarketData
	case strings.Contains(msg, "inference") || strings.Contains(msg, "predict"):
		return CategoryPrediction
	case strings.Contains(msg, "order") || strings.Contains(msg, "submission"):
		return CategoryExecution
	case strings.Contains(msg, "position"):
		return CategoryPosition
	case strings.Contains(msg, "ledger") || strings.Contains(msg, "journal"):
		return CategoryJournal
	default:
		return "UNKNOWN"
	}
}

// IsFatal reports whether err carries a fatal category.
func IsFatal(err error) bool {
	var te *TraderError
	if errors.As(err, &te) {
		return te.IsFatal()
	}
	return false
}
