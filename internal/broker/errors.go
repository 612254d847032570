package broker

// BrokerError represents standardized errors from brokerage connectors
type BrokerError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Details     string `json:"details,omitempty"`
	IsRetryable bool   `json:"is_retryable"`
}

func (e *BrokerError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Common error types
var (
	ErrNotConnected = &BrokerError{
		Code:        "NOT_CONNECTED",
		Message:     "Broker session is not connected",
		IsRetryable: true,
	}

	ErrOrderRejected = &BrokerError{
		Code:        "ORDER_REJECTED",
		Message:     "Order was rejected by the broker",
		IsRetryable: false,
	}

	ErrInvalidSymbol = &BrokerError{
		Code:        "INVALID_SYMBOL",
		Message:     "Invalid underlying symbol",
		IsRetryable: false,
	}

	ErrMissingCredentials = &BrokerError{
		Code:        "MISSING_CREDENTIALS",
		Message:     "Broker API credentials are required",
		IsRetryable: false,
	}

	ErrRateLimitExceeded = &BrokerError{
		Code:        "RATE_LIMIT_EXCEEDED",
		Message:     "API rate limit exceeded",
		IsRetryable: true,
	}
)

// NewBrokerError creates a broker error with details attached
func NewBrokerError(code, message, details string, retryable bool) *BrokerError {
	return &BrokerError{
		Code:        code,
		Message:     message,
		Details:     details,
		IsRetryable: retryable,
	}
}

// IsRetryable reports whether err is a broker error flagged as retryable.
func IsRetryable(err error) bool {
	if be, ok := err.(*BrokerError); ok {
		return be.IsRetryable
	}
	return false
}
