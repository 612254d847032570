package notifications

// TradeFill carries the details of an executed option order for notification
// channels that render structured fill messages.
type TradeFill struct {
	Symbol     string
	Right      string
	Strike     float64
	Expiry     string
	Quantity   int
	FillPrice  float64
	OrderID    string
	Confidence float64
}

// Notifier defines the interface for notification services
type Notifier interface {
	// SendAlert sends an alert with the specified level and message
	SendAlert(level, message string) error

	// SendTradeFill sends a structured notification for an executed order
	SendTradeFill(fill TradeFill) error
}

// Noop is the notifier used when no channel is configured.
type Noop struct{}

func (Noop) SendAlert(level, message string) error { return nil }

func (Noop) SendTradeFill(fill TradeFill) error { return nil }
