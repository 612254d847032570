package broker

import (
	"context"
	"time"
)

// Broker is the capability surface every brokerage connector must provide.
// Construction goes through the Factory, which validates configuration and
// credentials up front; the compiler enforces the full method set.
type Broker interface {
	GetName() string
	Connect(ctx context.Context) error
	Disconnect() error
	IsConnected() bool

	// Trading
	SubmitOptionOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)

	// Market data
	FetchMarketData(ctx context.Context, symbol string) (*MarketData, error)

	// Account
	GetAccountInfo(ctx context.Context) (*AccountInfo, error)
}

// OrderRight identifies the option right of a contract.
type OrderRight string

const (
	RightCall OrderRight = "C"
	RightPut  OrderRight = "P"
)

// OrderAction identifies the order direction.
type OrderAction string

const (
	ActionBuy  OrderAction = "BUY"
	ActionSell OrderAction = "SELL"
)

// OrderRequest describes a single option order.
// Expiry is formatted YYYYMMDD, matching the contract month convention.
type OrderRequest struct {
	Symbol   string
	Right    OrderRight
	Strike   float64
	Expiry   string
	Action   OrderAction
	Quantity int
}

// OrderStatus is the terminal submission status reported by the broker.
type OrderStatus string

const (
	OrderStatusFilled   OrderStatus = "filled"
	OrderStatusAccepted OrderStatus = "accepted"
	OrderStatusRejected OrderStatus = "rejected"
)

// OrderResult is the broker's confirmation for a submitted order.
type OrderResult struct {
	OrderID     string
	Status      OrderStatus
	FillPrice   float64
	SubmittedAt time.Time
}

// MarketData is a point-in-time quote snapshot for an underlying.
type MarketData struct {
	Symbol    string
	LastPrice float64
	Bid       float64
	Ask       float64
	Volume    float64
	Timestamp time.Time
}

// AccountPosition is a broker-side open position as reported by the account API.
type AccountPosition struct {
	Symbol   string
	Quantity float64
	AvgPrice float64
}

// AccountInfo holds account details returned by GetAccountInfo.
type AccountInfo struct {
	AccountID   string
	Cash        float64
	BuyingPower float64
	Positions   []AccountPosition
}
