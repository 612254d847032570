package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/quantlance/ai-options-trader/internal/safety"
)

const (
	alpacaPaperURL = "https://paper-api.alpaca.markets"
	alpacaLiveURL  = "https://api.alpaca.markets"
	alpacaDataURL  = "https://data.alpaca.markets"
)

// AlpacaBroker talks to the Alpaca trading REST API. Option contracts are
// addressed by their OCC symbol, built from the underlying, expiry, right
// and strike.
type AlpacaBroker struct {
	apiKey    string
	apiSecret string
	baseURL   string
	dataURL   string
	client    *http.Client
	limiter   *safety.RateLimiter
	connected bool
	accountID string
}

// NewAlpacaBroker creates an Alpaca connector. Credentials are validated on
// Connect, not here; missing credentials are caught by the factory.
func NewAlpacaBroker(apiKey, apiSecret string, paper bool) *AlpacaBroker {
	baseURL := alpacaLiveURL
	if paper {
		baseURL = alpacaPaperURL
	}
	return &AlpacaBroker{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   baseURL,
		dataURL:   alpacaDataURL,
		client:    &http.Client{Timeout: 15 * time.Second},
		// Alpaca allows 200 requests/minute; stay comfortably under it.
		limiter: safety.NewRateLimiter("alpaca", 3, 3),
	}
}

func (b *AlpacaBroker) GetName() string { return "alpaca" }

// Connect verifies the credentials by fetching the account once.
func (b *AlpacaBroker) Connect(ctx context.Context) error {
	var acct alpacaAccount
	if err := b.get(ctx, b.baseURL+"/v2/account", &acct); err != nil {
		return NewBrokerError("CONNECT_FAILED", "Failed to establish Alpaca session", err.Error(), true)
	}
	b.accountID = acct.ID
	b.connected = true
	return nil
}

func (b *AlpacaBroker) Disconnect() error {
	// REST sessions are stateless; dropping the flag is all there is to do.
	b.connected = false
	return nil
}

func (b *AlpacaBroker) IsConnected() bool { return b.connected }

func (b *AlpacaBroker) SubmitOptionOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if !b.connected {
		return nil, ErrNotConnected
	}

	occ, err := occSymbol(req)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"symbol":        occ,
		"qty":           strconv.Itoa(req.Quantity),
		"side":          alpacaSide(req.Action),
		"type":          "market",
		"time_in_force": "day",
	}

	var placed alpacaOrder
	if err := b.post(ctx, b.baseURL+"/v2/orders", body, &placed); err != nil {
		return nil, NewBrokerError("ORDER_SUBMIT_FAILED", "Order submission failed", err.Error(), false)
	}

	result := &OrderResult{
		OrderID:     placed.ID,
		Status:      OrderStatusAccepted,
		SubmittedAt: time.Now(),
	}
	if placed.Status == "filled" {
		result.Status = OrderStatusFilled
		result.FillPrice, _ = strconv.ParseFloat(placed.FilledAvgPrice, 64)
	} else if placed.Status == "rejected" {
		result.Status = OrderStatusRejected
		return result, ErrOrderRejected
	}
	return result, nil
}

func (b *AlpacaBroker) FetchMarketData(ctx context.Context, symbol string) (*MarketData, error) {
	if !b.connected {
		return nil, ErrNotConnected
	}

	var snap alpacaSnapshot
	url := fmt.Sprintf("%s/v2/stocks/%s/snapshot", b.dataURL, symbol)
	if err := b.get(ctx, url, &snap); err != nil {
		return nil, NewBrokerError("MARKET_DATA_FAILED", "Snapshot request failed", err.Error(), true)
	}
	if snap.LatestTrade.Price == 0 && snap.LatestQuote.AskPrice == 0 {
		return nil, ErrInvalidSymbol
	}

	last := snap.LatestTrade.Price
	if last == 0 {
		last = (snap.LatestQuote.BidPrice + snap.LatestQuote.AskPrice) / 2
	}

	return &MarketData{
		Symbol:    symbol,
		LastPrice: last,
		Bid:       snap.LatestQuote.BidPrice,
		Ask:       snap.LatestQuote.AskPrice,
		Volume:    snap.DailyBar.Volume,
		Timestamp: time.Now(),
	}, nil
}

func (b *AlpacaBroker) GetAccountInfo(ctx context.Context) (*AccountInfo, error) {
	if !b.connected {
		return nil, ErrNotConnected
	}

	var acct alpacaAccount
	if err := b.get(ctx, b.baseURL+"/v2/account", &acct); err != nil {
		return nil, NewBrokerError("ACCOUNT_INFO_FAILED", "Account request failed", err.Error(), true)
	}

	var positions []alpacaPosition
	if err := b.get(ctx, b.baseURL+"/v2/positions", &positions); err != nil {
		return nil, NewBrokerError("ACCOUNT_INFO_FAILED", "Positions request failed", err.Error(), true)
	}

	info := &AccountInfo{AccountID: acct.ID}
	info.Cash, _ = strconv.ParseFloat(acct.Cash, 64)
	info.BuyingPower, _ = strconv.ParseFloat(acct.BuyingPower, 64)
	for _, p := range positions {
		qty, _ := strconv.ParseFloat(p.Qty, 64)
		avg, _ := strconv.ParseFloat(p.AvgEntryPrice, 64)
		info.Positions = append(info.Positions, AccountPosition{
			Symbol:   p.Symbol,
			Quantity: qty,
			AvgPrice: avg,
		})
	}
	return info, nil
}

// occSymbol renders the OCC option symbol, e.g. AAPL261218C00180000 for the
// AAPL 2026-12-18 $180 call. Strike is encoded in thousandths of a dollar.
func occSymbol(req OrderRequest) (string, error) {
	exp, err := time.Parse("20060102", req.Expiry)
	if err != nil {
		return "", NewBrokerError("INVALID_EXPIRY", "Expiry must be YYYYMMDD", req.Expiry, false)
	}
	strikeMils := int64(req.Strike*1000 + 0.5)
	return fmt.Sprintf("%s%s%s%08d", req.Symbol, exp.Format("060102"), req.Right, strikeMils), nil
}

func alpacaSide(action OrderAction) string {
	if action == ActionSell {
		return "sell"
	}
	return "buy"
}

// Wire types

type alpacaAccount struct {
	ID          string `json:"id"`
	Cash        string `json:"cash"`
	BuyingPower string `json:"buying_power"`
	Status      string `json:"status"`
}

type alpacaOrder struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	FilledAvgPrice string `json:"filled_avg_price"`
}

type alpacaPosition struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	AvgEntryPrice string `json:"avg_entry_price"`
}

type alpacaSnapshot struct {
	LatestTrade struct {
		Price float64 `json:"p"`
	} `json:"latestTrade"`
	LatestQuote struct {
		BidPrice float64 `json:"bp"`
		AskPrice float64 `json:"ap"`
	} `json:"latestQuote"`
	DailyBar struct {
		Volume float64 `json:"v"`
	} `json:"dailyBar"`
}

// HTTP helpers

func (b *AlpacaBroker) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return b.do(req, out)
}

func (b *AlpacaBroker) post(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return b.do(req, out)
}

func (b *AlpacaBroker) do(req *http.Request, out interface{}) error {
	if err := b.limiter.Wait(req.Context()); err != nil {
		return err
	}

	req.Header.Set("APCA-API-KEY-ID", b.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", b.apiSecret)

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimitExceeded
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("alpaca API returned status %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
