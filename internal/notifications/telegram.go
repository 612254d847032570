package notifications

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier pushes trading alerts and fill summaries to a Telegram
// chat via the bot API.
type TelegramNotifier struct {
	token   string
	chatID  string
	apiBase string
}

func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		apiBase: telegramAPIBase,
	}
}

func (t *TelegramNotifier) SendAlert(level, message string) error {
	emoji := "ℹ️"
	switch level {
	case "warning":
		emoji = "⚠️"
	case "error":
		emoji = "🚨"
	case "success":
		emoji = "✅"
	}

	return t.send(fmt.Sprintf("%s *Options Trader Alert*\n\n%s", emoji, message))
}

// SendTradeFill renders an executed contract as a structured message so the
// chat shows the full contract terms, not just a one-line summary.
func (t *TelegramNotifier) SendTradeFill(fill TradeFill) error {
	return t.send(formatTradeFill(fill))
}

func formatTradeFill(fill TradeFill) string {
	side := "CALL"
	if fill.Right == "P" {
		side = "PUT"
	}

	return fmt.Sprintf(`📈 *Order Filled*

Contract: %s %s $%.2f exp %s
Quantity: %d
Fill: $%.2f (notional $%.2f)
Confidence: %.0f%%
Order: %s`,
		fill.Symbol, side, fill.Strike, fill.Expiry,
		fill.Quantity,
		fill.FillPrice, fill.FillPrice*float64(fill.Quantity)*100,
		fill.Confidence*100,
		fill.OrderID)
}

func (t *TelegramNotifier) send(text string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)

	data := url.Values{}
	data.Set("chat_id", t.chatID)
	data.Set("text", text)
	data.Set("parse_mode", "Markdown")

	resp, err := http.Post(apiURL, "application/x-www-form-urlencoded",
		strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}
