package reporting

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/quantlance/ai-options-trader/internal/journal"
	"github.com/quantlance/ai-options-trader/internal/portfolio"
	"github.com/quantlance/ai-options-trader/internal/risk"
)

// ConsoleReporter renders journal and portfolio views as terminal tables.
type ConsoleReporter struct{}

// NewConsoleReporter creates a console reporter
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// PrintRecentTrades renders the last n rows of the trade ledger.
func (r *ConsoleReporter) PrintRecentTrades(j *journal.Journal, n int) error {
	rows, err := j.RecentTrades(n)
	if err != nil {
		return fmt.Errorf("failed to read trade ledger: %w", err)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("RECENT TRADES")
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Time", "Action", "Symbol", "Type", "Strike", "Expiry", "Qty", "Price", "Conf", "Status"})

	for _, row := range rows {
		if len(row) < 10 {
			continue
		}
		tw.AppendRow(table.Row{
			row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7], row[8], row[9],
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})

	tw.Render()
	fmt.Println()
	return nil
}

// PrintPortfolio renders the open positions and headline numbers.
func (r *ConsoleReporter) PrintPortfolio(t *portfolio.Tracker) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("OPEN POSITIONS")
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Symbol", "Right", "Strike", "Expiry", "Qty", "Entry", "Cost Basis"})

	for _, pos := range t.OpenPositions() {
		tw.AppendRow(table.Row{
			pos.Symbol,
			string(pos.Right),
			fmt.Sprintf("%.2f", pos.Strike),
			pos.Expiry,
			pos.Quantity,
			fmt.Sprintf("$%.2f", pos.EntryPrice),
			fmt.Sprintf("$%.2f", float64(pos.Quantity)*pos.EntryPrice*portfolio.ContractMultiplier),
		})
	}

	summary := t.GetSummary()
	tw.AppendFooter(table.Row{"", "", "", "", "", "Realized P&L", fmt.Sprintf("$%.2f", summary.TotalPnL)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	tw.Render()
	fmt.Println()
}

// PrintRiskSummary renders the risk engine totals and remaining headroom.
func (r *ConsoleReporter) PrintRiskSummary(summary risk.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("RISK SUMMARY")
	tw.SetStyle(table.StyleRounded)

	tw.AppendRows([]table.Row{
		{"💵 Daily P&L", fmt.Sprintf("$%.2f", summary.DailyPnL)},
		{"💵 Loss Headroom", fmt.Sprintf("$%.2f of $%.2f", summary.RemainingLossCapacity, summary.DailyLossLimit)},
		{"📊 Portfolio Delta", fmt.Sprintf("%.2f", summary.PortfolioDelta)},
		{"📊 Delta Headroom", fmt.Sprintf("%.2f of %.2f", summary.RemainingDeltaCapacity, summary.DeltaLimit)},
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 18, WidthMax: 18, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 35, Align: text.AlignLeft},
	})

	tw.Render()
	fmt.Println()
}

// TradeStats aggregates the trade ledger per symbol.
type TradeStats struct {
	Symbol   string
	Trades   int
	Executed int
	Failed   int
	Notional float64
}

// ComputeStats folds the raw ledger rows into per-symbol statistics.
func ComputeStats(rows [][]string) []TradeStats {
	bySymbol := make(map[string]*TradeStats)
	order := make([]string, 0)

	for _, row := range rows {
		if len(row) < 10 {
			continue
		}
		symbol := row[2]
		st, ok := bySymbol[symbol]
		if !ok {
			st = &TradeStats{Symbol: symbol}
			bySymbol[symbol] = st
			order = append(order, symbol)
		}
		st.Trades++
		switch row[9] {
		case "executed":
			st.Executed++
			if price, err := strconv.ParseFloat(row[7], 64); err == nil {
				if qty, err := strconv.Atoi(row[6]); err == nil {
					st.Notional += price * float64(qty) * portfolio.ContractMultiplier
				}
			}
		case "failed":
			st.Failed++
		}
	}

	out := make([]TradeStats, 0, len(order))
	for _, symbol := range order {
		out = append(out, *bySymbol[symbol])
	}
	return out
}

// PrintStats renders per-symbol trade statistics.
func (r *ConsoleReporter) PrintStats(stats []TradeStats) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("TRADES BY SYMBOL")
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Symbol", "Trades", "Executed", "Failed", "Notional"})

	for _, st := range stats {
		tw.AppendRow(table.Row{
			st.Symbol, st.Trades, st.Executed, st.Failed, fmt.Sprintf("$%.2f", st.Notional),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	tw.Render()
	fmt.Println()
}
