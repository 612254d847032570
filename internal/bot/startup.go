package bot

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PrintStartupInfo prints the session banner before the loop starts.
func (t *Trader) PrintStartupInfo() {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("TRADER INITIALIZATION")
	tw.SetStyle(table.StyleRounded)

	tw.AppendRows([]table.Row{
		{"📊 Watchlist", strings.Join(t.cfg.Trading.Symbols, ", ")},
		{"⏰ Interval", t.cfg.Trading.Interval().String()},
		{"🏪 Broker", t.conn.Broker().GetName()},
		{"🧠 Model", t.modelString()},
		{"🚨 Mode", t.modeString()},
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 15, WidthMax: 15, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 45, Align: text.AlignLeft},
	})

	tw.Render()
	fmt.Println()
}

// PrintConfiguration prints the filter and risk thresholds in effect.
func (t *Trader) PrintConfiguration() {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle("TRADER CONFIGURATION")
	tw.SetStyle(table.StyleRounded)

	tw.AppendRows([]table.Row{
		{"🎯 Confidence Threshold", fmt.Sprintf("%.2f", t.cfg.Filters.ConfidenceThreshold)},
		{"📐 Delta Range", fmt.Sprintf("[%.2f, %.2f]", t.cfg.Filters.DeltaMin, t.cfg.Filters.DeltaMax)},
		{"📐 Gamma Max", fmt.Sprintf("%.3f", t.cfg.Filters.GammaMax)},
		{"📐 Vega Min", fmt.Sprintf("%.3f", t.cfg.Filters.VegaMin)},
		{"📐 Theta Floor", fmt.Sprintf("%.3f", t.cfg.Filters.ThetaFloor)},
	})

	tw.AppendSeparator()

	tw.AppendRows([]table.Row{
		{"📏 Max Position Size", fmt.Sprintf("%d contracts", t.cfg.Risk.MaxPositionSize)},
		{"💵 Max Daily Loss", fmt.Sprintf("$%.2f", t.cfg.Risk.MaxDailyLoss)},
		{"📊 Max Portfolio Delta", fmt.Sprintf("%.2f", t.cfg.Risk.MaxPortfolioDelta)},
		{"🔢 Order Quantity", fmt.Sprintf("%d", t.cfg.Trading.Quantity)},
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, WidthMax: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 35, Align: text.AlignLeft},
	})

	tw.Render()
	fmt.Println()
}

func (t *Trader) modelString() string {
	if t.cfg.Model.Kind == "onnx" {
		return fmt.Sprintf("onnx (%s)", t.cfg.Model.Path)
	}
	return "momentum (deterministic)"
}

func (t *Trader) modeString() string {
	if t.conn.Broker().GetName() == "paper" {
		return "🧪 PAPER TRADING (Simulated)"
	}
	return "💰 LIVE TRADING MODE (Real Money!)"
}
