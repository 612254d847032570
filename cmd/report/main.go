package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/quantlance/ai-options-trader/internal/journal"
	"github.com/quantlance/ai-options-trader/internal/portfolio"
	"github.com/quantlance/ai-options-trader/pkg/reporting"
)

func main() {
	var (
		journalDir = flag.String("journal", "data", "Journal directory holding trades.csv and signals.csv")
		statePath  = flag.String("state", "data/portfolio_state.json", "Portfolio state file")
		lastN      = flag.Int("n", 20, "Number of recent trades to show")
		xlsxPath   = flag.String("xlsx", "", "Export the journal to an Excel workbook at this path")
		symbol     = flag.String("symbol", "", "Limit per-symbol stats to one underlying")
	)
	flag.Parse()

	jrnl, err := journal.New(*journalDir)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}

	tracker, err := portfolio.LoadState(*statePath)
	if err != nil {
		log.Fatalf("Failed to load portfolio state: %v", err)
	}

	console := reporting.NewConsoleReporter()

	if err := console.PrintRecentTrades(jrnl, *lastN); err != nil {
		log.Fatalf("Failed to print trades: %v", err)
	}

	console.PrintPortfolio(tracker)

	var rows [][]string
	if *symbol != "" {
		rows, err = jrnl.TradesForSymbol(*symbol)
	} else {
		rows, err = jrnl.RecentTrades(0)
	}
	if err != nil {
		log.Fatalf("Failed to read trade ledger: %v", err)
	}
	console.PrintStats(reporting.ComputeStats(rows))

	if *xlsxPath != "" {
		excel := reporting.NewExcelReporter()
		if err := excel.WriteJournalXLSX(jrnl, tracker, *xlsxPath); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		fmt.Printf("📊 Workbook written to %s\n", *xlsxPath)
	}
}
