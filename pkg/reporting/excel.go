package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/quantlance/ai-options-trader/internal/journal"
	"github.com/quantlance/ai-options-trader/internal/portfolio"
)

// ExcelReporter exports the ledgers and portfolio to a workbook.
type ExcelReporter struct{}

// NewExcelReporter creates an Excel reporter
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// ExcelStyles holds the style IDs used across sheets.
type ExcelStyles struct {
	HeaderStyle   int
	NumberStyle   int
	CurrencyStyle int
}

// WriteJournalXLSX exports the trade ledger and open positions to path.
func (r *ExcelReporter) WriteJournalXLSX(j *journal.Journal, t *portfolio.Tracker, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const tradesSheet = "Trades"
	const positionsSheet = "Positions"

	fx.SetSheetName(fx.GetSheetName(0), tradesSheet)
	fx.NewSheet(positionsSheet)

	styles, err := r.createStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeTradesSheet(fx, tradesSheet, j, styles); err != nil {
		return err
	}
	if t != nil {
		if err := r.writePositionsSheet(fx, positionsSheet, t, styles); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) createStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, fmt.Errorf("failed to create header style: %w", err)
	}

	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 2, // 0.00
	})
	if err != nil {
		return styles, fmt.Errorf("failed to create number style: %w", err)
	}

	styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt: 177, // $#,##0.00
	})
	if err != nil {
		return styles, fmt.Errorf("failed to create currency style: %w", err)
	}

	return styles, nil
}

func (r *ExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, j *journal.Journal, styles ExcelStyles) error {
	headers := []string{"Timestamp", "Action", "Symbol", "Type", "Strike", "Expiry", "Quantity", "Price", "Confidence", "Status", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	rows, err := j.RecentTrades(0)
	if err != nil {
		return fmt.Errorf("failed to read trade ledger: %w", err)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			// Numeric columns export as numbers so spreadsheet math works.
			switch colIdx {
			case 4, 7, 8:
				if f, err := strconv.ParseFloat(value, 64); err == nil {
					fx.SetCellValue(sheet, cell, f)
					fx.SetCellStyle(sheet, cell, cell, styles.NumberStyle)
					continue
				}
			case 6:
				if n, err := strconv.Atoi(value); err == nil {
					fx.SetCellValue(sheet, cell, n)
					continue
				}
			}
			fx.SetCellValue(sheet, cell, value)
		}
	}

	fx.SetColWidth(sheet, "A", "A", 20)
	fx.SetColWidth(sheet, "B", "J", 12)
	fx.SetColWidth(sheet, "K", "K", 40)
	return nil
}

func (r *ExcelReporter) writePositionsSheet(fx *excelize.File, sheet string, t *portfolio.Tracker, styles ExcelStyles) error {
	headers := []string{"Symbol", "Right", "Strike", "Expiry", "Quantity", "Entry Price", "Cost Basis"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	for rowIdx, pos := range t.OpenPositions() {
		values := []interface{}{
			pos.Symbol,
			string(pos.Right),
			pos.Strike,
			pos.Expiry,
			pos.Quantity,
			pos.EntryPrice,
			float64(pos.Quantity) * pos.EntryPrice * portfolio.ContractMultiplier,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			fx.SetCellValue(sheet, cell, value)
			if colIdx == 5 || colIdx == 6 {
				fx.SetCellStyle(sheet, cell, cell, styles.CurrencyStyle)
			}
		}
	}

	summary := t.GetSummary()
	footerRow := len(t.OpenPositions()) + 3
	cell, _ := excelize.CoordinatesToCellName(1, footerRow)
	fx.SetCellValue(sheet, cell, "Realized P&L")
	cell, _ = excelize.CoordinatesToCellName(2, footerRow)
	fx.SetCellValue(sheet, cell, summary.TotalPnL)
	fx.SetCellStyle(sheet, cell, cell, styles.CurrencyStyle)

	fx.SetColWidth(sheet, "A", "G", 14)
	return nil
}
