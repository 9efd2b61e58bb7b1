package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/crypto-protection-bot/internal/store"
)

// excelStyles holds the workbook styles used by the lock report.
type excelStyles struct {
	header int
	base   int
}

// WriteLocksXLSX writes the full lock history to an Excel workbook, one
// row per lock event.
func WriteLocksXLSX(locks []*store.PairLock, path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Locks"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	styles, err := createStyles(fx)
	if err != nil {
		return err
	}

	headers := []string{"Pair", "Side", "Created At", "Until", "Protection", "Reason"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, header)
		fx.SetCellStyle(sheet, cell, cell, styles.header)
	}

	for row, lock := range locks {
		values := []interface{}{
			lock.Pair,
			string(lock.Side),
			lock.CreatedAt.Format("2006-01-02 15:04:05"),
			lock.Until.Format("2006-01-02 15:04:05"),
			lock.Protection,
			lock.Reason,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			fx.SetCellValue(sheet, cell, value)
			fx.SetCellStyle(sheet, cell, cell, styles.base)
		}
	}

	fx.SetColWidth(sheet, "A", "B", 14)
	fx.SetColWidth(sheet, "C", "E", 22)
	fx.SetColWidth(sheet, "F", "F", 60)

	return fx.SaveAs(path)
}

// createStyles creates the workbook styles.
func createStyles(fx *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	// Header style - dark background with white text
	styles.header, err = fx.NewStyle(&excelize.Style{
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

	styles.base, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   10,
			Family: "Calibri",
		},
	})
	if err != nil {
		return styles, fmt.Errorf("failed to create base style: %w", err)
	}

	return styles, nil
}
