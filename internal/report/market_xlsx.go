package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/agrorganica/pkg/types"
)

// marketSheet is the worksheet name of the spreadsheet export.
const marketSheet = "Mercado"

var marketHeaders = []string{
	"ID Lote/Plantio", "Cultura", "Status", "Prev./Real Colheita",
	"Quantidade", "Unidade", "Produtor", "Certificado?",
}

// WriteMarketXLSX saves the market listing as a spreadsheet at path.
// Quantities are written as numbers so buyers can sum them.
func WriteMarketXLSX(path string, rows []MarketRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(marketSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9EAD3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	for i, h := range marketHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(marketSheet, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(marketHeaders), 1)
	if err := f.SetCellStyle(marketSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, r := range rows {
		line := i + 2
		var quantity any = r.QuantityText()
		if r.Quantity != nil && r.Status == types.StatusAvailable {
			quantity = *r.Quantity
		}
		values := []any{
			r.PlantingID, r.Crop, string(r.Status), r.ReferenceDate.FormatBR(),
			quantity, r.UnitText(), r.Producer, r.CertifiedText(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, line)
			if err := f.SetCellValue(marketSheet, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", line, err)
			}
		}
	}

	if err := f.SetColWidth(marketSheet, "A", "A", 38); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(marketSheet, "B", "H", 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
