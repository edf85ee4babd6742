package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/agency-finance/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

type line struct {
	label string
	value decimal.Decimal
	bold  bool
}

// IncomeStatement renders the DRE on one sheet and the supporting metrics on
// a second one.
func (g *Generator) IncomeStatement(dre model.DREResult) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := "DRE"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}
	set("A1", "Income statement")
	set("B1", fmt.Sprintf("%04d-%02d", dre.Year, dre.Month))

	lines := []line{
		{label: "Gross revenue", value: dre.GrossRevenue, bold: true},
		{label: "  MRR", value: dre.MRR},
		{label: "  Setup", value: dre.Setup},
		{label: "  Services", value: dre.Services},
		{label: fmt.Sprintf("(-) Taxes %s%%", dre.TaxRate.StringFixed(2)), value: dre.Taxes.Neg()},
		{label: "Net revenue", value: dre.NetRevenue, bold: true},
		{label: "(-) Costs", value: dre.Costs.Neg()},
		{label: "Gross margin", value: dre.GrossMargin, bold: true},
		{label: "(-) Operating expenses", value: dre.Expenses.Neg()},
		{label: "Net income", value: dre.NetIncome, bold: true},
	}
	if err := g.writeLines(file, sheet, 3, lines); err != nil {
		return nil, err
	}

	row := 3 + len(lines) + 1
	set(fmt.Sprintf("A%d", row), "Gross margin %")
	set(fmt.Sprintf("B%d", row), dre.GrossMarginPercent.StringFixed(2))
	set(fmt.Sprintf("A%d", row+1), "Net income %")
	set(fmt.Sprintf("B%d", row+1), dre.NetIncomePercent.StringFixed(2))

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 18)

	return write(file)
}

func (g *Generator) Metrics(metrics model.Metrics) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := "Metrics"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}
	set("A1", "Period start")
	set("B1", formatDate(metrics.PeriodStart))
	set("A2", "Period end")
	set("B2", formatDate(metrics.PeriodEnd))
	set("A3", "Active clients")
	set("B3", metrics.ActiveClientsCount)

	lines := []line{
		{label: "MRR", value: metrics.TotalMRR},
		{label: "Setup revenue", value: metrics.SetupRevenue},
		{label: "Services revenue", value: metrics.ServicesRevenue},
		{label: "Total revenue", value: metrics.TotalRevenue, bold: true},
		{label: "Costs", value: metrics.TotalCosts},
		{label: "Expenses", value: metrics.TotalExpenses},
		{label: "Profit", value: metrics.Profit, bold: true},
	}
	if err := g.writeLines(file, sheet, 5, lines); err != nil {
		return nil, err
	}
	row := 5 + len(lines)
	set(fmt.Sprintf("A%d", row), "Profit margin %")
	set(fmt.Sprintf("B%d", row), metrics.ProfitMargin.StringFixed(2))

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 18)

	return write(file)
}

// writeLines puts label/amount pairs starting at the given row. Amounts are
// written as numbers so the sheet stays summable.
func (g *Generator) writeLines(file *excelize.File, sheet string, startRow int, lines []line) error {
	bold, err := file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: 4,
	})
	if err != nil {
		return err
	}
	plain, err := file.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	for i, l := range lines {
		row := startRow + i
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		_ = file.SetCellValue(sheet, labelCell, l.label)
		amount, _ := l.value.Round(2).Float64()
		_ = file.SetCellValue(sheet, valueCell, amount)

		style := plain
		if l.bold {
			style = bold
		}
		if err := file.SetCellStyle(sheet, labelCell, valueCell, style); err != nil {
			return err
		}
	}
	return nil
}

func write(file *excelize.File) ([]byte, error) {
	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
