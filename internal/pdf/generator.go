package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/agency-finance/internal/model"
)

// Generator renders reports with the core Helvetica font; labels are ASCII.
type Generator struct {
	fontName string
	now      func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica", now: time.Now}
}

func (g *Generator) IncomeStatement(dre model.DREResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Income statement (DRE)", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period %04d-%02d", dre.Year, dre.Month), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	widths := []float64{120, 50}
	drawRow(pdf, g.fontName, []string{"Line", "Amount"}, widths, true)

	rows := []struct {
		label string
		value decimal.Decimal
		total bool
	}{
		{"Gross revenue", dre.GrossRevenue, true},
		{"   MRR", dre.MRR, false},
		{"   Setup", dre.Setup, false},
		{"   Services", dre.Services, false},
		{fmt.Sprintf("(-) Taxes (%s%%)", dre.TaxRate.StringFixed(2)), dre.Taxes.Neg(), false},
		{"Net revenue", dre.NetRevenue, true},
		{"(-) Costs", dre.Costs.Neg(), false},
		{"Gross margin", dre.GrossMargin, true},
		{"(-) Operating expenses", dre.Expenses.Neg(), false},
		{"Net income", dre.NetIncome, true},
	}
	for _, r := range rows {
		drawRow(pdf, g.fontName, []string{r.label, r.value.StringFixed(2)}, widths, r.total)
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Gross margin: %s%%", dre.GrossMarginPercent.StringFixed(2)), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Net income: %s%%", dre.NetIncomePercent.StringFixed(2)), "", 1, "R", false, 0, "")

	if dre.NetIncome.IsNegative() {
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(0, 6, "Net loss for the period.", "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "", 9)
	pdf.CellFormat(0, 5, "Generated "+formatDate(g.now()), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
