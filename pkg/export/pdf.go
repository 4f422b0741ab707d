package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/loan-schedule/pkg/datetime"
	"github.com/iwvelando/loan-schedule/pkg/format"
	"github.com/iwvelando/loan-schedule/pkg/loans"
	"github.com/iwvelando/loan-schedule/pkg/report"
	"golang.org/x/text/encoding/charmap"
)

const (
	pdfMargin    = 14.0
	pdfRowHeight = 6.0
	chartWidth   = 180.0
)

var (
	tableHeader = []string{"#", "Date", "Installment", "Principal", "Interest", "Balance"}
	tableWidths = []float64{12, 28, 36, 36, 36, 34}
	tableAlign  = []string{"C", "C", "R", "R", "R", "R"}
)

// WritePDF writes a report with the loan details, the chart image when
// chartPNG is non-empty, and the full schedule table. An image that cannot be
// decoded is replaced by a note instead of failing the report.
func WritePDF(w io.Writer, rows []loans.PeriodRow, params Params, chartPNG []byte) error {
	if len(rows) == 0 {
		return report.ErrEmptySchedule
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 20, pdfMargin)
	pdf.SetAutoPageBreak(false, 15)
	pdf.SetTitle("Loan Amortization Report", true)
	pdf.SetCreationDate(params.generatedAt())
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	money := pdfMoney(params.Currency)

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 10, "Loan Amortization Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Generated on: "+params.generatedAt().Format("2006-01-02"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	title := "Loan Details"
	if params.Name != "" {
		title += ": " + params.Name
	}
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	details := [][2]string{
		{"Loan Amount: " + money(params.Principal), "Start Date: " + datetime.Format(params.StartDate)},
		{"Interest Rate: " + params.rateLabel(), "Currency: " + params.Currency},
		{"Duration: " + params.durationLabel(), ""},
	}
	for _, line := range details {
		pdf.CellFormat(80, 7, tr(line[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(7)

	if len(chartPNG) > 0 {
		cfg, err := png.DecodeConfig(bytes.NewReader(chartPNG))
		if err != nil || cfg.Width == 0 {
			pdf.CellFormat(0, 10, "(Chart could not be captured)", "", 1, "L", false, 0, "")
			pdf.Ln(4)
		} else {
			// Leave room for the table header and one row below the chart.
			maxHeight := pageHeight - bottom - pdf.GetY() - 10 - 2*pdfRowHeight - 1
			width, height := fitChart(cfg.Width, cfg.Height, maxHeight)
			opts := fpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(chartPNG))
			pdf.ImageOptions("chart", (pageWidth-width)/2, pdf.GetY(), width, height, false, opts, 0, "")
			pdf.SetY(pdf.GetY() + height + 10)
		}
	}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(99, 102, 241)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range tableHeader {
			pdf.CellFormat(tableWidths[i], pdfRowHeight+1, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
	}

	if pdf.GetY()+2*pdfRowHeight+1 > pageHeight-bottom {
		pdf.AddPage()
	}
	writeHeader()
	for i, row := range rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-bottom {
			pdf.AddPage()
			writeHeader()
		}
		fill := i%2 == 1
		pdf.SetFillColor(242, 242, 242)
		cells := []string{
			strconv.Itoa(row.Month),
			datetime.Format(row.Date),
			money(row.Installment),
			money(row.Principal),
			money(row.Interest),
			money(row.Balance),
		}
		for j, text := range cells {
			pdf.CellFormat(tableWidths[j], pdfRowHeight, tr(text), "1", 0, tableAlign[j], fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fitChart scales an image of the given pixel size to chartWidth, shrinking
// it further when its height would exceed maxHeight.
func fitChart(pixelWidth, pixelHeight int, maxHeight float64) (width, height float64) {
	width = chartWidth
	height = float64(pixelHeight) * chartWidth / float64(pixelWidth)
	if maxHeight > 0 && height > maxHeight {
		width *= maxHeight / height
		height = maxHeight
	}
	return width, height
}

// pdfMoney returns the amount formatter for the report. The core PDF fonts
// only cover cp1252, so symbols outside it are replaced by the currency code.
func pdfMoney(currencyCode string) func(float64) string {
	if _, err := charmap.Windows1252.NewEncoder().String(format.Symbol(currencyCode)); err != nil {
		return func(v float64) string { return format.CurrencyCode(v, currencyCode) }
	}
	return func(v float64) string { return format.Currency(v, currencyCode) }
}
