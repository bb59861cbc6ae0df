package payslip

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/signature"
)

type Options struct {
	Organization string
	Currency     string
}

const (
	pageMargin = 15.0
	rowHeight  = 7.0
	colGap     = 10.0
)

// RenderPDF writes a printable A4 payslip for the record.
func RenderPDF(w io.Writer, record payroll.Record, opts Options) error {
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(fmt.Sprintf("Payslip %s %s", record.PayrollNumber, PayPeriod(record)), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin
	halfWidth := (contentWidth - colGap) / 2

	pdf.SetTextColor(30, 64, 175)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentWidth, 10, tr(opts.Organization), "", 1, "C", false, 0, "")
	pdf.SetTextColor(55, 65, 81)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentWidth, 8, "Payslip", "", 1, "C", false, 0, "")
	pdf.SetDrawColor(37, 99, 235)
	pdf.SetLineWidth(0.6)
	pdf.Line(pageMargin, pdf.GetY()+2, pageWidth-pageMargin, pdf.GetY()+2)
	pdf.Ln(6)

	details := [][2]string{
		{"Employee Name", record.FullName()},
		{"Payroll Number", record.PayrollNumber},
		{"Pay Period", PayPeriod(record)},
		{"Pay Date", record.Date},
		{"PIN No.", record.PinNo},
		{"NSSF No.", record.NSSFNo},
		{"SHA No.", record.SHANo},
	}
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(229, 231, 235)
	for i, row := range details {
		x := pageMargin
		if i%2 == 1 {
			x += halfWidth + colGap
		}
		pdf.SetX(x)
		detailRow(pdf, tr, halfWidth, row[0], row[1])
		if i%2 == 1 || i == len(details)-1 {
			pdf.Ln(rowHeight)
		}
	}
	pdf.Ln(4)

	top := pdf.GetY()
	section(pdf, tr, pageMargin, top, halfWidth, "Earnings", record.Earnings.Lines(), opts.Currency)
	leftBottom := pdf.GetY()
	section(pdf, tr, pageMargin+halfWidth+colGap, top, halfWidth, "Deductions", record.Deductions.Lines(), opts.Currency)
	pdf.SetY(max(leftBottom, pdf.GetY()) + 6)

	thirdWidth := (contentWidth - 2*4) / 3
	summaryY := pdf.GetY()
	summary := []struct {
		label  string
		amount float64
		r      int
		g      int
		b      int
	}{
		{"Gross Pay", record.GrossPay, 240, 253, 244},
		{"Total Deductions", record.TotalDeductions, 254, 242, 242},
		{"Net Pay", record.NetPay, 219, 234, 254},
	}
	for i, item := range summary {
		x := pageMargin + float64(i)*(thirdWidth+4)
		pdf.SetFillColor(item.r, item.g, item.b)
		pdf.SetXY(x, summaryY)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(thirdWidth, 7, item.label, "", 2, "C", true, 0, "")
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(thirdWidth, 9, FormatAmount(opts.Currency, item.amount), "", 0, "C", true, 0, "")
	}
	pdf.SetY(summaryY + 24)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(halfWidth, 6, "Employee Signature", "", 1, "L", false, 0, "")
	sigY := pdf.GetY()
	if err := drawSignature(pdf, record.Signature, pageMargin, sigY, 48, 16); err != nil {
		log.Warn().Err(err).Str("payrollNumber", record.PayrollNumber).Msg("payslip signature skipped")
	}
	pdf.SetDrawColor(156, 163, 175)
	pdf.Line(pageMargin, sigY+17, pageMargin+48, sigY+17)
	pdf.SetXY(pageWidth-pageMargin-40, sigY+6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(40, 8, tr(record.Initials), "", 0, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func detailRow(pdf *gofpdf.Fpdf, tr func(string) string, width float64, label, value string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(75, 85, 99)
	pdf.CellFormat(width/2, rowHeight, label, "B", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(width/2, rowHeight, tr(value), "B", 0, "R", false, 0, "")
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, x, y, width float64, title string, lines []payroll.LineItem, currency string) {
	pdf.SetXY(x, y)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(width, 8, title, "", 2, "L", false, 0, "")
	for _, line := range lines {
		pdf.SetX(x)
		detailRow(pdf, tr, width, line.Label, FormatAmount(currency, line.Amount))
		pdf.Ln(rowHeight)
	}
}

func drawSignature(pdf *gofpdf.Fpdf, dataURL string, x, y, w, h float64) error {
	if dataURL == "" {
		return nil
	}
	img, err := signature.DecodeImage(dataURL)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("signature", opts, &buf)
	if err := pdf.Error(); err != nil {
		return err
	}
	bounds := img.Bounds()
	drawW, drawH := w, h
	if bounds.Dx() > 0 && bounds.Dy() > 0 {
		ratio := float64(bounds.Dx()) / float64(bounds.Dy())
		if w/h > ratio {
			drawW = h * ratio
		} else {
			drawH = w / ratio
		}
	}
	pdf.ImageOptions("signature", x, y+(h-drawH), drawW, drawH, false, opts, 0, "")
	return nil
}
