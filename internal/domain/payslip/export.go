package payslip

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"paydesk/internal/domain/payroll"
)

const RegisterSheet = "Payroll Register"

// amount columns start after name, number, date, month and the three
// government identifiers.
const firstAmountColumn = 8

func registerHeader() []string {
	header := []string{"Name", "Payroll No", "Date", "Month", "PIN No", "NSSF No", "SHA No"}
	for _, line := range (payroll.Earnings{}).Lines() {
		header = append(header, line.Label)
	}
	header = append(header, "Gross Pay")
	for _, line := range (payroll.Deductions{}).Lines() {
		header = append(header, line.Label)
	}
	return append(header, "Total Deductions", "Net Pay", "Initials")
}

func registerAmounts(record payroll.Record) []float64 {
	var amounts []float64
	for _, line := range record.Earnings.Lines() {
		amounts = append(amounts, line.Amount)
	}
	amounts = append(amounts, record.GrossPay)
	for _, line := range record.Deductions.Lines() {
		amounts = append(amounts, line.Amount)
	}
	return append(amounts, record.TotalDeductions, record.NetPay)
}

func registerText(record payroll.Record) []string {
	return []string{record.FullName(), record.PayrollNumber, record.Date, record.Month, record.PinNo, record.NSSFNo, record.SHANo}
}

// WriteCSV writes the register as CSV with plain two-decimal amounts.
func WriteCSV(w io.Writer, records []payroll.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(registerHeader()); err != nil {
		return err
	}
	for _, record := range records {
		row := registerText(record)
		for _, amount := range registerAmounts(record) {
			row = append(row, strconv.FormatFloat(amount, 'f', 2, 64))
		}
		row = append(row, record.Initials)
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteWorkbook writes the register as an XLSX workbook with a styled header
// and a totals row.
func WriteWorkbook(w io.Writer, records []payroll.Record, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RegisterSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1E40AF"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	numFmt := "#,##0.00"
	if currency != "" {
		numFmt = `"` + currency + ` "#,##0.00`
	}
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"DBEAFE"}, Pattern: 1},
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return err
	}

	header := registerHeader()
	for i, title := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(RegisterSheet, cell, title); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(RegisterSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for r, record := range records {
		row := r + 2
		values := make([]any, 0, len(header))
		for _, text := range registerText(record) {
			values = append(values, text)
		}
		for _, amount := range registerAmounts(record) {
			values = append(values, amount)
		}
		values = append(values, record.Initials)
		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RegisterSheet, start, &values); err != nil {
			return err
		}
	}

	amountCount := len(registerAmounts(payroll.Record{}))
	firstCol, _ := excelize.ColumnNumberToName(firstAmountColumn)
	lastAmountCol, _ := excelize.ColumnNumberToName(firstAmountColumn + amountCount - 1)
	if len(records) > 0 {
		lastRow := len(records) + 1
		if err := f.SetCellStyle(RegisterSheet, firstCol+"2", lastAmountCol+strconv.Itoa(lastRow), amountStyle); err != nil {
			return err
		}
	}

	totalRow := len(records) + 2
	if err := f.SetCellValue(RegisterSheet, "A"+strconv.Itoa(totalRow), "Total"); err != nil {
		return err
	}
	for i := 0; i < amountCount; i++ {
		col, _ := excelize.ColumnNumberToName(firstAmountColumn + i)
		cell := col + strconv.Itoa(totalRow)
		formula := "0"
		if len(records) > 0 {
			formula = "SUM(" + col + "2:" + col + strconv.Itoa(totalRow-1) + ")"
		}
		if err := f.SetCellFormula(RegisterSheet, cell, formula); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(RegisterSheet, "A"+strconv.Itoa(totalRow), lastCol+strconv.Itoa(totalRow), totalStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(RegisterSheet, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(RegisterSheet, "B", lastCol, 15); err != nil {
		return err
	}
	if err := f.SetPanes(RegisterSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	return f.Write(w)
}
