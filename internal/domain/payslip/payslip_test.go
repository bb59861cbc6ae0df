package payslip

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/signature"
)

func sampleRecord(t *testing.T) payroll.Record {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	record := payroll.Record{
		ID:            "rec-1",
		PayrollNumber: "POP001",
		FirstName:     "John",
		LastName:      "Doe",
		Date:          "2024-07-28",
		Month:         "July",
		PinNo:         "A123456789Z",
		NSSFNo:        "NSSF001",
		SHANo:         "SHA001",
		Earnings:      payroll.Earnings{BasicPay: 50000, Overtime: 5000, HouseAllowance: 15000, TravelAllowance: 2000, Bonus: 1000},
		Deductions:    payroll.Deductions{PAYE: 7500, NSSF: 300, SHA: 200, HousingLevy: 150, Advances: 1000, LoanRepayments: 1000, Saccos: 1000},
		Signature:     signature.EncodeDataURL(signature.MediaTypePNG, buf.Bytes()),
		Initials:      "JD",
	}
	return record.WithTotals()
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "Kshs 73,000.00", FormatAmount("Kshs", 73000))
	assert.Equal(t, "61,850.50", FormatAmount("", 61850.5))
	assert.Equal(t, "Kshs 0.00", FormatAmount("Kshs", 0))
}

func TestPayPeriod(t *testing.T) {
	assert.Equal(t, "July, 2024", PayPeriod(payroll.Record{Month: "July", Date: "2024-07-28"}))
	assert.Equal(t, "July", PayPeriod(payroll.Record{Month: "July", Date: "someday"}))
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPDF(&buf, sampleRecord(t), Options{Organization: "Prince of Peace Academy"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderPDFWithBrokenSignature(t *testing.T) {
	record := sampleRecord(t)
	record.Signature = "data:image/png;base64,AAAA"

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, record, Options{Organization: "Académie"}))
	assert.NotZero(t, buf.Len())
}

func TestRenderPDFWithOversizedSignature(t *testing.T) {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 40000)
	binary.BigEndian.PutUint32(ihdr[4:8], 40000)
	ihdr[8], ihdr[9] = 8, 6
	chunk := append([]byte("IHDR"), ihdr...)
	var header bytes.Buffer
	header.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&header, binary.BigEndian, uint32(len(ihdr)))
	header.Write(chunk)
	_ = binary.Write(&header, binary.BigEndian, crc32.ChecksumIEEE(chunk))

	record := sampleRecord(t)
	record.Signature = signature.EncodeDataURL(signature.MediaTypePNG, header.Bytes())

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, record, Options{Organization: "Prince of Peace Academy"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []payroll.Record{sampleRecord(t)}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, registerHeader(), rows[0])
	assert.Equal(t, "John Doe", rows[1][0])
	assert.Equal(t, "50000.00", rows[1][7])
	assert.Equal(t, "73000.00", rows[1][12])
	assert.Equal(t, "61850.00", rows[1][21])
	assert.Equal(t, "JD", rows[1][22])
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	records := []payroll.Record{sampleRecord(t), sampleRecord(t)}
	require.NoError(t, WriteWorkbook(&buf, records, "Kshs"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(RegisterSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "POP001", rows[1][1])

	formula, err := f.GetCellFormula(RegisterSheet, "L4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(L2:L3)", formula)

	total, err := f.GetCellValue(RegisterSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, nil, ""))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula(RegisterSheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "0", formula)
}
