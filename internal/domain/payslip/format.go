package payslip

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"paydesk/internal/domain/payroll"
)

const DefaultCurrency = "Kshs"

var printer = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators and two decimals,
// prefixed by the currency when one is given.
func FormatAmount(currency string, amount float64) string {
	formatted := printer.Sprintf("%.2f", amount)
	if currency == "" {
		return formatted
	}
	return currency + " " + formatted
}

// PayPeriod renders "<Month>, <year>", or just the month when the date does
// not parse.
func PayPeriod(record payroll.Record) string {
	date, ok := record.PayDate()
	if !ok {
		return record.Month
	}
	return record.Month + ", " + strconv.Itoa(date.Year())
}
