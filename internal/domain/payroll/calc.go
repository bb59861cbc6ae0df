package payroll

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ComputeTotals sums the itemized earnings and deductions. Negative, NaN and
// infinite entries count as zero.
func ComputeTotals(earnings Earnings, deductions Deductions) Totals {
	gross := sumLines(earnings.Lines())
	totalDeductions := sumLines(deductions.Lines())
	return Totals{
		GrossPay:        gross.InexactFloat64(),
		TotalDeductions: totalDeductions.InexactFloat64(),
		NetPay:          gross.Sub(totalDeductions).InexactFloat64(),
	}
}

func sumLines(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(sanitizeAmount(line.Amount)))
	}
	return total
}

func sanitizeAmount(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

// ParseAmount converts a form value to an amount. Empty, unparsable and
// negative input yields 0.
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return sanitizeAmount(value)
}

// EarningsFromValues builds earnings from raw form values keyed by schema key.
// Unknown keys are ignored and missing keys default to 0.
func EarningsFromValues(values map[string]string) Earnings {
	return Earnings{
		BasicPay:        ParseAmount(values[EarningBasicPay]),
		Overtime:        ParseAmount(values[EarningOvertime]),
		HouseAllowance:  ParseAmount(values[EarningHouseAllowance]),
		TravelAllowance: ParseAmount(values[EarningTravelAllowance]),
		Bonus:           ParseAmount(values[EarningBonus]),
	}
}

// DeductionsFromValues builds deductions from raw form values keyed by schema
// key. Unknown keys are ignored and missing keys default to 0.
func DeductionsFromValues(values map[string]string) Deductions {
	return Deductions{
		PAYE:           ParseAmount(values[DeductionPAYE]),
		NSSF:           ParseAmount(values[DeductionNSSF]),
		SHA:            ParseAmount(values[DeductionSHA]),
		HousingLevy:    ParseAmount(values[DeductionHousingLevy]),
		Advances:       ParseAmount(values[DeductionAdvances]),
		LoanRepayments: ParseAmount(values[DeductionLoanRepayments]),
		Saccos:         ParseAmount(values[DeductionSaccos]),
	}
}
