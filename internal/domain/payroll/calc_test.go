package payroll

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	earnings := Earnings{BasicPay: 50000, Overtime: 5000, HouseAllowance: 15000, TravelAllowance: 2000, Bonus: 1000}
	deductions := Deductions{PAYE: 7500, NSSF: 300, SHA: 200, HousingLevy: 150, Advances: 1000, LoanRepayments: 1000, Saccos: 1000}

	totals := ComputeTotals(earnings, deductions)
	assert.Equal(t, 73000.0, totals.GrossPay)
	assert.Equal(t, 11150.0, totals.TotalDeductions)
	assert.Equal(t, 61850.0, totals.NetPay)
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	earnings := Earnings{BasicPay: 1234.56, Bonus: 0.1}
	deductions := Deductions{NSSF: 0.2, SHA: 33.33}

	first := ComputeTotals(earnings, deductions)
	second := ComputeTotals(earnings, deductions)
	assert.Equal(t, first, second)
	assert.Equal(t, 1234.66, first.GrossPay)
	assert.Equal(t, 33.53, first.TotalDeductions)
	assert.Equal(t, 1201.13, first.NetPay)
}

func TestComputeTotalsIgnoresInvalidAmounts(t *testing.T) {
	earnings := Earnings{BasicPay: 500, Overtime: math.NaN(), Bonus: math.Inf(1), HouseAllowance: -20}
	deductions := Deductions{PAYE: 25, Advances: math.Inf(-1)}

	totals := ComputeTotals(earnings, deductions)
	assert.Equal(t, 500.0, totals.GrossPay)
	assert.Equal(t, 25.0, totals.TotalDeductions)
	assert.Equal(t, 475.0, totals.NetPay)
}

func TestComputeTotalsAllowsNegativeNet(t *testing.T) {
	totals := ComputeTotals(Earnings{BasicPay: 100}, DefaultDeductions)
	assert.Equal(t, 100.0, totals.GrossPay)
	assert.Equal(t, 3650.0, totals.TotalDeductions)
	assert.Equal(t, -3550.0, totals.NetPay)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{raw: "", want: 0},
		{raw: "  ", want: 0},
		{raw: "1500", want: 1500},
		{raw: " 12.5 ", want: 12.5},
		{raw: "abc", want: 0},
		{raw: "12abc", want: 0},
		{raw: "-40", want: 0},
		{raw: "NaN", want: 0},
		{raw: "Inf", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseAmount(tc.raw))
		})
	}
}

func TestLineItemsFromValues(t *testing.T) {
	earnings := EarningsFromValues(map[string]string{
		EarningBasicPay: "50000",
		EarningOvertime: "oops",
		"commission":    "999",
	})
	assert.Equal(t, Earnings{BasicPay: 50000}, earnings)

	deductions := DeductionsFromValues(map[string]string{
		DeductionNSSF:   "300",
		DeductionSaccos: "1000",
	})
	assert.Equal(t, Deductions{NSSF: 300, Saccos: 1000}, deductions)
}

func TestLinesFollowSchema(t *testing.T) {
	earningKeys := []string{}
	for _, line := range (Earnings{}).Lines() {
		earningKeys = append(earningKeys, line.Key)
	}
	assert.Equal(t, []string{"basicPay", "overtime", "houseAllowance", "travelAllowance", "bonus"}, earningKeys)

	deductionKeys := []string{}
	for _, line := range (Deductions{}).Lines() {
		deductionKeys = append(deductionKeys, line.Key)
	}
	assert.Equal(t, []string{"paye", "nssf", "sha", "housingLevy", "advances", "loanRepayments", "saccos"}, deductionKeys)
}
