package payroll

import (
	"strings"
	"time"
)

// Record is one employee's pay computation for one period.
type Record struct {
	ID              string     `json:"_id,omitempty" yaml:"id,omitempty"`
	PayrollNumber   string     `json:"payrollNumber" yaml:"payrollNumber"`
	FirstName       string     `json:"firstName" yaml:"firstName"`
	LastName        string     `json:"lastName" yaml:"lastName"`
	Date            string     `json:"date" yaml:"date"`
	Month           string     `json:"month" yaml:"month"`
	PinNo           string     `json:"pinNo" yaml:"pinNo"`
	NSSFNo          string     `json:"nssfNo" yaml:"nssfNo"`
	SHANo           string     `json:"shaNo" yaml:"shaNo"`
	Earnings        Earnings   `json:"earnings" yaml:"earnings"`
	Deductions      Deductions `json:"deductions" yaml:"deductions"`
	GrossPay        float64    `json:"grossPay" yaml:"grossPay"`
	TotalDeductions float64    `json:"totalDeductions" yaml:"totalDeductions"`
	NetPay          float64    `json:"netPay" yaml:"netPay"`
	Signature       string     `json:"signature" yaml:"signature"`
	Initials        string     `json:"initials" yaml:"initials"`
}

type Earnings struct {
	BasicPay        float64 `json:"basicPay" yaml:"basicPay"`
	Overtime        float64 `json:"overtime" yaml:"overtime"`
	HouseAllowance  float64 `json:"houseAllowance" yaml:"houseAllowance"`
	TravelAllowance float64 `json:"travelAllowance" yaml:"travelAllowance"`
	Bonus           float64 `json:"bonus" yaml:"bonus"`
}

type Deductions struct {
	PAYE           float64 `json:"paye" yaml:"paye"`
	NSSF           float64 `json:"nssf" yaml:"nssf"`
	SHA            float64 `json:"sha" yaml:"sha"`
	HousingLevy    float64 `json:"housingLevy" yaml:"housingLevy"`
	Advances       float64 `json:"advances" yaml:"advances"`
	LoanRepayments float64 `json:"loanRepayments" yaml:"loanRepayments"`
	Saccos         float64 `json:"saccos" yaml:"saccos"`
}

// LineItem is a single named amount of an earnings or deductions schema.
type LineItem struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type Totals struct {
	GrossPay        float64 `json:"grossPay"`
	TotalDeductions float64 `json:"totalDeductions"`
	NetPay          float64 `json:"netPay"`
}

// Lines returns the earnings in schema order.
func (e Earnings) Lines() []LineItem {
	return []LineItem{
		{Key: EarningBasicPay, Label: "Basic Pay", Amount: e.BasicPay},
		{Key: EarningOvertime, Label: "Overtime", Amount: e.Overtime},
		{Key: EarningHouseAllowance, Label: "House Allowance", Amount: e.HouseAllowance},
		{Key: EarningTravelAllowance, Label: "Travel Allowance", Amount: e.TravelAllowance},
		{Key: EarningBonus, Label: "Bonus", Amount: e.Bonus},
	}
}

// Lines returns the deductions in schema order.
func (d Deductions) Lines() []LineItem {
	return []LineItem{
		{Key: DeductionPAYE, Label: "PAYE", Amount: d.PAYE},
		{Key: DeductionNSSF, Label: "NSSF", Amount: d.NSSF},
		{Key: DeductionSHA, Label: "SHA", Amount: d.SHA},
		{Key: DeductionHousingLevy, Label: "Housing Levy", Amount: d.HousingLevy},
		{Key: DeductionAdvances, Label: "Advances", Amount: d.Advances},
		{Key: DeductionLoanRepayments, Label: "Loan Repayments", Amount: d.LoanRepayments},
		{Key: DeductionSaccos, Label: "Saccos", Amount: d.Saccos},
	}
}

func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// PayDate parses the record date. The zero time and false are returned for
// empty or malformed dates.
func (r Record) PayDate() (time.Time, bool) {
	parsed, err := ParseDate(r.Date)
	if err != nil || parsed.IsZero() {
		return time.Time{}, false
	}
	return parsed, true
}

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(DateLayout, value)
}

// Normalize clamps line items to non-negative finite amounts and uppercases
// the initials. It does not touch the derived totals.
func (r Record) Normalize() Record {
	r.PayrollNumber = strings.TrimSpace(r.PayrollNumber)
	r.Initials = strings.ToUpper(strings.TrimSpace(r.Initials))
	r.Earnings = Earnings{
		BasicPay:        sanitizeAmount(r.Earnings.BasicPay),
		Overtime:        sanitizeAmount(r.Earnings.Overtime),
		HouseAllowance:  sanitizeAmount(r.Earnings.HouseAllowance),
		TravelAllowance: sanitizeAmount(r.Earnings.TravelAllowance),
		Bonus:           sanitizeAmount(r.Earnings.Bonus),
	}
	r.Deductions = Deductions{
		PAYE:           sanitizeAmount(r.Deductions.PAYE),
		NSSF:           sanitizeAmount(r.Deductions.NSSF),
		SHA:            sanitizeAmount(r.Deductions.SHA),
		HousingLevy:    sanitizeAmount(r.Deductions.HousingLevy),
		Advances:       sanitizeAmount(r.Deductions.Advances),
		LoanRepayments: sanitizeAmount(r.Deductions.LoanRepayments),
		Saccos:         sanitizeAmount(r.Deductions.Saccos),
	}
	return r
}

// WithTotals returns the record with its derived totals recomputed from the
// itemized earnings and deductions.
func (r Record) WithTotals() Record {
	totals := ComputeTotals(r.Earnings, r.Deductions)
	r.GrossPay = totals.GrossPay
	r.TotalDeductions = totals.TotalDeductions
	r.NetPay = totals.NetPay
	return r
}
