package payroll

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewDraft returns the initial state of the entry form: today's date, the
// current month, zero earnings, the default deductions and a generated
// payroll number. A nil rng uses the package generator.
func NewDraft(now time.Time, rng *rand.Rand) Record {
	draft := Record{
		Date:          now.Format(DateLayout),
		Month:         Months[now.Month()-1],
		PayrollNumber: GeneratePayrollNumber(rng),
		Deductions:    DefaultDeductions,
	}
	return draft.WithTotals()
}

// GeneratePayrollNumber returns the prefix followed by four digits in
// 1000-9999. Uniqueness is checked at save time, not here.
func GeneratePayrollNumber(rng *rand.Rand) string {
	var n int
	if rng != nil {
		n = rng.IntN(9000)
	} else {
		n = rand.IntN(9000)
	}
	return fmt.Sprintf("%s%d", PayrollNumberPrefix, 1000+n)
}
