package payroll

import (
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterApply(t *testing.T) {
	records := []Record{
		{ID: "1", Date: "2024-07-28", Month: "July"},
		{ID: "2", Date: "2023-07-28", Month: "July"},
		{ID: "3", Date: "2024-06-30", Month: "June"},
		{ID: "4", Date: "not-a-date", Month: "July"},
		{ID: "5", Date: "2024-01-31T09:00:00Z", Month: "January"},
	}

	ids := func(rs []Record) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "empty filter", filter: Filter{}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "year and month", filter: Filter{Year: "2024", Month: "July"}, want: []string{"1"}},
		{name: "month case insensitive substring", filter: Filter{Month: "ju"}, want: []string{"1", "2", "3", "4"}},
		{name: "year only", filter: Filter{Year: " 2024 "}, want: []string{"1", "3", "5"}},
		{name: "no match", filter: Filter{Year: "1999"}, want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(tc.filter.Apply(records)))
		})
	}
}

func TestNewDraft(t *testing.T) {
	now := time.Date(2024, time.July, 28, 10, 0, 0, 0, time.UTC)
	draft := NewDraft(now, rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, "2024-07-28", draft.Date)
	assert.Equal(t, "July", draft.Month)
	assert.Equal(t, DefaultDeductions, draft.Deductions)
	assert.Equal(t, Earnings{}, draft.Earnings)
	assert.Equal(t, 3650.0, draft.TotalDeductions)
	assert.Regexp(t, regexp.MustCompile(`^POP[1-9][0-9]{3}$`), draft.PayrollNumber)
	assert.Empty(t, draft.ID)
}

func TestNormalize(t *testing.T) {
	record := Record{PayrollNumber: " POP1 ", Initials: " ab ", Earnings: Earnings{BasicPay: -5, Bonus: 10}}
	normalized := record.Normalize()

	assert.Equal(t, "POP1", normalized.PayrollNumber)
	assert.Equal(t, "AB", normalized.Initials)
	assert.Equal(t, 0.0, normalized.Earnings.BasicPay)
	assert.Equal(t, 10.0, normalized.Earnings.Bonus)
}
