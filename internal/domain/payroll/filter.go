package payroll

import (
	"strconv"
	"strings"
)

// Filter narrows a report listing. Month matches as a case-insensitive
// substring of the record month; Year must equal the year of the record date.
// Empty fields match everything.
type Filter struct {
	Month string `json:"month"`
	Year  string `json:"year"`
}

func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Month) == "" && strings.TrimSpace(f.Year) == ""
}

func (f Filter) Match(record Record) bool {
	if year := strings.TrimSpace(f.Year); year != "" {
		date, ok := record.PayDate()
		if !ok || strconv.Itoa(date.Year()) != year {
			return false
		}
	}
	if month := strings.TrimSpace(f.Month); month != "" {
		if !strings.Contains(strings.ToLower(record.Month), strings.ToLower(month)) {
			return false
		}
	}
	return true
}

func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, record := range records {
		if f.Match(record) {
			out = append(out, record)
		}
	}
	return out
}
