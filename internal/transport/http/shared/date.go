package shared

import "time"

const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD only.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
