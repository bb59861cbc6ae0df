package shared

import (
	"cmp"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"paydesk/internal/transport/http/api"
)

type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Validator collects field issues for a request payload. A nil Validator
// ignores every check.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

// Check records reason against field when ok is false and reports ok.
func (v *Validator) Check(ok bool, field, reason string) bool {
	if !ok {
		v.Add(field, reason)
	}
	return ok
}

func (v *Validator) Add(field, reason string) {
	if v == nil || strings.TrimSpace(reason) == "" {
		return
	}
	v.issues = append(v.issues, ValidationIssue{Field: strings.TrimSpace(field), Reason: strings.TrimSpace(reason)})
}

func (v *Validator) Required(field, value, reason string) bool {
	return v.Check(strings.TrimSpace(value) != "", field, reason)
}

// OneOf accepts an empty value or any of allowed, ignoring case.
func (v *Validator) OneOf(field, value string, allowed []string, reason string) bool {
	value = strings.TrimSpace(value)
	return v.Check(value == "" || slices.ContainsFunc(allowed, func(s string) bool {
		return strings.EqualFold(s, value)
	}), field, reason)
}

// MaxRunes flags values longer than limit characters.
func (v *Validator) MaxRunes(field, value string, limit int, reason string) bool {
	return v.Check(utf8.RuneCountInString(strings.TrimSpace(value)) <= limit, field, reason)
}

// Date requires a YYYY-MM-DD calendar date.
func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if !v.Check(err == nil, field, "must be a valid date in YYYY-MM-DD format") {
		return time.Time{}, false
	}
	return parsed, true
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

// Issues returns the collected issues ordered by field, then reason.
func (v *Validator) Issues() []ValidationIssue {
	if !v.HasIssues() {
		return nil
	}
	out := slices.Clone(v.issues)
	slices.SortStableFunc(out, func(a, b ValidationIssue) int {
		return cmp.Or(cmp.Compare(a.Field, b.Field), cmp.Compare(a.Reason, b.Reason))
	})
	return out
}

// Reject writes a 400 validation_error response when issues were collected.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if !v.HasIssues() {
		return false
	}
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
		map[string]any{"fields": v.Issues()}, requestID)
	return true
}
