package payroll

import "unicode/utf8"

// Validate checks a candidate record against the existing collection.
// Rules run in order (payroll number uniqueness, initials length, signature
// presence) and the first failure is returned. excludeID is the identifier of
// the record being edited, or empty when adding.
func Validate(candidate Record, existing []Record, excludeID string) error {
	if !payrollNumberUnique(existing, candidate.PayrollNumber, excludeID) {
		return newViolation(ViolationDuplicatePayrollNumber)
	}
	if utf8.RuneCountInString(candidate.Initials) > MaxInitialsLength {
		return newViolation(ViolationInitialsTooLong)
	}
	if candidate.Signature == "" {
		return newViolation(ViolationMissingSignature)
	}
	return nil
}

func payrollNumberUnique(records []Record, number, excludeID string) bool {
	for _, record := range records {
		if record.PayrollNumber == number && record.ID != excludeID {
			return false
		}
	}
	return true
}
