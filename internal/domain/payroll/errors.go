package payroll

import "errors"

var ErrNotFound = errors.New("payroll record not found")

type Violation string

const (
	ViolationDuplicatePayrollNumber Violation = "duplicate_payroll_number"
	ViolationInitialsTooLong        Violation = "initials_too_long"
	ViolationMissingSignature       Violation = "missing_signature"
	ViolationMissingIdentifier      Violation = "missing_identifier"
)

// ValidationError reports the first rule a candidate record broke.
type ValidationError struct {
	Violation Violation
}

func (e *ValidationError) Error() string {
	switch e.Violation {
	case ViolationDuplicatePayrollNumber:
		return "Payroll Number must be unique."
	case ViolationInitialsTooLong:
		return "Initials cannot be more than 3 characters."
	case ViolationMissingSignature:
		return "Signature is required."
	case ViolationMissingIdentifier:
		return "Payroll ID is required for update"
	default:
		return string(e.Violation)
	}
}

func newViolation(v Violation) error {
	return &ValidationError{Violation: v}
}

// IsViolation reports whether err carries the given validation violation.
func IsViolation(err error, v Violation) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.Violation == v
}

// Store operations as named in FetchError.
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// FetchError is a failed Store call: a transport failure or a non-success
// status from the remote store. The status is kept for logging and is not part
// of the message.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Op {
	case OpList:
		return "Failed to fetch payrolls"
	case OpCreate:
		return "Failed to add payroll"
	case OpUpdate:
		return "Failed to update payroll"
	case OpDelete:
		return "Failed to delete payroll"
	default:
		return "Payroll store request failed"
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func asFetchError(op string, err error) *FetchError {
	var ferr *FetchError
	if errors.As(err, &ferr) {
		return ferr
	}
	return &FetchError{Op: op, Err: err}
}
