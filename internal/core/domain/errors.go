package domain

import (
	"errors"
	"strings"
)

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrDependentNotFound  = errors.New("dependent not found")
	ErrSlotNotFound       = errors.New("workshop slot not found")
	ErrPlanNotFound       = errors.New("inscription plan not found")
	ErrSupplierNotFound   = errors.New("supplier not found")
	ErrVenueNotFound      = errors.New("venue not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrQuoteNotFound      = errors.New("quote not found")
)

var (
	ErrDuplicateEnrollment = errors.New("dependent already enrolled in this slot")
	ErrCapacityExceeded    = errors.New("workshop slot is full")
	ErrSlotBusy            = errors.New("workshop slot is locked by another request")
)

var (
	ErrUnknownReportType = errors.New("unknown report type")
	ErrMissingReportDate = errors.New("report requires a start and end date")
	ErrInvalidDateRange  = errors.New("start date is after end date")
)

var (
	ErrQuoteRecipientMissing = errors.New("quote has no resolvable recipient")
	ErrCompanyProfileMissing = errors.New("company profile not configured")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrSnapshotUnavailable   = errors.New("snapshot not loaded")
)

// Failure is a single failed business rule.
type Failure struct {
	Field string
	Err   error
}

func (f Failure) String() string {
	if f.Field == "" {
		return f.Err.Error()
	}
	return f.Field + ": " + f.Err.Error()
}

// ValidationFailure collects every rule that failed, in evaluation order.
// Error and Unwrap expose only the first one.
type ValidationFailure struct {
	failures []Failure
}

// Add records a failed rule.
func (v *ValidationFailure) Add(field string, err error) {
	v.failures = append(v.failures, Failure{Field: field, Err: err})
}

// Empty reports whether no rule failed.
func (v *ValidationFailure) Empty() bool {
	return v == nil || len(v.failures) == 0
}

// Failures returns a copy of every recorded failure.
func (v *ValidationFailure) Failures() []Failure {
	if v == nil {
		return nil
	}
	out := make([]Failure, len(v.failures))
	copy(out, v.failures)
	return out
}

// Messages renders every failure as "field: message".
func (v *ValidationFailure) Messages() []string {
	out := make([]string, 0, len(v.failures))
	for _, f := range v.failures {
		out = append(out, f.String())
	}
	return out
}

func (v *ValidationFailure) Error() string {
	if v.Empty() {
		return "validation failed"
	}
	return v.failures[0].String()
}

func (v *ValidationFailure) Unwrap() error {
	if v.Empty() {
		return nil
	}
	return v.failures[0].Err
}

// AsValidationFailure extracts a *ValidationFailure from err.
func AsValidationFailure(err error) (*ValidationFailure, bool) {
	var vf *ValidationFailure
	if errors.As(err, &vf) {
		return vf, true
	}
	return nil, false
}

// IsNotFound reports whether err is one of the lookup failures.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrClientNotFound, ErrDependentNotFound, ErrSlotNotFound, ErrPlanNotFound,
		ErrSupplierNotFound, ErrVenueNotFound, ErrEnrollmentNotFound, ErrQuoteNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Summary joins every failure on one line.
func (v *ValidationFailure) Summary() string {
	return strings.Join(v.Messages(), "; ")
}
