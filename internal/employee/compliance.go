package employee

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/hr-records/internal"
)

const (
	MinimumAge  = 18
	MinimumWage = 100.0

	RuleMinimumAge  = "minimum_age"
	RuleMinimumWage = "minimum_wage"
)

// ComplianceResult is the outcome of a single hiring rule.
type ComplianceResult struct {
	Passed bool
	Rule   string
	Field  string
	Code   internal.ErrorCode
	Reason string
}

func pass(rule, field string) ComplianceResult {
	return ComplianceResult{Passed: true, Rule: rule, Field: field}
}

func fail(rule, field string, code internal.ErrorCode, reason string) ComplianceResult {
	return ComplianceResult{Rule: rule, Field: field, Code: code, Reason: reason}
}

// AgeOn returns the number of whole years between dob and now, counting a
// year only once the birthday has been reached in now's calendar.
func AgeOn(dob, now time.Time) int {
	ny, nm, nd := now.Date()
	by, bm, bd := dob.Date()

	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}

// CheckAge requires a date of birth at least MinimumAge years before now.
func CheckAge(dob *time.Time, now time.Time) ComplianceResult {
	if dob == nil || dob.IsZero() {
		return fail(RuleMinimumAge, "dob", internal.ErrCodeUnderageEmployee,
			"date of birth is required to verify the employee's age")
	}
	if age := AgeOn(*dob, now); age < MinimumAge {
		return fail(RuleMinimumAge, "dob", internal.ErrCodeUnderageEmployee,
			fmt.Sprintf("employee must be at least %d years old (is %d)", MinimumAge, age))
	}
	return pass(RuleMinimumAge, "dob")
}

// CheckSalary parses the submitted salary and requires it to reach MinimumWage.
func CheckSalary(raw string) (float64, ComplianceResult) {
	salary, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(salary) || math.IsInf(salary, 0) {
		return 0, fail(RuleMinimumWage, "salary", internal.ErrCodeInvalidSalary,
			fmt.Sprintf("salary %q is not a valid number", raw))
	}
	if salary < MinimumWage {
		return salary, fail(RuleMinimumWage, "salary", internal.ErrCodeSalaryBelowMinimum,
			fmt.Sprintf("salary must be at least %.2f (got %.2f)", MinimumWage, salary))
	}
	return salary, pass(RuleMinimumWage, "salary")
}

// Evaluate folds the failed results into one validation error, or nil when
// every rule passed.
func Evaluate(results ...ComplianceResult) *internal.AppError {
	var failures []internal.ValidationError
	for _, r := range results {
		if r.Passed {
			continue
		}
		failures = append(failures, internal.ValidationError{
			Field:   r.Field,
			Message: r.Reason,
			Code:    string(r.Code),
		})
	}
	if len(failures) == 0 {
		return nil
	}
	return internal.NewValidationError("Employee does not meet hiring requirements", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: failures})
}

// Err converts a failed result into a field validation error.
func (r ComplianceResult) Err() *internal.AppError {
	if r.Passed {
		return nil
	}
	return internal.NewValidationFieldError(r.Field, r.Reason, r.Code)
}
