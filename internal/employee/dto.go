package employee

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/datetime"
	"github.com/frahmantamala/hr-records/internal/core/common/validation"
)

// EmployeeForm carries the submitted form values verbatim. Every field is
// written on create and on replace; an empty value clears the column.
type EmployeeForm struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	DOB        string `json:"dob"`
	JobTitle   string `json:"job_title"`
	Department string `json:"department"`
	Salary     string `json:"salary"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// PhotoUpload is an optional file submitted with a new employee.
type PhotoUpload struct {
	Filename string
	Data     []byte
}

func FormFromRequest(r *http.Request) EmployeeForm {
	return EmployeeForm{
		FullName:   strings.TrimSpace(r.PostFormValue("full_name")),
		Email:      strings.TrimSpace(r.PostFormValue("email")),
		Phone:      strings.TrimSpace(r.PostFormValue("phone")),
		DOB:        strings.TrimSpace(r.PostFormValue("dob")),
		JobTitle:   strings.TrimSpace(r.PostFormValue("job_title")),
		Department: strings.TrimSpace(r.PostFormValue("department")),
		Salary:     strings.TrimSpace(r.PostFormValue("salary")),
		StartDate:  strings.TrimSpace(r.PostFormValue("start_date")),
		EndDate:    strings.TrimSpace(r.PostFormValue("end_date")),
	}
}

// FormFromEmployee renders an employee back into form values.
func FormFromEmployee(e *Employee) EmployeeForm {
	return EmployeeForm{
		FullName:   e.FullName,
		Email:      e.Email,
		Phone:      e.Phone,
		DOB:        datetime.FormatDate(e.DOB),
		JobTitle:   e.JobTitle,
		Department: e.Department,
		Salary:     e.SalaryText(),
		StartDate:  datetime.FormatDate(e.StartDate),
		EndDate:    datetime.FormatDate(e.EndDate),
	}
}

// Validate checks the shape of the submitted values only. Business rules such
// as minimum age live in compliance.go.
func (f EmployeeForm) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("full_name", f.FullName).Required().MaxLength(200)
	v.Field("dob", f.DOB).Date()
	v.Field("salary", f.Salary).Number(internal.ErrCodeInvalidSalary)
	v.Field("start_date", f.StartDate).Date()
	v.Field("end_date", f.EndDate).Date()
	return v.Validate()
}

// ToEmployee parses the form into an employee without an id.
func (f EmployeeForm) ToEmployee() (*Employee, error) {
	dob, err := datetime.ParseDate(f.DOB)
	if err != nil {
		return nil, internal.NewValidationFieldError("dob", err.Error(), internal.ErrCodeInvalidDate)
	}
	startDate, err := datetime.ParseDate(f.StartDate)
	if err != nil {
		return nil, internal.NewValidationFieldError("start_date", err.Error(), internal.ErrCodeInvalidDate)
	}
	endDate, err := datetime.ParseDate(f.EndDate)
	if err != nil {
		return nil, internal.NewValidationFieldError("end_date", err.Error(), internal.ErrCodeInvalidDate)
	}

	var salary *float64
	if f.Salary != "" {
		s, err := strconv.ParseFloat(f.Salary, 64)
		if err != nil || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, internal.NewValidationFieldError("salary", "salary must be a number", internal.ErrCodeInvalidSalary)
		}
		salary = &s
	}

	return &Employee{
		FullName:   f.FullName,
		Email:      f.Email,
		Phone:      f.Phone,
		DOB:        dob,
		JobTitle:   f.JobTitle,
		Department: f.Department,
		Salary:     salary,
		StartDate:  startDate,
		EndDate:    endDate,
	}, nil
}
