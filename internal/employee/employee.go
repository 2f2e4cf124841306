package employee

import (
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/datetime"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
)

type Employee struct {
	ID         int64      `json:"id"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	DOB        *time.Time `json:"dob,omitempty"`
	JobTitle   string     `json:"job_title"`
	Department string     `json:"department"`
	Salary     *float64   `json:"salary,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Photo      *string    `json:"photo,omitempty"`
}

var ErrEmployeeNotFound = internal.NewNotFoundError("Employee not found", internal.ErrCodeEmployeeNotFound)

// Matches reports whether the lower-cased query is a substring of the name,
// department, email or phone.
func (e *Employee) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{e.FullName, e.Department, e.Email, e.Phone} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// IsCurrent is true while the employment has no end date or ends in the future.
func (e *Employee) IsCurrent(now time.Time) bool {
	return e.EndDate == nil || e.EndDate.After(now)
}

func (e *Employee) SalaryText() string {
	if e.Salary == nil {
		return ""
	}
	return strconv.FormatFloat(*e.Salary, 'f', -1, 64)
}

func (e *Employee) PhotoURL() string {
	if e.Photo == nil || *e.Photo == "" {
		return ""
	}
	return "/" + strings.TrimPrefix(*e.Photo, "/")
}

// Filter narrows an already loaded list in memory; order is preserved.
func Filter(employees []*Employee, query string) []*Employee {
	if strings.TrimSpace(query) == "" {
		return employees
	}
	filtered := make([]*Employee, 0, len(employees))
	for _, e := range employees {
		if e.Matches(query) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:         e.ID,
		FullName:   e.FullName,
		Email:      e.Email,
		Phone:      e.Phone,
		DOB:        e.DOB,
		JobTitle:   e.JobTitle,
		Department: e.Department,
		Salary:     e.Salary,
		StartDate:  e.StartDate,
		EndDate:    e.EndDate,
		Photo:      e.Photo,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:         e.ID,
		FullName:   e.FullName,
		Email:      e.Email,
		Phone:      e.Phone,
		DOB:        normalizeDate(e.DOB),
		JobTitle:   e.JobTitle,
		Department: e.Department,
		Salary:     e.Salary,
		StartDate:  normalizeDate(e.StartDate),
		EndDate:    normalizeDate(e.EndDate),
		Photo:      e.Photo,
	}
}

func FromDataModelSlice(employees []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i, e := range employees {
		result[i] = FromDataModel(e)
	}
	return result
}

// drivers hand DATE columns back as midnight in varying locations
func normalizeDate(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	d, err := datetime.ParseDate(t.Format(datetime.DateLayout))
	if err != nil {
		return t
	}
	return d
}
