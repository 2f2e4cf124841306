package timesheet

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/datetime"
	"github.com/frahmantamala/hr-records/internal/core/common/validation"
)

// TimesheetForm carries the submitted values. Times are accepted as
// YYYY-MM-DDTHH:MM or YYYY-MM-DD HH:MM:SS.
type TimesheetForm struct {
	EmployeeID string `json:"employee_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

func FormFromRequest(r *http.Request) TimesheetForm {
	return TimesheetForm{
		EmployeeID: strings.TrimSpace(r.PostFormValue("employee_id")),
		StartTime:  strings.TrimSpace(r.PostFormValue("start_time")),
		EndTime:    strings.TrimSpace(r.PostFormValue("end_time")),
	}
}

// FormFromTimesheet renders a timesheet for the edit form, seconds stripped.
func FormFromTimesheet(t *Timesheet) TimesheetForm {
	return TimesheetForm{
		EmployeeID: strconv.FormatInt(t.EmployeeID, 10),
		StartTime:  datetime.ToInputValue(datetime.FormatStore(t.StartTime)),
		EndTime:    datetime.ToInputValue(datetime.FormatStore(t.EndTime)),
	}
}

// Normalize guarantees both times carry a seconds component.
func (f TimesheetForm) Normalize() TimesheetForm {
	f.StartTime = datetime.EnsureSeconds(f.StartTime)
	f.EndTime = datetime.EnsureSeconds(f.EndTime)
	return f
}

func (f TimesheetForm) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", f.EmployeeID).RequiredWithCode(internal.ErrCodeInvalidEmployee).PositiveInt(internal.ErrCodeInvalidEmployee)
	v.Field("start_time", f.StartTime).RequiredWithCode(internal.ErrCodeMissingTimeRange).DateTime()
	v.Field("end_time", f.EndTime).RequiredWithCode(internal.ErrCodeMissingTimeRange).DateTime()
	return v.Validate()
}

// ToTimesheet parses a validated form.
func (f TimesheetForm) ToTimesheet() (*Timesheet, error) {
	employeeID, err := strconv.ParseInt(f.EmployeeID, 10, 64)
	if err != nil {
		return nil, internal.NewValidationFieldError("employee_id", "employee_id must be a positive integer", internal.ErrCodeInvalidEmployee)
	}
	start, err := datetime.Parse(f.StartTime)
	if err != nil {
		return nil, internal.NewValidationFieldError("start_time", err.Error(), internal.ErrCodeInvalidDate)
	}
	end, err := datetime.Parse(f.EndTime)
	if err != nil {
		return nil, internal.NewValidationFieldError("end_time", err.Error(), internal.ErrCodeInvalidDate)
	}
	return &Timesheet{EmployeeID: employeeID, StartTime: start, EndTime: end}, nil
}
