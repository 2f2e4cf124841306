package timesheet

import (
	"sort"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/datetime"
	timesheetDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/timesheet"
)

type Timesheet struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

type EmployeeOption struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

var (
	ErrTimesheetNotFound = internal.NewNotFoundError("Timesheet not found", internal.ErrCodeTimesheetNotFound)
	ErrUnknownEmployee   = internal.NewValidationFieldError("employee_id", "employee does not exist", internal.ErrCodeInvalidEmployee)
)

// Duration is the worked interval; it is negative when the end precedes the start.
func (t *Timesheet) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// CalendarEntry is one timesheet placed on the calendar. Start and End use
// the calendar format YYYY-MM-DDTHH:MM:SS.
type CalendarEntry struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type CalendarDay struct {
	Date    string          `json:"date"`
	Label   string          `json:"label"`
	Entries []CalendarEntry `json:"entries"`
}

const calendarLabelLayout = "Mon, 02 Jan 2006"

// BuildCalendar buckets timesheets by the calendar day of their start time.
// Days are ascending; entries within a day are ordered by start time.
func BuildCalendar(timesheets []*Timesheet) []CalendarDay {
	byDate := make(map[string]*CalendarDay)
	ordered := make([]*Timesheet, len(timesheets))
	copy(ordered, timesheets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	var dates []string
	for _, t := range ordered {
		date := t.StartTime.Format(datetime.DateLayout)
		d, ok := byDate[date]
		if !ok {
			d = &CalendarDay{Date: date, Label: t.StartTime.Format(calendarLabelLayout)}
			byDate[date] = d
			dates = append(dates, date)
		}
		d.Entries = append(d.Entries, CalendarEntry{
			ID:    t.ID,
			Title: t.EmployeeName,
			Start: datetime.ToCalendarValue(datetime.FormatStore(t.StartTime)),
			End:   datetime.ToCalendarValue(datetime.FormatStore(t.EndTime)),
		})
	}

	days := make([]CalendarDay, len(dates))
	for i, date := range dates {
		days[i] = *byDate[date]
	}
	return days
}

func ToDataModel(t *Timesheet) *timesheetDatamodel.Timesheet {
	return &timesheetDatamodel.Timesheet{
		ID:         t.ID,
		EmployeeID: t.EmployeeID,
		StartTime:  t.StartTime,
		EndTime:    t.EndTime,
	}
}

func FromDataModel(t *timesheetDatamodel.TimesheetWithEmployee) *Timesheet {
	return &Timesheet{
		ID:           t.ID,
		EmployeeID:   t.EmployeeID,
		EmployeeName: t.FullName,
		StartTime:    t.StartTime,
		EndTime:      t.EndTime,
	}
}

func FromDataModelSlice(rows []*timesheetDatamodel.TimesheetWithEmployee) []*Timesheet {
	result := make([]*Timesheet, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}

func OptionsFromDataModel(rows []*timesheetDatamodel.EmployeeOption) []EmployeeOption {
	result := make([]EmployeeOption, len(rows))
	for i, row := range rows {
		result[i] = EmployeeOption{ID: row.ID, FullName: row.FullName}
	}
	return result
}
