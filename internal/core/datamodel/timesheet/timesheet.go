package timesheet

import "time"

type Timesheet struct {
	ID         int64     `gorm:"primaryKey" db:"id"`
	EmployeeID int64     `gorm:"column:employee_id;not null" db:"employee_id"`
	StartTime  time.Time `gorm:"column:start_time;not null" db:"start_time"`
	EndTime    time.Time `gorm:"column:end_time;not null" db:"end_time"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}

// TimesheetWithEmployee is a timesheet row joined with its employee's name.
type TimesheetWithEmployee struct {
	Timesheet
	FullName string `db:"full_name"`
}

// EmployeeOption is the id/name pair used to populate employee pickers.
type EmployeeOption struct {
	ID       int64  `db:"id"`
	FullName string `db:"full_name"`
}
