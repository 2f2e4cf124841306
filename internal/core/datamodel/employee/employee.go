package employee

import "time"

type Employee struct {
	ID         int64      `gorm:"primaryKey" db:"id"`
	FullName   string     `gorm:"column:full_name;not null" db:"full_name"`
	Email      string     `gorm:"column:email" db:"email"`
	Phone      string     `gorm:"column:phone" db:"phone"`
	DOB        *time.Time `gorm:"column:dob;type:date" db:"dob"`
	JobTitle   string     `gorm:"column:job_title" db:"job_title"`
	Department string     `gorm:"column:department" db:"department"`
	Salary     *float64   `gorm:"column:salary;type:numeric" db:"salary"`
	StartDate  *time.Time `gorm:"column:start_date;type:date" db:"start_date"`
	EndDate    *time.Time `gorm:"column:end_date;type:date" db:"end_date"`
	Photo      *string    `gorm:"column:photo" db:"photo"`
}

func (Employee) TableName() string {
	return "employees"
}

// MutableColumns lists every column a full-row replace overwrites. id and
// photo are excluded.
var MutableColumns = []string{
	"full_name",
	"email",
	"phone",
	"dob",
	"job_title",
	"department",
	"salary",
	"start_date",
	"end_date",
}
