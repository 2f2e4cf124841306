package postgres

import (
	"context"
	"errors"

	timesheetDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/hr-records/internal/database"
	"github.com/frahmantamala/hr-records/internal/timesheet"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the fetch-one, fetch-all and run surface of database.Store.
type Querier interface {
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	All(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Run(ctx context.Context, query string, args ...interface{}) error
}

const (
	selectJoined = `SELECT timesheets.id, timesheets.employee_id, timesheets.start_time, timesheets.end_time, employees.full_name
FROM timesheets
JOIN employees ON timesheets.employee_id = employees.id`

	selectRoster = `SELECT id, full_name FROM employees ORDER BY full_name, id`

	insertTimesheet = `INSERT INTO timesheets (employee_id, start_time, end_time) VALUES (?, ?, ?) RETURNING id`

	updateTimesheet = `UPDATE timesheets SET employee_id = ?, start_time = ?, end_time = ? WHERE id = ?`
)

const foreignKeyViolation = "23503"

type TimesheetRepository struct {
	db Querier
}

func NewTimesheetRepository(db Querier) timesheet.Repository {
	return &TimesheetRepository{db: db}
}

func (r *TimesheetRepository) GetAll(ctx context.Context) ([]*timesheetDatamodel.TimesheetWithEmployee, error) {
	var rows []*timesheetDatamodel.TimesheetWithEmployee
	if err := r.db.All(ctx, &rows, selectJoined+" ORDER BY timesheets.id"); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TimesheetRepository) GetByID(ctx context.Context, id int64) (*timesheetDatamodel.TimesheetWithEmployee, error) {
	var row timesheetDatamodel.TimesheetWithEmployee
	err := r.db.Get(ctx, &row, selectJoined+" WHERE timesheets.id = ?", id)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, timesheet.ErrTimesheetNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *TimesheetRepository) ListEmployees(ctx context.Context) ([]*timesheetDatamodel.EmployeeOption, error) {
	var rows []*timesheetDatamodel.EmployeeOption
	if err := r.db.All(ctx, &rows, selectRoster); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TimesheetRepository) Create(ctx context.Context, ts *timesheetDatamodel.Timesheet) error {
	var id int64
	if err := r.db.Get(ctx, &id, insertTimesheet, ts.EmployeeID, ts.StartTime, ts.EndTime); err != nil {
		return mapConstraint(err)
	}
	ts.ID = id
	return nil
}

func (r *TimesheetRepository) Replace(ctx context.Context, ts *timesheetDatamodel.Timesheet) error {
	err := r.db.Run(ctx, updateTimesheet, ts.EmployeeID, ts.StartTime, ts.EndTime, ts.ID)
	return mapConstraint(err)
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return timesheet.ErrUnknownEmployee
	}
	return err
}
