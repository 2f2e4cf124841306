package timesheet

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	timesheetDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/timesheet"
)

// Repository reads timesheets joined with their employee's name. GetByID
// returns ErrTimesheetNotFound; Create and Replace return ErrUnknownEmployee
// when the employee id has no row.
type Repository interface {
	GetAll(ctx context.Context) ([]*timesheetDatamodel.TimesheetWithEmployee, error)
	GetByID(ctx context.Context, id int64) (*timesheetDatamodel.TimesheetWithEmployee, error)
	ListEmployees(ctx context.Context) ([]*timesheetDatamodel.EmployeeOption, error)
	Create(ctx context.Context, timesheet *timesheetDatamodel.Timesheet) error
	Replace(ctx context.Context, timesheet *timesheetDatamodel.Timesheet) error
}

type Service struct {
	repo         Repository
	logger       *slog.Logger
	queryTimeout time.Duration
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// WithQueryTimeout bounds each repository call; zero keeps the default.
func (s *Service) WithQueryTimeout(d time.Duration) *Service {
	s.queryTimeout = d
	return s
}

func (s *Service) ListTimesheets(ctx context.Context) ([]*Timesheet, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list timesheets", "error", err)
		return nil, internal.NewInternalError("failed to list timesheets", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetTimesheet(ctx context.Context, id int64) (*Timesheet, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTimesheetNotFound) {
			return nil, ErrTimesheetNotFound
		}
		s.logger.Error("failed to get timesheet", "error", err, "timesheet_id", id)
		return nil, internal.NewInternalError("failed to get timesheet", err)
	}
	return FromDataModel(row), nil
}

// ListEmployeeOptions returns the roster used by the employee picker.
func (s *Service) ListEmployeeOptions(ctx context.Context) ([]EmployeeOption, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.ListEmployees(ctx)
	if err != nil {
		s.logger.Error("failed to list employee roster", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return OptionsFromDataModel(rows), nil
}

// CreateTimesheet normalizes both times to carry seconds and inserts the row.
func (s *Service) CreateTimesheet(ctx context.Context, form TimesheetForm) (*Timesheet, error) {
	form = form.Normalize()
	if appErr := form.Validate(); appErr != nil {
		s.logger.Warn("timesheet creation rejected", "error", appErr.GetDetailedMessage())
		return nil, appErr
	}
	ts, err := form.ToTimesheet()
	if err != nil {
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	row := ToDataModel(ts)
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, ErrUnknownEmployee) {
			return nil, ErrUnknownEmployee
		}
		s.logger.Error("failed to create timesheet", "error", err, "employee_id", ts.EmployeeID)
		return nil, internal.NewInternalError("failed to create timesheet", err)
	}
	ts.ID = row.ID

	s.logger.Info("timesheet created", "timesheet_id", ts.ID, "employee_id", ts.EmployeeID)
	return ts, nil
}

// ReplaceTimesheet overwrites the employee and both times. Both times must be
// present before the store is consulted.
func (s *Service) ReplaceTimesheet(ctx context.Context, id int64, form TimesheetForm) (*Timesheet, error) {
	if appErr := form.Validate(); appErr != nil {
		s.logger.Warn("timesheet update rejected", "timesheet_id", id, "error", appErr.GetDetailedMessage())
		return nil, appErr
	}
	ts, err := form.ToTimesheet()
	if err != nil {
		return nil, err
	}
	ts.ID = id

	if _, err := s.GetTimesheet(ctx, id); err != nil {
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Replace(ctx, ToDataModel(ts)); err != nil {
		if errors.Is(err, ErrUnknownEmployee) {
			return nil, ErrUnknownEmployee
		}
		s.logger.Error("failed to replace timesheet", "error", err, "timesheet_id", id)
		return nil, internal.NewInternalError("failed to update timesheet", err)
	}

	s.logger.Info("timesheet replaced", "timesheet_id", id)
	return ts, nil
}
