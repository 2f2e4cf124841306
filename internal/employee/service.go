package employee

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/datetime"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
)

// Repository is the employee table. GetByID and Replace return
// ErrEmployeeNotFound when no row has the id.
type Repository interface {
	GetAll(ctx context.Context) ([]*employeeDatamodel.Employee, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, employee *employeeDatamodel.Employee) error
	Replace(ctx context.Context, employee *employeeDatamodel.Employee) error
}

// PhotoStorage persists uploaded photos and returns their relative path.
type PhotoStorage interface {
	Save(originalName string, data []byte, at time.Time) (string, error)
	Remove(relPath string) error
}

type Service struct {
	repo         Repository
	photos       PhotoStorage
	logger       *slog.Logger
	now          func() time.Time
	queryTimeout time.Duration
}

func NewService(repo Repository, photos PhotoStorage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		photos: photos,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for age checks and upload names.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithQueryTimeout bounds each repository call; zero keeps the default.
func (s *Service) WithQueryTimeout(d time.Duration) *Service {
	s.queryTimeout = d
	return s
}

// ListEmployees loads every employee and narrows the result in memory.
func (s *Service) ListEmployees(ctx context.Context, query string) ([]*Employee, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}

	employees := Filter(FromDataModelSlice(rows), query)
	s.logger.Debug("listed employees", "total", len(rows), "matched", len(employees), "query", query)
	return employees, nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	return FromDataModel(row), nil
}

// ReplaceEmployee overwrites every mutable column of the employee with the
// form values. Hiring rules are not re-checked and the photo is kept.
func (s *Service) ReplaceEmployee(ctx context.Context, id int64, form EmployeeForm) (*Employee, error) {
	if appErr := form.Validate(); appErr != nil {
		s.logger.Warn("employee update rejected", "employee_id", id, "error", appErr.GetDetailedMessage())
		return nil, appErr
	}
	emp, err := form.ToEmployee()
	if err != nil {
		return nil, err
	}
	emp.ID = id

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.repo.Replace(ctx, ToDataModel(emp)); err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("failed to replace employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee replaced", "employee_id", id)
	return emp, nil
}

// CreateEmployee hires a new employee. The age and salary rules must pass;
// an optional photo is stored first and removed again if the insert fails.
func (s *Service) CreateEmployee(ctx context.Context, form EmployeeForm, photo *PhotoUpload) (*Employee, error) {
	if appErr := form.Validate(); appErr != nil && !onlySalaryFormat(appErr) {
		s.logger.Warn("employee creation rejected", "error", appErr.GetDetailedMessage())
		return nil, appErr
	}

	now := s.now()
	dob, _ := datetime.ParseDate(form.DOB)
	_, salaryResult := CheckSalary(form.Salary)
	if appErr := Evaluate(CheckAge(dob, now), salaryResult); appErr != nil {
		s.logger.Warn("employee failed compliance checks",
			"full_name", form.FullName,
			"error", appErr.GetDetailedMessage())
		return nil, appErr
	}

	emp, err := form.ToEmployee()
	if err != nil {
		return nil, err
	}

	if photo != nil && len(photo.Data) > 0 {
		relPath, err := s.photos.Save(photo.Filename, photo.Data, now)
		if err != nil {
			s.logger.Error("failed to store employee photo", "error", err, "filename", photo.Filename)
			return nil, internal.NewInternalError("failed to store photo", err)
		}
		emp.Photo = &relPath
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	row := ToDataModel(emp)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create employee", "error", err)
		if emp.Photo != nil {
			if rmErr := s.photos.Remove(*emp.Photo); rmErr != nil {
				s.logger.Error("failed to remove orphaned photo", "error", rmErr, "path", *emp.Photo)
			}
		}
		return nil, internal.NewInternalError("failed to create employee", err)
	}
	emp.ID = row.ID

	s.logger.Info("employee created", "employee_id", emp.ID, "has_photo", emp.Photo != nil)
	return emp, nil
}

// ImportEmployee inserts the form as-is, without hiring rules or a photo.
// It backs bulk loading such as the seed command.
func (s *Service) ImportEmployee(ctx context.Context, form EmployeeForm) (*Employee, error) {
	emp, err := form.ToEmployee()
	if err != nil {
		return nil, err
	}

	ctx, cancel := internal.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	row := ToDataModel(emp)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to import employee", "error", err)
		return nil, internal.NewInternalError("failed to import employee", err)
	}
	emp.ID = row.ID

	s.logger.Info("employee imported", "employee_id", emp.ID)
	return emp, nil
}

// ExportEmployees writes the (optionally filtered) directory as a spreadsheet.
func (s *Service) ExportEmployees(ctx context.Context, query string, w io.Writer) error {
	employees, err := s.ListEmployees(ctx, query)
	if err != nil {
		return err
	}
	if err := WriteDirectory(w, employees); err != nil {
		s.logger.Error("failed to export employees", "error", err)
		return internal.NewInternalError("failed to export employees", err)
	}
	return nil
}

// the salary rule reports malformed salaries with its own message
func onlySalaryFormat(appErr *internal.AppError) bool {
	details, ok := appErr.Details.(internal.ValidationErrors)
	if !ok || len(details.Errors) == 0 {
		return false
	}
	for _, d := range details.Errors {
		if d.Field != "salary" {
			return false
		}
	}
	return true
}
