package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/transport"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context, query string) ([]*Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	ReplaceEmployee(ctx context.Context, id int64, form EmployeeForm) (*Employee, error)
	CreateEmployee(ctx context.Context, form EmployeeForm, photo *PhotoUpload) (*Employee, error)
	ExportEmployees(ctx context.Context, query string, w io.Writer) error
}

// DefaultMaxUploadBytes caps a creation request including its photo.
const DefaultMaxUploadBytes = 5 << 20

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	MaxUploadBytes int64
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		BaseHandler:    baseHandler,
		Service:        service,
		MaxUploadBytes: maxUploadBytes,
	}
}

type ListView struct {
	Query     string      `json:"query"`
	Employees []*Employee `json:"employees"`
}

type FormView struct {
	ID       int64             `json:"id,omitempty"`
	Employee *Employee         `json:"employee,omitempty"`
	Form     EmployeeForm      `json:"form"`
	Errors   map[string]string `json:"errors,omitempty"`
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	employees, err := h.Service.ListEmployees(r.Context(), query)
	if err != nil {
		h.Logger.Error("ListEmployees: service error", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}

	view := ListView{Query: query, Employees: employees}
	if h.WantsJSON(r) {
		h.WriteJSON(w, http.StatusOK, view)
		return
	}
	h.Render(w, r, http.StatusOK, "employees", "Employees", view)
}

func (h *Handler) ExportEmployees(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="employees-%s.xlsx"`, time.Now().Format("20060102")))

	if err := h.Service.ExportEmployees(r.Context(), query, w); err != nil {
		h.Logger.Error("ExportEmployees: service error", "error", err)
		w.Header().Del("Content-Disposition")
		h.HandleServiceError(w, r, err)
		return
	}
}

func (h *Handler) NewEmployeeForm(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, "employee_new", "New Employee", FormView{})
}

// CreateEmployee accepts a multipart form with an optional "photo" file, or a
// plain urlencoded form without one.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	photo, err := h.parseCreateRequest(r)
	if err != nil {
		h.Logger.Warn("CreateEmployee: unreadable form", "error", err)
		h.rejectCreate(w, r, FormFromRequest(r), internal.NewValidationFieldError("photo", uploadMessage(err), internal.ErrCodeValidationFailed))
		return
	}

	form := FormFromRequest(r)
	emp, err := h.Service.CreateEmployee(r.Context(), form, photo)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeValidation {
			h.rejectCreate(w, r, form, appErr)
			return
		}
		h.Logger.Error("CreateEmployee: service error", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}

	h.Logger.Info("CreateEmployee: employee created successfully", "employee_id", emp.ID)

	if h.WantsJSON(r) {
		h.WriteJSON(w, http.StatusCreated, emp)
		return
	}
	h.Redirect(w, r, "/employees")
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	emp, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if h.WantsJSON(r) {
		h.WriteJSON(w, http.StatusOK, emp)
		return
	}
	h.Render(w, r, http.StatusOK, "employee", emp.FullName, FormView{
		ID:       emp.ID,
		Employee: emp,
		Form:     FormFromEmployee(emp),
	})
}

// UpdateEmployee replaces the whole record and returns to the directory.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid form body", internal.ErrCodeValidationFailed).WithCause(err))
		return
	}

	form := FormFromRequest(r)
	emp, err := h.Service.ReplaceEmployee(r.Context(), id, form)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeValidation && !h.WantsJSON(r) {
			h.Render(w, r, http.StatusBadRequest, "employee", "Edit Employee", FormView{
				ID:     id,
				Form:   form,
				Errors: transport.FieldErrors(appErr),
			})
			return
		}
		h.Logger.Error("UpdateEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, r, err)
		return
	}

	if h.WantsJSON(r) {
		h.WriteJSON(w, http.StatusOK, emp)
		return
	}
	h.Redirect(w, r, "/employees")
}

func (h *Handler) parseCreateRequest(r *http.Request) (*PhotoUpload, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, r.ParseForm()
	}
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		return nil, err
	}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &PhotoUpload{Filename: header.Filename, Data: data}, nil
}

func (h *Handler) rejectCreate(w http.ResponseWriter, r *http.Request, form EmployeeForm, appErr *internal.AppError) {
	if h.WantsJSON(r) {
		h.HandleServiceError(w, r, appErr)
		return
	}
	h.Logger.Warn("CreateEmployee: rejected", "error", appErr.GetDetailedMessage())
	h.Render(w, r, http.StatusBadRequest, "employee_new", "New Employee", FormView{
		Form:   form,
		Errors: transport.FieldErrors(appErr),
	})
}

func uploadMessage(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit)
	}
	return "could not read the submitted form"
}
