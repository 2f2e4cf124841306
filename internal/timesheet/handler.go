package timesheet

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/transport"
)

type ServiceAPI interface {
	ListTimesheets(ctx context.Context) ([]*Timesheet, error)
	GetTimesheet(ctx context.Context, id int64) (*Timesheet, error)
	ListEmployeeOptions(ctx context.Context) ([]EmployeeOption, error)
	CreateTimesheet(ctx context.Context, form TimesheetForm) (*Timesheet, error)
	ReplaceTimesheet(ctx context.Context, id int64, form TimesheetForm) (*Timesheet, error)
}

const (
	ViewTable    = "table"
	ViewCalendar = "calendar"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

type ListView struct {
	View       string        `json:"view"`
	Timesheets []*Timesheet  `json:"timesheets,omitempty"`
	Calendar   []CalendarDay `json:"calendar,omitempty"`
}

type FormView struct {
	ID        int64             `json:"id,omitempty"`
	Timesheet *Timesheet        `json:"timesheet,omitempty"`
	Form      TimesheetForm     `json:"form"`
	Employees []EmployeeOption  `json:"employees"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// ListTimesheets renders the same rows as a table or, with view=calendar,
// bucketed by day.
func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	timesheets, err := h.Service.ListTimesheets(r.Context())
	if err != nil {
		h.Logger.Error("ListTimesheets: service error", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}

	view := ListView{View: ViewTable, Timesheets: timesheets}
	if strings.EqualFold(r.URL.Query().Get("view"), ViewCalendar) {
		view = ListView{View: ViewCalendar, Calendar: BuildCalendar(timesheets)}
	}

	if h.WantsJSON(r) {
		h.WriteJSON(w, http.StatusOK, view)
		return
	}
	h.Render(w, r, http.StatusOK, "timesheets", "Timesheets", view)
}

func (h *Handler) NewTimesheetForm(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployeeOptions(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	form := TimesheetForm{EmployeeID: r.URL.Query().Get("employee_id")}
	if h.WantsJSON(r) {
		h.WriteJSON(w, http.StatusOK, FormView{Form: form, Employees: employees})
		return
	}
	h.Render(w, r, http.StatusOK, "timesheet_new", "New Timesheet", FormView{Form: form, Employees: employees})
}

func (h *Handler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid form body", internal.ErrCodeValidationFailed).WithCause(err))
		return
	}

	form := FormFromRequest(r)
	ts, err := h.Service.CreateTimesheet(r.Context(), form)
	if err != nil {
		if h.isFormError(r, err) {
			h.renderForm(w, r, http.StatusBadRequest, "timesheet_new", "New Timesheet", FormView{Form: form, Errors: transport.FieldErrors(err)})
			return
		}
		h.Logger.Error("CreateTimesheet: service error", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}

	h.Logger.Info("CreateTimesheet: timesheet created successfully", "timesheet_id", ts.ID)

	if h.WantsJSON(r) {
		h.WriteJSON(w, http.StatusCreated, ts)
		return
	}
	h.Redirect(w, r, "/timesheets")
}

func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	ts, err := h.Service.GetTimesheet(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	if h.WantsJSON(r) {
		h.WriteJSON(w, http.StatusOK, ts)
		return
	}
	h.renderForm(w, r, http.StatusOK, "timesheet", fmt.Sprintf("Timesheet #%d", id), FormView{
		ID:        id,
		Timesheet: ts,
		Form:      FormFromTimesheet(ts),
	})
}

// UpdateTimesheet replaces the record and returns to its own detail page.
func (h *Handler) UpdateTimesheet(w http.ResponseWriter, r *http.Request) {
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
	ts, err := h.Service.ReplaceTimesheet(r.Context(), id, form)
	if err != nil {
		if h.isFormError(r, err) {
			h.renderForm(w, r, http.StatusBadRequest, "timesheet", fmt.Sprintf("Timesheet #%d", id), FormView{
				ID:     id,
				Form:   form,
				Errors: transport.FieldErrors(err),
			})
			return
		}
		h.Logger.Error("UpdateTimesheet: service error", "error", err, "timesheet_id", id)
		h.HandleServiceError(w, r, err)
		return
	}

	if h.WantsJSON(r) {
		h.WriteJSON(w, http.StatusOK, ts)
		return
	}
	h.Redirect(w, r, fmt.Sprintf("/timesheets/%d", id))
}

func (h *Handler) isFormError(r *http.Request, err error) bool {
	appErr, ok := internal.IsAppError(err)
	return ok && appErr.Type == internal.ErrorTypeValidation && !h.WantsJSON(r)
}

// renderForm loads the roster and renders a timesheet form page.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, name, title string, view FormView) {
	employees, err := h.Service.ListEmployeeOptions(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	view.Employees = employees
	h.Render(w, r, status, name, title, view)
}
