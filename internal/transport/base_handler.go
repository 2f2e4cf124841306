package transport

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
	Views  *Views
}

// NewBaseHandler creates a base handler with logger and the embedded views
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg, Views: MustLoadViews()}
}

// Page is what every view receives; Data holds the page-specific values.
type Page struct {
	Title     string
	Nav       string
	CSRFField template.HTML
	Data      interface{}
}

// Render executes the named page inside the layout.
func (h *BaseHandler) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}) {
	page := Page{
		Title:     title,
		Nav:       navFor(r.URL.Path),
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}

	body, err := h.Views.Execute(name, page)
	if err != nil {
		h.Logger.Error("failed to render view", "error", err, "view", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.Logger.Error("failed to write view", "error", err, "view", name)
	}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]interface{}{
		"code":    status,
		"message": message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// Redirect answers a successful form post with 303 See Other.
func (h *BaseHandler) Redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// WantsJSON is true when the client asked for a JSON rendering.
func (h *BaseHandler) WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// HandleServiceError maps an error onto its status code and renders it as
// JSON or as the error page.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("internal server error", err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "error", appErr.GetDetailedMessage(), "path", r.URL.Path)
	} else {
		h.Logger.Warn("request rejected", "error", appErr.GetDetailedMessage(), "path", r.URL.Path)
	}

	if h.WantsJSON(r) {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}

	h.Render(w, r, appErr.StatusCode, "error", http.StatusText(appErr.StatusCode), ErrorView{
		Status:  appErr.StatusCode,
		Message: appErr.Message,
		Fields:  FieldErrors(appErr),
	})
}

// ParseID reads the {id} path parameter.
func (h *BaseHandler) ParseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError("id", "invalid id "+strconv.Quote(raw), internal.ErrCodeValidationFailed)
	}
	return id, nil
}

type ErrorView struct {
	Status  int
	Message string
	Fields  map[string]string
}

// FieldErrors flattens validation details into field → message for forms.
func FieldErrors(err error) map[string]string {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return nil
	}
	details, ok := appErr.Details.(internal.ValidationErrors)
	if !ok {
		return nil
	}
	fields := make(map[string]string, len(details.Errors))
	for _, d := range details.Errors {
		if _, seen := fields[d.Field]; !seen {
			fields[d.Field] = d.Message
		}
	}
	return fields
}

func navFor(path string) string {
	switch {
	case strings.HasPrefix(path, "/timesheets"):
		return "timesheets"
	case strings.HasPrefix(path, "/employees"):
		return "employees"
	}
	return ""
}
