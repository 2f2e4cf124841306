package timesheet_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	"github.com/frahmantamala/hr-records/internal/database"
	"github.com/frahmantamala/hr-records/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/hr-records/internal/timesheet/postgres"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timesheet Handler Integration", func() {
	var (
		sqlDB  *sqlx.DB
		repo   timesheet.Repository
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error
		sqlDB, err = sqlx.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		_, err = sqlDB.Exec(`
CREATE TABLE employees (id INTEGER PRIMARY KEY AUTOINCREMENT, full_name TEXT NOT NULL);
CREATE TABLE timesheets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id INTEGER NOT NULL REFERENCES employees(id),
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP NOT NULL
);
INSERT INTO employees (full_name) VALUES ('Ada Lovelace'), ('Grace Hopper');`)
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = timesheetPostgres.NewTimesheetRepository(database.NewStore(sqlDB))
		service := timesheet.NewService(repo, slogger)
		handler := timesheet.NewHandler(transport.NewBaseHandler(slogger), service)

		_, err = service.CreateTimesheet(context.Background(), timesheet.TimesheetForm{
			EmployeeID: "1",
			StartTime:  "2025-03-06T08:00",
			EndTime:    "2025-03-06T16:00",
		})
		Expect(err).NotTo(HaveOccurred())

		router = chi.NewRouter()
		router.Get("/timesheets", handler.ListTimesheets)
		router.Get("/timesheets/new", handler.NewTimesheetForm)
		router.Post("/timesheets/new", handler.CreateTimesheet)
		router.Get("/timesheets/{id}", handler.GetTimesheet)
		router.Post("/timesheets/{id}", handler.UpdateTimesheet)
	})

	AfterEach(func() {
		Expect(sqlDB.Close()).To(Succeed())
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	postForm := func(path string, values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(req)
	}

	Describe("GET /timesheets", func() {
		It("should render the table view by default", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/timesheets", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Ada Lovelace"))
			Expect(w.Body.String()).To(ContainSubstring("2025-03-06 08:00"))
		})

		It("should render the calendar view", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/timesheets?view=calendar", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Thu, 06 Mar 2025"))
			Expect(w.Body.String()).To(ContainSubstring("2025-03-06T08:00:00"))
		})

		It("should answer the calendar as JSON", func() {
			req := httptest.NewRequest(http.MethodGet, "/timesheets?view=calendar", nil)
			req.Header.Set("Accept", "application/json")
			w := serve(req)

			var view timesheet.ListView
			Expect(json.NewDecoder(w.Body).Decode(&view)).To(Succeed())
			Expect(view.View).To(Equal(timesheet.ViewCalendar))
			Expect(view.Calendar).To(HaveLen(1))
			Expect(view.Calendar[0].Entries[0].End).To(Equal("2025-03-06T16:00:00"))
		})
	})

	Describe("GET /timesheets/new", func() {
		It("should offer every employee", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/timesheets/new", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Grace Hopper"))
		})
	})

	Describe("POST /timesheets/new", func() {
		It("should create the timesheet and redirect to the list", func() {
			w := postForm("/timesheets/new", url.Values{
				"employee_id": {"2"},
				"start_time":  {"2025-03-07T09:15"},
				"end_time":    {"2025-03-07T17:45"},
			})
			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/timesheets"))

			rows, err := repo.GetAll(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[1].FullName).To(Equal("Grace Hopper"))
			Expect(rows[1].StartTime.Equal(at("2025-03-07 09:15:00"))).To(BeTrue())
		})

		It("should re-render the form when a time is missing", func() {
			w := postForm("/timesheets/new", url.Values{"employee_id": {"2"}, "start_time": {"2025-03-07T09:15"}})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("end_time is required"))
		})
	})

	Describe("GET /timesheets/{id}", func() {
		It("should render the edit form with minute precision", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/timesheets/1", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`value="2025-03-06T08:00"`))
			Expect(w.Body.String()).To(ContainSubstring("Grace Hopper"))
		})

		It("should return 404 for an unknown id", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/timesheets/77", nil))
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("POST /timesheets/{id}", func() {
		It("should overwrite the record and redirect to its detail page", func() {
			w := postForm("/timesheets/1", url.Values{
				"employee_id": {"2"},
				"start_time":  {"2025-03-06T09:00"},
				"end_time":    {"2025-03-06T18:00"},
			})
			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/timesheets/1"))

			row, err := repo.GetByID(context.Background(), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.EmployeeID).To(Equal(int64(2)))
			Expect(row.EndTime.Equal(at("2025-03-06 18:00:00"))).To(BeTrue())
		})

		It("should reject a missing time and leave the record alone", func() {
			w := postForm("/timesheets/1", url.Values{"employee_id": {"2"}, "end_time": {"2025-03-06T18:00"}})
			Expect(w.Code).To(Equal(http.StatusBadRequest))

			row, err := repo.GetByID(context.Background(), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.EmployeeID).To(Equal(int64(1)))
		})

		It("should return 404 for an unknown id", func() {
			w := postForm("/timesheets/77", url.Values{
				"employee_id": {"1"},
				"start_time":  {"2025-03-06T09:00"},
				"end_time":    {"2025-03-06T18:00"},
			})
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
