package employee_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-records/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-records/internal/employee/postgres"
	"github.com/frahmantamala/hr-records/internal/storage"
	"github.com/frahmantamala/hr-records/internal/transport"
	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func formBody(values map[string]string) io.Reader {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	return strings.NewReader(form.Encode())
}

var _ = Describe("Employee Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    employee.Repository
		fs      afero.Fs
		router  *chi.Mux
		slogger *slog.Logger
	)

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&employeeDatamodel.Employee{})).To(Succeed())

		fs = afero.NewMemMapFs()
		repo = employeePostgres.NewEmployeeRepository(db)
		photos := storage.NewPhotoStore(fs, "uploads", slogger)
		service := employee.NewService(repo, photos, slogger)
		handler := employee.NewHandler(transport.NewBaseHandler(slogger), service, 1<<20)

		router = chi.NewRouter()
		router.Get("/employees", handler.ListEmployees)
		router.Get("/employees/export", handler.ExportEmployees)
		router.Get("/employees/new", handler.NewEmployeeForm)
		router.Post("/employees/new", handler.CreateEmployee)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Post("/employees/{id}", handler.UpdateEmployee)

		for _, name := range []string{"Ada Lovelace", "Grace Hopper"} {
			Expect(repo.Create(context.Background(), &employeeDatamodel.Employee{
				FullName:   name,
				Department: "Engineering",
			})).To(Succeed())
		}
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	postForm := func(path string, values map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, formBody(values))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(req)
	}

	Describe("GET /employees", func() {
		It("should render every employee", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/employees", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("text/html"))
			Expect(w.Body.String()).To(ContainSubstring("Ada Lovelace"))
			Expect(w.Body.String()).To(ContainSubstring("Grace Hopper"))
		})

		It("should filter by the query parameter", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/employees?q=GRACE", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Grace Hopper"))
			Expect(w.Body.String()).NotTo(ContainSubstring("Ada Lovelace"))
		})

		It("should answer JSON when asked", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			req.Header.Set("Accept", "application/json")
			w := serve(req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var view employee.ListView
			Expect(json.NewDecoder(w.Body).Decode(&view)).To(Succeed())
			Expect(view.Employees).To(HaveLen(2))
		})
	})

	Describe("GET /employees/export", func() {
		It("should download a spreadsheet", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/employees/export", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring(".xlsx"))
			Expect(w.Body.Len()).To(BeNumerically(">", 0))
		})
	})

	Describe("GET /employees/new", func() {
		It("should render the creation form", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/employees/new", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`name="photo"`))
		})
	})

	Describe("POST /employees/new", func() {
		valid := map[string]string{
			"full_name":  "Alan Turing",
			"email":      "alan@example.com",
			"phone":      "5550199999",
			"dob":        "1990-06-23",
			"job_title":  "Researcher",
			"department": "Research",
			"salary":     "4200",
			"start_date": "2021-02-01",
		}

		It("should create the employee and redirect to the list", func() {
			w := postForm("/employees/new", valid)
			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/employees"))

			employees, err := repo.GetAll(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(employees).To(HaveLen(3))
			Expect(employees[2].FullName).To(Equal("Alan Turing"))
			Expect(employees[2].Email).To(Equal("alan@example.com"))
			Expect(*employees[2].Salary).To(Equal(4200.0))
			Expect(employees[2].Photo).To(BeNil())
		})

		It("should store an uploaded photo", func() {
			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			for k, v := range valid {
				Expect(mw.WriteField(k, v)).To(Succeed())
			}
			part, err := mw.CreateFormFile("photo", "alan.png")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
			Expect(err).NotTo(HaveOccurred())
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/employees/new", &body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			w := serve(req)
			Expect(w.Code).To(Equal(http.StatusSeeOther))

			employees, err := repo.GetAll(context.Background())
			Expect(err).NotTo(HaveOccurred())
			created := employees[len(employees)-1]
			Expect(created.Photo).NotTo(BeNil())
			Expect(*created.Photo).To(HavePrefix("uploads/"))
			Expect(*created.Photo).To(HaveSuffix("-alan.png"))

			exists, err := afero.Exists(fs, *created.Photo)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("should re-render the form for an under-age employee", func() {
			values := map[string]string{}
			for k, v := range valid {
				values[k] = v
			}
			values["dob"] = "2015-01-01"

			w := postForm("/employees/new", values)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("at least 18"))
			Expect(w.Body.String()).To(ContainSubstring("Alan Turing"))

			employees, err := repo.GetAll(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(employees).To(HaveLen(2))
		})

		It("should return the rejection as JSON when asked", func() {
			values := map[string]string{}
			for k, v := range valid {
				values[k] = v
			}
			values["salary"] = "50"

			req := httptest.NewRequest(http.MethodPost, "/employees/new", formBody(values))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("Accept", "application/json")
			w := serve(req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("SALARY_BELOW_MINIMUM"))
		})
	})

	Describe("GET /employees/{id}", func() {
		It("should render the edit form", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/employees/1", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`value="Ada Lovelace"`))
		})

		It("should return 404 for an unknown id", func() {
			w := serve(httptest.NewRequest(http.MethodGet, "/employees/999", nil))
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return a JSON not-found body when asked", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees/999", nil)
			req.Header.Set("Accept", "application/json")
			w := serve(req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("EMPLOYEE_NOT_FOUND"))
		})
	})

	Describe("POST /employees/{id}", func() {
		It("should overwrite the record and redirect to the list", func() {
			w := postForm("/employees/1", map[string]string{
				"full_name":  "Ada King",
				"department": "Research",
				"end_date":   "",
			})
			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/employees"))

			stored, err := repo.GetByID(context.Background(), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.FullName).To(Equal("Ada King"))
			Expect(stored.Department).To(Equal("Research"))
			Expect(stored.EndDate).To(BeNil())
		})

		It("should return 404 for an unknown id", func() {
			w := postForm("/employees/999", map[string]string{"full_name": "Nobody"})
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should reject a malformed date", func() {
			w := postForm("/employees/1", map[string]string{"full_name": "Ada", "dob": "yesterday"})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
