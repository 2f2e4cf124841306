package employee_test

import (
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee", func() {
	var directory []*employee.Employee

	BeforeEach(func() {
		directory = []*employee.Employee{
			{ID: 1, FullName: "Ada Lovelace", Department: "Engineering", Email: "ada@example.com", Phone: "5550100100"},
			{ID: 2, FullName: "Grace Hopper", Department: "Navy", Email: "grace@example.com"},
			{ID: 3, FullName: "Alan Turing", Department: "Research", Phone: "5550199999"},
		}
	})

	Describe("Filter", func() {
		It("should return everything for an empty query", func() {
			Expect(employee.Filter(directory, "  ")).To(HaveLen(3))
		})

		It("should match names case-insensitively", func() {
			result := employee.Filter(directory, "LOVE")
			Expect(result).To(HaveLen(1))
			Expect(result[0].ID).To(Equal(int64(1)))
		})

		It("should match department, email and phone", func() {
			Expect(employee.Filter(directory, "navy")).To(HaveLen(1))
			Expect(employee.Filter(directory, "@example.com")).To(HaveLen(2))
			Expect(employee.Filter(directory, "0199")).To(HaveLen(1))
		})

		It("should keep the original order", func() {
			result := employee.Filter(directory, "a")
			ids := make([]int64, len(result))
			for i, e := range result {
				ids[i] = e.ID
			}
			Expect(ids).To(Equal([]int64{1, 2, 3}))
		})

		It("should return an empty list when nothing matches", func() {
			Expect(employee.Filter(directory, "zzz")).To(BeEmpty())
		})
	})

	Describe("IsCurrent", func() {
		It("should treat a missing end date as open-ended", func() {
			Expect(directory[0].IsCurrent(time.Now())).To(BeTrue())
		})

		It("should be false once the end date has passed", func() {
			ended := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
			directory[0].EndDate = &ended
			Expect(directory[0].IsCurrent(time.Now())).To(BeFalse())
		})
	})

	Describe("PhotoURL", func() {
		It("should make the stored path absolute", func() {
			photo := "uploads/1-ada.png"
			directory[0].Photo = &photo
			Expect(directory[0].PhotoURL()).To(Equal("/uploads/1-ada.png"))
			Expect(directory[1].PhotoURL()).To(BeEmpty())
		})
	})

	Describe("EmployeeForm", func() {
		It("should round-trip an employee through the form", func() {
			salary := 2500.5
			dob := time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC)
			directory[0].Salary = &salary
			directory[0].DOB = &dob

			form := employee.FormFromEmployee(directory[0])
			Expect(form.DOB).To(Equal("1990-12-10"))
			Expect(form.Salary).To(Equal("2500.5"))
			Expect(form.EndDate).To(BeEmpty())

			emp, err := form.ToEmployee()
			Expect(err).NotTo(HaveOccurred())
			Expect(emp.FullName).To(Equal("Ada Lovelace"))
			Expect(*emp.Salary).To(Equal(2500.5))
			Expect(emp.DOB.Equal(dob)).To(BeTrue())
			Expect(emp.EndDate).To(BeNil())
		})

		It("should reject a malformed date", func() {
			appErr := employee.EmployeeForm{FullName: "Ada", StartDate: "01/02/2020"}.Validate()
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.GetDetailedMessage()).To(ContainSubstring("start_date"))
		})

		It("should require a full name", func() {
			Expect(employee.EmployeeForm{}.Validate()).NotTo(BeNil())
		})

		It("should refuse a salary that is not finite", func() {
			for _, raw := range []string{"NaN", "Inf", "+Inf"} {
				form := employee.EmployeeForm{FullName: "Ada", Salary: raw}
				Expect(form.Validate()).NotTo(BeNil())

				_, err := form.ToEmployee()
				Expect(err).To(HaveOccurred())
				Expect(internal.HasCode(err, internal.ErrCodeInvalidSalary)).To(BeTrue())
			}
		})
	})
})
