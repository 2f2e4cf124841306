package employee_test

import (
	"time"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	Expect(err).NotTo(HaveOccurred())
	return t
}

var _ = Describe("Compliance", func() {
	Describe("AgeOn", func() {
		It("should not count a year before the birthday is reached", func() {
			Expect(employee.AgeOn(day("1990-06-15"), day("2008-06-14"))).To(Equal(17))
			Expect(employee.AgeOn(day("1990-06-15"), day("2008-06-15"))).To(Equal(18))
		})

		It("should compare months before days", func() {
			Expect(employee.AgeOn(day("2000-12-01"), day("2018-11-30"))).To(Equal(17))
			Expect(employee.AgeOn(day("2000-01-31"), day("2018-02-01"))).To(Equal(18))
		})

		It("should handle leap day birthdays", func() {
			Expect(employee.AgeOn(day("2000-02-29"), day("2018-02-28"))).To(Equal(17))
			Expect(employee.AgeOn(day("2000-02-29"), day("2018-03-01"))).To(Equal(18))
		})
	})

	Describe("CheckAge", func() {
		now := time.Date(2025, 3, 6, 12, 0, 0, 0, time.UTC)

		It("should pass an adult", func() {
			dob := day("2007-03-06")
			Expect(employee.CheckAge(&dob, now).Passed).To(BeTrue())
		})

		It("should fail someone one day short of eighteen", func() {
			dob := day("2007-03-07")
			result := employee.CheckAge(&dob, now)
			Expect(result.Passed).To(BeFalse())
			Expect(result.Rule).To(Equal(employee.RuleMinimumAge))
			Expect(result.Code).To(Equal(internal.ErrCodeUnderageEmployee))
			Expect(result.Reason).To(ContainSubstring("at least 18"))
		})

		It("should fail when no date of birth is given", func() {
			result := employee.CheckAge(nil, now)
			Expect(result.Passed).To(BeFalse())
			Expect(result.Err()).To(HaveOccurred())
		})
	})

	Describe("CheckSalary", func() {
		It("should accept the minimum wage exactly", func() {
			salary, result := employee.CheckSalary("100")
			Expect(result.Passed).To(BeTrue())
			Expect(salary).To(Equal(100.0))
			Expect(result.Err()).To(BeNil())
		})

		It("should reject a salary below the minimum wage", func() {
			_, result := employee.CheckSalary("99.99")
			Expect(result.Passed).To(BeFalse())
			Expect(result.Code).To(Equal(internal.ErrCodeSalaryBelowMinimum))
		})

		DescribeTable("should reject values that are not numbers",
			func(raw string) {
				_, result := employee.CheckSalary(raw)
				Expect(result.Passed).To(BeFalse())
				Expect(result.Code).To(Equal(internal.ErrCodeInvalidSalary))
			},
			Entry("empty", ""),
			Entry("text", "lots"),
			Entry("NaN", "NaN"),
			Entry("infinity", "+Inf"),
		)
	})

	Describe("Evaluate", func() {
		It("should return nil when every rule passed", func() {
			dob := day("1990-01-01")
			_, salary := employee.CheckSalary("500")
			Expect(employee.Evaluate(employee.CheckAge(&dob, time.Now()), salary)).To(BeNil())
		})

		It("should report every failed rule", func() {
			dob := day("2020-01-01")
			_, salary := employee.CheckSalary("10")
			appErr := employee.Evaluate(employee.CheckAge(&dob, time.Now()), salary)
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(internal.HasCode(appErr, internal.ErrCodeUnderageEmployee)).To(BeTrue())
			Expect(internal.HasCode(appErr, internal.ErrCodeSalaryBelowMinimum)).To(BeTrue())
		})
	})
})
