package employee_test

import (
	"bytes"
	"time"

	"github.com/frahmantamala/hr-records/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("WriteDirectory", func() {
	It("should write a header row and one row per employee", func() {
		salary := 2500.5
		start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		employees := []*employee.Employee{
			{ID: 7, FullName: "Ada Lovelace", Department: "Engineering", Salary: &salary, StartDate: &start},
			{ID: 9, FullName: "Alan Turing"},
		}

		var buf bytes.Buffer
		Expect(employee.WriteDirectory(&buf, employees)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Employees")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][0]).To(Equal("ID"))
		Expect(rows[0][1]).To(Equal("Full name"))
		Expect(rows[1][0]).To(Equal("7"))
		Expect(rows[1][1]).To(Equal("Ada Lovelace"))
		Expect(rows[1][7]).To(Equal("2500.5"))
		Expect(rows[1][8]).To(Equal("2020-01-01"))
		Expect(rows[2][1]).To(Equal("Alan Turing"))
	})

	It("should write only the header for an empty directory", func() {
		var buf bytes.Buffer
		Expect(employee.WriteDirectory(&buf, nil)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Employees")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})
})
