package employee

import (
	"fmt"
	"io"

	"github.com/frahmantamala/hr-records/internal/core/common/datetime"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Employees"

var exportHeader = []interface{}{
	"ID", "Full name", "Email", "Phone", "Date of birth", "Job title",
	"Department", "Salary", "Start date", "End date",
}

// WriteDirectory writes the employees as a single-sheet xlsx workbook.
func WriteDirectory(w io.Writer, employees []*Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range employees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var salary interface{}
		if e.Salary != nil {
			salary = *e.Salary
		}
		row := []interface{}{
			e.ID, e.FullName, e.Email, e.Phone, datetime.FormatDate(e.DOB), e.JobTitle,
			e.Department, salary, datetime.FormatDate(e.StartDate), datetime.FormatDate(e.EndDate),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
