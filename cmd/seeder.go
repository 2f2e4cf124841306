package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/hr-records/internal/core/common/datetime"
	"github.com/frahmantamala/hr-records/internal/database"
	"github.com/frahmantamala/hr-records/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-records/internal/employee/postgres"
	"github.com/frahmantamala/hr-records/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/hr-records/internal/timesheet/postgres"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample employees and timesheets for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		lg := logger.LoggerWrapper()

		db, err := database.Open(cfg.Database, lg)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		ctx := context.Background()

		if clearData {
			// timesheets reference employees
			for _, table := range []string{"timesheets", "employees"} {
				if err := db.ORM.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
				fmt.Println("Cleared", table)
			}
		}

		var existing int64
		if err := db.ORM.WithContext(ctx).Table("employees").Count(&existing).Error; err != nil {
			log.Fatalf("failed to count employees: %v", err)
		}
		if existing > 0 {
			fmt.Printf("employees table already has %d rows; run with --clear to reseed\n", existing)
			return
		}

		employees := employee.NewService(employeePostgres.NewEmployeeRepository(db.ORM), nil, lg).
			WithQueryTimeout(cfg.Database.QueryTimeout)
		timesheets := timesheet.NewService(timesheetPostgres.NewTimesheetRepository(db.Store), lg).
			WithQueryTimeout(cfg.Database.QueryTimeout)

		var ids []int64
		for _, form := range sampleEmployees {
			emp, err := employees.ImportEmployee(ctx, form)
			if err != nil {
				log.Fatalf("failed to seed employee %s: %v", form.FullName, err)
			}
			ids = append(ids, emp.ID)
			fmt.Println("Seeded employee:", emp.FullName)
		}

		// an eight hour shift per employee on each of the last three weekdays
		day := time.Now().Truncate(24 * time.Hour)
		seeded := 0
		for d := 0; seeded < 3*len(ids); d++ {
			date := day.AddDate(0, 0, -d)
			if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
			for i, id := range ids {
				start := date.Add(time.Duration(8+i%2) * time.Hour)
				form := timesheet.TimesheetForm{
					EmployeeID: fmt.Sprint(id),
					StartTime:  start.Format(datetime.InputLayout),
					EndTime:    start.Add(8 * time.Hour).Format(datetime.InputLayout),
				}
				if _, err := timesheets.CreateTimesheet(ctx, form); err != nil {
					log.Fatalf("failed to seed timesheet for employee %d: %v", id, err)
				}
				seeded++
			}
		}
		fmt.Printf("Seeded %d timesheets\n", seeded)
	},
}

var sampleEmployees = []employee.EmployeeForm{
	{
		FullName:   "Fadhil Rahman",
		Email:      "fadhil@mail.com",
		Phone:      "+62 812 0000 0001",
		DOB:        "1990-04-12",
		JobTitle:   "Backend Engineer",
		Department: "Engineering",
		Salary:     "4200",
		StartDate:  "2021-02-01",
	},
	{
		FullName:   "Padil Admin",
		Email:      "padil@mail.com",
		Phone:      "+62 812 0000 0002",
		DOB:        "1985-11-30",
		JobTitle:   "HR Manager",
		Department: "People",
		Salary:     "5100",
		StartDate:  "2019-07-15",
	},
	{
		FullName:   "Sari Wulandari",
		Email:      "sari@mail.com",
		Phone:      "+62 812 0000 0003",
		DOB:        "1996-01-05",
		JobTitle:   "Accountant",
		Department: "Finance",
		Salary:     "3800",
		StartDate:  "2022-09-01",
		EndDate:    "2024-03-31",
	},
}
