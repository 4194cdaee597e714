package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notAvailable = "N/A"

// DocumentGenerator renders the fixed-layout salary statement of a payslip.
type DocumentGenerator struct {
	repo      Repository
	employees EmploymentDirectory
	now       func() time.Time
	logger    *zap.Logger
}

func NewDocumentGenerator(repo Repository, employees EmploymentDirectory, logger ...*zap.Logger) *DocumentGenerator {
	l := zap.L().Named("payroll.document")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.document")
	}
	return &DocumentGenerator{
		repo:      repo,
		employees: employees,
		now:       time.Now,
		logger:    l,
	}
}

// RenderDocument loads the payslip for the period and renders it as PDF.
// Missing employee or employment data is shown as N/A instead of failing.
func (g *DocumentGenerator) RenderDocument(ctx context.Context, employeeCode string, month, year int) ([]byte, error) {
	payslip, err := g.repo.FindByEmployeeAndPeriod(ctx, employeeCode, month, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayslipNotFound
		}
		return nil, err
	}

	empl, err := g.employees.GetByCode(ctx, employeeCode)
	if err != nil {
		if !errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
			return nil, err
		}
		g.logger.Warn("payslip document without employee record",
			zap.String("employee_code", employeeCode),
		)
		empl = nil
	}

	employment, err := g.employees.GetEmployment(ctx, employeeCode)
	if err != nil {
		if !errors.Is(err, employeeerrors.ErrEmploymentNotFound) {
			return nil, err
		}
		g.logger.Warn("payslip document without employment record",
			zap.String("employee_code", employeeCode),
		)
		employment = nil
	}

	return g.Render(*payslip, empl, employment), nil
}

// Render lays out the statement. empl and employment may be nil.
func (g *DocumentGenerator) Render(payslip Payslip, empl *employee.Employee, employment *employee.Employment) []byte {
	var page pdfPage

	page.title("SALARY PAYSLIP")
	page.row("Pay Period", fmt.Sprintf("%s %d", time.Month(payslip.Month), payslip.Year))

	page.heading("Employee Information")
	page.row("Employee Code", payslip.EmployeeCode)
	if empl != nil {
		page.row("Name", empl.FullName())
		page.row("Email", orNA(empl.Email))
	} else {
		page.row("Name", notAvailable)
		page.row("Email", notAvailable)
	}

	page.heading("Employment Details")
	baseSalary := decimal.Zero
	if employment != nil {
		page.row("Department", orNA(employment.Department))
		page.row("Position", orNA(employment.Position))
		baseSalary = employment.BaseSalary
	} else {
		page.row("Department", notAvailable)
		page.row("Position", notAvailable)
	}
	if !payslip.BaseSalary.IsZero() {
		baseSalary = payslip.BaseSalary
	}

	page.heading("Earnings")
	page.row("Base Salary", money.Format(baseSalary))
	page.row("Housing Allowance", money.Format(payslip.HouseAmount))
	page.row("Transport Allowance", money.Format(payslip.TransportAmount))
	page.row("Gross Salary", money.Format(payslip.GrossSalary))

	page.heading("Deductions")
	page.row("Employee Tax", money.Format(payslip.EmployeeTax))
	page.row("Pension", money.Format(payslip.Pension))
	page.row("Medical Insurance", money.Format(payslip.MedicalInsurance))
	page.row("Other Deductions", money.Format(payslip.OtherDeductions))
	page.row("Total Deductions", money.Format(payslip.TotalDeductions()))

	page.heading("Payment Summary")
	page.row("Net Salary", money.Format(payslip.NetSalary))
	page.row("Status", payslip.Status)
	if payslip.PaidAt != nil {
		page.row("Paid On", payslip.PaidAt.Format("02 Jan 2006"))
	}

	page.heading("")
	page.text("Generated on " + g.now().Format("02 Jan 2006 15:04"))

	return page.bytes()
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}
