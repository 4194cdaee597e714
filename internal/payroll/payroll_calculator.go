package payroll

import (
	"time"

	"go-payroll/internal/deduction"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

const (
	minPayrollYear     = 2000
	maxYearsAheadOfNow = 5
)

type Breakdown struct {
	BaseSalary       decimal.Decimal
	HouseAmount      decimal.Decimal
	TransportAmount  decimal.Decimal
	GrossSalary      decimal.Decimal
	EmployeeTax      decimal.Decimal
	Pension          decimal.Decimal
	MedicalInsurance decimal.Decimal
	OtherDeductions  decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetSalary        decimal.Decimal
}

// Compute derives every payslip amount from the base salary. Each amount is
// rounded to two digits before it is summed.
func Compute(baseSalary decimal.Decimal, table deduction.Table) Breakdown {
	base := money.Round(baseSalary)

	house := money.Percent(base, table.Rate(deduction.CategoryHousing))
	transport := money.Percent(base, table.Rate(deduction.CategoryTransport))
	gross := base.Add(house).Add(transport)

	tax := money.Percent(base, table.Rate(deduction.CategoryEmployeeTax))
	pension := money.Percent(base, table.Rate(deduction.CategoryPension))
	medical := money.Percent(base, table.Rate(deduction.CategoryMedicalInsurance))
	others := money.Percent(base, table.Rate(deduction.CategoryOthers))
	total := tax.Add(pension).Add(medical).Add(others)

	return Breakdown{
		BaseSalary:       base,
		HouseAmount:      house,
		TransportAmount:  transport,
		GrossSalary:      gross,
		EmployeeTax:      tax,
		Pension:          pension,
		MedicalInsurance: medical,
		OtherDeductions:  others,
		TotalDeductions:  total,
		NetSalary:        gross.Sub(total),
	}
}

func (b Breakdown) DeductionsExceedGross() bool {
	return b.TotalDeductions.GreaterThan(b.GrossSalary)
}

func (b Breakdown) toPayslip(employeeCode string, month, year int) Payslip {
	return Payslip{
		EmployeeCode:     employeeCode,
		Month:            month,
		Year:             year,
		BaseSalary:       b.BaseSalary,
		HouseAmount:      b.HouseAmount,
		TransportAmount:  b.TransportAmount,
		EmployeeTax:      b.EmployeeTax,
		Pension:          b.Pension,
		MedicalInsurance: b.MedicalInsurance,
		OtherDeductions:  b.OtherDeductions,
		GrossSalary:      b.GrossSalary,
		NetSalary:        b.NetSalary,
		Status:           StatusPending,
	}
}

// ValidatePeriod accepts months 1..12 and years from 2000 up to five years past now.
func ValidatePeriod(month, year int, now time.Time) error {
	if month < 1 || month > 12 {
		return payrollerrors.ErrInvalidPeriod
	}
	if year < minPayrollYear || year > now.Year()+maxYearsAheadOfNow {
		return payrollerrors.ErrInvalidPeriod
	}
	return nil
}
