package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

// Payslip is unique per (employee_code, month, year). It is created once by
// generation and only ever moves from PENDING to PAID.
type Payslip struct {
	ID               uint            `gorm:"primaryKey"`
	EmployeeCode     string          `gorm:"size:32;not null;uniqueIndex:uq_payslip_employee_period,priority:1"`
	Month            int             `gorm:"not null;uniqueIndex:uq_payslip_employee_period,priority:2;index:idx_payslip_period_status,priority:1"`
	Year             int             `gorm:"not null;uniqueIndex:uq_payslip_employee_period,priority:3;index:idx_payslip_period_status,priority:2"`
	BaseSalary       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	HouseAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TransportAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	EmployeeTax      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Pension          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	MedicalInsurance decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	OtherDeductions  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GrossSalary      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	NetSalary        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status           string          `gorm:"size:16;not null;default:PENDING;index:idx_payslip_period_status,priority:3"`
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Payslip) TableName() string {
	return "payslips"
}

func (p Payslip) TotalDeductions() decimal.Decimal {
	return p.EmployeeTax.Add(p.Pension).Add(p.MedicalInsurance).Add(p.OtherDeductions)
}

func (p Payslip) IsPaid() bool {
	return p.Status == StatusPaid
}
