package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type PeriodRequest struct {
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

type ListPayslipsQuery struct {
	Month  int    `form:"month" binding:"required"`
	Year   int    `form:"year" binding:"required"`
	Status string `form:"status"`
}

type PayslipResponse struct {
	ID               uint            `json:"id"`
	EmployeeCode     string          `json:"employee_code"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	HouseAmount      decimal.Decimal `json:"house_amount"`
	TransportAmount  decimal.Decimal `json:"transport_amount"`
	GrossSalary      decimal.Decimal `json:"gross_salary"`
	EmployeeTax      decimal.Decimal `json:"employee_tax"`
	Pension          decimal.Decimal `json:"pension"`
	MedicalInsurance decimal.Decimal `json:"medical_insurance"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetSalary        decimal.Decimal `json:"net_salary"`
	Status           string          `json:"status"`
	PaidAt           *string         `json:"paid_at,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

func mapToResponse(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:               p.ID,
		EmployeeCode:     p.EmployeeCode,
		Month:            p.Month,
		Year:             p.Year,
		BaseSalary:       p.BaseSalary,
		HouseAmount:      p.HouseAmount,
		TransportAmount:  p.TransportAmount,
		GrossSalary:      p.GrossSalary,
		EmployeeTax:      p.EmployeeTax,
		Pension:          p.Pension,
		MedicalInsurance: p.MedicalInsurance,
		OtherDeductions:  p.OtherDeductions,
		TotalDeductions:  p.TotalDeductions(),
		NetSalary:        p.NetSalary,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}

func mapToListResponse(payslips []Payslip) []PayslipResponse {
	resp := make([]PayslipResponse, len(payslips))
	for i, p := range payslips {
		resp[i] = mapToResponse(p)
	}
	return resp
}
