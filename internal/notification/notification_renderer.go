package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"go-payroll/internal/employee"
	notificationerrors "go-payroll/internal/notification/errors"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/money"
)

const TemplatePayslip = "payslip"

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a template id and its variables into message content.
type Renderer interface {
	Render(templateID string, data any) (string, error)
}

type TemplateRenderer struct {
	templates *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: tmpl}, nil
}

func (r *TemplateRenderer) Render(templateID string, data any) (string, error) {
	tmpl := r.templates.Lookup(templateID + ".html")
	if tmpl == nil {
		return "", notificationerrors.ErrUnknownTemplate
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", notificationerrors.ErrRenderFailed.WithCause(err)
	}
	return buf.String(), nil
}

// PayslipView holds the preformatted values of the payslip template.
type PayslipView struct {
	EmployeeName     string
	EmployeeCode     string
	Department       string
	Position         string
	Month            int
	MonthName        string
	Year             int
	BaseSalary       string
	HouseAmount      string
	TransportAmount  string
	GrossSalary      string
	EmployeeTax      string
	Pension          string
	MedicalInsurance string
	OtherDeductions  string
	TotalDeductions  string
	NetSalary        string
	HasAttachment    bool
}

func NewPayslipView(empl employee.Employee, employment *employee.Employment, p payroll.Payslip) PayslipView {
	view := PayslipView{
		EmployeeName:     empl.FullName(),
		EmployeeCode:     p.EmployeeCode,
		Department:       "N/A",
		Position:         "N/A",
		Month:            p.Month,
		MonthName:        time.Month(p.Month).String(),
		Year:             p.Year,
		BaseSalary:       money.Format(p.BaseSalary),
		HouseAmount:      money.Format(p.HouseAmount),
		TransportAmount:  money.Format(p.TransportAmount),
		GrossSalary:      money.Format(p.GrossSalary),
		EmployeeTax:      money.Format(p.EmployeeTax),
		Pension:          money.Format(p.Pension),
		MedicalInsurance: money.Format(p.MedicalInsurance),
		OtherDeductions:  money.Format(p.OtherDeductions),
		TotalDeductions:  money.Format(p.TotalDeductions()),
		NetSalary:        money.Format(p.NetSalary),
	}
	if employment != nil {
		if employment.Department != "" {
			view.Department = employment.Department
		}
		if employment.Position != "" {
			view.Position = employment.Position
		}
	}
	return view
}

// Subject is the mail subject for a period, e.g. "Salary Credited - 6/2025".
func Subject(month, year int) string {
	return fmt.Sprintf("Salary Credited - %d/%d", month, year)
}

// AttachmentName is the file name of the payslip document sent with the mail.
func AttachmentName(employeeCode string, month, year int) string {
	return fmt.Sprintf("payslip_%s_%d_%d.pdf", employeeCode, month, year)
}
