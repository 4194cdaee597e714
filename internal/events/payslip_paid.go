package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const PayslipPaidTopic = "payroll.payslip.paid.v1"

const PayslipPaid = "payslip_paid"

type PayslipPaidEvent struct {
	EventType    string          `json:"event_type"`
	RequestID    string          `json:"request_id,omitempty"`
	PayslipID    uint            `json:"payslip_id"`
	EmployeeCode string          `json:"employee_code"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	NetSalary    decimal.Decimal `json:"net_salary"`
	OccurredAt   time.Time       `json:"occurred_at"`
}
