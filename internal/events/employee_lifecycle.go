package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

const (
	EmployeeCreated  = "employee_created"
	EmployeeUpdated  = "employee_updated"
	EmployeeDisabled = "employee_disabled"
)

type EmployeeLifecycleEvent struct {
	EventType    string             `json:"event_type"`
	RequestID    string             `json:"request_id,omitempty"`
	EmployeeCode string             `json:"employee_code"`
	FirstName    string             `json:"first_name"`
	LastName     string             `json:"last_name"`
	Email        string             `json:"email"`
	Mobile       string             `json:"mobile,omitempty"`
	Employment   *EmploymentPayload `json:"employment,omitempty"`
	OccurredAt   time.Time          `json:"occurred_at"`
}

type EmploymentPayload struct {
	Code        string          `json:"code"`
	Department  string          `json:"department"`
	Position    string          `json:"position"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	Status      string          `json:"status"`
	JoiningDate *time.Time      `json:"joining_date,omitempty"`
}
