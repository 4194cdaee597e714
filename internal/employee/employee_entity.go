package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "ACTIVE"
	StatusDisabled = "DISABLED"

	EmploymentStatusActive   = "ACTIVE"
	EmploymentStatusInactive = "INACTIVE"
)

type Employee struct {
	Code      string `gorm:"primaryKey;size:32"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Email     string `gorm:"size:255"`
	Mobile    *string
	Status    string `gorm:"size:16;not null;default:ACTIVE;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

type Employment struct {
	Code         string          `gorm:"primaryKey;size:32"`
	EmployeeCode string          `gorm:"size:32;not null;uniqueIndex"`
	Employee     *Employee       `gorm:"foreignKey:EmployeeCode;references:Code"`
	Department   string          `gorm:"size:100"`
	Position     string          `gorm:"size:100"`
	BaseSalary   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status       string          `gorm:"size:16;not null;default:ACTIVE;index"`
	JoiningDate  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employment) IsActive() bool {
	return e.Status == EmploymentStatusActive
}
