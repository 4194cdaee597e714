package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryHousing          = "Housing"
	CategoryTransport        = "Transport"
	CategoryEmployeeTax      = "Employee Tax"
	CategoryPension          = "Pension"
	CategoryMedicalInsurance = "Medical Insurance"
	CategoryOthers           = "Others"
)

type DeductionRule struct {
	Code      string          `gorm:"primaryKey;size:32"`
	Name      string          `gorm:"size:100;not null;uniqueIndex"`
	Rate      decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DeductionRule) TableName() string {
	return "deductions"
}

// Table maps a category name to its rate. It is read-only once built.
type Table map[string]decimal.Decimal

// Rate returns the rate for category, or zero when no rule exists.
func (t Table) Rate(category string) decimal.Decimal {
	if r, ok := t[category]; ok {
		return r
	}
	return decimal.Zero
}

func NewTable(rules []DeductionRule) Table {
	t := make(Table, len(rules))
	for _, r := range rules {
		t[r.Name] = r.Rate
	}
	return t
}

func DefaultRules() []DeductionRule {
	return []DeductionRule{
		{Code: "EMP_TAX", Name: CategoryEmployeeTax, Rate: decimal.RequireFromString("0.30")},
		{Code: "PENSION", Name: CategoryPension, Rate: decimal.RequireFromString("0.06")},
		{Code: "MEDICAL", Name: CategoryMedicalInsurance, Rate: decimal.RequireFromString("0.05")},
		{Code: "OTHERS", Name: CategoryOthers, Rate: decimal.RequireFromString("0.05")},
		{Code: "HOUSING", Name: CategoryHousing, Rate: decimal.RequireFromString("0.14")},
		{Code: "TRANSPORT", Name: CategoryTransport, Rate: decimal.RequireFromString("0.14")},
	}
}
