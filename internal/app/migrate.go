package app

import (
	"context"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/notification"
	"go-payroll/internal/payroll"

	"gorm.io/gorm"
)

// Models lists every table owned by this service.
func Models() []any {
	return []any{
		&employee.Employee{},
		&employee.Employment{},
		&deduction.DeductionRule{},
		&payroll.Payslip{},
		&notification.Notification{},
		&kafka.OutboxEvent{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// SeedDeductions installs the default deduction rates that are missing.
func SeedDeductions(ctx context.Context, deductions deduction.Service) (int, error) {
	return deductions.Seed(ctx)
}
