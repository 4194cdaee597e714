package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder stores the UNSENT notification of a payslip inside its approval
// transaction.
type Recorder struct {
	repo      Repository
	employees EmployeeDirectory
	logger    *zap.Logger
}

func NewRecorder(repo Repository, employees EmployeeDirectory, logger ...*zap.Logger) *Recorder {
	l := zap.L().Named("notification.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.recorder")
	}
	return &Recorder{repo: repo, employees: employees, logger: l}
}

func (r *Recorder) RecordPayslipPaid(ctx context.Context, tx *gorm.DB, payslip payroll.Payslip) error {
	name := payslip.EmployeeCode
	empl, err := r.employees.GetByCode(ctx, payslip.EmployeeCode)
	switch {
	case err == nil:
		name = empl.FullName()
	case errors.Is(err, employeeerrors.ErrEmployeeNotFound):
		r.logger.Warn("recording notification for unknown employee",
			zap.String("employee_code", payslip.EmployeeCode),
		)
	default:
		return err
	}

	n := Notification{
		EmployeeCode:   payslip.EmployeeCode,
		MessageContent: PaidMessage(name, payslip.Month, payslip.Year, payslip.NetSalary),
		Month:          payslip.Month,
		Year:           payslip.Year,
		DeliveryStatus: StatusUnsent,
	}
	created, err := r.repo.WithTx(tx).CreateIfAbsent(ctx, &n)
	if err != nil {
		return err
	}
	if !created {
		r.logger.Info("notification already recorded",
			zap.String("employee_code", payslip.EmployeeCode),
			zap.Int("month", payslip.Month),
			zap.Int("year", payslip.Year),
		)
	}
	return nil
}

// PaidMessage is the plain message stored with a notification. It is sent
// as is when the payslip can no longer be found at delivery time.
func PaidMessage(name string, month, year int, net decimal.Decimal) string {
	return fmt.Sprintf(
		"Dear %s, your salary for %s %d amounting to %s has been credited to your account successfully.",
		name, time.Month(month), year, money.Format(net),
	)
}
