package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmploymentDirectory is the read side of the employee directory used by payroll.
type EmploymentDirectory interface {
	ListActiveEmployments(ctx context.Context) ([]employee.Employment, error)
	GetEmployment(ctx context.Context, employeeCode string) (*employee.Employment, error)
	GetByCode(ctx context.Context, code string) (*employee.Employee, error)
}

type DeductionSource interface {
	Table(ctx context.Context) (deduction.Table, error)
}

// NotificationRecorder stores the notification for a payslip that just
// became paid. It runs inside the approval transaction tx.
type NotificationRecorder interface {
	RecordPayslipPaid(ctx context.Context, tx *gorm.DB, payslip Payslip) error
}

type Dispatcher interface {
	DispatchForPeriod(ctx context.Context, month, year int) error
}

type Service interface {
	GeneratePayroll(ctx context.Context, month, year int) ([]Payslip, error)
	ApprovePayroll(ctx context.Context, month, year int) ([]Payslip, error)
	GetPayslip(ctx context.Context, employeeCode string, month, year int) (Payslip, error)
	ListPayslips(ctx context.Context, month, year int, status string) ([]Payslip, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	employees  EmploymentDirectory
	deductions DeductionSource
	recorder   NotificationRecorder
	dispatcher Dispatcher
	outbox     kafka.OutboxRepository
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employees EmploymentDirectory,
	deductions DeductionSource,
	recorder NotificationRecorder,
	dispatcher Dispatcher,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, employees, deductions, recorder, dispatcher, nil, logger...)
}

func NewServiceWithOutbox(
	db *gorm.DB,
	repo Repository,
	employees EmploymentDirectory,
	deductions DeductionSource,
	recorder NotificationRecorder,
	dispatcher Dispatcher,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		deductions: deductions,
		recorder:   recorder,
		dispatcher: dispatcher,
		outbox:     outboxRepo,
		now:        time.Now,
		logger:     l,
	}
}

// GeneratePayroll creates one pending payslip per eligible employee for the
// period. Payslips that already exist are returned unchanged, so repeated
// calls never create duplicates. Per-employee failures are logged and skipped.
func (s *service) GeneratePayroll(ctx context.Context, month, year int) ([]Payslip, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(zap.Int("month", month), zap.Int("year", year))
	if err := ValidatePeriod(month, year, s.now()); err != nil {
		log.Warn("generate payroll rejected", zap.Error(err))
		return nil, err
	}

	employments, err := s.employees.ListActiveEmployments(ctx)
	if err != nil {
		log.Error("generate payroll list employments failed", zap.Error(err))
		return nil, err
	}

	table, err := s.deductions.Table(ctx)
	if err != nil {
		log.Error("generate payroll load deduction table failed", zap.Error(err))
		return nil, err
	}

	payslips := make([]Payslip, 0, len(employments))
	created := 0
	for _, employment := range employments {
		if err := ctx.Err(); err != nil {
			log.Warn("generate payroll cancelled", zap.Int("processed", len(payslips)))
			return payslips, err
		}

		payslip, isNew, err := s.generateOne(ctx, log, employment, table, month, year)
		if err != nil {
			log.Error("generate payslip failed",
				zap.String("employee_code", employment.EmployeeCode),
				zap.Error(err),
			)
			continue
		}
		if isNew {
			created++
		}
		payslips = append(payslips, payslip)
	}

	log.Info("generate payroll finished",
		zap.Int("eligible", len(employments)),
		zap.Int("created", created),
		zap.Int("returned", len(payslips)),
	)
	return payslips, nil
}

func (s *service) generateOne(
	ctx context.Context,
	log *zap.Logger,
	employment employee.Employment,
	table deduction.Table,
	month, year int,
) (Payslip, bool, error) {
	code := employment.EmployeeCode

	existing, err := s.repo.FindByEmployeeAndPeriod(ctx, code, month, year)
	if err == nil {
		return *existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Payslip{}, false, err
	}

	breakdown := Compute(employment.BaseSalary, table)
	if breakdown.DeductionsExceedGross() {
		log.Warn("payslip deductions exceed gross salary",
			zap.String("employee_code", code),
			zap.String("gross_salary", breakdown.GrossSalary.StringFixed(2)),
			zap.String("total_deductions", breakdown.TotalDeductions.StringFixed(2)),
			zap.String("net_salary", breakdown.NetSalary.StringFixed(2)),
		)
	}

	payslip := breakdown.toPayslip(code, month, year)
	created, err := s.repo.CreateIfAbsent(ctx, &payslip)
	if err != nil && !isUniqueViolation(err) {
		return Payslip{}, false, err
	}
	if created {
		return payslip, true, nil
	}

	// Another generation run inserted it first.
	existing, err = s.repo.FindByEmployeeAndPeriod(ctx, code, month, year)
	if err != nil {
		return Payslip{}, false, err
	}
	return *existing, false, nil
}

// ApprovePayroll marks every pending payslip of the period as paid and then
// dispatches their notifications. Each payslip is approved in its own
// transaction together with its notification and outbox event. Dispatch
// failures never undo a committed approval.
func (s *service) ApprovePayroll(ctx context.Context, month, year int) ([]Payslip, error) {
	log := contextutil.GetLogger(ctx, s.logger).With(zap.Int("month", month), zap.Int("year", year))
	if err := ValidatePeriod(month, year, s.now()); err != nil {
		log.Warn("approve payroll rejected", zap.Error(err))
		return nil, err
	}

	pending, err := s.repo.FindByPeriodAndStatus(ctx, month, year, StatusPending)
	if err != nil {
		log.Error("approve payroll list pending failed", zap.Error(err))
		return nil, err
	}
	if len(pending) == 0 {
		log.Info("approve payroll found no pending payslips")
		return []Payslip{}, nil
	}

	approved := make([]Payslip, 0, len(pending))
	for _, payslip := range pending {
		paid, err := s.approveOne(ctx, payslip)
		if err != nil {
			log.Error("approve payslip failed",
				zap.Uint("payslip_id", payslip.ID),
				zap.String("employee_code", payslip.EmployeeCode),
				zap.Error(err),
			)
			continue
		}
		approved = append(approved, paid)
	}

	log.Info("approve payroll finished",
		zap.Int("pending", len(pending)),
		zap.Int("approved", len(approved)),
	)

	if len(approved) > 0 && s.dispatcher != nil {
		if err := s.dispatcher.DispatchForPeriod(ctx, month, year); err != nil {
			log.Error("dispatch after approval failed", zap.Error(err))
		}
	}

	return approved, nil
}

func (s *service) approveOne(ctx context.Context, payslip Payslip) (Payslip, error) {
	paidAt := s.now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.repo.WithTx(tx).MarkPaid(ctx, payslip.ID, paidAt)
		if err != nil {
			return err
		}
		if !ok {
			return payrollerrors.ErrPayslipNotPending
		}

		payslip.Status = StatusPaid
		payslip.PaidAt = &paidAt
		payslip.UpdatedAt = paidAt

		if s.recorder != nil {
			if err := s.recorder.RecordPayslipPaid(ctx, tx, payslip); err != nil {
				return err
			}
		}

		return s.queuePaidEvent(ctx, tx, payslip)
	})
	if err != nil {
		return Payslip{}, err
	}
	return payslip, nil
}

func (s *service) queuePaidEvent(ctx context.Context, tx *gorm.DB, payslip Payslip) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.PayslipPaidEvent{
		EventType:    events.PayslipPaid,
		RequestID:    rid,
		PayslipID:    payslip.ID,
		EmployeeCode: payslip.EmployeeCode,
		Month:        payslip.Month,
		Year:         payslip.Year,
		NetSalary:    payslip.NetSalary,
		OccurredAt:   *payslip.PaidAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "payslip",
		AggregateID:   strconv.FormatUint(uint64(payslip.ID), 10),
		EventType:     event.EventType,
		Topic:         events.PayslipPaidTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) GetPayslip(ctx context.Context, employeeCode string, month, year int) (Payslip, error) {
	if strings.TrimSpace(employeeCode) == "" {
		return Payslip{}, payrollerrors.ErrInvalidEmployeeCode
	}
	if err := ValidatePeriod(month, year, s.now()); err != nil {
		return Payslip{}, err
	}

	payslip, err := s.repo.FindByEmployeeAndPeriod(ctx, employeeCode, month, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Payslip{}, payrollerrors.ErrPayslipNotFound
		}
		s.logger.Error("get payslip failed",
			zap.String("employee_code", employeeCode),
			zap.Error(err),
		)
		return Payslip{}, err
	}
	return *payslip, nil
}

// ListPayslips returns the payslips of a period, optionally filtered by status.
func (s *service) ListPayslips(ctx context.Context, month, year int, status string) ([]Payslip, error) {
	if err := ValidatePeriod(month, year, s.now()); err != nil {
		return nil, err
	}

	var (
		payslips []Payslip
		err      error
	)
	switch status {
	case "":
		payslips, err = s.repo.FindByPeriod(ctx, month, year)
	case StatusPending, StatusPaid:
		payslips, err = s.repo.FindByPeriodAndStatus(ctx, month, year, status)
	default:
		return nil, payrollerrors.ErrInvalidStatusFilter
	}
	if err != nil {
		s.logger.Error("list payslips failed", zap.Int("month", month), zap.Int("year", year), zap.Error(err))
		return nil, err
	}
	if payslips == nil {
		payslips = []Payslip{}
	}
	return payslips, nil
}
