package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	payrollMock "go-payroll/internal/payroll/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	testMonth = 6
	testYear  = 2025
)

type serviceDeps struct {
	sqlDB      *sql.DB
	sqlMock    sqlmock.Sqlmock
	gdb        *gorm.DB
	repo       *memoryPayslipRepo
	directory  *fakeDirectory
	recorder   *fakeRecorder
	dispatcher *fakeDispatcher
	outbox     *fakeOutbox
	logs       *observer.ObservedLogs
	service    payroll.Service
}

func setupServiceTest(t *testing.T, employments ...employee.Employment) *serviceDeps {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)

	deps := &serviceDeps{
		sqlDB:      sqlDB,
		sqlMock:    sqlMock,
		gdb:        gdb,
		repo:       newMemoryPayslipRepo(),
		directory:  &fakeDirectory{employments: employments},
		recorder:   &fakeRecorder{},
		dispatcher: &fakeDispatcher{},
		outbox:     &fakeOutbox{},
		logs:       logs,
	}
	deps.service = payroll.NewServiceWithOutbox(
		gdb,
		deps.repo,
		deps.directory,
		staticDeductions(deduction.NewTable(deduction.DefaultRules())),
		deps.recorder,
		deps.dispatcher,
		deps.outbox,
		zap.New(core),
	)
	return deps
}

func TestPayrollService_GeneratePayroll(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending payslips with computed amounts", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"), activeEmployment("EMP002", "1000"))

		payslips, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		require.Len(t, payslips, 2)
		p := payslips[0]
		assert.Equal(t, "EMP001", p.EmployeeCode)
		assert.Equal(t, payroll.StatusPending, p.Status)
		assert.Nil(t, p.PaidAt)
		assertAmount(t, "640000", p.GrossSalary, "gross")
		assertAmount(t, "410000", p.NetSalary, "net")
		assertAmount(t, "230000", p.TotalDeductions(), "total deductions")

		count, _ := deps.repo.CountByPeriod(ctx, testMonth, testYear)
		assert.EqualValues(t, 2, count)
	})

	t.Run("second run returns existing payslips without creating", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"), activeEmployment("EMP002", "1000"))

		first, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)
		require.NoError(t, err)
		creates := deps.repo.creates

		second, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)
		require.NoError(t, err)

		assert.Equal(t, creates, deps.repo.creates)
		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
		count, _ := deps.repo.CountByPeriod(ctx, testMonth, testYear)
		assert.EqualValues(t, 2, count)
	})

	t.Run("keeps paid payslips untouched", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"))
		paidAt := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
		deps.repo.seed(payroll.Payslip{
			EmployeeCode: "EMP001", Month: testMonth, Year: testYear,
			NetSalary: dec("1"), Status: payroll.StatusPaid, PaidAt: &paidAt,
		})

		payslips, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		require.Len(t, payslips, 1)
		assert.Equal(t, payroll.StatusPaid, payslips[0].Status)
		assertAmount(t, "1", payslips[0].NetSalary, "net")
	})

	t.Run("payslip inserted concurrently is returned", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"))
		var winner payroll.Payslip
		deps.repo.beforeCreate = func(r *memoryPayslipRepo, p *payroll.Payslip) {
			winner = r.seed(*p)
		}

		payslips, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		require.Len(t, payslips, 1)
		assert.Equal(t, winner.ID, payslips[0].ID)
		count, _ := deps.repo.CountByPeriod(ctx, testMonth, testYear)
		assert.EqualValues(t, 1, count)
	})

	t.Run("unique violation falls back to the stored payslip", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := payrollMock.NewMockRepository(ctrl)
		directory := &fakeDirectory{employments: []employee.Employment{activeEmployment("EMP001", "500000")}}
		svc := payroll.NewService(nil, repo, directory, staticDeductions(deduction.NewTable(deduction.DefaultRules())), nil, nil)

		stored := &payroll.Payslip{ID: 7, EmployeeCode: "EMP001", Month: testMonth, Year: testYear, Status: payroll.StatusPending}
		gomock.InOrder(
			repo.EXPECT().FindByEmployeeAndPeriod(ctx, "EMP001", testMonth, testYear).Return(nil, gorm.ErrRecordNotFound),
			repo.EXPECT().CreateIfAbsent(ctx, gomock.Any()).Return(false, gorm.ErrDuplicatedKey),
			repo.EXPECT().FindByEmployeeAndPeriod(ctx, "EMP001", testMonth, testYear).Return(stored, nil),
		)

		payslips, err := svc.GeneratePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		require.Len(t, payslips, 1)
		assert.EqualValues(t, 7, payslips[0].ID)
	})

	t.Run("failing employee is skipped", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"), activeEmployment("EMP002", "1000"))
		deps.repo.createErrs["EMP001"] = errors.New("disk full")

		payslips, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		require.Len(t, payslips, 1)
		assert.Equal(t, "EMP002", payslips[0].EmployeeCode)
		assert.Equal(t, 1, deps.logs.FilterMessage("generate payslip failed").Len())
	})

	t.Run("no eligible employees", func(t *testing.T) {
		deps := setupServiceTest(t)

		payslips, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		assert.Empty(t, payslips)
		assert.NotNil(t, payslips)
	})

	t.Run("invalid period writes nothing", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"))

		payslips, err := deps.service.GeneratePayroll(ctx, 13, testYear)

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
		assert.Nil(t, payslips)
		assert.Zero(t, deps.directory.listCalls)
		assert.Zero(t, deps.repo.creates)
	})

	t.Run("directory failure aborts", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.directory.listErr = errors.New("connection refused")

		_, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)

		assert.EqualError(t, err, "connection refused")
	})

	t.Run("deductions above gross are kept and logged", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "100"))
		core, logs := observer.New(zap.WarnLevel)
		svc := payroll.NewService(
			deps.gdb,
			deps.repo,
			deps.directory,
			staticDeductions(deduction.Table{deduction.CategoryEmployeeTax: dec("2")}),
			nil,
			nil,
			zap.New(core),
		)

		payslips, err := svc.GeneratePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		require.Len(t, payslips, 1)
		assertAmount(t, "-100", payslips[0].NetSalary, "net")
		warnings := logs.FilterMessage("payslip deductions exceed gross salary").All()
		require.Len(t, warnings, 1)
		assert.Equal(t, "EMP001", warnings[0].ContextMap()["employee_code"])
	})
}

func TestPayrollService_ApprovePayroll(t *testing.T) {
	ctx := context.Background()

	t.Run("approves every pending payslip and dispatches once", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"), activeEmployment("EMP002", "1000"))
		_, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)
		require.NoError(t, err)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		approved, err := deps.service.ApprovePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		require.Len(t, approved, 2)
		for _, p := range approved {
			assert.Equal(t, payroll.StatusPaid, p.Status)
			assert.NotNil(t, p.PaidAt)
		}
		assert.Len(t, deps.recorder.recorded, 2)
		assert.Equal(t, [][2]int{{testMonth, testYear}}, deps.dispatcher.calls)

		require.Len(t, deps.outbox.events, 2)
		ev := deps.outbox.events[0]
		assert.Equal(t, events.PayslipPaidTopic, ev.Topic)
		assert.Equal(t, kafka.OutboxStatusPending, ev.Status)
		var payload events.PayslipPaidEvent
		require.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, "EMP001", payload.EmployeeCode)
		assertAmount(t, "410000", payload.NetSalary, "event net")

		pending, _ := deps.repo.FindByPeriodAndStatus(ctx, testMonth, testYear, payroll.StatusPending)
		assert.Empty(t, pending)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("nothing pending returns empty without dispatch", func(t *testing.T) {
		deps := setupServiceTest(t)

		approved, err := deps.service.ApprovePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		assert.NotNil(t, approved)
		assert.Empty(t, approved)
		assert.Empty(t, deps.recorder.recorded)
		assert.Empty(t, deps.dispatcher.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("second approval finds nothing left", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"))
		_, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)
		require.NoError(t, err)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		first, err := deps.service.ApprovePayroll(ctx, testMonth, testYear)
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := deps.service.ApprovePayroll(ctx, testMonth, testYear)
		require.NoError(t, err)
		assert.Empty(t, second)
		assert.Len(t, deps.recorder.recorded, 1)
		assert.Len(t, deps.dispatcher.calls, 1)
	})

	t.Run("recorder failure rolls back that payslip only", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"), activeEmployment("EMP002", "1000"))
		_, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)
		require.NoError(t, err)
		deps.recorder.RecordFn = func(p payroll.Payslip) error {
			if p.EmployeeCode == "EMP001" {
				return errors.New("insert notification failed")
			}
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		approved, err := deps.service.ApprovePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		require.Len(t, approved, 1)
		assert.Equal(t, "EMP002", approved[0].EmployeeCode)
		assert.Len(t, deps.outbox.events, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("payslip no longer pending is skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := payrollMock.NewMockRepository(ctrl)
		deps := setupServiceTest(t)
		svc := payroll.NewService(deps.gdb, repo, deps.directory, staticDeductions{}, deps.recorder, deps.dispatcher)

		repo.EXPECT().
			FindByPeriodAndStatus(ctx, testMonth, testYear, payroll.StatusPending).
			Return([]payroll.Payslip{{ID: 1, EmployeeCode: "EMP001", Status: payroll.StatusPending}}, nil)
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().MarkPaid(ctx, uint(1), gomock.Any()).Return(false, nil)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		approved, err := svc.ApprovePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		assert.Empty(t, approved)
		assert.Empty(t, deps.recorder.recorded)
		assert.Empty(t, deps.dispatcher.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("dispatch failure keeps the approval", func(t *testing.T) {
		deps := setupServiceTest(t, activeEmployment("EMP001", "500000"))
		_, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)
		require.NoError(t, err)
		deps.dispatcher.err = errors.New("smtp down")

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		approved, err := deps.service.ApprovePayroll(ctx, testMonth, testYear)

		require.NoError(t, err)
		require.Len(t, approved, 1)
		assert.Equal(t, 1, deps.logs.FilterMessage("dispatch after approval failed").Len())
	})

	t.Run("invalid period", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.ApprovePayroll(ctx, 0, testYear)

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})
}

func TestPayrollService_GetPayslip(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t, activeEmployment("EMP001", "500000"))
	_, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		p, err := deps.service.GetPayslip(ctx, "EMP001", testMonth, testYear)
		require.NoError(t, err)
		assertAmount(t, "410000", p.NetSalary, "net")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := deps.service.GetPayslip(ctx, "EMP404", testMonth, testYear)
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFound)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := deps.service.GetPayslip(ctx, "  ", testMonth, testYear)
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidEmployeeCode)
	})
}

func TestPayrollService_ListPayslips(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t, activeEmployment("EMP001", "500000"), activeEmployment("EMP002", "1000"))
	_, err := deps.service.GeneratePayroll(ctx, testMonth, testYear)
	require.NoError(t, err)

	all, err := deps.service.ListPayslips(ctx, testMonth, testYear, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	paid, err := deps.service.ListPayslips(ctx, testMonth, testYear, payroll.StatusPaid)
	require.NoError(t, err)
	assert.NotNil(t, paid)
	assert.Empty(t, paid)

	_, err = deps.service.ListPayslips(ctx, testMonth, testYear, "VOID")
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusFilter)
}
