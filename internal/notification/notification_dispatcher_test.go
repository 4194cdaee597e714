package notification_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/notification"
	notificationerrors "go-payroll/internal/notification/errors"
	notificationMock "go-payroll/internal/notification/mock"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var thisYear = time.Now().Year()

type dispatcherDeps struct {
	repo       *memoryRepo
	directory  *fakeDirectory
	payslips   *fakePayslips
	documents  *fakeDocuments
	mailer     *recordingMailer
	dispatcher *notification.Dispatcher
}

func person(code, email string) employee.Employee {
	return employee.Employee{Code: code, FirstName: "Emp", LastName: code, Email: email, Status: employee.StatusActive}
}

func paidPayslip(code string, month, year int) payroll.Payslip {
	b := payroll.Compute(decimal.RequireFromString("500000"), deduction.NewTable(deduction.DefaultRules()))
	return payroll.Payslip{
		ID:               1,
		EmployeeCode:     code,
		Month:            month,
		Year:             year,
		BaseSalary:       b.BaseSalary,
		HouseAmount:      b.HouseAmount,
		TransportAmount:  b.TransportAmount,
		EmployeeTax:      b.EmployeeTax,
		Pension:          b.Pension,
		MedicalInsurance: b.MedicalInsurance,
		OtherDeductions:  b.OtherDeductions,
		GrossSalary:      b.GrossSalary,
		NetSalary:        b.NetSalary,
		Status:           payroll.StatusPaid,
	}
}

func setupDispatcher(t *testing.T, concurrency int, employees ...employee.Employee) *dispatcherDeps {
	t.Helper()

	renderer, err := notification.NewTemplateRenderer()
	require.NoError(t, err)

	deps := &dispatcherDeps{
		repo:      newMemoryRepo(),
		directory: newDirectory(employees...),
		payslips:  &fakePayslips{payslips: map[string]payroll.Payslip{}},
		documents: &fakeDocuments{},
		mailer:    &recordingMailer{},
	}
	deps.dispatcher = notification.NewDispatcher(
		deps.repo,
		deps.directory,
		deps.payslips,
		deps.documents,
		renderer,
		deps.mailer,
		notification.DispatcherConfig{Concurrency: concurrency, StaleAfter: 30 * time.Minute},
	)
	return deps
}

func (d *dispatcherDeps) unsent(code string, month, year int) notification.Notification {
	return d.repo.add(notification.Notification{
		EmployeeCode:   code,
		MessageContent: notification.PaidMessage("Emp "+code, month, year, decimal.RequireFromString("410000")),
		Month:          month,
		Year:           year,
	})
}

func TestDispatcher_DispatchForPeriod(t *testing.T) {
	ctx := context.Background()

	t.Run("sends rendered payslip with document attached", func(t *testing.T) {
		deps := setupDispatcher(t, 2, person("EMP001", "jane.doe@example.com"))
		deps.payslips.payslips["EMP001"] = paidPayslip("EMP001", 6, 2025)
		n := deps.unsent("EMP001", 6, 2025)

		err := deps.dispatcher.DispatchForPeriod(ctx, 6, 2025)

		require.NoError(t, err)
		require.Equal(t, 1, deps.mailer.count())
		msg := deps.mailer.sent[0]
		assert.Equal(t, "jane.doe@example.com", msg.To)
		assert.Equal(t, "Salary Credited - 6/2025", msg.Subject)
		assert.Contains(t, msg.HTMLBody, "Dear Emp EMP001")
		assert.Contains(t, msg.HTMLBody, "June 2025")
		assert.Contains(t, msg.HTMLBody, "RWF 410,000.00")
		require.Len(t, msg.Attachments, 1)
		assert.Equal(t, "payslip_EMP001_6_2025.pdf", msg.Attachments[0].Filename)
		assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)

		stored := deps.repo.get(n.ID)
		assert.Equal(t, notification.StatusSent, stored.DeliveryStatus)
		assert.NotNil(t, stored.SentAt)
		assert.Equal(t, 1, stored.Attempts)
	})

	t.Run("only unsent notifications of the period", func(t *testing.T) {
		deps := setupDispatcher(t, 1, person("EMP001", "a@example.com"), person("EMP002", "b@example.com"))
		deps.unsent("EMP001", 6, 2025)
		other := deps.unsent("EMP002", 5, 2025)
		failed := deps.repo.add(notification.Notification{
			EmployeeCode: "EMP002", Month: 6, Year: 2025, DeliveryStatus: notification.StatusFailed,
		})

		summary, err := deps.dispatcher.DispatchPeriod(ctx, 6, 2025)

		require.NoError(t, err)
		assert.Equal(t, notification.Summary{Total: 1, Sent: 1}, summary)
		assert.Equal(t, notification.StatusUnsent, deps.repo.get(other.ID).DeliveryStatus)
		assert.Equal(t, notification.StatusFailed, deps.repo.get(failed.ID).DeliveryStatus)
	})

	t.Run("invalid email fails without delivery", func(t *testing.T) {
		deps := setupDispatcher(t, 1, person("EMP001", "not-an-email"))
		n := deps.unsent("EMP001", 6, 2025)

		summary, err := deps.dispatcher.DispatchPeriod(ctx, 6, 2025)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Zero(t, deps.mailer.count())
		stored := deps.repo.get(n.ID)
		assert.Equal(t, notification.StatusFailed, stored.DeliveryStatus)
		require.NotNil(t, stored.LastError)
		assert.Contains(t, *stored.LastError, "invalid email format")
	})

	t.Run("missing employee fails without delivery", func(t *testing.T) {
		deps := setupDispatcher(t, 1)
		n := deps.unsent("EMP404", 6, 2025)

		require.NoError(t, deps.dispatcher.DispatchForPeriod(ctx, 6, 2025))

		assert.Zero(t, deps.mailer.count())
		assert.Equal(t, notification.StatusFailed, deps.repo.get(n.ID).DeliveryStatus)
	})

	t.Run("blank email fails without delivery", func(t *testing.T) {
		deps := setupDispatcher(t, 1, person("EMP001", "  "))
		n := deps.unsent("EMP001", 6, 2025)

		require.NoError(t, deps.dispatcher.DispatchForPeriod(ctx, 6, 2025))

		assert.Zero(t, deps.mailer.count())
		assert.Equal(t, notification.StatusFailed, deps.repo.get(n.ID).DeliveryStatus)
	})

	t.Run("missing payslip falls back to stored message", func(t *testing.T) {
		deps := setupDispatcher(t, 1, person("EMP001", "a@example.com"))
		n := deps.unsent("EMP001", 6, 2025)

		require.NoError(t, deps.dispatcher.DispatchForPeriod(ctx, 6, 2025))

		require.Equal(t, 1, deps.mailer.count())
		msg := deps.mailer.sent[0]
		assert.Equal(t, n.MessageContent, msg.HTMLBody)
		assert.Empty(t, msg.Attachments)
		assert.Zero(t, deps.documents.calls)
	})

	t.Run("mail failure marks failed and batch continues", func(t *testing.T) {
		deps := setupDispatcher(t, 1, person("EMP001", "a@example.com"), person("EMP002", "b@example.com"))
		deps.payslips.payslips["EMP001"] = paidPayslip("EMP001", 6, 2025)
		first := deps.unsent("EMP001", 6, 2025)
		second := deps.unsent("EMP002", 6, 2025)
		deps.mailer.err = errors.New("smtp: connection refused")

		before := time.Now()
		summary, err := deps.dispatcher.DispatchPeriod(ctx, 6, 2025)

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Failed)
		for _, id := range []uint{first.ID, second.ID} {
			stored := deps.repo.get(id)
			assert.Equal(t, notification.StatusFailed, stored.DeliveryStatus)
			assert.Equal(t, 1, stored.Attempts)
			require.NotNil(t, stored.NextAttemptAt)
			assert.WithinDuration(t, before.Add(time.Minute), *stored.NextAttemptAt, 5*time.Second)
			require.NotNil(t, stored.LastError)
			assert.Contains(t, *stored.LastError, "connection refused")
		}
	})

	t.Run("document failure marks failed", func(t *testing.T) {
		deps := setupDispatcher(t, 1, person("EMP001", "a@example.com"))
		deps.payslips.payslips["EMP001"] = paidPayslip("EMP001", 6, 2025)
		deps.documents.err = errors.New("render failed")
		n := deps.unsent("EMP001", 6, 2025)

		require.NoError(t, deps.dispatcher.DispatchForPeriod(ctx, 6, 2025))

		assert.Zero(t, deps.mailer.count())
		assert.Equal(t, notification.StatusFailed, deps.repo.get(n.ID).DeliveryStatus)
	})

	t.Run("invalid period", func(t *testing.T) {
		deps := setupDispatcher(t, 1)

		err := deps.dispatcher.DispatchForPeriod(ctx, 13, 2025)

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
	})

	t.Run("cancelled context stops before delivering", func(t *testing.T) {
		deps := setupDispatcher(t, 1, person("EMP001", "a@example.com"))
		n := deps.unsent("EMP001", 6, 2025)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := deps.dispatcher.DispatchForPeriod(cancelled, 6, 2025)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, deps.mailer.count())
		assert.Equal(t, notification.StatusUnsent, deps.repo.get(n.ID).DeliveryStatus)
	})
}

func TestDispatcher_SweepBacklog(t *testing.T) {
	ctx := context.Background()

	t.Run("retries due failures and unsent records of the lookback window", func(t *testing.T) {
		deps := setupDispatcher(t, 2, person("EMP001", "a@example.com"), person("EMP002", "b@example.com"), person("EMP003", "c@example.com"))
		past := time.Now().Add(-time.Minute)
		future := time.Now().Add(time.Hour)

		unsent := deps.unsent("EMP001", 1, thisYear-1)
		due := deps.repo.add(notification.Notification{
			EmployeeCode: "EMP002", Month: 3, Year: thisYear,
			DeliveryStatus: notification.StatusFailed, Attempts: 2, NextAttemptAt: &past,
		})
		notDue := deps.repo.add(notification.Notification{
			EmployeeCode: "EMP003", Month: 3, Year: thisYear,
			DeliveryStatus: notification.StatusFailed, Attempts: 1, NextAttemptAt: &future,
		})
		tooOld := deps.unsent("EMP003", 12, thisYear-2)

		summary, err := deps.dispatcher.Sweep(ctx)

		require.NoError(t, err)
		assert.Equal(t, notification.Summary{Total: 2, Sent: 2}, summary)
		assert.Equal(t, notification.StatusSent, deps.repo.get(unsent.ID).DeliveryStatus)
		assert.Equal(t, notification.StatusSent, deps.repo.get(due.ID).DeliveryStatus)
		assert.Equal(t, 3, deps.repo.get(due.ID).Attempts)
		assert.Equal(t, notification.StatusFailed, deps.repo.get(notDue.ID).DeliveryStatus)
		assert.Equal(t, notification.StatusUnsent, deps.repo.get(tooOld.ID).DeliveryStatus)
		for _, msg := range deps.mailer.sent {
			assert.Empty(t, msg.Attachments)
		}
	})

	t.Run("sent notifications are never picked up again", func(t *testing.T) {
		deps := setupDispatcher(t, 1, person("EMP001", "a@example.com"))
		n := deps.unsent("EMP001", 1, thisYear)

		require.NoError(t, deps.dispatcher.SweepBacklog(ctx))
		require.NoError(t, deps.dispatcher.SweepBacklog(ctx))
		require.NoError(t, deps.dispatcher.DispatchForPeriod(ctx, 1, thisYear))

		assert.Equal(t, 1, deps.mailer.count())
		assert.Equal(t, notification.StatusSent, deps.repo.get(n.ID).DeliveryStatus)
	})

	t.Run("requeues stale processing records first", func(t *testing.T) {
		deps := setupDispatcher(t, 1, person("EMP001", "a@example.com"))
		stale := deps.repo.add(notification.Notification{
			EmployeeCode: "EMP001", Month: 2, Year: thisYear,
			DeliveryStatus: notification.StatusProcessing, UpdatedAt: time.Now().Add(-time.Hour),
		})
		fresh := deps.repo.add(notification.Notification{
			EmployeeCode: "EMP001", Month: 3, Year: thisYear,
			DeliveryStatus: notification.StatusProcessing, UpdatedAt: time.Now(),
		})

		require.NoError(t, deps.dispatcher.SweepBacklog(ctx))

		assert.Equal(t, 1, deps.repo.reclaims)
		assert.Equal(t, notification.StatusSent, deps.repo.get(stale.ID).DeliveryStatus)
		assert.Equal(t, notification.StatusProcessing, deps.repo.get(fresh.ID).DeliveryStatus)
	})
}

func TestDispatcher_ConcurrentTriggersSendOnce(t *testing.T) {
	ctx := context.Background()
	const total = 40

	employees := make([]employee.Employee, 0, total)
	for i := 0; i < total; i++ {
		code := fmt.Sprintf("EMP%03d", i)
		employees = append(employees, person(code, code+"@example.com"))
	}
	deps := setupDispatcher(t, 4, employees...)
	for _, e := range employees {
		deps.unsent(e.Code, 1, thisYear)
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, deps.dispatcher.DispatchForPeriod(ctx, 1, thisYear))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, deps.dispatcher.SweepBacklog(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, total, deps.mailer.count())
	seen := map[string]int{}
	for _, msg := range deps.mailer.sent {
		seen[msg.To]++
	}
	for to, n := range seen {
		assert.Equalf(t, 1, n, "%s received %d messages", to, n)
	}
	sent, _ := deps.repo.FindByPeriodAndStatuses(ctx, 1, thisYear, notification.StatusSent)
	assert.Len(t, sent, total)
}

func TestDispatcher_LostClaimSkipsDelivery(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := notificationMock.NewMockRepository(ctrl)
	mailer := notificationMock.NewMockMailer(ctrl)
	renderer, err := notification.NewTemplateRenderer()
	require.NoError(t, err)

	d := notification.NewDispatcher(
		repo,
		newDirectory(person("EMP001", "a@example.com")),
		&fakePayslips{},
		&fakeDocuments{},
		renderer,
		mailer,
		notification.DispatcherConfig{Concurrency: 1},
	)

	repo.EXPECT().
		FindByPeriodAndStatuses(ctx, 6, 2025, notification.StatusUnsent).
		Return([]notification.Notification{{ID: 9, EmployeeCode: "EMP001", Month: 6, Year: 2025, DeliveryStatus: notification.StatusUnsent}}, nil)
	repo.EXPECT().
		Claim(ctx, uint(9), []string{notification.StatusUnsent}, gomock.Any()).
		Return(false, nil)
	mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

	summary, err := d.DispatchPeriod(ctx, 6, 2025)

	require.NoError(t, err)
	assert.Equal(t, notification.Summary{Total: 1, Skipped: 1}, summary)
}

func TestDispatcher_MarkSentAfterDelivery(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := notificationMock.NewMockRepository(ctrl)
	mailer := notificationMock.NewMockMailer(ctrl)
	renderer, err := notification.NewTemplateRenderer()
	require.NoError(t, err)

	d := notification.NewDispatcher(
		repo,
		newDirectory(person("EMP001", "a@example.com")),
		&fakePayslips{},
		&fakeDocuments{},
		renderer,
		mailer,
		notification.DispatcherConfig{Concurrency: 1},
	)

	n := notification.Notification{ID: 3, EmployeeCode: "EMP001", Month: 6, Year: 2025, MessageContent: "hello", DeliveryStatus: notification.StatusUnsent}
	gomock.InOrder(
		repo.EXPECT().FindByPeriodAndStatuses(ctx, 6, 2025, notification.StatusUnsent).Return([]notification.Notification{n}, nil),
		repo.EXPECT().Claim(ctx, uint(3), []string{notification.StatusUnsent}, gomock.Any()).Return(true, nil),
		mailer.EXPECT().Send(ctx, notification.Message{To: "a@example.com", Subject: "Salary Credited - 6/2025", HTMLBody: "hello"}).Return(nil),
		repo.EXPECT().MarkSent(ctx, uint(3), gomock.Any()).Return(true, nil),
	)

	require.NoError(t, d.DispatchForPeriod(ctx, 6, 2025))
}

func TestDispatcher_ListForPeriod(t *testing.T) {
	ctx := context.Background()
	deps := setupDispatcher(t, 1)
	deps.unsent("EMP001", 6, 2025)
	deps.repo.add(notification.Notification{EmployeeCode: "EMP002", Month: 6, Year: 2025, DeliveryStatus: notification.StatusSent})

	all, err := deps.dispatcher.ListForPeriod(ctx, 6, 2025, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	sent, err := deps.dispatcher.ListForPeriod(ctx, 6, 2025, notification.StatusSent)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "EMP002", sent[0].EmployeeCode)

	_, err = deps.dispatcher.ListForPeriod(ctx, 6, 2025, "BOUNCED")
	assert.ErrorIs(t, err, notificationerrors.ErrInvalidStatusFilter)
}

func TestValidEmail(t *testing.T) {
	for _, ok := range []string{"jane.doe@example.com", "a-b@mail.example.org", "x_y@corp.co"} {
		assert.Truef(t, notification.ValidEmail(ok), "%s should be valid", ok)
	}
	for _, bad := range []string{"", "plain", "a@b", "a@example.c", "a@example.museum", "a b@example.com", "a+tag@example.com"} {
		assert.Falsef(t, notification.ValidEmail(bad), "%s should be invalid", bad)
	}
}
