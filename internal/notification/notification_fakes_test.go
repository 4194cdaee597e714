package notification_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/notification"
	"go-payroll/internal/payroll"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memoryRepo mirrors the conditional updates of the gorm repository.
type memoryRepo struct {
	mu       sync.Mutex
	nextID   uint
	rows     map[uint]*notification.Notification
	reclaims int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[uint]*notification.Notification{}}
}

func (r *memoryRepo) add(n notification.Notification) notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	if n.DeliveryStatus == "" {
		n.DeliveryStatus = notification.StatusUnsent
	}
	row := n
	r.rows[n.ID] = &row
	return n
}

func (r *memoryRepo) get(id uint) notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.rows[id]
}

func (r *memoryRepo) WithTx(tx *gorm.DB) notification.Repository { return r }

func (r *memoryRepo) Create(ctx context.Context, n *notification.Notification) error {
	stored := r.add(*n)
	*n = stored
	return nil
}

func (r *memoryRepo) CreateIfAbsent(ctx context.Context, n *notification.Notification) (bool, error) {
	r.mu.Lock()
	for _, row := range r.rows {
		if row.EmployeeCode == n.EmployeeCode && row.Month == n.Month && row.Year == n.Year {
			r.mu.Unlock()
			return false, nil
		}
	}
	r.mu.Unlock()
	stored := r.add(*n)
	*n = stored
	return true, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id uint) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	n := *row
	return &n, nil
}

func (r *memoryRepo) FindByPeriodAndStatuses(ctx context.Context, month, year int, statuses ...string) ([]notification.Notification, error) {
	return r.filter(func(n *notification.Notification) bool {
		return n.Month == month && n.Year == year && (len(statuses) == 0 || slices.Contains(statuses, n.DeliveryStatus))
	}), nil
}

func (r *memoryRepo) FindBacklog(ctx context.Context, years []int, now time.Time) ([]notification.Notification, error) {
	return r.filter(func(n *notification.Notification) bool {
		if !slices.Contains(years, n.Year) {
			return false
		}
		switch n.DeliveryStatus {
		case notification.StatusUnsent:
			return true
		case notification.StatusFailed:
			return n.NextAttemptAt == nil || !n.NextAttemptAt.After(now)
		}
		return false
	}), nil
}

func (r *memoryRepo) filter(keep func(n *notification.Notification) bool) []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for id := uint(1); id <= r.nextID; id++ {
		if row, ok := r.rows[id]; ok && keep(row) {
			out = append(out, *row)
		}
	}
	return out
}

func (r *memoryRepo) update(id uint, from []string, apply func(n *notification.Notification)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || !slices.Contains(from, row.DeliveryStatus) {
		return false
	}
	apply(row)
	return true
}

func (r *memoryRepo) Claim(ctx context.Context, id uint, from []string, at time.Time) (bool, error) {
	return r.update(id, from, func(n *notification.Notification) {
		n.DeliveryStatus = notification.StatusProcessing
		n.UpdatedAt = at
	}), nil
}

func (r *memoryRepo) MarkSent(ctx context.Context, id uint, at time.Time) (bool, error) {
	return r.update(id, []string{notification.StatusProcessing}, func(n *notification.Notification) {
		n.DeliveryStatus = notification.StatusSent
		n.SentAt = &at
		n.LastError = nil
		n.NextAttemptAt = nil
		n.Attempts++
		n.UpdatedAt = at
	}), nil
}

func (r *memoryRepo) MarkFailed(ctx context.Context, id uint, from []string, reason string, retryAt, at time.Time) (bool, error) {
	return r.update(id, from, func(n *notification.Notification) {
		n.DeliveryStatus = notification.StatusFailed
		n.LastError = &reason
		n.NextAttemptAt = &retryAt
		n.Attempts++
		n.UpdatedAt = at
	}), nil
}

func (r *memoryRepo) ReclaimStale(ctx context.Context, staleBefore, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reclaims++
	var count int64
	for _, row := range r.rows {
		if row.DeliveryStatus == notification.StatusProcessing && row.UpdatedAt.Before(staleBefore) {
			row.DeliveryStatus = notification.StatusFailed
			row.NextAttemptAt = &at
			row.UpdatedAt = at
			count++
		}
	}
	return count, nil
}

type fakeDirectory struct {
	employees   map[string]employee.Employee
	employments map[string]employee.Employment
}

func newDirectory(employees ...employee.Employee) *fakeDirectory {
	d := &fakeDirectory{employees: map[string]employee.Employee{}, employments: map[string]employee.Employment{}}
	for _, e := range employees {
		d.employees[e.Code] = e
		d.employments[e.Code] = employee.Employment{
			Code:         "EMPL-" + e.Code,
			EmployeeCode: e.Code,
			Department:   "Finance",
			Position:     "Analyst",
			BaseSalary:   decimal.RequireFromString("500000"),
			Status:       employee.EmploymentStatusActive,
		}
	}
	return d
}

func (d *fakeDirectory) GetByCode(ctx context.Context, code string) (*employee.Employee, error) {
	if e, ok := d.employees[code]; ok {
		return &e, nil
	}
	return nil, employeeerrors.ErrEmployeeNotFound
}

func (d *fakeDirectory) GetEmployment(ctx context.Context, code string) (*employee.Employment, error) {
	if e, ok := d.employments[code]; ok {
		return &e, nil
	}
	return nil, employeeerrors.ErrEmploymentNotFound
}

func (d *fakeDirectory) ListActiveEmployments(ctx context.Context) ([]employee.Employment, error) {
	var out []employee.Employment
	codes := make([]string, 0, len(d.employments))
	for code := range d.employments {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		e := d.employments[code]
		empl := d.employees[code]
		e.Employee = &empl
		out = append(out, e)
	}
	return out, nil
}

type fakePayslips struct {
	payslips map[string]payroll.Payslip
}

func (f *fakePayslips) FindByEmployeeAndPeriod(ctx context.Context, code string, month, year int) (*payroll.Payslip, error) {
	p, ok := f.payslips[code]
	if !ok || p.Month != month || p.Year != year {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

type fakeDocuments struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeDocuments) RenderDocument(ctx context.Context, code string, month, year int) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 " + code), nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []notification.Message
	err  error
	// block, when set, is received from before every send.
	block chan struct{}
}

func (m *recordingMailer) Send(ctx context.Context, msg notification.Message) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
