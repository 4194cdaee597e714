package payroll_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"

	"gorm.io/gorm"
)

type memoryPayslipRepo struct {
	mu         sync.Mutex
	nextID     uint
	rows       map[string]*payroll.Payslip
	createErrs map[string]error
	// beforeCreate runs once per code before CreateIfAbsent stores the row.
	beforeCreate func(r *memoryPayslipRepo, p *payroll.Payslip)
	creates      int
}

func newMemoryPayslipRepo() *memoryPayslipRepo {
	return &memoryPayslipRepo{rows: map[string]*payroll.Payslip{}, createErrs: map[string]error{}}
}

func periodKey(code string, month, year int) string {
	return fmt.Sprintf("%s|%d|%d", code, month, year)
}

func (r *memoryPayslipRepo) insertLocked(p *payroll.Payslip) {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	row := *p
	r.rows[periodKey(p.EmployeeCode, p.Month, p.Year)] = &row
}

func (r *memoryPayslipRepo) seed(p payroll.Payslip) payroll.Payslip {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(&p)
	return p
}

func (r *memoryPayslipRepo) WithTx(tx *gorm.DB) payroll.Repository { return r }

func (r *memoryPayslipRepo) CreateIfAbsent(ctx context.Context, p *payroll.Payslip) (bool, error) {
	if hook := r.beforeCreate; hook != nil {
		r.beforeCreate = nil
		hook(r, p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if err := r.createErrs[p.EmployeeCode]; err != nil {
		return false, err
	}
	if _, ok := r.rows[periodKey(p.EmployeeCode, p.Month, p.Year)]; ok {
		return false, nil
	}
	r.insertLocked(p)
	return true, nil
}

func (r *memoryPayslipRepo) FindByEmployeeAndPeriod(ctx context.Context, code string, month, year int) (*payroll.Payslip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[periodKey(code, month, year)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p := *row
	return &p, nil
}

func (r *memoryPayslipRepo) FindByPeriod(ctx context.Context, month, year int) ([]payroll.Payslip, error) {
	return r.find(month, year, "")
}

func (r *memoryPayslipRepo) FindByPeriodAndStatus(ctx context.Context, month, year int, status string) ([]payroll.Payslip, error) {
	return r.find(month, year, status)
}

func (r *memoryPayslipRepo) find(month, year int, status string) ([]payroll.Payslip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.Payslip
	for _, row := range r.rows {
		if row.Month != month || row.Year != year {
			continue
		}
		if status != "" && row.Status != status {
			continue
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

func (r *memoryPayslipRepo) CountByPeriod(ctx context.Context, month, year int) (int64, error) {
	rows, _ := r.find(month, year, "")
	return int64(len(rows)), nil
}

func (r *memoryPayslipRepo) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id && row.Status == payroll.StatusPending {
			row.Status = payroll.StatusPaid
			row.PaidAt = &paidAt
			return true, nil
		}
	}
	return false, nil
}

type fakeDirectory struct {
	employees   map[string]employee.Employee
	employments []employee.Employment
	listErr     error
	listCalls   int
}

func (f *fakeDirectory) ListActiveEmployments(ctx context.Context) ([]employee.Employment, error) {
	f.listCalls++
	return f.employments, f.listErr
}

func (f *fakeDirectory) GetEmployment(ctx context.Context, code string) (*employee.Employment, error) {
	for _, e := range f.employments {
		if e.EmployeeCode == code {
			return &e, nil
		}
	}
	return nil, employeeerrors.ErrEmploymentNotFound
}

func (f *fakeDirectory) GetByCode(ctx context.Context, code string) (*employee.Employee, error) {
	if e, ok := f.employees[code]; ok {
		return &e, nil
	}
	return nil, employeeerrors.ErrEmployeeNotFound
}

type staticDeductions deduction.Table

func (s staticDeductions) Table(ctx context.Context) (deduction.Table, error) {
	return deduction.Table(s), nil
}

type fakeRecorder struct {
	RecordFn func(payslip payroll.Payslip) error
	recorded []payroll.Payslip
}

func (f *fakeRecorder) RecordPayslipPaid(ctx context.Context, tx *gorm.DB, payslip payroll.Payslip) error {
	if f.RecordFn != nil {
		if err := f.RecordFn(payslip); err != nil {
			return err
		}
	}
	f.recorded = append(f.recorded, payslip)
	return nil
}

type fakeDispatcher struct {
	err   error
	calls [][2]int
}

func (f *fakeDispatcher) DispatchForPeriod(ctx context.Context, month, year int) error {
	f.calls = append(f.calls, [2]int{month, year})
	return f.err
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

func activeEmployment(code, base string) employee.Employment {
	return employee.Employment{
		Code:         "EMPL-" + code,
		EmployeeCode: code,
		Department:   "Finance",
		Position:     "Analyst",
		BaseSalary:   dec(base),
		Status:       employee.EmploymentStatusActive,
		Employee: &employee.Employee{
			Code:      code,
			FirstName: "Emp",
			LastName:  code,
			Email:     code + "@example.com",
			Status:    employee.StatusActive,
		},
	}
}
