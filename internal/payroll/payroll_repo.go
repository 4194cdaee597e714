package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateIfAbsent(ctx context.Context, payslip *Payslip) (bool, error)
	FindByEmployeeAndPeriod(ctx context.Context, employeeCode string, month, year int) (*Payslip, error)
	FindByPeriod(ctx context.Context, month, year int) ([]Payslip, error)
	FindByPeriodAndStatus(ctx context.Context, month, year int, status string) ([]Payslip, error)
	CountByPeriod(ctx context.Context, month, year int) (int64, error)
	MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// CreateIfAbsent inserts payslip unless one already exists for its employee
// and period. It reports whether a row was written.
func (r *repository) CreateIfAbsent(ctx context.Context, payslip *Payslip) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_code"}, {Name: "month"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(payslip)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindByEmployeeAndPeriod(ctx context.Context, employeeCode string, month, year int) (*Payslip, error) {
	var payslip Payslip
	err := r.db.WithContext(ctx).
		Where("employee_code = ? AND month = ? AND year = ?", employeeCode, month, year).
		First(&payslip).Error
	if err != nil {
		return nil, err
	}
	return &payslip, nil
}

func (r *repository) FindByPeriod(ctx context.Context, month, year int) ([]Payslip, error) {
	var payslips []Payslip
	err := r.db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		Order("employee_code ASC").
		Find(&payslips).Error
	return payslips, err
}

func (r *repository) FindByPeriodAndStatus(ctx context.Context, month, year int, status string) ([]Payslip, error) {
	var payslips []Payslip
	err := r.db.WithContext(ctx).
		Where("month = ? AND year = ? AND status = ?", month, year, status).
		Order("employee_code ASC").
		Find(&payslips).Error
	return payslips, err
}

func (r *repository) CountByPeriod(ctx context.Context, month, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payslip{}).
		Where("month = ? AND year = ?", month, year).
		Count(&count).Error
	return count, err
}

// MarkPaid flips a PENDING payslip to PAID. It reports false when the
// payslip was not pending anymore.
func (r *repository) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Payslip{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":     StatusPaid,
			"paid_at":    paidAt,
			"updated_at": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
