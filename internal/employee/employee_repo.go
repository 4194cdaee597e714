package employee

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindEmploymentByEmployeeCode(ctx context.Context, employeeCode string) (*Employment, error)
	FindEmploymentsByEmployeeCodes(ctx context.Context, employeeCodes []string) ([]Employment, error)
	FindActiveEmployments(ctx context.Context) ([]Employment, error)
	UpsertEmployee(ctx context.Context, empl *Employee) error
	UpsertEmployment(ctx context.Context, employment *Employment) error
	UpdateStatus(ctx context.Context, code string, status string) (int64, error)
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

func (r *repository) FindByCode(ctx context.Context, code string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		First(&empl, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindEmploymentByEmployeeCode(ctx context.Context, employeeCode string) (*Employment, error) {
	var employment Employment
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&employment, "employee_code = ?", employeeCode).Error
	if err != nil {
		return nil, err
	}
	return &employment, nil
}

func (r *repository) FindEmploymentsByEmployeeCodes(ctx context.Context, employeeCodes []string) ([]Employment, error) {
	var employments []Employment
	if len(employeeCodes) == 0 {
		return employments, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("employee_code IN ?", employeeCodes).
		Find(&employments).Error
	return employments, err
}

// FindActiveEmployments returns active employments whose employee is active too.
func (r *repository) FindActiveEmployments(ctx context.Context) ([]Employment, error) {
	var employments []Employment
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.code = employments.employee_code").
		Where("employments.status = ?", EmploymentStatusActive).
		Where("employees.status = ?", StatusActive).
		Preload("Employee").
		Order("employments.employee_code ASC").
		Find(&employments).Error
	return employments, err
}

func (r *repository) UpsertEmployee(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "email", "mobile", "status", "updated_at"}),
		}).
		Create(empl).Error
}

func (r *repository) UpsertEmployment(ctx context.Context, employment *Employment) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"department", "position", "base_salary", "status", "joining_date", "updated_at"}),
		}).
		Create(employment).Error
}

func (r *repository) UpdateStatus(ctx context.Context, code string, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("code = ?", code).
		Update("status", status)
	return res.RowsAffected, res.Error
}
