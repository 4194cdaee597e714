package deduction

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=deduction_repo.go -destination=mock/deduction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindAll(ctx context.Context) ([]DeductionRule, error)
	FindByCode(ctx context.Context, code string) (*DeductionRule, error)
	FindByName(ctx context.Context, name string) (*DeductionRule, error)
	Create(ctx context.Context, rule *DeductionRule) error
	CreateIfAbsent(ctx context.Context, rule *DeductionRule) (bool, error)
	Update(ctx context.Context, rule *DeductionRule) error
	Delete(ctx context.Context, code string) (int64, error)
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

func (r *repository) FindAll(ctx context.Context) ([]DeductionRule, error) {
	var rules []DeductionRule
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*DeductionRule, error) {
	var rule DeductionRule
	if err := r.db.WithContext(ctx).First(&rule, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*DeductionRule, error) {
	var rule DeductionRule
	if err := r.db.WithContext(ctx).First(&rule, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) Create(ctx context.Context, rule *DeductionRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// CreateIfAbsent inserts rule unless its code or name is already taken.
func (r *repository) CreateIfAbsent(ctx context.Context, rule *DeductionRule) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rule)
	return res.RowsAffected == 1, res.Error
}

func (r *repository) Update(ctx context.Context, rule *DeductionRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *repository) Delete(ctx context.Context, code string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&DeductionRule{}, "code = ?", code)
	return res.RowsAffected, res.Error
}
