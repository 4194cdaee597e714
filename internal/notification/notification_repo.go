package notification

import (
	"context"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxErrorLength = 500

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, n *Notification) error
	CreateIfAbsent(ctx context.Context, n *Notification) (bool, error)
	FindByID(ctx context.Context, id uint) (*Notification, error)
	FindByPeriodAndStatuses(ctx context.Context, month, year int, statuses ...string) ([]Notification, error)
	FindBacklog(ctx context.Context, years []int, now time.Time) ([]Notification, error)
	Claim(ctx context.Context, id uint, from []string, at time.Time) (bool, error)
	MarkSent(ctx context.Context, id uint, at time.Time) (bool, error)
	MarkFailed(ctx context.Context, id uint, from []string, reason string, retryAt, at time.Time) (bool, error)
	ReclaimStale(ctx context.Context, staleBefore, at time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, n *Notification) error {
	if n.DeliveryStatus == "" {
		n.DeliveryStatus = StatusUnsent
	}
	return r.db.WithContext(ctx).Create(n).Error
}

// CreateIfAbsent inserts n unless the employee already has a notification
// for the period. It reports whether a row was written.
func (r *repository) CreateIfAbsent(ctx context.Context, n *Notification) (bool, error) {
	if n.DeliveryStatus == "" {
		n.DeliveryStatus = StatusUnsent
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_code"}, {Name: "month"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Notification, error) {
	var n Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// FindByPeriodAndStatuses lists notifications of a period. No statuses means all of them.
func (r *repository) FindByPeriodAndStatuses(ctx context.Context, month, year int, statuses ...string) ([]Notification, error) {
	var out []Notification
	q := r.db.WithContext(ctx).Where("month = ? AND year = ?", month, year)
	if len(statuses) > 0 {
		q = q.Where("delivery_status IN ?", statuses)
	}
	err := q.Order("id ASC").Find(&out).Error
	return out, err
}

// FindBacklog returns every unsent notification of the given years plus the
// failed ones whose retry time has come.
func (r *repository) FindBacklog(ctx context.Context, years []int, now time.Time) ([]Notification, error) {
	var out []Notification
	due := r.db.Session(&gorm.Session{NewDB: true}).
		Where("delivery_status = ?", StatusUnsent).
		Or("delivery_status = ? AND (next_attempt_at IS NULL OR next_attempt_at <= ?)", StatusFailed, now)
	err := r.db.WithContext(ctx).
		Where("year IN ?", years).
		Where(due).
		Order("year ASC, month ASC, id ASC").
		Find(&out).Error
	return out, err
}

// Claim moves a notification to PROCESSING if its status is still one of from.
// Only one caller can win the claim for a given record.
func (r *repository) Claim(ctx context.Context, id uint, from []string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND delivery_status IN ?", id, from).
		Updates(map[string]any{
			"delivery_status": StatusProcessing,
			"updated_at":      at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) MarkSent(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND delivery_status = ?", id, StatusProcessing).
		Updates(map[string]any{
			"delivery_status": StatusSent,
			"sent_at":         at,
			"last_error":      nil,
			"next_attempt_at": nil,
			"attempts":        gorm.Expr("attempts + 1"),
			"updated_at":      at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) MarkFailed(ctx context.Context, id uint, from []string, reason string, retryAt, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND delivery_status IN ?", id, from).
		Updates(map[string]any{
			"delivery_status": StatusFailed,
			"last_error":      truncate(reason, maxErrorLength),
			"next_attempt_at": retryAt,
			"attempts":        gorm.Expr("attempts + 1"),
			"updated_at":      at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReclaimStale requeues PROCESSING notifications untouched since staleBefore
// as FAILED, due immediately.
func (r *repository) ReclaimStale(ctx context.Context, staleBefore, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("delivery_status = ? AND updated_at < ?", StatusProcessing, staleBefore).
		Updates(map[string]any{
			"delivery_status": StatusFailed,
			"last_error":      "processing timed out",
			"next_attempt_at": at,
			"updated_at":      at,
		})
	return res.RowsAffected, res.Error
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
