package deduction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	deductionerrors "go-payroll/internal/deduction/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	TableVersionKey = "deductions:table:version"
	tableCacheTTL   = time.Hour
)

// TableCacheKey is where the rate table of a cache version is stored.
// Bumping the version orphans loads that started before a rule changed.
func TableCacheKey(version int64) string {
	return fmt.Sprintf("deductions:table:v%d", version)
}

var nonCodeChars = regexp.MustCompile(`[^A-Z0-9]+`)

type Service interface {
	GetAll(ctx context.Context) ([]DeductionResponse, error)
	GetByCode(ctx context.Context, code string) (DeductionResponse, error)
	Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error)
	Update(ctx context.Context, code string, req UpdateDeductionRequest) (DeductionResponse, error)
	Delete(ctx context.Context, code string) error
	Table(ctx context.Context) (Table, error)
	Seed(ctx context.Context) (int, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("deduction.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("deduction.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context) ([]DeductionResponse, error) {
	rules, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all deductions failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rules), nil
}

func (s *service) GetByCode(ctx context.Context, code string) (DeductionResponse, error) {
	rule, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return DeductionResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*rule), nil
}

func (s *service) Create(ctx context.Context, req CreateDeductionRequest) (DeductionResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return DeductionResponse{}, deductionerrors.ErrInvalidName
	}
	if err := validateRate(req.Rate); err != nil {
		return DeductionResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		code = generateCode(name)
	}

	rule := &DeductionRule{
		Code: code,
		Name: name,
		Rate: *req.Rate,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if _, err := qtx.FindByName(ctx, name); err == nil {
			return deductionerrors.ErrDeductionNameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if _, err := qtx.FindByCode(ctx, code); err == nil {
			return deductionerrors.ErrDeductionCodeTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return qtx.Create(ctx, rule)
	})
	if err != nil {
		log.Warn("create deduction failed", zap.String("name", name), zap.Error(err))
		return DeductionResponse{}, mapRepositoryError(err)
	}

	s.invalidateTable(ctx)
	log.Info("deduction created", zap.String("code", rule.Code), zap.String("name", rule.Name))
	return mapToResponse(*rule), nil
}

func (s *service) Update(ctx context.Context, code string, req UpdateDeductionRequest) (DeductionResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return DeductionResponse{}, deductionerrors.ErrInvalidName
	}
	if err := validateRate(req.Rate); err != nil {
		return DeductionResponse{}, err
	}

	var rule *DeductionRule
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		existing, err := qtx.FindByCode(ctx, code)
		if err != nil {
			return err
		}

		if existing.Name != name {
			if _, err := qtx.FindByName(ctx, name); err == nil {
				return deductionerrors.ErrDeductionNameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		existing.Name = name
		existing.Rate = *req.Rate
		if err := qtx.Update(ctx, existing); err != nil {
			return err
		}
		rule = existing
		return nil
	})
	if err != nil {
		log.Warn("update deduction failed", zap.String("code", code), zap.Error(err))
		return DeductionResponse{}, mapRepositoryError(err)
	}

	s.invalidateTable(ctx)
	log.Info("deduction updated", zap.String("code", code))
	return mapToResponse(*rule), nil
}

func (s *service) Delete(ctx context.Context, code string) error {
	affected, err := s.repo.Delete(ctx, code)
	if err != nil {
		s.logger.Error("delete deduction failed", zap.String("code", code), zap.Error(err))
		return mapRepositoryError(err)
	}
	if affected == 0 {
		return deductionerrors.ErrDeductionNotFound
	}

	s.invalidateTable(ctx)
	s.logger.Info("deduction deleted", zap.String("code", code))
	return nil
}

// Table returns the current rate table, served from Redis when cached.
func (s *service) Table(ctx context.Context) (Table, error) {
	key, cacheable := s.tableKey(ctx)
	if cacheable {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var t Table
			if json.Unmarshal([]byte(cached), &t) == nil {
				return t, nil
			}
		}
	}

	sfKey := key
	if !cacheable {
		sfKey = "deductions:table:uncached"
	}
	v, err, _ := s.sf.Do(sfKey, func() (any, error) {
		rules, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		t := NewTable(rules)

		if cacheable {
			if payload, err := json.Marshal(t); err == nil {
				if err := s.rdb.Set(ctx, key, payload, tableCacheTTL).Err(); err != nil {
					s.logger.Warn("cache deduction table failed", zap.Error(err))
				}
			}
		}
		return t, nil
	})
	if err != nil {
		s.logger.Error("load deduction table failed", zap.Error(err))
		return nil, err
	}

	return v.(Table), nil
}

// tableKey reads the current cache version. The version must be read before
// the rules so a concurrent change always moves later readers to a new key.
func (s *service) tableKey(ctx context.Context) (string, bool) {
	if s.rdb == nil {
		return "", false
	}
	version, err := s.rdb.Get(ctx, TableVersionKey).Int64()
	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		version = 0
	default:
		s.logger.Warn("read deduction table version failed", zap.Error(err))
		return "", false
	}
	return TableCacheKey(version), true
}

// Seed installs the default rules that are not present yet.
func (s *service) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, rule := range DefaultRules() {
		rule := rule
		ok, err := s.repo.CreateIfAbsent(ctx, &rule)
		if err != nil {
			s.logger.Error("seed deduction failed", zap.String("name", rule.Name), zap.Error(err))
			return created, err
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		s.invalidateTable(ctx)
		s.logger.Info("default deductions seeded", zap.Int("created", created))
	}
	return created, nil
}

func (s *service) invalidateTable(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, TableVersionKey).Err(); err != nil {
		s.logger.Error("failed to invalidate deduction table cache",
			zap.Error(err),
			zap.String("key", TableVersionKey),
		)
	}
}

func validateRate(rate *decimal.Decimal) error {
	if rate == nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return deductionerrors.ErrInvalidRate
	}
	return nil
}

// generateCode derives a code like "EMPLOYE_1A2B" from the rule name.
func generateCode(name string) string {
	base := nonCodeChars.ReplaceAllString(strings.ToUpper(name), "_")
	base = strings.Trim(base, "_")
	if len(base) > 7 {
		base = base[:7]
	}
	if base == "" {
		base = "DED"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return base + "_" + suffix
}

func mapToResponse(rule DeductionRule) DeductionResponse {
	return DeductionResponse{
		Code:      rule.Code,
		Name:      rule.Name,
		Rate:      rule.Rate,
		CreatedAt: rule.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rule.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(rules []DeductionRule) []DeductionResponse {
	res := make([]DeductionResponse, len(rules))
	for i, r := range rules {
		res[i] = mapToResponse(r)
	}
	return res
}
