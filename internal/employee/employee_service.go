package employee

import (
	"context"
	"strings"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetByCode(ctx context.Context, code string) (*Employee, error)
	GetEmployment(ctx context.Context, employeeCode string) (*Employment, error)
	ListActiveEmployments(ctx context.Context) ([]Employment, error)
	ListEmploymentsByEmployeeCodes(ctx context.Context, employeeCodes []string) (map[string]Employment, error)
	ApplyLifecycleEvent(ctx context.Context, event events.EmployeeLifecycleEvent) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) GetByCode(ctx context.Context, code string) (*Employee, error) {
	if strings.TrimSpace(code) == "" {
		return nil, employeeerrors.ErrInvalidEmployeeCode
	}
	empl, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, mapRepositoryError(err, employeeerrors.ErrEmployeeNotFound)
	}
	return empl, nil
}

func (s *service) GetEmployment(ctx context.Context, employeeCode string) (*Employment, error) {
	employment, err := s.repo.FindEmploymentByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return nil, mapRepositoryError(err, employeeerrors.ErrEmploymentNotFound)
	}
	return employment, nil
}

func (s *service) ListActiveEmployments(ctx context.Context) ([]Employment, error) {
	employments, err := s.repo.FindActiveEmployments(ctx)
	if err != nil {
		s.logger.Error("list active employments failed", zap.Error(err))
		return nil, err
	}
	return employments, nil
}

func (s *service) ListEmploymentsByEmployeeCodes(ctx context.Context, employeeCodes []string) (map[string]Employment, error) {
	employments, err := s.repo.FindEmploymentsByEmployeeCodes(ctx, employeeCodes)
	if err != nil {
		s.logger.Error("list employments by employee codes failed", zap.Error(err))
		return nil, err
	}

	out := make(map[string]Employment, len(employments))
	for _, e := range employments {
		out[e.EmployeeCode] = e
	}
	return out, nil
}

// ApplyLifecycleEvent folds an upstream employee event into the local directory.
// Created and updated events upsert the employee and, when present, the employment.
func (s *service) ApplyLifecycleEvent(ctx context.Context, event events.EmployeeLifecycleEvent) error {
	log := contextutil.GetLogger(ctx, s.logger)
	code := strings.TrimSpace(event.EmployeeCode)
	if code == "" {
		return employeeerrors.ErrInvalidEmployeeCode
	}

	switch event.EventType {
	case events.EmployeeCreated, events.EmployeeUpdated, events.EmployeeDisabled:
	default:
		log.Warn("unknown employee lifecycle event",
			zap.String("event_type", event.EventType),
			zap.String("employee_code", code),
		)
		return employeeerrors.ErrUnknownLifecycleEvent
	}

	if event.Employment != nil && event.Employment.BaseSalary.IsNegative() {
		return employeeerrors.ErrNegativeBaseSalary
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		if event.EventType == events.EmployeeDisabled {
			affected, err := qtx.UpdateStatus(ctx, code, StatusDisabled)
			if err != nil {
				return err
			}
			if affected == 0 {
				return employeeerrors.ErrEmployeeNotFound
			}
			return nil
		}

		empl := &Employee{
			Code:      code,
			FirstName: strings.TrimSpace(event.FirstName),
			LastName:  strings.TrimSpace(event.LastName),
			Email:     strings.ToLower(strings.TrimSpace(event.Email)),
			Status:    StatusActive,
		}
		if m := strings.TrimSpace(event.Mobile); m != "" {
			empl.Mobile = &m
		}
		if err := qtx.UpsertEmployee(ctx, empl); err != nil {
			return err
		}

		if event.Employment == nil {
			return nil
		}

		status := event.Employment.Status
		if status != EmploymentStatusInactive {
			status = EmploymentStatusActive
		}
		employmentCode := event.Employment.Code
		if employmentCode == "" {
			employmentCode = "EMPL-" + code
		}
		return qtx.UpsertEmployment(ctx, &Employment{
			Code:         employmentCode,
			EmployeeCode: code,
			Department:   event.Employment.Department,
			Position:     event.Employment.Position,
			BaseSalary:   event.Employment.BaseSalary.Round(2),
			Status:       status,
			JoiningDate:  event.Employment.JoiningDate,
		})
	})
	if err != nil {
		log.Error("apply employee lifecycle event failed",
			zap.String("event_type", event.EventType),
			zap.String("employee_code", code),
			zap.Error(err),
		)
		return mapRepositoryError(err, employeeerrors.ErrEmployeeNotFound)
	}

	log.Info("employee lifecycle event applied",
		zap.String("event_type", event.EventType),
		zap.String("employee_code", code),
	)
	return nil
}
