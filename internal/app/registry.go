package app

import (
	"go-payroll/internal/config"
	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/notification"
	"go-payroll/internal/payroll"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Modules is the wired object graph shared by the binaries.
type Modules struct {
	Employees  employee.Service
	Deductions deduction.Service
	Payroll    payroll.Service
	Documents  *payroll.DocumentGenerator
	Dispatcher *notification.Dispatcher
	Scheduler  *notification.SweepScheduler
	Outbox     kafka.OutboxRepository
}

// NewMailer picks SMTP delivery when a relay is configured and logs
// messages otherwise.
func NewMailer(cfg *config.Config, logger *zap.Logger) notification.Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, notifications are logged instead of mailed")
		return notification.NewLogMailer(logger)
	}
	return notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})
}

// NewModules wires repositories and services. rdb may be nil, in which case
// caching, idempotency and the cross-instance sweep lock are disabled.
func NewModules(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer notification.Mailer, logger *zap.Logger) (*Modules, error) {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(db)
	deductionRepo := deduction.NewRepository(db)
	payrollRepo := payroll.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, logger)
	deductionService := deduction.NewService(db, deductionRepo, rdb, logger)
	documents := payroll.NewDocumentGenerator(payrollRepo, employeeService, logger)

	renderer, err := notification.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	dispatcher := notification.NewDispatcher(
		notificationRepo,
		employeeService,
		payrollRepo,
		documents,
		renderer,
		mailer,
		notification.DispatcherConfig{
			Concurrency: cfg.DispatchConcurrency,
			StaleAfter:  cfg.ProcessingStaleAfter,
		},
		logger,
	)
	recorder := notification.NewRecorder(notificationRepo, employeeService, logger)

	payrollService := payroll.NewServiceWithOutbox(
		db,
		payrollRepo,
		employeeService,
		deductionService,
		recorder,
		dispatcher,
		outboxRepo,
		logger,
	)

	var lock notification.Locker
	if rdb != nil {
		lock = notification.NewSweepLock(rdb, cfg.SweepLockTTL)
	}
	scheduler := notification.NewSweepScheduler(cfg.SweepSchedule, dispatcher, lock, cfg.SweepLockTTL, logger)

	return &Modules{
		Employees:  employeeService,
		Deductions: deductionService,
		Payroll:    payrollService,
		Documents:  documents,
		Dispatcher: dispatcher,
		Scheduler:  scheduler,
		Outbox:     outboxRepo,
	}, nil
}

// RegisterRoutes mounts the API under /api/v1 behind caller identity.
func RegisterRoutes(router *gin.Engine, cfg *config.Config, m *Modules, rdb *redis.Client, logger *zap.Logger) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	api := router.Group("/api/v1")
	api.Use(
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		middleware.CallerIdentity(cfg.JWTSecret),
	)

	deduction.RegisterRoutes(api, deduction.NewHandler(m.Deductions, logger))
	notification.RegisterRoutes(api, notification.NewHandler(m.Dispatcher, m.Scheduler, logger))
	payrollHandler := payroll.NewHandler(m.Payroll, m.Documents, logger)
	if rdb != nil {
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	} else {
		payroll.RegisterRoutes(api, payrollHandler)
	}
}
