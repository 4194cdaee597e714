package notification

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	notificationerrors "go-payroll/internal/notification/errors"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	maxBackoffSteps = 10
	backoffStep     = time.Minute
	sweepKey        = "sweep"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)

// ValidEmail applies the conservative address check used before delivery.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type EmployeeDirectory interface {
	GetByCode(ctx context.Context, code string) (*employee.Employee, error)
	GetEmployment(ctx context.Context, employeeCode string) (*employee.Employment, error)
}

type PayslipFinder interface {
	FindByEmployeeAndPeriod(ctx context.Context, employeeCode string, month, year int) (*payroll.Payslip, error)
}

type DocumentRenderer interface {
	RenderDocument(ctx context.Context, employeeCode string, month, year int) ([]byte, error)
}

type DispatcherConfig struct {
	Concurrency int
	StaleAfter  time.Duration
}

// Summary counts the outcomes of one dispatch run.
type Summary struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeSent
	outcomeFailed
)

// run describes which records a dispatch may claim and whether the payslip
// document is attached.
type run struct {
	from   []string
	attach bool
}

type Dispatcher struct {
	repo        Repository
	employees   EmployeeDirectory
	payslips    PayslipFinder
	documents   DocumentRenderer
	renderer    Renderer
	mailer      Mailer
	concurrency int
	staleAfter  time.Duration
	now         func() time.Time
	sweeps      singleflight.Group
	logger      *zap.Logger
}

func NewDispatcher(
	repo Repository,
	employees EmployeeDirectory,
	payslips PayslipFinder,
	documents DocumentRenderer,
	renderer Renderer,
	mailer Mailer,
	cfg DispatcherConfig,
	logger ...*zap.Logger,
) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Dispatcher{
		repo:        repo,
		employees:   employees,
		payslips:    payslips,
		documents:   documents,
		renderer:    renderer,
		mailer:      mailer,
		concurrency: cfg.Concurrency,
		staleAfter:  cfg.StaleAfter,
		now:         time.Now,
		logger:      l,
	}
}

// DispatchForPeriod delivers the UNSENT notifications of a period with the
// payslip document attached. Per-notification failures are recorded on the
// notification and never returned.
func (d *Dispatcher) DispatchForPeriod(ctx context.Context, month, year int) error {
	_, err := d.DispatchPeriod(ctx, month, year)
	return err
}

func (d *Dispatcher) DispatchPeriod(ctx context.Context, month, year int) (Summary, error) {
	log := contextutil.GetLogger(ctx, d.logger).With(zap.Int("month", month), zap.Int("year", year))
	if err := payroll.ValidatePeriod(month, year, d.now()); err != nil {
		return Summary{}, err
	}

	pending, err := d.repo.FindByPeriodAndStatuses(ctx, month, year, StatusUnsent)
	if err != nil {
		log.Error("dispatch list unsent failed", zap.Error(err))
		return Summary{}, err
	}

	summary := d.process(ctx, log, pending, run{from: []string{StatusUnsent}, attach: true})
	log.Info("dispatch finished",
		zap.Int("total", summary.Total),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, ctx.Err()
}

// SweepBacklog retries every UNSENT or due FAILED notification of the current
// and previous year. Concurrent calls in this process share one run.
func (d *Dispatcher) SweepBacklog(ctx context.Context) error {
	_, err := d.Sweep(ctx)
	return err
}

func (d *Dispatcher) Sweep(ctx context.Context) (Summary, error) {
	v, err, shared := d.sweeps.Do(sweepKey, func() (any, error) {
		return d.sweep(ctx)
	})
	if shared {
		d.logger.Debug("joined running sweep")
	}
	summary, _ := v.(Summary)
	return summary, err
}

func (d *Dispatcher) sweep(ctx context.Context) (Summary, error) {
	log := contextutil.GetLogger(ctx, d.logger)
	now := d.now()

	if d.staleAfter > 0 {
		reclaimed, err := d.repo.ReclaimStale(ctx, now.Add(-d.staleAfter), now)
		if err != nil {
			log.Error("sweep reclaim stale failed", zap.Error(err))
			return Summary{}, err
		}
		if reclaimed > 0 {
			log.Warn("sweep requeued stale processing notifications", zap.Int64("count", reclaimed))
		}
	}

	backlog, err := d.repo.FindBacklog(ctx, []int{now.Year() - 1, now.Year()}, now)
	if err != nil {
		log.Error("sweep list backlog failed", zap.Error(err))
		return Summary{}, err
	}

	summary := d.process(ctx, log, backlog, run{from: []string{StatusUnsent, StatusFailed}})
	log.Info("sweep finished",
		zap.Int("total", summary.Total),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, ctx.Err()
}

// ListForPeriod returns the notifications of a period, optionally filtered by status.
func (d *Dispatcher) ListForPeriod(ctx context.Context, month, year int, status string) ([]Notification, error) {
	if err := payroll.ValidatePeriod(month, year, d.now()); err != nil {
		return nil, err
	}
	var statuses []string
	if status != "" {
		if !validStatus(status) {
			return nil, notificationerrors.ErrInvalidStatusFilter
		}
		statuses = append(statuses, status)
	}
	out, err := d.repo.FindByPeriodAndStatuses(ctx, month, year, statuses...)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Notification{}
	}
	return out, nil
}

func (d *Dispatcher) process(ctx context.Context, log *zap.Logger, batch []Notification, r run) Summary {
	var sent, failed, skipped atomic.Int64

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for _, n := range batch {
		n := n
		if ctx.Err() != nil {
			log.Warn("dispatch cancelled", zap.Int64("sent", sent.Load()), zap.Int64("failed", failed.Load()))
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				skipped.Add(1)
				return nil
			}
			switch d.deliver(ctx, log, n, r) {
			case outcomeSent:
				sent.Add(1)
			case outcomeFailed:
				failed.Add(1)
			default:
				skipped.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Summary{
		Total:   len(batch),
		Sent:    int(sent.Load()),
		Failed:  int(failed.Load()),
		Skipped: int(skipped.Load()),
	}
}

func (d *Dispatcher) deliver(ctx context.Context, log *zap.Logger, n Notification, r run) outcome {
	log = log.With(zap.Uint("notification_id", n.ID), zap.String("employee_code", n.EmployeeCode))

	empl, err := d.employees.GetByCode(ctx, n.EmployeeCode)
	if err != nil && !errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
		return d.fail(ctx, log, n, r.from, err)
	}
	if empl == nil || strings.TrimSpace(empl.Email) == "" {
		return d.fail(ctx, log, n, r.from, notificationerrors.ErrRecipientMissing)
	}
	if !ValidEmail(empl.Email) {
		return d.fail(ctx, log, n, r.from, notificationerrors.ErrInvalidEmail)
	}

	claimed, err := d.repo.Claim(ctx, n.ID, r.from, d.now())
	if err != nil {
		log.Error("claim notification failed", zap.Error(err))
		return outcomeSkipped
	}
	if !claimed {
		log.Debug("notification already claimed")
		return outcomeSkipped
	}

	msg, err := d.compose(ctx, *empl, n, r.attach)
	if err == nil {
		err = d.mailer.Send(ctx, msg)
		if err != nil {
			err = notificationerrors.ErrDeliveryFailed.WithCause(err)
		}
	}
	if err != nil {
		return d.fail(ctx, log, n, []string{StatusProcessing}, err)
	}

	ok, err := d.repo.MarkSent(ctx, n.ID, d.now())
	if err != nil || !ok {
		// The mail is out; the stale reclaim will requeue it if this row stays PROCESSING.
		log.Error("mark notification sent failed", zap.Bool("updated", ok), zap.Error(err))
	}
	log.Info("notification sent", zap.Bool("attachment", len(msg.Attachments) > 0))
	return outcomeSent
}

func (d *Dispatcher) compose(ctx context.Context, empl employee.Employee, n Notification, attach bool) (Message, error) {
	msg := Message{
		To:      empl.Email,
		Subject: Subject(n.Month, n.Year),
	}

	payslip, err := d.payslips.FindByEmployeeAndPeriod(ctx, n.EmployeeCode, n.Month, n.Year)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		msg.HTMLBody = n.MessageContent
		return msg, nil
	}
	if err != nil {
		return Message{}, err
	}

	employment, err := d.employees.GetEmployment(ctx, n.EmployeeCode)
	if err != nil {
		if !errors.Is(err, employeeerrors.ErrEmploymentNotFound) {
			return Message{}, err
		}
		employment = nil
	}

	view := NewPayslipView(empl, employment, *payslip)
	view.HasAttachment = attach
	body, err := d.renderer.Render(TemplatePayslip, view)
	if err != nil {
		return Message{}, err
	}
	msg.HTMLBody = body

	if attach {
		doc, err := d.documents.RenderDocument(ctx, n.EmployeeCode, n.Month, n.Year)
		if err != nil {
			return Message{}, notificationerrors.ErrRenderFailed.WithCause(err)
		}
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    AttachmentName(n.EmployeeCode, n.Month, n.Year),
			ContentType: "application/pdf",
			Data:        doc,
		})
	}
	return msg, nil
}

func (d *Dispatcher) fail(ctx context.Context, log *zap.Logger, n Notification, from []string, cause error) outcome {
	now := d.now()
	steps := n.Attempts + 1
	if steps > maxBackoffSteps {
		steps = maxBackoffSteps
	}
	retryAt := now.Add(time.Duration(steps) * backoffStep)

	ok, err := d.repo.MarkFailed(ctx, n.ID, from, cause.Error(), retryAt, now)
	if err != nil {
		log.Error("mark notification failed errored", zap.NamedError("cause", cause), zap.Error(err))
		return outcomeFailed
	}
	if !ok {
		log.Debug("notification changed before it could be marked failed", zap.Error(cause))
		return outcomeSkipped
	}
	log.Warn("notification delivery failed", zap.Error(cause), zap.Time("retry_at", retryAt))
	return outcomeFailed
}
