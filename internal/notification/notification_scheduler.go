package notification

import (
	"context"
	"errors"
	"time"

	notificationerrors "go-payroll/internal/notification/errors"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Sweeper interface {
	Sweep(ctx context.Context) (Summary, error)
}

type Locker interface {
	Acquire(ctx context.Context) (string, error)
	Release(ctx context.Context, token string) error
}

// SweepScheduler runs the backlog sweep on a cron schedule. With a Locker,
// runs that find the lock taken are skipped.
type SweepScheduler struct {
	cron     *cron.Cron
	schedule string
	sweeper  Sweeper
	lock     Locker
	timeout  time.Duration
	logger   *zap.Logger
}

func NewSweepScheduler(schedule string, sweeper Sweeper, lock Locker, timeout time.Duration, logger ...*zap.Logger) *SweepScheduler {
	l := zap.L().Named("notification.scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.scheduler")
	}
	return &SweepScheduler{
		cron:     cron.New(),
		schedule: schedule,
		sweeper:  sweeper,
		lock:     lock,
		timeout:  timeout,
		logger:   l,
	}
}

func (s *SweepScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.tick); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("backlog sweep scheduled", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops scheduling and waits for a running sweep until ctx is done.
func (s *SweepScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("sweep still running at shutdown")
	}
}

func (s *SweepScheduler) tick() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := s.RunOnce(ctx); err != nil {
		if errors.Is(err, notificationerrors.ErrSweepInProgress) {
			s.logger.Debug("sweep skipped, lock held elsewhere")
			return
		}
		s.logger.Error("scheduled sweep failed", zap.Error(err))
	}
}

// RunOnce sweeps now. It returns ErrSweepInProgress when another instance
// holds the lock.
func (s *SweepScheduler) RunOnce(ctx context.Context) (Summary, error) {
	if s.lock == nil {
		return s.sweeper.Sweep(ctx)
	}

	token, err := s.lock.Acquire(ctx)
	if err != nil {
		return Summary{}, err
	}
	if token == "" {
		return Summary{}, notificationerrors.ErrSweepInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), token); err != nil {
			s.logger.Warn("release sweep lock failed", zap.Error(err))
		}
	}()

	return s.sweeper.Sweep(ctx)
}
