package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/target/jobboard-api/internal/core"
	"github.com/target/jobboard-api/internal/domain/model"
	apperrors "github.com/target/jobboard-api/internal/errors"
	"github.com/target/jobboard-api/internal/observability/metrics"
	"golang.org/x/sync/errgroup"
)

const alertDigestLockKey = "alert-digest:lock"

// AlertDigestConfig controls the periodic alert evaluation.
type AlertDigestConfig struct {
	Schedule      string        // cron spec, e.g. "@every 1h"
	DefaultWindow time.Duration // look-back for alerts that never ran
	Concurrency   int           // users evaluated in parallel
	LockTTL       time.Duration // upper bound on one run across replicas
}

type alertRunner interface {
	RunForUser(ctx context.Context, userID string, fallback time.Duration) ([]model.AlertRunResult, int, error)
}

type alertUserLister interface {
	ListUsersWithKey(ctx context.Context, key model.DocumentKey) ([]string, error)
}

// AlertDigestServiceOptions groups dependencies for AlertDigestService.
type AlertDigestServiceOptions struct {
	Alerts  alertRunner          // Required
	Users   alertUserLister      // Required
	Lock    core.CacheRepository // Optional: serializes runs across replicas
	Config  AlertDigestConfig
	Logger  *slog.Logger      // Optional
	Metrics *metrics.Registry // Optional
}

// AlertDigestService evaluates every saved alert on a cron schedule.
type AlertDigestService struct {
	alerts   alertRunner
	users    alertUserLister
	lock     core.CacheRepository
	cfg      AlertDigestConfig
	schedule cron.Schedule
	logger   *slog.Logger
	metrics  *metrics.Registry
}

// NewAlertDigestService validates the configuration and builds the service.
func NewAlertDigestService(opts AlertDigestServiceOptions) (*AlertDigestService, error) {
	if opts.Alerts == nil || opts.Users == nil {
		return nil, errors.New("alert runner and user lister are required")
	}
	cfg := opts.Config
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1h"
	}
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parse alert digest schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = 24 * time.Hour
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertDigestService{
		alerts:   opts.Alerts,
		users:    opts.Users,
		lock:     opts.Lock,
		cfg:      cfg,
		schedule: schedule,
		logger:   logger.With("component", "alert_digest"),
		metrics:  opts.Metrics,
	}, nil
}

// Run schedules RunOnce until ctx is canceled. A run in progress at shutdown
// is allowed to observe the canceled context and return.
func (s *AlertDigestService) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		if _, err := s.RunOnce(ctx); err != nil && !isContextCancellation(err) {
			s.logger.ErrorContext(ctx, "alert digest run failed", "error", err)
		}
	}))

	s.logger.InfoContext(ctx, "starting alert digest", "schedule", s.cfg.Schedule, "concurrency", s.cfg.Concurrency)
	c.Start()
	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	s.logger.InfoContext(ctx, "alert digest stopped", "reason", ctx.Err())
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// RunOnce evaluates all alerts of all users once. It returns a conflict
// error when another replica holds the run lock.
func (s *AlertDigestService) RunOnce(ctx context.Context) (model.AlertDigestSummary, error) {
	var summary model.AlertDigestSummary
	start := time.Now()

	release, err := s.acquire(ctx)
	if err != nil {
		s.metrics.ObserveDigestRun(metrics.ResultNoop, 0, time.Now())
		return summary, err
	}
	defer release()

	users, err := s.users.ListUsersWithKey(ctx, model.DocAlerts)
	if err != nil {
		s.metrics.ObserveDigestRun(metrics.ResultError, 0, time.Now())
		return summary, fmt.Errorf("list alert users: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, userID := range users {
		g.Go(func() error {
			results, failed, runErr := s.alerts.RunForUser(gctx, userID, s.cfg.DefaultWindow)
			if isContextCancellation(runErr) {
				return runErr
			}

			mu.Lock()
			defer mu.Unlock()
			summary.Users++
			summary.Failed += failed
			if runErr != nil {
				summary.Failed++
				s.logger.WarnContext(gctx, "alert evaluation failed", "user_id", userID, "error", runErr)
				return nil
			}
			summary.Alerts += len(results) + failed
			for _, r := range results {
				summary.Matches += r.MatchCount
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.metrics.ObserveDigestRun(metrics.ResultError, summary.Matches, time.Now())
		return summary, err
	}

	result := metrics.ResultSuccess
	if summary.Failed > 0 {
		result = metrics.ResultError
	}
	s.metrics.ObserveDigestRun(result, summary.Matches, time.Now())
	s.logger.InfoContext(ctx, "alert digest complete",
		"users", summary.Users,
		"alerts", summary.Alerts,
		"matches", summary.Matches,
		"failed", summary.Failed,
		"duration", time.Since(start),
	)
	return summary, nil
}

func (s *AlertDigestService) acquire(ctx context.Context) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	ok, err := s.lock.SetIfNotExists(ctx, alertDigestLockKey, []byte(time.Now().UTC().Format(time.RFC3339)), s.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire alert digest lock: %w", err)
	}
	if !ok {
		return nil, apperrors.Conflict("an alert digest run is already in progress")
	}
	return func() {
		// The run context may already be canceled; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if _, delErr := s.lock.Delete(releaseCtx, alertDigestLockKey); delErr != nil {
			s.logger.WarnContext(ctx, "failed to release alert digest lock", "error", delErr)
		}
	}, nil
}

func isContextCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
