// Package sweep runs the periodic auto-complete pass over stale
// confirmed bookings. A Redis lock keeps concurrent worker-manager
// instances from double-settling the same batch.
package sweep

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/config"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/metrics"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

const (
	lockKey    = "sweep:autocomplete:lock"
	lastRunKey = "sweep:autocomplete:last_run"
)

// Engine is the slice of the settlement engine the sweep drives.
type Engine interface {
	ListStale(ctx context.Context) ([]*models.Booking, error)
	AutoComplete(ctx context.Context, booking *models.Booking) (bool, error)
}

// Locker is the Redis surface the sweep needs for cross-process
// coordination.
type Locker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Sweeper struct {
	engine Engine
	locker Locker
	logger logger.Logger
	cfg    config.SweepConfig
	now    func() time.Time

	running atomic.Bool
	stop    chan struct{}
	done    sync.WaitGroup
}

func New(engine Engine, locker Locker, log logger.Logger, cfg config.SweepConfig) *Sweeper {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Sweeper{
		engine: engine,
		locker: locker,
		logger: log,
		cfg:    cfg,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
}

// Start launches the ticker loop. One immediate run fires on startup so
// a restarted process does not wait a full interval.
func (s *Sweeper) Start(ctx context.Context) {
	interval := time.Duration(s.cfg.IntervalMinutes) * time.Minute
	s.done.Add(1)
	go func() {
		defer s.done.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.RunOnce(ctx)
		for {
			select {
			case <-ticker.C:
				s.RunOnce(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("auto-complete sweep started", map[string]interface{}{
		"intervalMinutes": s.cfg.IntervalMinutes,
	})
}

// Stop signals the loop and waits for an in-flight run to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	s.done.Wait()
}

// RunOnce executes a single sweep pass. The in-process flag stops a slow
// pass from overlapping the next tick; the Redis lock stops other
// processes. Returns the number of bookings auto-completed.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("sweep pass still running, skipping tick", nil)
		return 0
	}
	defer s.running.Store(false)

	lockTTL := time.Duration(s.cfg.LockTTLMinutes) * time.Minute
	acquired, err := s.locker.SetNX(ctx, lockKey, s.now().Format(time.RFC3339), lockTTL)
	if err != nil {
		s.logger.Error("sweep lock acquisition failed", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}
	if !acquired {
		s.logger.Info("sweep lock held by another instance, skipping", nil)
		return 0
	}
	defer func() {
		if err := s.locker.Del(ctx, lockKey); err != nil {
			s.logger.Warn("sweep lock release failed, relying on TTL", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	completed := s.sweep(ctx)

	if err := s.locker.Set(ctx, lastRunKey, s.now().Format(time.RFC3339), 0); err != nil {
		s.logger.Warn("failed to persist sweep watermark", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return completed
}

func (s *Sweeper) sweep(ctx context.Context) int {
	batch, err := s.engine.ListStale(ctx)
	if err != nil {
		s.logger.Error("listing stale bookings failed", map[string]interface{}{
			"error": err.Error(),
		})
		return 0
	}
	metrics.SweepBatchSize.Observe(float64(len(batch)))
	if len(batch) == 0 {
		return 0
	}

	var completed int
	for _, booking := range batch {
		// One bad booking must not sink the rest of the batch.
		done, err := s.engine.AutoComplete(ctx, booking)
		switch {
		case err != nil:
			metrics.SweepBookingsProcessed.WithLabelValues("error").Inc()
			s.logger.Error("auto-complete failed", map[string]interface{}{
				"bookingId": booking.ID,
				"error":     err.Error(),
			})
		case done:
			completed++
		default:
			metrics.SweepBookingsProcessed.WithLabelValues("skipped").Inc()
		}
	}

	s.logger.Info("sweep pass finished", map[string]interface{}{
		"batchSize": len(batch),
		"completed": completed,
	})
	return completed
}
