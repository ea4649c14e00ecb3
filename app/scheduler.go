package app

import (
	"context"
	"sync"
	"time"

	"facultysite/internal"

	"github.com/cenkalti/backoff/v4"
)

// Refresher runs one refresh.
type Refresher interface {
	Refresh(ctx context.Context) (*RefreshResult, error)
}

// Scheduler refreshes on a fixed interval. A failed tick is retried with
// exponential backoff up to maxRetries times; after that the tick is given
// up and the previous data keeps being served.
type Scheduler struct {
	refresher  Refresher
	interval   time.Duration
	maxRetries int
	runNow     bool
	logger     *internal.Logger
	newBackOff func() backoff.BackOff

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler. runNow triggers a refresh immediately
// on Start instead of waiting for the first interval.
func NewScheduler(refresher Refresher, interval time.Duration, maxRetries int, runNow bool, logger *internal.Logger) *Scheduler {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Scheduler{
		refresher:  refresher,
		interval:   interval,
		maxRetries: maxRetries,
		runNow:     runNow,
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 2 * time.Second
			b.MaxInterval = time.Minute
			return b
		},
	}
}

// Start launches the refresh loop. An interval of zero disables periodic
// refreshes; runNow is still honored.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop cancels the loop and waits for an in-progress tick to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	if s.runNow {
		s.tick(ctx)
	}
	if s.interval <= 0 {
		s.logger.Info("[Scheduler] periodic refresh disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.logger.Info("[Scheduler] refreshing every %s", s.interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.maxRetries)), ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		result, err := s.refresher.Refresh(ctx)
		if err != nil {
			s.logger.Warn("[Scheduler] refresh attempt %d failed: %v", attempt, err)
			return err
		}
		s.logger.Debug("[Scheduler] refresh %s stored %d documents", result.RunID, result.Count)
		return nil
	}, policy)
	if err != nil && ctx.Err() == nil {
		s.logger.Error("[Scheduler] giving up after %d attempts: %v", attempt, err)
	}
}
