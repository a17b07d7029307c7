package workers

import (
	"context"
	"sync/atomic"
	"time"

	"gobrgbridge/history"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Sweeper re-polls every non-terminal record of history: once at start, so tracking
// resumes after a restart, then on every interval.
type Sweeper struct {
	logger   *logrus.Entry
	poller   *Poller
	history  *history.Store
	interval time.Duration
	timeout  time.Duration
}

func NewSweeper(logger *logrus.Logger, poller *Poller, store *history.Store, interval, timeout time.Duration) *Sweeper {
	return &Sweeper{
		logger:   logger.WithField("pkg", "workers.sweeper"),
		poller:   poller,
		history:  store,
		interval: interval,
		timeout:  timeout,
	}
}

func (s *Sweeper) Run(ctx context.Context) error {
	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("context done & no processing: stop sweeper")
			return nil
		case <-time.After(s.interval):
			s.Sweep(ctx)
		}
	}
}

// Sweep polls the pending records concurrently and returns how many changed status.
// Every record gets its own goroutine and its own poll timeout, so a hanging chain
// only holds the polls of its own transfers.
func (s *Sweeper) Sweep(ctx context.Context) int {
	pending := s.history.Pending(ctx)
	if len(pending) == 0 {
		return 0
	}

	eg := &errgroup.Group{}
	// history never holds more than capacity records, each gets a slot
	eg.SetLimit(s.history.Capacity())
	changed := &atomic.Int64{}
	for _, rec := range pending {
		rec := rec
		eg.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res := s.poller.Poll(pctx, rec.TxHash)
			if res.Status.Valid() && res.Status != rec.Status {
				changed.Add(1)
			}
			return nil
		})
	}
	_ = eg.Wait()

	s.logger.WithFields(logrus.Fields{
		"pending": len(pending),
		"changed": changed.Load(),
	}).Info("history sweep done")
	return int(changed.Load())
}
