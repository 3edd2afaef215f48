package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/order"
)

// SystemActor identifies cancellations initiated by the sweeper in audit
// records and logs.
const SystemActor = "system:sweeper"

// Engine is the slice of the lifecycle engine the sweeper drives.
type Engine interface {
	ListExpiredUnpaidOrders(ctx context.Context, asOf time.Time) ([]order.Order, error)
	CancelOrder(ctx context.Context, orderID, actor string) (*order.Order, error)
}

// Sweeper periodically cancels unpaid orders past their expiration deadline.
type Sweeper struct {
	engine   Engine
	interval time.Duration
	log      *logrus.Logger
	now      func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

func New(engine Engine, interval time.Duration, logger *logrus.Logger) *Sweeper {
	return &Sweeper{
		engine:   engine,
		interval: interval,
		log:      logger,
		now:      time.Now,
	}
}

// Run blocks until ctx is canceled, sweeping once per interval. An in-flight
// sweep finishes before Run returns; each order is handled inside the
// engine's own transaction, so stopping mid-sweep leaves nothing half done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.WithField("interval", s.interval.String()).Info("sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one scan-and-cancel pass. Failures are logged and skipped; a
// broken order (or an unreachable store) never aborts the rest of the pass,
// and the next tick retries whatever is still pending.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.now()

	expired, err := s.engine.ListExpiredUnpaidOrders(ctx, now)
	if err != nil {
		s.log.WithError(err).Warn("sweep: list expired orders failed")
		s.setLastRun(now)
		return
	}

	canceled := 0
	for _, o := range expired {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.engine.CancelOrder(ctx, o.ID, SystemActor); err != nil {
			s.log.WithError(err).WithField("order_id", o.ID).Warn("sweep: cancel failed")
			continue
		}
		canceled++
	}

	if len(expired) > 0 {
		s.log.WithFields(logrus.Fields{
			"expired":  len(expired),
			"canceled": canceled,
		}).Info("sweep finished")
	}

	s.setLastRun(now)
}

func (s *Sweeper) setLastRun(t time.Time) {
	s.mu.Lock()
	s.lastRun = t
	s.mu.Unlock()
}

// LastRun reports when the previous sweep started; zero before the first one.
func (s *Sweeper) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
