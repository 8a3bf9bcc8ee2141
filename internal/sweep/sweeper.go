package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/appetiteclub/apt"

	"github.com/crepeskaffee/pos/internal/cashier"
	"github.com/crepeskaffee/pos/internal/tables"
)

const DefaultInterval = 60 * time.Second

// Sweeper is the recurring self-healing pass. On every tick it re-reads
// the store, force-releases tables that reference dead orders, and checks
// the open session's drawer balance. It only reconciles; user-triggered
// mutations never run through it.
type Sweeper struct {
	interval     time.Duration
	activeOrders tables.ActiveOrderSource
	registry     *tables.Registry
	ledger       *cashier.Ledger
	logger       apt.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(interval time.Duration, activeOrders tables.ActiveOrderSource, registry *tables.Registry, ledger *cashier.Ledger, logger apt.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Sweeper{
		interval:     interval,
		activeOrders: activeOrders,
		registry:     registry,
		ledger:       ledger,
		logger:       logger,
	}
}

// Start runs one pass immediately, then keeps sweeping on the configured
// interval until Stop or context cancellation.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.loop(ctx)
}

func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single reconciliation pass.
func (s *Sweeper) RunOnce(ctx context.Context) {
	ids, err := s.activeOrders.ActiveOrderIDs(ctx)
	if err != nil {
		s.logger.Error("sweep: cannot list active orders", "error", err)
	} else {
		released, err := s.registry.ReconcileOrphans(ctx, ids)
		if err != nil {
			s.logger.Error("sweep: table reconciliation failed", "error", err)
		} else if released > 0 {
			s.logger.Info("sweep: released orphaned tables", "count", released)
		}
	}

	divergence, err := s.ledger.VerifyOpenSession(ctx)
	if err != nil {
		s.logger.Error("sweep: cannot verify cash session", "error", err)
		return
	}
	if divergence != 0 {
		s.logger.Error("sweep: cash session balance diverged", "divergence", divergence)
	}
}
