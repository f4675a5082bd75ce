package ledger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval is how often the Sweeper runs.
const DefaultSweepInterval = 30 * time.Minute

// Sweepable is anything the Sweeper can expire.
type Sweepable interface {
	Name() string
	Sweep() int
}

// Sweeper periodically removes expired entries from a set of ledgers. It is
// owned by the process lifecycle: Start once at startup, Stop at shutdown.
type Sweeper struct {
	interval time.Duration
	targets  []Sweepable

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewSweeper creates a sweeper over targets. A zero interval uses
// DefaultSweepInterval.
func NewSweeper(interval time.Duration, targets ...Sweepable) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		interval: interval,
		targets:  targets,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. It returns immediately; the loop exits when
// ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	zap.L().Info("ledger: sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.SweepNow()
		}
	}
}

// SweepNow sweeps every target once and returns the total removed.
func (s *Sweeper) SweepNow() int {
	total := 0
	for _, t := range s.targets {
		n := t.Sweep()
		if n > 0 {
			zap.L().Info("ledger: swept expired entries",
				zap.String("ledger", t.Name()),
				zap.Int("removed", n),
			)
		}
		total += n
	}
	return total
}

// Stop ends the sweep loop and waits for it to exit. Safe to call more than
// once, and before Start.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	started := true
	s.startOnce.Do(func() { started = false })
	if started {
		<-s.done
	}
}
