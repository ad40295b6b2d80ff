package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"deal-scanner/models"
	"deal-scanner/utils"
)

// AlertRunner runs one complete alert pass.
type AlertRunner interface {
	RunAlertPass(ctx context.Context) models.AlertSnapshot
}

// Poller fires alert passes on a fixed interval. A tick that arrives while
// a pass is still running is dropped.
type Poller struct {
	runner   AlertRunner
	interval time.Duration
	logger   *utils.Logger
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewPoller creates a Poller. Non-positive intervals default to 5 minutes.
func NewPoller(runner AlertRunner, interval time.Duration, logger *utils.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Poller{runner: runner, interval: interval, logger: logger}
}

// Run starts a pass immediately and then on every tick until ctx is done.
// It waits for an in-flight pass before returning.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("[poller] Alert passes every %v", p.interval)
	p.trigger(ctx)
	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			p.logger.Info("[poller] Stopped")
			return
		case <-ticker.C:
			p.trigger(ctx)
		}
	}
}

func (p *Poller) trigger(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Warn("[poller] Previous pass still running, tick skipped")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.running.Store(false)
		p.runner.RunAlertPass(ctx)
	}()
}
