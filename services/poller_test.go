package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"deal-scanner/models"
	"deal-scanner/utils"
)

type countingRunner struct {
	calls   int32
	release chan struct{}
	passes  chan struct{}
}

func (r *countingRunner) RunAlertPass(ctx context.Context) models.AlertSnapshot {
	atomic.AddInt32(&r.calls, 1)
	if r.release != nil {
		<-r.release
	}
	if r.passes != nil {
		select {
		case r.passes <- struct{}{}:
		default:
		}
	}
	return models.AlertSnapshot{}
}

func TestPollerRunsOnInterval(t *testing.T) {
	runner := &countingRunner{passes: make(chan struct{}, 1)}
	p := NewPoller(runner, 5*time.Millisecond, utils.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-runner.passes:
		case <-time.After(2 * time.Second):
			t.Fatalf("pass %d did not run", i+1)
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPollerSkipsTicksWhilePassRuns(t *testing.T) {
	runner := &countingRunner{release: make(chan struct{})}
	p := NewPoller(runner, 2*time.Millisecond, utils.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&runner.calls); got != 1 {
		t.Errorf("calls while first pass blocked: got %d, want 1", got)
	}

	cancel()
	close(runner.release)
	<-done
}
