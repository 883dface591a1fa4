// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"
)

const defaultInterval = 30 * time.Second

// tickerJob calls tick every interval until stopped. When immediate is set
// the first tick runs right after Start.
type tickerJob struct {
	interval  time.Duration
	immediate bool
	tick      func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newTickerJob(interval time.Duration, immediate bool, tick func(ctx context.Context)) *tickerJob {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &tickerJob{interval: interval, immediate: immediate, tick: tick}
}

// Start stops any previously running loop and launches a new one. The loop
// exits when ctx is cancelled or Stop is called.
func (j *tickerJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		if j.immediate {
			j.tick(jobCtx)
		}

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.tick(jobCtx)
			}
		}
	}()
}

// Stop cancels the loop and blocks until it has exited. No-op when the job
// is not running.
func (j *tickerJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
