// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import "context"

type Workers struct {
	workers []Worker
}

func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in order, blocks until ctx is done and then stops
// them in reverse order.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}

	<-ctx.Done()

	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
