// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the background jobs of the tasksync client while it
// is in daemon mode: connectivity probing, change subscriptions and a
// periodic push of pending edits.
//
// Every job implements Worker and reports into the client coordinator
// through the small sink interfaces below.
package workers

import (
	"context"

	"github.com/MKhiriev/go-task-sync/models"
)

// Worker is a background job with an explicit lifecycle.
//
// Start launches the job's goroutines and returns immediately. Stop cancels
// them and blocks until they exited; it is safe to call when not started.
//
// Example implementation:
//
//	type MyWorker struct{ cancel context.CancelFunc }
//
//	func (w *MyWorker) Start(ctx context.Context) {
//	    ctx, w.cancel = context.WithCancel(ctx)
//	    go w.loop(ctx)
//	}
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// Pinger checks that the server answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Subscriber opens a change stream of one document.
type Subscriber interface {
	Subscribe(ctx context.Context, unitID string, kind models.DocumentKind) (<-chan models.Document, error)
}

// ConnectivitySink receives connectivity observations.
type ConnectivitySink interface {
	SetConnected(ctx context.Context, connected bool) error
}

// RemoteSink receives documents pushed by the server.
type RemoteSink interface {
	HandleRemote(ctx context.Context, doc models.Document) error
}

// PendingPusher pushes edits that are still dirty.
type PendingPusher interface {
	PushPending(ctx context.Context) error
}
