// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the lifecycle of a runnable client process.
type Client interface {
	// Run keeps the local documents in sync until ctx is done.
	Run(ctx context.Context) error

	// Close releases the coordinator and the local cache.
	Close() error
}
