// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
)

// ConnectivityMonitor pings the server every interval and reports the
// result. The coordinator only acts on transitions, so repeating the same
// observation is harmless.
type ConnectivityMonitor struct {
	*tickerJob

	pinger Pinger
	sink   ConnectivitySink
	logger *logger.Logger
}

func NewConnectivityMonitor(pinger Pinger, sink ConnectivitySink, interval time.Duration, logger *logger.Logger) *ConnectivityMonitor {
	m := &ConnectivityMonitor{pinger: pinger, sink: sink, logger: logger}
	m.tickerJob = newTickerJob(interval, true, m.check)
	return m
}

func (m *ConnectivityMonitor) check(ctx context.Context) {
	pingErr := m.pinger.Ping(ctx)
	if ctx.Err() != nil {
		return
	}

	err := m.sink.SetConnected(ctx, pingErr == nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Warn().
			Str("func", "ConnectivityMonitor.check").
			Err(err).
			Msg("reconnect finished with errors")
	}
}
