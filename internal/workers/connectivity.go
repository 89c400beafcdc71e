// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/cropguard/internal/logger"
)

const defaultProbeInterval = 30 * time.Second

// ConnectivityMonitor probes the backend on a fixed interval and reports
// transitions to the handler. A successful probe drains the upload queue
// when the handler was offline or still holds queued uploads.
type ConnectivityMonitor struct {
	pinger   Pinger
	handler  ConnectivityHandler
	interval time.Duration
	logger   *logger.Logger
}

// NewConnectivityMonitor returns a monitor probing every interval. A
// non-positive interval falls back to 30s.
func NewConnectivityMonitor(pinger Pinger, handler ConnectivityHandler, interval time.Duration, logger *logger.Logger) *ConnectivityMonitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &ConnectivityMonitor{
		pinger:   pinger,
		handler:  handler,
		interval: interval,
		logger:   logger,
	}
}

// Run probes once immediately and then on every tick until ctx is done.
func (c *ConnectivityMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.probe(ctx)
		}
	}
}

func (c *ConnectivityMonitor) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, c.interval)
	err := c.pinger.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	if err != nil {
		if c.handler.Online() {
			c.logger.Warn().Err(err).Str("func", "ConnectivityMonitor.probe").Msg("backend unreachable")
			c.handler.HandleOffline()
		}
		return
	}

	if !c.handler.Online() || len(c.handler.QueuedUploads()) > 0 {
		c.logger.Debug().Str("func", "ConnectivityMonitor.probe").Msg("backend reachable, draining upload queue")
		c.handler.HandleOnline(ctx)
	}
}
