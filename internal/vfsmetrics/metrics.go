// Copyright 2026 Orbit OS Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vfsmetrics records controller activity as OpenTelemetry metrics,
// exported in Prometheus exposition format.
package vfsmetrics

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ResultKey annotates an operation outcome as "ok" or "error".
const ResultKey = "result"

// Handle is the set of counters the controller updates as it resolves
// paths, opens handles, and mounts or unmounts volumes.
type Handle struct {
	opsCount     metric.Int64Counter
	openHandles  metric.Int64UpDownCounter
	mountsActive metric.Int64UpDownCounter
	evictions    metric.Int64Counter
}

// Provider bundles the metric.Meter and its Prometheus exporter, so callers
// can serve /metrics without reaching into the SDK themselves.
type Provider struct {
	reader *prometheus.Exporter
	meter  metric.Meter
	Handle *Handle
}

// NewProvider constructs a Handle backed by a fresh Prometheus exporter.
func NewProvider() (*Provider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("vfsmetrics: creating prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("vfs")

	h := &Handle{}
	if h.opsCount, err = meter.Int64Counter("vfs_ops_total",
		metric.WithDescription("Controller operations processed, by kind and result.")); err != nil {
		return nil, err
	}
	if h.openHandles, err = meter.Int64UpDownCounter("vfs_open_handles",
		metric.WithDescription("Handles currently held open.")); err != nil {
		return nil, err
	}
	if h.mountsActive, err = meter.Int64UpDownCounter("vfs_mounts_active",
		metric.WithDescription("Volumes currently mounted.")); err != nil {
		return nil, err
	}
	if h.evictions, err = meter.Int64Counter("vfs_node_evictions_total",
		metric.WithDescription("Cache nodes evicted after their last handle closed.")); err != nil {
		return nil, err
	}

	return &Provider{reader: exporter, meter: meter, Handle: h}, nil
}

// Gather returns an http.Handler serving the current metrics in Prometheus
// exposition format, suitable for mounting at /metrics.
func (p *Provider) Gather() http.Handler {
	return p.reader
}

func opAttr(op string, err error) attribute.Set {
	result := "ok"
	if err != nil {
		result = "error"
	}
	return attribute.NewSet(attribute.String("op", op), attribute.String(ResultKey, result))
}

// RecordOp records the completion of one controller operation (open, close,
// mount, unmount) with its outcome.
func (h *Handle) RecordOp(ctx context.Context, op string, err error) {
	if h == nil {
		return
	}
	h.opsCount.Add(ctx, 1, metric.WithAttributeSet(opAttr(op, err)))
}

// HandleOpened records a handle becoming live.
func (h *Handle) HandleOpened(ctx context.Context) {
	if h == nil {
		return
	}
	h.openHandles.Add(ctx, 1)
}

// HandleClosed records a handle being released.
func (h *Handle) HandleClosed(ctx context.Context) {
	if h == nil {
		return
	}
	h.openHandles.Add(ctx, -1)
}

// NodeEvicted records a cache node being dropped once idle.
func (h *Handle) NodeEvicted(ctx context.Context) {
	if h == nil {
		return
	}
	h.evictions.Add(ctx, 1)
}

// VolumeMounted records a driver being grafted onto the tree.
func (h *Handle) VolumeMounted(ctx context.Context) {
	if h == nil {
		return
	}
	h.mountsActive.Add(ctx, 1)
}

// VolumeUnmounted records a driver being detached from the tree.
func (h *Handle) VolumeUnmounted(ctx context.Context) {
	if h == nil {
		return
	}
	h.mountsActive.Add(ctx, -1)
}
