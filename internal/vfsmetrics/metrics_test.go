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

package vfsmetrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setup(t *testing.T) (*Handle, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("vfs")

	h := &Handle{}
	var err error
	h.opsCount, err = meter.Int64Counter("vfs_ops_total")
	require.NoError(t, err)
	h.openHandles, err = meter.Int64UpDownCounter("vfs_open_handles")
	require.NoError(t, err)
	h.mountsActive, err = meter.Int64UpDownCounter("vfs_mounts_active")
	require.NoError(t, err)
	h.evictions, err = meter.Int64Counter("vfs_node_evictions_total")
	require.NoError(t, err)

	return h, reader
}

func sumFor(t *testing.T, rd *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, rd.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestRecordOpCountsByResult(t *testing.T) {
	ctx := context.Background()
	h, reader := setup(t)

	h.RecordOp(ctx, "open", nil)
	h.RecordOp(ctx, "open", errors.New("boom"))

	require.EqualValues(t, 2, sumFor(t, reader, "vfs_ops_total"))
}

func TestOpenCloseBalancesHandleCount(t *testing.T) {
	ctx := context.Background()
	h, reader := setup(t)

	h.HandleOpened(ctx)
	h.HandleOpened(ctx)
	h.HandleClosed(ctx)

	require.EqualValues(t, 1, sumFor(t, reader, "vfs_open_handles"))
}

func TestMountUnmountBalancesMountCount(t *testing.T) {
	ctx := context.Background()
	h, reader := setup(t)

	h.VolumeMounted(ctx)
	h.VolumeMounted(ctx)
	h.VolumeUnmounted(ctx)

	require.EqualValues(t, 1, sumFor(t, reader, "vfs_mounts_active"))
}

func TestNilHandleIsANoOp(t *testing.T) {
	var h *Handle
	ctx := context.Background()

	require.NotPanics(t, func() {
		h.RecordOp(ctx, "open", nil)
		h.HandleOpened(ctx)
		h.HandleClosed(ctx)
		h.NodeEvicted(ctx)
		h.VolumeMounted(ctx)
		h.VolumeUnmounted(ctx)
	})
}
