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

package block_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitos/vfs/block"
)

func TestMemDeviceRoundTrip(t *testing.T) {
	ctx := context.Background()
	dev := block.NewMemDevice(512, 4)

	data := make([]byte, 512)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, dev.WriteSectors(ctx, 1, data))

	got := make([]byte, 512)
	require.NoError(t, dev.ReadSectors(ctx, 1, got))
	assert.Equal(t, data, got)
}

func TestCacheDeviceReadsThroughOnce(t *testing.T) {
	ctx := context.Background()
	dev := block.NewMemDevice(512, 4)
	cache := block.NewCacheDevice(dev)

	first := make([]byte, 512)
	require.NoError(t, cache.ReadSectors(ctx, 0, first))

	// Write directly to the underlying device; the cached read should not
	// see it, since the cache never re-reads a sector it already holds.
	direct := make([]byte, 512)
	for i := range direct {
		direct[i] = 0xAA
	}
	require.NoError(t, dev.WriteSectors(ctx, 0, direct))

	cached := make([]byte, 512)
	require.NoError(t, cache.ReadSectors(ctx, 0, cached))
	assert.Equal(t, first, cached)
}

func TestCacheDeviceFlush(t *testing.T) {
	ctx := context.Background()
	dev := block.NewMemDevice(512, 4)
	cache := block.NewCacheDevice(dev)

	data := make([]byte, 512)
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, cache.WriteSectors(ctx, 2, data))
	require.NoError(t, cache.Flush(ctx))

	got := make([]byte, 512)
	require.NoError(t, dev.ReadSectors(ctx, 2, got))
	assert.Equal(t, data, got)
}
