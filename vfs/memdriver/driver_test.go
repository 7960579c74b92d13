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

package memdriver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitos/vfs"
	"github.com/orbitos/vfs/memdriver"
	"github.com/orbitos/vfs/verrors"
)

func TestCreateWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	drv := memdriver.New(memdriver.NewBitmapAllocator(8, 4))
	root := drv.GetRoot()

	desc, err := drv.Create(ctx, root, "greeting", vfs.Regular)
	require.NoError(t, err)

	n, err := drv.Write(ctx, desc, 0, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	found, err := drv.Find(ctx, root, "greeting")
	require.NoError(t, err)
	assert.EqualValues(t, 5, found.Size)

	buf := make([]byte, 5)
	n, err = drv.Read(ctx, found, 0, buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestWriteExhaustsArena(t *testing.T) {
	ctx := context.Background()
	drv := memdriver.New(memdriver.NewBitmapAllocator(4, 1))
	root := drv.GetRoot()

	desc, err := drv.Create(ctx, root, "big", vfs.Regular)
	require.NoError(t, err)

	_, err = drv.Write(ctx, desc, 0, []byte("01234567"))
	assert.ErrorIs(t, err, verrors.ErrOutOfFrames)
}

func TestReaddirOrder(t *testing.T) {
	ctx := context.Background()
	drv := memdriver.New(memdriver.NewBitmapAllocator(8, 4))
	root := drv.GetRoot()

	_, err := drv.Create(ctx, root, "a", vfs.Regular)
	require.NoError(t, err)
	_, err = drv.Create(ctx, root, "b", vfs.Directory)
	require.NoError(t, err)

	name, desc, err := drv.Readdir(ctx, root, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", name)
	assert.Equal(t, vfs.Regular, desc.Type)

	name, desc, err = drv.Readdir(ctx, root, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", name)
	assert.Equal(t, vfs.Directory, desc.Type)

	_, _, err = drv.Readdir(ctx, root, 2)
	assert.ErrorIs(t, err, verrors.ErrIndexOutOfRange)
}

func TestRemoveReleasesPages(t *testing.T) {
	ctx := context.Background()
	alloc := memdriver.NewBitmapAllocator(4, 1)
	drv := memdriver.New(alloc)
	root := drv.GetRoot()

	desc, err := drv.Create(ctx, root, "f", vfs.Regular)
	require.NoError(t, err)
	_, err = drv.Write(ctx, desc, 0, []byte("data"))
	require.NoError(t, err)

	require.NoError(t, drv.Remove(ctx, root, "f"))

	desc, err = drv.Create(ctx, root, "g", vfs.Regular)
	require.NoError(t, err)
	_, err = drv.Write(ctx, desc, 0, []byte("more"))
	assert.NoError(t, err)
}
