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

package gpt_test

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitos/vfs/block"
	"github.com/orbitos/vfs/gpt"
	"github.com/orbitos/vfs/verrors"
)

const sectorSize = 512

func writeMixedEndianGUID(dst []byte, u uuid.UUID) {
	binary.LittleEndian.PutUint32(dst[0:4], binary.BigEndian.Uint32(u[0:4]))
	binary.LittleEndian.PutUint16(dst[4:6], binary.BigEndian.Uint16(u[4:6]))
	binary.LittleEndian.PutUint16(dst[6:8], binary.BigEndian.Uint16(u[6:8]))
	copy(dst[8:16], u[8:16])
}

func buildImage(t *testing.T) *block.MemDevice {
	t.Helper()
	dev := block.NewMemDevice(sectorSize, 64)
	ctx := context.Background()

	mbr := make([]byte, sectorSize)
	mbr[446+4] = 0xEE
	mbr[510] = 0x55
	mbr[511] = 0xAA
	require.NoError(t, dev.WriteSectors(ctx, 0, mbr))

	header := make([]byte, sectorSize)
	copy(header[0:8], "EFI PART")
	binary.LittleEndian.PutUint64(header[72:80], 2) // entry array at LBA 2
	binary.LittleEndian.PutUint32(header[80:84], 1) // 1 entry
	binary.LittleEndian.PutUint32(header[84:88], 128)
	require.NoError(t, dev.WriteSectors(ctx, 1, header))

	entries := make([]byte, sectorSize)
	espGUID := uuid.MustParse("C12A7328-F81F-11D2-BA4B-00A0C93EC93B")
	writeMixedEndianGUID(entries[0:16], espGUID)
	partID := uuid.New()
	writeMixedEndianGUID(entries[16:32], partID)
	binary.LittleEndian.PutUint64(entries[32:40], 10) // first LBA
	binary.LittleEndian.PutUint64(entries[40:48], 20) // last LBA
	require.NoError(t, dev.WriteSectors(ctx, 2, entries))

	return dev
}

func TestScanFindsESPPartition(t *testing.T) {
	dev := buildImage(t)
	parts, err := gpt.Scan(context.Background(), dev)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, gpt.FAT32, parts[0].Filesystem)
	assert.Equal(t, int64(11), parts[0].Device.SectorCount())
}

func TestScanRejectsMissingProtectiveMBR(t *testing.T) {
	dev := block.NewMemDevice(sectorSize, 4)
	_, err := gpt.Scan(context.Background(), dev)
	assert.ErrorIs(t, err, verrors.ErrNotMBR)
}
