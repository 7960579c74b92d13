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

package fatdriver

import (
	"context"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitos/vfs"
	"github.com/orbitos/vfs/block"
)

const (
	testSectorSize        = 512
	testSectorsPerCluster = 1
	testReservedSectors   = 32
	testFATSize           = 1
	testDeviceSectors     = 48

	rootCluster = 2
	appsCluster = 3
	efiCluster  = 4
	kernCluster = 5
	nvCluster   = 6
	memCluster  = 7
	bootCluster = 8
)

func shortName11(base, ext string) [11]byte {
	var out [11]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[0:8], base)
	copy(out[8:11], ext)
	return out
}

func writeShortEntry(dst []byte, name [11]byte, attr byte, cluster uint32, size uint32) {
	copy(dst[0:11], name[:])
	dst[11] = attr
	binary.LittleEndian.PutUint16(dst[20:22], uint16(cluster>>16))
	binary.LittleEndian.PutUint16(dst[26:28], uint16(cluster&0xFFFF))
	binary.LittleEndian.PutUint32(dst[28:32], size)
}

func writeLFNEntry(dst []byte, name string, checksum byte) {
	dst[0] = 0x41 // sequence 1, last-logical-entry bit set
	dst[11] = attrLongName
	dst[13] = checksum

	units := utf16.Encode([]rune(name))
	slots := make([]uint16, 13)
	for i := range slots {
		slots[i] = 0xFFFF
	}
	for i, u := range units {
		slots[i] = u
	}
	if len(units) < 13 {
		slots[len(units)] = 0x0000
	}

	put := binary.LittleEndian.PutUint16
	put(dst[1:3], slots[0])
	put(dst[3:5], slots[1])
	put(dst[5:7], slots[2])
	put(dst[7:9], slots[3])
	put(dst[9:11], slots[4])
	put(dst[14:16], slots[5])
	put(dst[16:18], slots[6])
	put(dst[18:20], slots[7])
	put(dst[20:22], slots[8])
	put(dst[22:24], slots[9])
	put(dst[24:26], slots[10])
	put(dst[28:30], slots[11])
	put(dst[30:32], slots[12])
}

// writeNamedEntry appends an LFN entry (when the stored short name would not
// reproduce longName verbatim) followed by the short entry, returning the
// number of 32-byte slots consumed.
func writeNamedEntry(buf []byte, offset int, longName string, short [11]byte, attr byte, cluster uint32, size uint32) int {
	if shortNameToString(short[:]) != longName {
		writeLFNEntry(buf[offset:offset+entrySize], longName, shortNameChecksum(short))
		offset += entrySize
	}
	writeShortEntry(buf[offset:offset+entrySize], short, attr, cluster, size)
	return offset + entrySize
}

func buildFATImage(t *testing.T) *block.MemDevice {
	t.Helper()
	dev := block.NewMemDevice(testSectorSize, testDeviceSectors)
	ctx := context.Background()

	boot := make([]byte, testSectorSize)
	binary.LittleEndian.PutUint16(boot[11:13], testSectorSize)
	boot[13] = testSectorsPerCluster
	binary.LittleEndian.PutUint16(boot[14:16], testReservedSectors)
	boot[16] = 1 // numFATs
	binary.LittleEndian.PutUint32(boot[32:36], testDeviceSectors)
	binary.LittleEndian.PutUint32(boot[36:40], testFATSize)
	binary.LittleEndian.PutUint32(boot[44:48], rootCluster)
	boot[510] = 0x55
	boot[511] = 0xAA
	require.NoError(t, dev.WriteSectors(ctx, 0, boot))

	fat := make([]byte, testSectorSize)
	for _, c := range []uint32{rootCluster, appsCluster, efiCluster, kernCluster, nvCluster, memCluster, bootCluster} {
		binary.LittleEndian.PutUint32(fat[c*4:c*4+4], 0x0FFFFFFF)
	}
	require.NoError(t, dev.WriteSectors(ctx, testReservedSectors, fat))

	clusterToSector := func(cluster uint32) int64 {
		dataStart := int64(testReservedSectors) + testFATSize
		return dataStart + int64(cluster-2)
	}

	root := make([]byte, testSectorSize)
	off := 0
	off = writeNamedEntry(root, off, "apps", shortName11("APPS", ""), attrDirectory, appsCluster, 0)
	off = writeNamedEntry(root, off, "EFI", shortName11("EFI", ""), attrDirectory, efiCluster, 0)
	off = writeNamedEntry(root, off, "kernel.elf", shortName11("KERNEL", "ELF"), 0, kernCluster, 10)
	off = writeNamedEntry(root, off, "NvVars", shortName11("NVVARS", ""), 0, nvCluster, 4)
	off = writeNamedEntry(root, off, "MEMMAP", shortName11("MEMMAP", ""), 0, memCluster, testSectorSize)
	require.NoError(t, dev.WriteSectors(ctx, clusterToSector(rootCluster), root))

	apps := make([]byte, testSectorSize)
	require.NoError(t, dev.WriteSectors(ctx, clusterToSector(appsCluster), apps))

	efi := make([]byte, testSectorSize)
	off = 0
	off = writeNamedEntry(efi, off, ".", shortName11(".", ""), attrDirectory, efiCluster, 0)
	off = writeNamedEntry(efi, off, "..", shortName11("..", ""), attrDirectory, 0, 0)
	off = writeNamedEntry(efi, off, "BOOT", shortName11("BOOT", ""), attrDirectory, bootCluster, 0)
	require.NoError(t, dev.WriteSectors(ctx, clusterToSector(efiCluster), efi))

	boot2 := make([]byte, testSectorSize)
	require.NoError(t, dev.WriteSectors(ctx, clusterToSector(bootCluster), boot2))

	kern := make([]byte, testSectorSize)
	copy(kern, "0123456789")
	require.NoError(t, dev.WriteSectors(ctx, clusterToSector(kernCluster), kern))

	nv := make([]byte, testSectorSize)
	copy(nv, "data")
	require.NoError(t, dev.WriteSectors(ctx, clusterToSector(nvCluster), nv))

	mem := make([]byte, testSectorSize)
	for i := range mem {
		mem[i] = byte(i % 256)
	}
	require.NoError(t, dev.WriteSectors(ctx, clusterToSector(memCluster), mem))

	return dev
}

func TestRootReaddirOrder(t *testing.T) {
	ctx := context.Background()
	drv, err := New(ctx, buildFATImage(t))
	require.NoError(t, err)

	root := drv.GetRoot()
	want := []string{"apps", "EFI", "kernel.elf", "NvVars", "MEMMAP"}
	for i, name := range want {
		got, desc, err := drv.Readdir(ctx, root, i)
		require.NoError(t, err)
		assert.Equal(t, name, got)
		if name == "apps" || name == "EFI" {
			assert.Equal(t, vfs.Directory, desc.Type)
		} else {
			assert.Equal(t, vfs.Regular, desc.Type)
		}
	}

	_, _, err = drv.Readdir(ctx, root, len(want))
	assert.Error(t, err)
}

func TestEFIReaddirOrder(t *testing.T) {
	ctx := context.Background()
	drv, err := New(ctx, buildFATImage(t))
	require.NoError(t, err)

	root := drv.GetRoot()
	efiDesc, err := drv.Find(ctx, root, "EFI")
	require.NoError(t, err)

	want := []string{".", "..", "BOOT"}
	for i, name := range want {
		got, _, err := drv.Readdir(ctx, efiDesc, i)
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}

func TestReadMemmapFullSize(t *testing.T) {
	ctx := context.Background()
	drv, err := New(ctx, buildFATImage(t))
	require.NoError(t, err)

	root := drv.GetRoot()
	desc, err := drv.Find(ctx, root, "MEMMAP")
	require.NoError(t, err)
	assert.EqualValues(t, testSectorSize, desc.Size)

	buf := make([]byte, desc.Size)
	n, err := drv.Read(ctx, desc, 0, buf)
	require.NoError(t, err)
	assert.Equal(t, int(desc.Size), n)
	for i, b := range buf {
		assert.Equal(t, byte(i%256), b)
	}
}

func TestReadKernelELF(t *testing.T) {
	ctx := context.Background()
	drv, err := New(ctx, buildFATImage(t))
	require.NoError(t, err)

	root := drv.GetRoot()
	desc, err := drv.Find(ctx, root, "kernel.elf")
	require.NoError(t, err)

	buf := make([]byte, desc.Size)
	n, err := drv.Read(ctx, desc, 0, buf)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(buf[:n]))
}

func TestWriteIsReadOnly(t *testing.T) {
	ctx := context.Background()
	drv, err := New(ctx, buildFATImage(t))
	require.NoError(t, err)

	_, err = drv.Write(ctx, drv.GetRoot(), 0, []byte("x"))
	assert.Error(t, err)
}
