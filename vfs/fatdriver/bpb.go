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

// Package fatdriver implements a read-only vfs.Driver over a FAT32 volume:
// BPB parsing, FAT cluster-chain walking, and directory enumeration
// including long filename assembly.
package fatdriver

import (
	"encoding/binary"

	"github.com/orbitos/vfs/verrors"
)

// bpbSummary is the subset of the BIOS Parameter Block the driver needs.
type bpbSummary struct {
	bytesPerSector      uint16
	sectorsPerCluster   uint8
	reservedSectorCount uint16
	numFATs             uint8
	totalSectors32      uint32
	fatSize32           uint32
	rootCluster         uint32
}

func parseBPB(buf []byte, deviceSectorSize int) (bpbSummary, error) {
	if len(buf) < 512 {
		return bpbSummary{}, verrors.ErrNotFAT
	}
	if buf[510] != 0x55 || buf[511] != 0xAA {
		return bpbSummary{}, verrors.ErrNotFAT
	}

	bpb := bpbSummary{
		bytesPerSector:      binary.LittleEndian.Uint16(buf[11:13]),
		sectorsPerCluster:   buf[13],
		reservedSectorCount: binary.LittleEndian.Uint16(buf[14:16]),
		numFATs:             buf[16],
		totalSectors32:      binary.LittleEndian.Uint32(buf[32:36]),
		fatSize32:           binary.LittleEndian.Uint32(buf[36:40]),
		rootCluster:         binary.LittleEndian.Uint32(buf[44:48]),
	}
	if int(bpb.bytesPerSector) != deviceSectorSize {
		return bpbSummary{}, verrors.ErrNotImplemented
	}
	return bpb, nil
}

func (b bpbSummary) dataStartSector() int64 {
	return int64(b.reservedSectorCount) + int64(b.numFATs)*int64(b.fatSize32)
}

func (b bpbSummary) lastDataSector() int64 {
	return int64(b.totalSectors32) - 1
}

func (b bpbSummary) clusterSizeBytes() int {
	return int(b.bytesPerSector) * int(b.sectorsPerCluster)
}

func (b bpbSummary) clusterToSector(cluster uint32) int64 {
	return b.dataStartSector() + int64(cluster-2)*int64(b.sectorsPerCluster)
}
