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

// Package gpt scans a protective-MBR GUID Partition Table and reports one
// block.PartitionDevice per non-empty entry, tagged with the filesystem its
// type GUID implies.
package gpt

import (
	"context"
	"encoding/binary"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/orbitos/vfs/block"
	"github.com/orbitos/vfs/verrors"
)

// Filesystem names the on-disk format a partition's type GUID maps to.
type Filesystem int

const (
	Unknown Filesystem = iota
	FAT32
)

// espTypeGUID is the well-known EFI System Partition type GUID.
var espTypeGUID = uuid.MustParse("C12A7328-F81F-11D2-BA4B-00A0C93EC93B")

// Partition is one scanned GPT entry.
type Partition struct {
	Filesystem Filesystem
	Name       string
	TypeGUID   uuid.UUID
	ID         uuid.UUID
	Device     *block.PartitionDevice
}

const headerSize = 92
const entrySize = 128

// readMixedEndianGUID decodes the on-disk GPT GUID encoding (first three
// fields little-endian, last field big-endian) into a standard RFC 4122
// uuid.UUID.
func readMixedEndianGUID(b []byte) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], binary.LittleEndian.Uint32(b[0:4]))
	binary.BigEndian.PutUint16(u[4:6], binary.LittleEndian.Uint16(b[4:6]))
	binary.BigEndian.PutUint16(u[6:8], binary.LittleEndian.Uint16(b[6:8]))
	copy(u[8:16], b[8:16])
	return u
}

// Scan reads sector 0 (protective MBR) and sector 1 (GPT header) of device
// and returns every non-empty partition entry.
func Scan(ctx context.Context, device block.Device) ([]Partition, error) {
	ss := device.SectorSize()
	buf := make([]byte, ss)

	if err := device.ReadSectors(ctx, 0, buf); err != nil {
		return nil, err
	}
	if buf[510] != 0x55 || buf[511] != 0xAA {
		return nil, verrors.ErrNotMBR
	}
	// Partition table entries start at offset 446, 16 bytes each; the type
	// byte of the first entry is at offset 4 within it.
	if buf[446+4] != 0xEE {
		return nil, verrors.ErrNotGPT
	}

	if err := device.ReadSectors(ctx, 1, buf); err != nil {
		return nil, err
	}
	if string(buf[0:8]) != "EFI PART" {
		return nil, verrors.ErrNotGPT
	}
	if int(binary.LittleEndian.Uint32(buf[84:88])) != entrySize {
		return nil, verrors.ErrUnsupportedGPT
	}

	entryArrayLBA := int64(binary.LittleEndian.Uint64(buf[72:80]))
	numEntries := int(binary.LittleEndian.Uint32(buf[80:84]))

	entriesPerSector := ss / entrySize
	partitions := make([]Partition, 0, numEntries)

	entryBuf := make([]byte, ss)
	loadedLBA := int64(-1)
	for i := 0; i < numEntries; i++ {
		lba := entryArrayLBA + int64(i/entriesPerSector)
		if lba != loadedLBA {
			if err := device.ReadSectors(ctx, lba, entryBuf); err != nil {
				return nil, err
			}
			loadedLBA = lba
		}
		off := (i % entriesPerSector) * entrySize
		raw := entryBuf[off : off+entrySize]

		typeGUID := readMixedEndianGUID(raw[0:16])
		if typeGUID == uuid.Nil {
			continue
		}

		id := readMixedEndianGUID(raw[16:32])
		firstLBA := int64(binary.LittleEndian.Uint64(raw[32:40]))
		lastLBA := int64(binary.LittleEndian.Uint64(raw[40:48]))
		name := decodeUTF16Name(raw[56:128])

		fs := Unknown
		if typeGUID == espTypeGUID {
			fs = FAT32
		}

		partitions = append(partitions, Partition{
			Filesystem: fs,
			Name:       name,
			TypeGUID:   typeGUID,
			ID:         id,
			Device:     block.NewPartitionDevice(device, firstLBA, lastLBA-firstLBA+1),
		})
	}

	return partitions, nil
}

func decodeUTF16Name(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u := binary.LittleEndian.Uint16(b[i : i+2])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}
