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

package block

import (
	"context"
	"fmt"

	"github.com/orbitos/vfs/verrors"
)

// MemDevice is a Device backed entirely by a byte slice, used by tests to
// build synthetic disk images (e.g. a FAT32 volume) without touching the
// filesystem.
type MemDevice struct {
	sectorSize int
	data       []byte
}

var _ Device = (*MemDevice)(nil)

func NewMemDevice(sectorSize int, sectorCount int64) *MemDevice {
	return &MemDevice{
		sectorSize: sectorSize,
		data:       make([]byte, int64(sectorSize)*sectorCount),
	}
}

// NewMemDeviceFromImage wraps an existing byte slice whose length must be a
// multiple of sectorSize.
func NewMemDeviceFromImage(sectorSize int, image []byte) *MemDevice {
	if len(image)%sectorSize != 0 {
		panic(fmt.Sprintf("block: image length %d not a multiple of sector size %d", len(image), sectorSize))
	}
	return &MemDevice{sectorSize: sectorSize, data: image}
}

func (d *MemDevice) SectorSize() int    { return d.sectorSize }
func (d *MemDevice) SectorCount() int64 { return int64(len(d.data)) / int64(d.sectorSize) }

func (d *MemDevice) bounds(start int64, n int) (int64, int64, error) {
	off := start * int64(d.sectorSize)
	end := off + int64(n)
	if start < 0 || end > int64(len(d.data)) {
		return 0, 0, verrors.ErrInvalidSector
	}
	return off, end, nil
}

func (d *MemDevice) ReadSectors(_ context.Context, start int64, dst []byte) error {
	off, end, err := d.bounds(start, len(dst))
	if err != nil {
		return err
	}
	copy(dst, d.data[off:end])
	return nil
}

func (d *MemDevice) WriteSectors(_ context.Context, start int64, src []byte) error {
	off, end, err := d.bounds(start, len(src))
	if err != nil {
		return err
	}
	copy(d.data[off:end], src)
	return nil
}
