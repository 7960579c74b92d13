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
	"os"

	"github.com/orbitos/vfs/verrors"
)

// FileDevice exposes an *os.File as a Device, the out-of-scope "block
// device" collaborator the core only ever reaches through a Driver.
type FileDevice struct {
	f          *os.File
	sectorSize int
}

var _ Device = (*FileDevice)(nil)

func OpenFileDevice(path string, sectorSize int) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &FileDevice{f: f, sectorSize: sectorSize}, nil
}

func (d *FileDevice) Close() error { return d.f.Close() }

func (d *FileDevice) SectorSize() int { return d.sectorSize }

func (d *FileDevice) SectorCount() int64 {
	info, err := d.f.Stat()
	if err != nil {
		return 0
	}
	return info.Size() / int64(d.sectorSize)
}

func (d *FileDevice) ReadSectors(_ context.Context, start int64, dst []byte) error {
	n, err := d.f.ReadAt(dst, start*int64(d.sectorSize))
	if err != nil || n != len(dst) {
		return verrors.ErrIOError
	}
	return nil
}

func (d *FileDevice) WriteSectors(_ context.Context, start int64, src []byte) error {
	n, err := d.f.WriteAt(src, start*int64(d.sectorSize))
	if err != nil || n != len(src) {
		return verrors.ErrIOError
	}
	return nil
}
