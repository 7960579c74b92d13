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

// Package block provides the sector-addressed storage abstraction the GPT
// scanner and FAT driver are built on: a Device interface, two trivial
// backings (memory and os.File), and a read/write-back sector cache
// decorator.
package block

import "context"

// Device is a sector-addressed block device. Every offset is in sectors of
// SectorSize() bytes, mirroring the ReadBlocks/WriteBlocks convention used
// by Go FAT implementations in the wild.
type Device interface {
	SectorSize() int
	SectorCount() int64
	ReadSectors(ctx context.Context, start int64, dst []byte) error
	WriteSectors(ctx context.Context, start int64, src []byte) error
}
