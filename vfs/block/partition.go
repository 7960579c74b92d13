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

import "context"

// PartitionDevice offsets every sector access by firstSector, presenting
// one GPT partition as its own Device.
type PartitionDevice struct {
	parent      Device
	firstSector int64
	sectorCount int64
}

var _ Device = (*PartitionDevice)(nil)

func NewPartitionDevice(parent Device, firstSector, sectorCount int64) *PartitionDevice {
	return &PartitionDevice{parent: parent, firstSector: firstSector, sectorCount: sectorCount}
}

func (d *PartitionDevice) SectorSize() int    { return d.parent.SectorSize() }
func (d *PartitionDevice) SectorCount() int64 { return d.sectorCount }

func (d *PartitionDevice) ReadSectors(ctx context.Context, start int64, dst []byte) error {
	return d.parent.ReadSectors(ctx, start+d.firstSector, dst)
}

func (d *PartitionDevice) WriteSectors(ctx context.Context, start int64, src []byte) error {
	return d.parent.WriteSectors(ctx, start+d.firstSector, src)
}
