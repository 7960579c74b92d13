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

type sectorCache struct {
	dirty bool
	data  []byte
}

// CacheDevice decorates a Device with a read/write-back per-sector cache:
// reads and writes go through a map of sector number to buffered bytes,
// only touching the parent device on a first read or an explicit Flush.
type CacheDevice struct {
	parent Device
	cache  map[int64]*sectorCache
}

var _ Device = (*CacheDevice)(nil)

func NewCacheDevice(parent Device) *CacheDevice {
	return &CacheDevice{parent: parent, cache: make(map[int64]*sectorCache)}
}

func (d *CacheDevice) SectorSize() int    { return d.parent.SectorSize() }
func (d *CacheDevice) SectorCount() int64 { return d.parent.SectorCount() }

func (d *CacheDevice) getSector(ctx context.Context, sector int64) (*sectorCache, error) {
	if c, ok := d.cache[sector]; ok {
		return c, nil
	}
	buf := make([]byte, d.parent.SectorSize())
	if err := d.parent.ReadSectors(ctx, sector, buf); err != nil {
		return nil, err
	}
	c := &sectorCache{data: buf}
	d.cache[sector] = c
	return c, nil
}

func (d *CacheDevice) ReadSectors(ctx context.Context, start int64, dst []byte) error {
	ss := d.parent.SectorSize()
	count := len(dst) / ss
	for i := 0; i < count; i++ {
		c, err := d.getSector(ctx, start+int64(i))
		if err != nil {
			return err
		}
		copy(dst[i*ss:(i+1)*ss], c.data)
	}
	return nil
}

func (d *CacheDevice) WriteSectors(ctx context.Context, start int64, src []byte) error {
	ss := d.parent.SectorSize()
	count := len(src) / ss
	for i := 0; i < count; i++ {
		c, err := d.getSector(ctx, start+int64(i))
		if err != nil {
			return err
		}
		copy(c.data, src[i*ss:(i+1)*ss])
		c.dirty = true
	}
	return nil
}

// Flush writes every dirty sector back to the parent device.
func (d *CacheDevice) Flush(ctx context.Context) error {
	for sector, c := range d.cache {
		if !c.dirty {
			continue
		}
		if err := d.parent.WriteSectors(ctx, sector, c.data); err != nil {
			return err
		}
		c.dirty = false
	}
	return nil
}
