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

	"github.com/orbitos/vfs"
	"github.com/orbitos/vfs/block"
	"github.com/orbitos/vfs/verrors"
)

// Driver is a read-only vfs.Driver over a single FAT32 volume. Every
// Descriptor it hands out carries the entry's first cluster number as
// Opaque; the root directory's descriptor carries the BPB's root cluster.
type Driver struct {
	dev block.Device
	op  clusterOperator
}

var _ vfs.Driver = (*Driver)(nil)

// New reads and validates the BPB from sector 0 of dev and returns a driver
// over the volume it describes.
func New(ctx context.Context, dev block.Device) (*Driver, error) {
	buf := make([]byte, dev.SectorSize())
	if err := dev.ReadSectors(ctx, 0, buf); err != nil {
		return nil, err
	}
	bpb, err := parseBPB(buf, dev.SectorSize())
	if err != nil {
		return nil, err
	}
	return &Driver{dev: dev, op: clusterOperator{bpb: bpb, dev: dev}}, nil
}

func clusterOf(desc vfs.Descriptor) (uint32, error) {
	c, ok := desc.Opaque.(uint32)
	if !ok {
		return 0, verrors.ErrInvalidData
	}
	return c, nil
}

func descriptorFor(e dirEntry) vfs.Descriptor {
	t := vfs.Regular
	if e.isDirectory() {
		t = vfs.Directory
	}
	return vfs.Descriptor{Type: t, Size: int64(e.size), Opaque: e.cluster}
}

// Read walks the cluster chain rooted at desc's cluster and copies the
// requested window into buf, same short-read-at-EOF semantics as the
// in-memory driver.
func (d *Driver) Read(ctx context.Context, desc vfs.Descriptor, off int64, buf []byte) (int, error) {
	if desc.Type != vfs.Regular {
		return 0, verrors.ErrNotFile
	}
	cluster, err := clusterOf(desc)
	if err != nil {
		return 0, err
	}
	if off >= desc.Size {
		return 0, verrors.ErrEndOfFile
	}

	clusterSize := int64(d.op.bpb.clusterSizeBytes())
	skip := off / clusterSize
	for i := int64(0); i < skip; i++ {
		cluster, err = d.op.nextCluster(ctx, cluster)
		if err != nil {
			return 0, err
		}
		if cluster >= endOfClusterChain {
			return 0, verrors.ErrEndOfFile
		}
	}

	clusterBuf := make([]byte, clusterSize)
	n := 0
	within := off % clusterSize
	remaining := desc.Size - off
	for n < len(buf) && remaining > 0 {
		if err := d.op.readCluster(ctx, cluster, clusterBuf); err != nil {
			return n, err
		}
		avail := clusterSize - within
		chunk := int64(len(buf) - n)
		if chunk > avail {
			chunk = avail
		}
		if chunk > remaining {
			chunk = remaining
		}
		copy(buf[n:int64(n)+chunk], clusterBuf[within:within+chunk])
		n += int(chunk)
		remaining -= chunk
		within = 0

		if n < len(buf) && remaining > 0 {
			cluster, err = d.op.nextCluster(ctx, cluster)
			if err != nil {
				return n, err
			}
			if cluster >= endOfClusterChain {
				break
			}
		}
	}
	return n, nil
}

func (d *Driver) Write(context.Context, vfs.Descriptor, int64, []byte) (int, error) {
	return 0, verrors.ErrNotImplemented
}

func (d *Driver) Create(context.Context, vfs.Descriptor, string, vfs.FileType) (vfs.Descriptor, error) {
	return vfs.Descriptor{}, verrors.ErrNotImplemented
}

func (d *Driver) Remove(context.Context, vfs.Descriptor, string) error {
	return verrors.ErrNotImplemented
}

// Find has no name index to consult, so it scans Readdir linearly.
func (d *Driver) Find(ctx context.Context, desc vfs.Descriptor, name string) (vfs.Descriptor, error) {
	for i := 0; ; i++ {
		entryName, entryDesc, err := d.Readdir(ctx, desc, i)
		if err != nil {
			return vfs.Descriptor{}, verrors.ErrNoSuchFile
		}
		if entryName == name {
			return entryDesc, nil
		}
	}
}

func (d *Driver) Readdir(ctx context.Context, desc vfs.Descriptor, index int) (string, vfs.Descriptor, error) {
	if desc.Type != vfs.Directory {
		return "", vfs.Descriptor{}, verrors.ErrNotDirectory
	}
	cluster, err := clusterOf(desc)
	if err != nil {
		return "", vfs.Descriptor{}, err
	}
	entry, err := nthDirEntry(ctx, d.op, cluster, index)
	if err != nil {
		if err == verrors.ErrEndOfFile {
			return "", vfs.Descriptor{}, verrors.ErrIndexOutOfRange
		}
		return "", vfs.Descriptor{}, err
	}
	return entry.name, descriptorFor(entry), nil
}

func (d *Driver) GetRoot() vfs.Descriptor {
	return vfs.Descriptor{Type: vfs.Directory, Opaque: d.op.bpb.rootCluster}
}
