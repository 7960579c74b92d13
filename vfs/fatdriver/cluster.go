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

	"github.com/orbitos/vfs/block"
	"github.com/orbitos/vfs/verrors"
)

// endOfClusterChain is the smallest FAT entry value that terminates a chain.
const endOfClusterChain = 0x0FFFFFF8

type clusterOperator struct {
	bpb bpbSummary
	dev block.Device
}

func (op clusterOperator) readCluster(ctx context.Context, cluster uint32, buf []byte) error {
	sector := op.bpb.clusterToSector(cluster)
	spc := int64(op.bpb.sectorsPerCluster)
	if sector+spc-1 > op.bpb.lastDataSector() {
		return verrors.ErrIndexOutOfRange
	}
	return op.dev.ReadSectors(ctx, sector, buf)
}

// nextCluster reads the FAT entry for cluster and returns the next cluster
// in the chain, or endOfClusterChain-or-above if this is the last cluster.
func (op clusterOperator) nextCluster(ctx context.Context, cluster uint32) (uint32, error) {
	bps := int64(op.bpb.bytesPerSector)
	sector := int64(op.bpb.reservedSectorCount) + int64(cluster)*4/bps
	offset := int64(cluster) * 4 % bps

	buf := make([]byte, op.bpb.bytesPerSector)
	if err := op.dev.ReadSectors(ctx, sector, buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[offset : offset+4]), nil
}

// dirEntry is one enumerated directory record, cluster 0 already normalized
// to the volume's root cluster.
type dirEntry struct {
	name      string
	cluster   uint32
	size      uint32
	attribute byte
}

func (e dirEntry) isDirectory() bool { return e.attribute&attrDirectory != 0 }

// cursor walks cluster chains one raw 32-byte slot at a time, loading a new
// cluster's worth of sector data on crossing a cluster boundary.
type cursor struct {
	op      clusterOperator
	cluster uint32
	index   int // slot index within the current cluster's buffer
	buf     []byte
	loaded  bool
}

func newCursor(op clusterOperator, firstCluster uint32) *cursor {
	return &cursor{op: op, cluster: firstCluster, buf: make([]byte, op.bpb.clusterSizeBytes())}
}

func (c *cursor) entriesPerCluster() int { return len(c.buf) / entrySize }

// next returns the raw bytes of the next directory slot, advancing the
// cursor across cluster boundaries as needed.
func (c *cursor) next(ctx context.Context) ([]byte, error) {
	if !c.loaded {
		if err := c.op.readCluster(ctx, c.cluster, c.buf); err != nil {
			return nil, err
		}
		c.loaded = true
	}
	if c.index >= c.entriesPerCluster() {
		next, err := c.op.nextCluster(ctx, c.cluster)
		if err != nil {
			return nil, err
		}
		if next >= endOfClusterChain {
			return nil, verrors.ErrEndOfFile
		}
		c.cluster = next
		c.index = 0
		if err := c.op.readCluster(ctx, c.cluster, c.buf); err != nil {
			return nil, err
		}
	}
	slot := c.buf[c.index*entrySize : (c.index+1)*entrySize]
	c.index++
	return slot, nil
}

// skipValidEntries advances the cursor past count valid (non-deleted,
// non-LFN) directory entries without interpreting their contents.
func (c *cursor) skipValidEntries(ctx context.Context, count int) error {
	seen := 0
	for seen < count {
		slot, err := c.next(ctx)
		if err != nil {
			return err
		}
		if slot[0] == deletedMarker || isLFNEntry(slot) {
			continue
		}
		if slot[0] == terminatorMarker {
			return verrors.ErrEndOfFile
		}
		seen++
	}
	return nil
}

// readEntry reads one fully-assembled directory entry starting at the
// cursor's current position, validating and concatenating any preceding
// LFN fragments against the terminating short entry's checksum.
func (c *cursor) readEntry(ctx context.Context, rootCluster uint32) (dirEntry, error) {
	lfnChecksum := -1
	var lfnParts []string

	for {
		slot, err := c.next(ctx)
		if err != nil {
			return dirEntry{}, err
		}
		if slot[0] == deletedMarker {
			continue
		}
		if slot[0] == terminatorMarker {
			return dirEntry{}, verrors.ErrEndOfFile
		}
		if isLFNEntry(slot) {
			if lfnSequenceIsFirst(slot) {
				lfnChecksum = int(lfnChecksumOf(slot))
				lfnParts = nil
			}
			if lfnChecksum != int(lfnChecksumOf(slot)) {
				return dirEntry{}, verrors.ErrBadChecksum
			}
			lfnParts = append([]string{lfnFragment(slot)}, lfnParts...)
			continue
		}

		var name11 [11]byte
		copy(name11[:], slot[0:11])
		entry := dirEntry{
			cluster:   shortEntryFirstCluster(slot),
			size:      shortEntrySize(slot),
			attribute: slot[11],
		}
		if entry.cluster == 0 {
			entry.cluster = rootCluster
		}
		if lfnChecksum == int(shortNameChecksum(name11)) && len(lfnParts) > 0 {
			entry.name = joinStrings(lfnParts)
		} else {
			entry.name = shortNameToString(slot)
		}
		return entry, nil
	}
}

func joinStrings(parts []string) string {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return string(out)
}

// nthDirEntry returns the index-th valid entry (0-based) of the directory
// starting at firstCluster.
func nthDirEntry(ctx context.Context, op clusterOperator, firstCluster uint32, index int) (dirEntry, error) {
	c := newCursor(op, firstCluster)
	if err := c.skipValidEntries(ctx, index); err != nil {
		return dirEntry{}, err
	}
	return c.readEntry(ctx, op.bpb.rootCluster)
}
