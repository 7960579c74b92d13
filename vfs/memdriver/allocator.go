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

// Package memdriver implements a tmpfs-like vfs.Driver: directories and
// files held entirely in memory, with file contents backed by fixed-size
// pages drawn from a FrameAllocator.
package memdriver

import (
	"fmt"

	"github.com/orbitos/vfs/verrors"
)

// FrameAllocator hands out and reclaims fixed-size pages. It is a
// capability injected into the driver constructor rather than a global,
// so tests can swap in a tiny arena.
type FrameAllocator interface {
	PageSize() int
	Alloc() (frame int, err error)
	Free(frame int)
	Page(frame int) []byte
}

// BitmapAllocator is a fixed-size arena of numPages pages, each pageSize
// bytes, tracked by a bitmap of free/used frames.
type BitmapAllocator struct {
	pageSize int
	arena    []byte
	used     []bool
	free     int
}

var _ FrameAllocator = (*BitmapAllocator)(nil)

// NewBitmapAllocator allocates an arena of numPages*pageSize bytes upfront.
func NewBitmapAllocator(pageSize, numPages int) *BitmapAllocator {
	if pageSize <= 0 || numPages <= 0 {
		panic("memdriver: pageSize and numPages must be positive")
	}
	return &BitmapAllocator{
		pageSize: pageSize,
		arena:    make([]byte, pageSize*numPages),
		used:     make([]bool, numPages),
		free:     numPages,
	}
}

func (a *BitmapAllocator) PageSize() int { return a.pageSize }

func (a *BitmapAllocator) Alloc() (int, error) {
	if a.free == 0 {
		return 0, verrors.ErrOutOfFrames
	}
	for i, u := range a.used {
		if !u {
			a.used[i] = true
			a.free--
			return i, nil
		}
	}
	panic("memdriver: free count out of sync with bitmap")
}

func (a *BitmapAllocator) Free(frame int) {
	if frame < 0 || frame >= len(a.used) {
		panic(fmt.Sprintf("memdriver: frame %d out of range", frame))
	}
	if !a.used[frame] {
		panic(fmt.Sprintf("memdriver: double free of frame %d", frame))
	}
	a.used[frame] = false
	a.free++
}

func (a *BitmapAllocator) Page(frame int) []byte {
	start := frame * a.pageSize
	return a.arena[start : start+a.pageSize]
}
