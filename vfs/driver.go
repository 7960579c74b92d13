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

package vfs

import "context"

// FileType distinguishes a regular file from a directory. Nodes never carry
// any richer type information; that is left to individual drivers.
type FileType int

const (
	Regular FileType = iota
	Directory
)

func (t FileType) String() string {
	if t == Directory {
		return "directory"
	}
	return "regular"
}

// Descriptor is the value a driver receives on every call that operates on
// an existing entry. It mirrors the node's view of that entry without
// exposing the node itself, so a driver can never reach into the cache.
type Descriptor struct {
	Type FileType
	Size int64

	// Opaque is the driver's own handle for re-identifying this entry: a
	// pointer-like value for the memory driver, a cluster number for FAT.
	// The controller and node layer never interpret it.
	Opaque any
}

// DirEntry is one record produced by Driver.Readdir.
type DirEntry struct {
	Name string
	Desc Descriptor
}

// Driver is the narrow contract every filesystem plugin implements. A
// driver owns exactly one volume; get_root returns that volume's root
// descriptor, which the node layer wraps in a volume-root Node.
//
// Every method here is a leaf call: none of them may reach back into the
// node cache. ctx is threaded through only for drivers whose backing
// storage may block (e.g. a block device behind a slow transport); the
// in-memory driver simply ignores it.
type Driver interface {
	Read(ctx context.Context, desc Descriptor, off int64, buf []byte) (int, error)
	Write(ctx context.Context, desc Descriptor, off int64, buf []byte) (int, error)
	Find(ctx context.Context, desc Descriptor, name string) (Descriptor, error)
	Create(ctx context.Context, desc Descriptor, name string, t FileType) (Descriptor, error)
	Readdir(ctx context.Context, desc Descriptor, index int) (string, Descriptor, error)
	Remove(ctx context.Context, desc Descriptor, name string) error
	GetRoot() Descriptor
}
