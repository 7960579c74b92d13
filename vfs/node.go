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

import (
	"context"
	"fmt"

	"github.com/orbitos/vfs/verrors"
)

// Mode is the access mode a Handle was opened under.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

func (m Mode) String() string {
	if m == ModeWrite {
		return "write"
	}
	return "read"
}

// Node is the cached representation of one reachable name in the mount
// tree. All of its fields are guarded by the owning Controller's lock: this
// package follows a single mutual-exclusion discipline rather than a
// per-node lock, so a node never needs to be locked on its own.
//
// GUARDED_BY(Controller.mu) for every field below.
type Node struct {
	name string
	typ  FileType
	size int64

	// volumeRoot is true iff this node was produced by a driver's own
	// get_root(); it is immutable for the lifetime of the node.
	volumeRoot bool

	driver Driver
	desc   Descriptor

	readCount  int
	writeCount int

	parent   *Node
	children map[string]*Node

	// mount is the root node of an overlaid volume, or nil.
	mount *Node
}

func newNode(name string, driver Driver, desc Descriptor, volumeRoot bool) *Node {
	return &Node{
		name:       name,
		typ:        desc.Type,
		size:       desc.Size,
		volumeRoot: volumeRoot,
		driver:     driver,
		desc:       desc,
		children:   make(map[string]*Node),
	}
}

func (n *Node) checkInvariants() {
	if n.writeCount > 1 {
		panic(fmt.Sprintf("node %q: write_count=%d > 1", n.name, n.writeCount))
	}
	if n.writeCount == 1 && n.readCount != 0 {
		panic(fmt.Sprintf("node %q: write_count=1 but read_count=%d", n.name, n.readCount))
	}
	for k, c := range n.children {
		if c.name != k {
			panic(fmt.Sprintf("node %q: child key %q has name %q", n.name, k, c.name))
		}
		if c.parent != n {
			panic(fmt.Sprintf("node %q: child %q parent back-pointer mismatch", n.name, k))
		}
	}
	if n.mount != nil {
		if !n.mount.volumeRoot {
			panic(fmt.Sprintf("node %q: mount target is not a volume root", n.name))
		}
		if n.mount.parent != nil {
			panic(fmt.Sprintf("node %q: mount target has a parent while mounted", n.name))
		}
	}
}

// IsBusy reports whether n may not currently be evicted: it has any open
// handle, any cached child, or a mounted volume.
func (n *Node) IsBusy() bool {
	return n.readCount > 0 || n.writeCount > 0 || len(n.children) > 0 || n.mount != nil
}

// IsVolumeRoot reports whether n is the root node of its driver's volume.
func (n *Node) IsVolumeRoot() bool {
	return n.volumeRoot
}

// top follows mount links to the currently topmost node reachable from n.
func (n *Node) top() *Node {
	cur := n
	for cur.mount != nil {
		cur = cur.mount
	}
	return cur
}

func (n *Node) tryOpen(mode Mode) error {
	if mode == ModeWrite {
		if n.writeCount > 0 || n.readCount > 0 {
			return verrors.ErrFileOpened
		}
		n.writeCount++
		return nil
	}
	if n.writeCount > 0 {
		return verrors.ErrFileOpened
	}
	n.readCount++
	return nil
}

func (n *Node) releaseOpen(mode Mode) {
	if mode == ModeWrite {
		n.writeCount--
		return
	}
	n.readCount--
}

// Read delegates to the owning driver. off/buf follow driver.Read; fails
// with NotOpened if the node is not held under a read or write handle.
func (n *Node) Read(ctx context.Context, off int64, buf []byte) (int, error) {
	if n.readCount == 0 && n.writeCount == 0 {
		return 0, verrors.ErrNotOpened
	}
	count, err := n.driver.Read(ctx, n.desc, off, buf)
	return count, err
}

// Write delegates to the owning driver and refreshes the cached size.
func (n *Node) Write(ctx context.Context, off int64, buf []byte) (int, error) {
	if n.writeCount == 0 {
		return 0, verrors.ErrNotOpened
	}
	count, err := n.driver.Write(ctx, n.desc, off, buf)
	if err != nil {
		return count, err
	}
	if end := off + int64(count); end > n.size {
		n.size = end
		n.desc.Size = end
	}
	return count, nil
}

// Find asks the driver for a fresh node for the given child name. The
// returned node has its parent set to n but is not yet inserted into
// n.children; the caller does that once it has successfully been opened.
func (n *Node) Find(ctx context.Context, name string) (*Node, error) {
	desc, err := n.driver.Find(ctx, n.desc, name)
	if err != nil {
		return nil, err
	}
	child := newNode(name, n.driver, desc, false)
	child.parent = n
	return child, nil
}

// Create asks the driver to create a new child entry. It does not insert
// the result into n.children; the next lookup of that name materializes it
// via Find.
func (n *Node) Create(ctx context.Context, name string, t FileType) error {
	if n.writeCount == 0 {
		return verrors.ErrNotOpened
	}
	_, err := n.driver.Create(ctx, n.desc, name, t)
	return err
}

// Readdir returns the index-th directory entry by driver-defined order.
func (n *Node) Readdir(ctx context.Context, index int) (string, *Node, error) {
	name, desc, err := n.driver.Readdir(ctx, n.desc, index)
	if err != nil {
		return "", nil, err
	}
	child := newNode(name, n.driver, desc, false)
	child.parent = n
	return name, child, nil
}

// Remove unlinks a child by name. It refuses if the child is currently
// cached, since a live cache entry implies a potential handle to it.
func (n *Node) Remove(ctx context.Context, name string) error {
	if n.writeCount == 0 {
		return verrors.ErrNotOpened
	}
	if _, cached := n.children[name]; cached {
		return verrors.ErrFileOpened
	}
	return n.driver.Remove(ctx, n.desc, name)
}
