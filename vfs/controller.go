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

	"github.com/jacobsa/syncutil"

	"github.com/orbitos/vfs/internal/vfslog"
	"github.com/orbitos/vfs/internal/vfsmetrics"
	"github.com/orbitos/vfs/verrors"
)

// mountEntry records one active mount: the driver supplying it, its volume
// root node, and the write handle held on the node it was grafted onto.
// Closing that handle is what makes the mountpoint evictable again once the
// volume is unmounted.
type mountEntry struct {
	driver Driver
	root   *Node
	handle *Handle
}

// Controller orchestrates open/close/mount/unmount over a single rooted
// node tree. Per the single mutual-exclusion discipline this design calls
// for (no per-node locks), every field reachable from root and every
// mountEntry is guarded by mu.
type Controller struct {
	mu syncutil.InvariantMutex

	// root is the persistent root node, backed by the controller's own
	// basic (always-empty) driver. GUARDED_BY(mu)
	root *Node

	// mounts GUARDED_BY(mu)
	mounts []*mountEntry

	metrics *vfsmetrics.Handle
}

// NewController constructs a Controller whose persistent root is the
// volume root of basicDriver (normally an always-empty driver; see
// vfs/basicdriver).
func NewController(basicDriver Driver) *Controller {
	c := &Controller{
		root: newNode("/", basicDriver, basicDriver.GetRoot(), true),
	}
	c.mu = syncutil.NewInvariantMutex(c.checkInvariants)
	return c
}

// WithMetrics attaches a metrics handle that every subsequent operation
// reports to. A nil handle (the default) makes every metrics call a no-op.
func (c *Controller) WithMetrics(h *vfsmetrics.Handle) *Controller {
	c.metrics = h
	return c
}

func (c *Controller) checkInvariants() {
	checkNodeInvariants(c.root)
}

func checkNodeInvariants(n *Node) {
	n.checkInvariants()
	for _, child := range n.children {
		checkNodeInvariants(child)
	}
	if n.mount != nil {
		checkNodeInvariants(n.mount)
	}
}

// Open resolves path and returns a handle held under mode.
func (c *Controller) Open(ctx context.Context, path string, mode Mode) (*Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, err := c.openLocked(ctx, path, mode)
	c.metrics.RecordOp(ctx, "open", err)
	if err == nil {
		c.metrics.HandleOpened(ctx)
	}
	return h, err
}

func (c *Controller) openLocked(ctx context.Context, path string, mode Mode) (*Handle, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return c.openRoot(mode)
	}

	filename := segments[len(segments)-1]
	parent, err := c.openParentDirectory(ctx, segments[:len(segments)-1])
	if err != nil {
		return nil, err
	}

	h, err := c.open(ctx, parent.node, filename, mode)
	if closeErr := c.closeLocked(ctx, parent); closeErr != nil {
		vfslog.Errorf("vfs: closing parent directory handle for %q: %v (invariant violation)", path, closeErr)
	}
	return h, err
}

// openRoot follows mount links from the persistent root and opens the
// topmost volume under mode.
func (c *Controller) openRoot(mode Mode) (*Handle, error) {
	top := c.root.top()
	if err := top.tryOpen(mode); err != nil {
		return nil, err
	}
	return &Handle{ctrl: c, node: top, mode: mode}, nil
}

// openParentDirectory walks dirSegments one at a time, holding at most one
// read handle at a time, so each intermediate node's read_count is held
// exactly during its own subtree step.
func (c *Controller) openParentDirectory(ctx context.Context, dirSegments []string) (*Handle, error) {
	cur, err := c.openRoot(ModeRead)
	if err != nil {
		return nil, err
	}

	for _, seg := range dirSegments {
		next, err := c.open(ctx, cur.node, seg, ModeRead)
		if closeErr := c.closeLocked(ctx, cur); closeErr != nil {
			vfslog.Errorf("vfs: closing intermediate directory handle for %q: %v (invariant violation)", seg, closeErr)
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}

	return cur, nil
}

// open resolves name under parent and returns a handle to it under mode,
// following Handle.Open's resolution rule.
func (c *Controller) open(ctx context.Context, parent *Node, name string, mode Mode) (*Handle, error) {
	existing, cached := parent.children[name]

	var target *Node
	if cached {
		target = existing.top()
	} else {
		fresh, err := parent.Find(ctx, name)
		if err != nil {
			return nil, err
		}
		target = fresh
	}

	if err := target.tryOpen(mode); err != nil {
		return nil, err
	}

	if !cached {
		parent.children[name] = target
	}

	return &Handle{ctrl: c, node: target, mode: mode}, nil
}

// Close releases h's reference and evicts any node that becomes idle as a
// result.
func (c *Controller) Close(ctx context.Context, h *Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.closeLocked(ctx, h)
	c.metrics.RecordOp(ctx, "close", err)
	c.metrics.HandleClosed(ctx)
	return err
}

func (c *Controller) closeLocked(ctx context.Context, h *Handle) error {
	h.node.releaseOpen(h.mode)
	c.evictChain(ctx, h.node)
	return nil
}

// evictChain walks upward from n, removing any node from its parent's
// children that has become idle, stopping at the first busy node, volume
// root, or parentless node.
func (c *Controller) evictChain(ctx context.Context, n *Node) {
	cur := n
	for {
		if cur.IsBusy() || cur.IsVolumeRoot() || cur.parent == nil {
			return
		}
		parent := cur.parent
		delete(parent.children, cur.name)
		c.metrics.NodeEvicted(ctx)
		cur = parent
	}
}

// Mount grafts driver's volume root onto path. path must resolve
// to an existing entry (typically a directory); mounting holds a write
// reference on it for the lifetime of the mount.
func (c *Controller) Mount(ctx context.Context, path string, driver Driver) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.metrics.RecordOp(ctx, "mount", err) }()

	volumeRoot := newNode("/", driver, driver.GetRoot(), true)

	h, err := c.openLocked(ctx, path, ModeWrite)
	if err != nil {
		return err
	}

	h.node.mount = volumeRoot
	c.mounts = append(c.mounts, &mountEntry{driver: driver, root: volumeRoot, handle: h})
	c.metrics.VolumeMounted(ctx)
	return nil
}

// resolveMountpoint returns the literal node named by path, without
// following its own mount chain (unlike openLocked/open, which always
// resolve through to the topmost mounted volume).
func (c *Controller) resolveMountpoint(path string) (*Node, error) {
	segments := SplitPath(path)
	if len(segments) == 0 {
		return c.root, nil
	}

	cur := c.root.top()
	for i, seg := range segments {
		child, ok := cur.children[seg]
		if !ok {
			return nil, verrors.ErrNoSuchFile
		}
		if i == len(segments)-1 {
			return child, nil
		}
		cur = child.top()
	}
	panic("unreachable")
}

// Unmount resolves path to its topmost mountpoint and releases that mount.
// It fails with VolumeBusy if the volume root still has any open
// handle, cached child, or nested mount.
func (c *Controller) Unmount(ctx context.Context, path string) (_ Driver, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.metrics.RecordOp(ctx, "unmount", err) }()

	mountpoint, err := c.resolveMountpoint(path)
	if err != nil {
		return nil, err
	}

	top := mountpoint
	for top.mount != nil {
		top = top.mount
	}
	if top == mountpoint {
		return nil, verrors.ErrNotMounted
	}

	var entry *mountEntry
	for _, e := range c.mounts {
		if e.root == top {
			entry = e
			break
		}
	}
	if entry == nil {
		return nil, verrors.ErrNotMounted
	}

	if top.IsBusy() {
		return nil, verrors.ErrVolumeBusy
	}

	entry.handle.node.mount = nil
	if closeErr := c.closeLocked(ctx, entry.handle); closeErr != nil {
		return nil, fmt.Errorf("vfs: closing mount handle for %q: %w", path, closeErr)
	}

	c.mounts = removeMount(c.mounts, entry)
	c.metrics.VolumeUnmounted(ctx)
	return entry.driver, nil
}

func removeMount(mounts []*mountEntry, target *mountEntry) []*mountEntry {
	out := mounts[:0]
	for _, e := range mounts {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}
