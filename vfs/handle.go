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

	"github.com/orbitos/vfs/verrors"
)

// Handle is a thin capability wrapper around a live Node reference and the
// mode it was acquired under. All controller-facing operations go through
// a Handle so that the mode check happens in one place.
type Handle struct {
	ctrl *Controller
	node *Node
	mode Mode
}

// Mode reports the access mode this handle was opened with.
func (h *Handle) Mode() Mode { return h.mode }

// GetSize returns the node's currently known byte size.
func (h *Handle) GetSize() int64 { return h.node.size }

func (h *Handle) Read(ctx context.Context, off int64, buf []byte) (int, error) {
	return h.node.Read(ctx, off, buf)
}

func (h *Handle) Write(ctx context.Context, off int64, buf []byte) (int, error) {
	if h.mode != ModeWrite {
		return 0, verrors.ErrNotOpened
	}
	return h.node.Write(ctx, off, buf)
}

func (h *Handle) Create(ctx context.Context, name string, t FileType) error {
	if h.mode != ModeWrite {
		return verrors.ErrNotOpened
	}
	return h.node.Create(ctx, name, t)
}

func (h *Handle) Readdir(ctx context.Context, index int) (string, Descriptor, error) {
	name, child, err := h.node.Readdir(ctx, index)
	if err != nil {
		return "", Descriptor{}, err
	}
	return name, child.desc, nil
}

func (h *Handle) Remove(ctx context.Context, name string) error {
	if h.mode != ModeWrite {
		return verrors.ErrNotOpened
	}
	return h.node.Remove(ctx, name)
}

// Find looks up name under this handle's node without opening it. The
// returned node is not inserted into the node's children.
func (h *Handle) Find(ctx context.Context, name string) (*Node, error) {
	return h.node.Find(ctx, name)
}

// Open resolves name under h's node and returns a new handle to it under
// mode: reuse a cached child if present (following any mount chain from
// it), otherwise ask the driver via find, then run try_open and, if the
// node was freshly produced, insert it into children.
func (h *Handle) Open(ctx context.Context, name string, mode Mode) (*Handle, error) {
	return h.ctrl.open(ctx, h.node, name, mode)
}
