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

// Package basicdriver provides the controller's persistent root: a driver
// whose volume is permanently empty. It exists only so the Controller has
// somewhere to anchor path resolution before anything is mounted.
package basicdriver

import (
	"context"

	"github.com/orbitos/vfs"
	"github.com/orbitos/vfs/verrors"
)

// Driver is an always-empty directory. Find and Remove fail with
// NoSuchFile, Readdir with IndexOutOfRange, and Read, Write and Create with
// InvalidData; only GetRoot succeeds.
type Driver struct{}

var _ vfs.Driver = (*Driver)(nil)

func New() *Driver { return &Driver{} }

func (d *Driver) Read(context.Context, vfs.Descriptor, int64, []byte) (int, error) {
	return 0, verrors.ErrInvalidData
}

func (d *Driver) Write(context.Context, vfs.Descriptor, int64, []byte) (int, error) {
	return 0, verrors.ErrInvalidData
}

func (d *Driver) Find(context.Context, vfs.Descriptor, string) (vfs.Descriptor, error) {
	return vfs.Descriptor{}, verrors.ErrNoSuchFile
}

func (d *Driver) Create(context.Context, vfs.Descriptor, string, vfs.FileType) (vfs.Descriptor, error) {
	return vfs.Descriptor{}, verrors.ErrInvalidData
}

func (d *Driver) Readdir(context.Context, vfs.Descriptor, int) (string, vfs.Descriptor, error) {
	return "", vfs.Descriptor{}, verrors.ErrIndexOutOfRange
}

func (d *Driver) Remove(context.Context, vfs.Descriptor, string) error {
	return verrors.ErrNoSuchFile
}

func (d *Driver) GetRoot() vfs.Descriptor {
	return vfs.Descriptor{Type: vfs.Directory}
}
