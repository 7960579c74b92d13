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

package memdriver

import (
	"context"

	"github.com/orbitos/vfs"
	"github.com/orbitos/vfs/verrors"
)

// object is the tagged union of {*file, *directory} the driver hands back
// as a Descriptor's Opaque value.
type object interface {
	objectName() string
}

type file struct {
	name  string
	size  int64
	pages []int // frame numbers, len == ceil(size / pageSize)
	alloc FrameAllocator
}

func (f *file) objectName() string { return f.name }

func (f *file) pageCount() int {
	ps := int64(f.alloc.PageSize())
	return int((f.size + ps - 1) / ps)
}

func (f *file) grow(target int64) error {
	ps := int64(f.alloc.PageSize())
	want := int((target + ps - 1) / ps)
	for len(f.pages) < want {
		frame, err := f.alloc.Alloc()
		if err != nil {
			return err
		}
		f.pages = append(f.pages, frame)
	}
	if target > f.size {
		f.size = target
	}
	return nil
}

func (f *file) release() {
	for _, p := range f.pages {
		f.alloc.Free(p)
	}
	f.pages = nil
	f.size = 0
}

func (f *file) readAt(off int64, buf []byte) (int, error) {
	if off >= f.size {
		return 0, verrors.ErrEndOfFile
	}
	ps := int64(f.alloc.PageSize())
	n := 0
	for n < len(buf) && off < f.size {
		page := int(off / ps)
		pageOff := off % ps
		avail := ps - pageOff
		remain := f.size - off
		chunk := int64(len(buf) - n)
		if chunk > avail {
			chunk = avail
		}
		if chunk > remain {
			chunk = remain
		}
		copy(buf[n:int64(n)+chunk], f.alloc.Page(f.pages[page])[pageOff:pageOff+chunk])
		n += int(chunk)
		off += chunk
	}
	return n, nil
}

func (f *file) writeAt(off int64, buf []byte) (int, error) {
	if err := f.grow(off + int64(len(buf))); err != nil {
		return 0, err
	}
	ps := int64(f.alloc.PageSize())
	n := 0
	for n < len(buf) {
		page := int(off / ps)
		pageOff := off % ps
		avail := ps - pageOff
		chunk := int64(len(buf) - n)
		if chunk > avail {
			chunk = avail
		}
		copy(f.alloc.Page(f.pages[page])[pageOff:pageOff+chunk], buf[n:int64(n)+chunk])
		n += int(chunk)
		off += chunk
	}
	return n, nil
}

type directory struct {
	name     string
	order    []string
	children map[string]object
}

func (d *directory) objectName() string { return d.name }

func newDirectory(name string) *directory {
	return &directory{name: name, children: make(map[string]object)}
}

func (d *directory) lookup(name string) (object, bool) {
	o, ok := d.children[name]
	return o, ok
}

func (d *directory) insert(o object) {
	name := o.objectName()
	if _, exists := d.children[name]; !exists {
		d.order = append(d.order, name)
	}
	d.children[name] = o
}

func (d *directory) removeChild(name string) (object, bool) {
	o, ok := d.children[name]
	if !ok {
		return nil, false
	}
	delete(d.children, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return o, true
}

func (d *directory) nth(index int) (object, bool) {
	if index < 0 || index >= len(d.order) {
		return nil, false
	}
	return d.children[d.order[index]], true
}

// Driver is a complete in-memory filesystem volume rooted at a single
// directory object.
type Driver struct {
	alloc FrameAllocator
	root  *directory
}

var _ vfs.Driver = (*Driver)(nil)

// New constructs a fresh, empty volume whose files draw pages from alloc.
func New(alloc FrameAllocator) *Driver {
	return &Driver{alloc: alloc, root: newDirectory("/")}
}

func descriptorFor(o object) vfs.Descriptor {
	switch v := o.(type) {
	case *file:
		return vfs.Descriptor{Type: vfs.Regular, Size: v.size, Opaque: v}
	case *directory:
		return vfs.Descriptor{Type: vfs.Directory, Opaque: v}
	default:
		panic("memdriver: unknown object kind")
	}
}

func asDirectory(desc vfs.Descriptor) (*directory, error) {
	d, ok := desc.Opaque.(*directory)
	if !ok {
		return nil, verrors.ErrNotDirectory
	}
	return d, nil
}

func (d *Driver) Read(_ context.Context, desc vfs.Descriptor, off int64, buf []byte) (int, error) {
	f, ok := desc.Opaque.(*file)
	if !ok {
		return 0, verrors.ErrNotFile
	}
	return f.readAt(off, buf)
}

func (d *Driver) Write(_ context.Context, desc vfs.Descriptor, off int64, buf []byte) (int, error) {
	f, ok := desc.Opaque.(*file)
	if !ok {
		return 0, verrors.ErrInvalidData
	}
	return f.writeAt(off, buf)
}

func (d *Driver) Find(_ context.Context, desc vfs.Descriptor, name string) (vfs.Descriptor, error) {
	dir, err := asDirectory(desc)
	if err != nil {
		return vfs.Descriptor{}, err
	}
	o, ok := dir.lookup(name)
	if !ok {
		return vfs.Descriptor{}, verrors.ErrNoSuchFile
	}
	return descriptorFor(o), nil
}

func (d *Driver) Create(_ context.Context, desc vfs.Descriptor, name string, t vfs.FileType) (vfs.Descriptor, error) {
	dir, err := asDirectory(desc)
	if err != nil {
		return vfs.Descriptor{}, err
	}
	if _, exists := dir.lookup(name); exists {
		return vfs.Descriptor{}, verrors.ErrFileExists
	}

	var o object
	if t == vfs.Directory {
		o = newDirectory(name)
	} else {
		o = &file{name: name, alloc: d.alloc}
	}
	dir.insert(o)
	return descriptorFor(o), nil
}

func (d *Driver) Readdir(_ context.Context, desc vfs.Descriptor, index int) (string, vfs.Descriptor, error) {
	dir, err := asDirectory(desc)
	if err != nil {
		return "", vfs.Descriptor{}, err
	}
	o, ok := dir.nth(index)
	if !ok {
		return "", vfs.Descriptor{}, verrors.ErrIndexOutOfRange
	}
	return o.objectName(), descriptorFor(o), nil
}

func (d *Driver) Remove(_ context.Context, desc vfs.Descriptor, name string) error {
	dir, err := asDirectory(desc)
	if err != nil {
		return err
	}
	o, ok := dir.removeChild(name)
	if !ok {
		return verrors.ErrNoSuchFile
	}
	if f, ok := o.(*file); ok {
		f.release()
	}
	return nil
}

func (d *Driver) GetRoot() vfs.Descriptor {
	return descriptorFor(d.root)
}
