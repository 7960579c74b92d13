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

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orbitos/vfs"
	"github.com/orbitos/vfs/basicdriver"
	"github.com/orbitos/vfs/block"
	"github.com/orbitos/vfs/fatdriver"
	"github.com/orbitos/vfs/internal/vfslog"
	"github.com/orbitos/vfs/internal/vfsmetrics"
	"github.com/orbitos/vfs/memdriver"
	"github.com/orbitos/vfs/verrors"
)

// buildController constructs a fresh Controller rooted on the always-empty
// basic driver and applies every --mount entry in order.
func buildController(ctx context.Context) (*vfs.Controller, error) {
	ctrl := vfs.NewController(basicdriver.New())

	if config.Metrics.Enabled {
		provider, err := vfsmetrics.NewProvider()
		if err != nil {
			return nil, fmt.Errorf("starting metrics provider: %w", err)
		}
		ctrl.WithMetrics(provider.Handle)
	}

	for _, spec := range mounts {
		path, driverSpec, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --mount %q, want path=driver", spec)
		}
		driver, err := buildDriver(ctx, driverSpec)
		if err != nil {
			return nil, fmt.Errorf("building driver for --mount %q: %w", spec, err)
		}
		if err := ctrl.Mount(ctx, path, driver); err != nil {
			return nil, fmt.Errorf("mounting %q: %w", path, err)
		}
	}
	return ctrl, nil
}

func buildDriver(ctx context.Context, spec string) (vfs.Driver, error) {
	switch {
	case spec == "mem":
		alloc := memdriver.NewBitmapAllocator(config.FileSystem.PageSizeBytes, config.FileSystem.ArenaPages)
		return memdriver.New(alloc), nil

	case strings.HasPrefix(spec, "fat:"):
		imagePath := strings.TrimPrefix(spec, "fat:")
		dev, err := block.OpenFileDevice(imagePath, 512)
		if err != nil {
			return nil, err
		}
		return fatdriver.New(ctx, dev)

	default:
		return nil, fmt.Errorf("unknown driver spec %q (want \"mem\" or \"fat:<path>\")", spec)
	}
}

var lsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List the entries of a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctrl, err := buildController(ctx)
		if err != nil {
			return err
		}
		h, err := ctrl.Open(ctx, args[0], vfs.ModeRead)
		if err != nil {
			return fmt.Errorf("open %q: %w", args[0], err)
		}
		defer func() {
			if err := ctrl.Close(ctx, h); err != nil {
				vfslog.Errorf("vfsctl: closing %q: %v", args[0], err)
			}
		}()

		for i := 0; ; i++ {
			name, desc, err := h.Readdir(ctx, i)
			if err != nil {
				break
			}
			kind := "file"
			if desc.Type == vfs.Directory {
				kind = "dir"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-5s %10d  %s\n", kind, desc.Size, name)
		}
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a file's contents to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctrl, err := buildController(ctx)
		if err != nil {
			return err
		}
		h, err := ctrl.Open(ctx, args[0], vfs.ModeRead)
		if err != nil {
			return fmt.Errorf("open %q: %w", args[0], err)
		}
		defer func() {
			if err := ctrl.Close(ctx, h); err != nil {
				vfslog.Errorf("vfsctl: closing %q: %v", args[0], err)
			}
		}()

		buf := make([]byte, 4096)
		var off int64
		for {
			n, err := h.Read(ctx, off, buf)
			if n > 0 {
				if _, werr := cmd.OutOrStdout().Write(buf[:n]); werr != nil {
					return werr
				}
				off += int64(n)
			}
			if err != nil {
				if errors.Is(err, verrors.ErrEndOfFile) {
					return nil
				}
				return fmt.Errorf("read %q: %w", args[0], err)
			}
			if n == 0 {
				return nil
			}
		}
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctrl, err := buildController(ctx)
		if err != nil {
			return err
		}
		parent, name := splitParent(args[0])
		h, err := ctrl.Open(ctx, parent, vfs.ModeWrite)
		if err != nil {
			return fmt.Errorf("open %q: %w", parent, err)
		}
		defer func() {
			if err := ctrl.Close(ctx, h); err != nil {
				vfslog.Errorf("vfsctl: closing %q: %v", parent, err)
			}
		}()
		if err := h.Create(ctx, name, vfs.Directory); err != nil {
			return fmt.Errorf("mkdir %q: %w", args[0], err)
		}
		return nil
	},
}

func splitParent(path string) (parent, name string) {
	segments := vfs.SplitPath(path)
	if len(segments) == 0 {
		return "/", ""
	}
	name = segments[len(segments)-1]
	parent = "/" + strings.Join(segments[:len(segments)-1], "/")
	return parent, name
}

func init() {
	rootCmd.AddCommand(lsCmd, catCmd, mkdirCmd)
}
