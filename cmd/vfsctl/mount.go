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
	"fmt"

	"github.com/spf13/cobra"
)

// mountCmd and unmountCmd exercise Controller.Mount/Unmount directly: since
// vfsctl is one-shot, the --mount flag already grafts its drivers before
// the requested subcommand runs, so these two mainly demonstrate (and let
// scripts probe) the mount/unmount error paths on a controller whose tree
// is otherwise empty.
var mountCmd = &cobra.Command{
	Use:   "mount <path> <driver>",
	Short: "Mount a driver (\"mem\" or \"fat:<image-path>\") at path, then exit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctrl, err := buildController(ctx)
		if err != nil {
			return err
		}
		driver, err := buildDriver(ctx, args[1])
		if err != nil {
			return err
		}
		if err := ctrl.Mount(ctx, args[0], driver); err != nil {
			return fmt.Errorf("mount %q: %w", args[0], err)
		}
		return nil
	},
}

var unmountCmd = &cobra.Command{
	Use:   "unmount <path>",
	Short: "Unmount the volume grafted at path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ctrl, err := buildController(ctx)
		if err != nil {
			return err
		}
		if _, err := ctrl.Unmount(ctx, args[0]); err != nil {
			return fmt.Errorf("unmount %q: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mountCmd, unmountCmd)
}
