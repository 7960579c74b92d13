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

// Command vfsctl is a one-shot driver for the vfs package: it builds a
// Controller, mounts whatever --mount flags name, performs a single
// operation, and exits. It exists to exercise the controller end to end,
// not as a long-lived shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/orbitos/vfs/internal/vfscfg"
	"github.com/orbitos/vfs/internal/vfslog"
)

var (
	cfgFile string
	mounts  []string
	config  *vfscfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "vfsctl",
	Short: "Inspect and drive a vfs.Controller from the command line",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := vfscfg.Load(cmd.Flags(), cfgFile)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		config = loaded
		vfslog.Init(vfslog.Options{
			Format:   config.Logging.Format,
			Severity: string(config.Logging.Severity),
			FilePath: config.Logging.FilePath,
		})
		return nil
	},
}

func registerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfgFile, "config", "", "path to a YAML configuration file")
	fs.StringArrayVar(&mounts, "mount", nil, "path=driver entries to mount before running the command, e.g. /tmp=mem")
	vfscfg.RegisterFlags(fs)
}

func Execute() {
	registerFlags(rootCmd.PersistentFlags())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
