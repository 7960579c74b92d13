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

// Package vfscfg binds command-line flags and an optional config file onto
// a Config struct: pflag registers the flags, viper layers flag/env/file
// sources, and mapstructure decodes the merged map into the struct with a
// couple of custom hooks.
package vfscfg

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// LogSeverity is a validated logging severity string.
type LogSeverity string

const (
	SeverityTrace   LogSeverity = "TRACE"
	SeverityDebug   LogSeverity = "DEBUG"
	SeverityInfo    LogSeverity = "INFO"
	SeverityWarning LogSeverity = "WARNING"
	SeverityError   LogSeverity = "ERROR"
	SeverityOff     LogSeverity = "OFF"
)

// Config is the complete set of knobs the vfsctl binary understands.
type Config struct {
	Logging struct {
		Format   string      `mapstructure:"format"`
		Severity LogSeverity `mapstructure:"severity"`
		FilePath string      `mapstructure:"file-path"`
	} `mapstructure:"logging"`

	FileSystem struct {
		// DirTypeCacheTTL is decoded from configuration but not read by
		// any package; the node cache evicts by reference count only and
		// the block cache never expires sectors.
		DirTypeCacheTTL time.Duration `mapstructure:"dir-type-cache-ttl"`
		// PageSizeBytes is the memory driver's fixed page size.
		PageSizeBytes int `mapstructure:"page-size-bytes"`
		// ArenaPages bounds the memory driver's frame allocator.
		ArenaPages int `mapstructure:"arena-pages"`
	} `mapstructure:"file-system"`

	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Addr    string `mapstructure:"addr"`
	} `mapstructure:"metrics"`
}

func severityHookFunc() mapstructure.DecodeHookFuncType {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(LogSeverity("")) {
			return data, nil
		}
		s := strings.ToUpper(data.(string))
		if !slices.Contains([]string{"TRACE", "DEBUG", "INFO", "WARNING", "ERROR", "OFF"}, s) {
			return nil, fmt.Errorf("invalid logging.severity: %q", data)
		}
		return s, nil
	}
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		severityHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// RegisterFlags adds every Config field as a pflag.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("logging.format", "text", "log output format: text or json")
	fs.String("logging.severity", string(SeverityInfo), "minimum log severity: TRACE, DEBUG, INFO, WARNING, ERROR, OFF")
	fs.String("logging.file-path", "", "path to a rotated log file; empty means stderr")
	fs.Duration("file-system.dir-type-cache-ttl", time.Second, "accepted but not used: no cache in vfs expires by time")
	fs.Int("file-system.page-size-bytes", 4096, "memory driver page size in bytes")
	fs.Int("file-system.arena-pages", 4096, "memory driver frame arena size in pages")
	fs.Bool("metrics.enabled", false, "record controller metrics through an OpenTelemetry Prometheus exporter (no HTTP endpoint is served)")
	fs.String("metrics.addr", ":9520", "metrics listen address (accepted but not used by vfsctl)")
}

// Load merges flags, environment (VFS_ prefixed) and an optional config
// file into a Config.
func Load(fs *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", configFile, err)
		}
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHook(),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validateSeverity(cfg.Logging.Severity); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateSeverity(s LogSeverity) error {
	switch s {
	case SeverityTrace, SeverityDebug, SeverityInfo, SeverityWarning, SeverityError, SeverityOff, "":
		return nil
	default:
		return fmt.Errorf("invalid logging.severity: %q", s)
	}
}
