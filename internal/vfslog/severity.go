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

// Package vfslog is the structured logging front end shared by the VFS
// controller, its drivers, and the vfsctl CLI. It wraps log/slog with a
// small severity scale and a pluggable text/json handler.
package vfslog

import "log/slog"

// Severity names accepted in configuration, ordered from least to most
// verbose when read top to bottom below OFF.
const (
	SeverityOff     = "OFF"
	SeverityError   = "ERROR"
	SeverityWarning = "WARNING"
	SeverityInfo    = "INFO"
	SeverityDebug   = "DEBUG"
	SeverityTrace   = "TRACE"
)

// Custom slog levels. slog.LevelInfo/Warn/Error already line up with ours;
// Trace sits below slog's built-in Debug.
const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	// levelOff is above any real record, silencing everything.
	levelOff slog.Level = 100
)

func severityForLevel(l slog.Level) string {
	switch {
	case l < LevelDebug:
		return "TRACE"
	case l < LevelInfo:
		return "DEBUG"
	case l < LevelWarn:
		return "INFO"
	case l < LevelError:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// levelForSeverity maps a configured severity name to an slog.Level. An
// unrecognized name is treated as INFO.
func levelForSeverity(severity string) slog.Level {
	switch severity {
	case SeverityTrace:
		return LevelTrace
	case SeverityDebug:
		return LevelDebug
	case SeverityInfo:
		return LevelInfo
	case SeverityWarning:
		return LevelWarn
	case SeverityError:
		return LevelError
	case SeverityOff:
		return levelOff
	default:
		return LevelInfo
	}
}
