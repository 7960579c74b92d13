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

package vfslog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// severityHandler adds a "severity" attribute naming the record's level on
// our own scale, so text/json output carries "severity=WARNING" next to
// slog's own "level=WARN".
type severityHandler struct {
	slog.Handler
}

func (h severityHandler) Handle(ctx context.Context, r slog.Record) error {
	nr := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	nr.AddAttrs(slog.String("severity", severityForLevel(r.Level)))
	r.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(a)
		return true
	})
	return h.Handler.Handle(ctx, nr)
}

func (h severityHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return severityHandler{h.Handler.WithAttrs(attrs)}
}

func (h severityHandler) WithGroup(name string) slog.Handler {
	return severityHandler{h.Handler.WithGroup(name)}
}

type handlerFactory struct {
	format string // "text" or "json"
}

func (f handlerFactory) createHandler(w io.Writer, level *slog.LevelVar) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	var base slog.Handler
	if f.format == "json" {
		base = slog.NewJSONHandler(w, opts)
	} else {
		base = slog.NewTextHandler(w, opts)
	}
	return severityHandler{base}
}

var (
	defaultLevel   = new(slog.LevelVar)
	defaultFactory = handlerFactory{format: "text"}
	defaultLogger  = slog.New(defaultFactory.createHandler(os.Stderr, defaultLevel))
)

// Options configures the process-wide logger: output format, minimum
// severity, and optional rotated-file output.
type Options struct {
	Format     string // "text" or "json"
	Severity   string
	FilePath   string // empty means stderr
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init installs the process-wide logger per opts. Safe to call more than
// once (e.g. after config reload).
func Init(opts Options) {
	defaultFactory = handlerFactory{format: opts.Format}
	defaultLevel.Set(levelForSeverity(opts.Severity))

	var w io.Writer = os.Stderr
	if opts.FilePath != "" {
		w = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
	}

	defaultLogger = slog.New(defaultFactory.createHandler(w, defaultLevel))
}

func Tracef(format string, args ...any) { defaultLogger.Log(context.Background(), LevelTrace, fmt.Sprintf(format, args...)) }
func Debugf(format string, args ...any) { defaultLogger.Debug(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { defaultLogger.Info(fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { defaultLogger.Warn(fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { defaultLogger.Error(fmt.Sprintf(format, args...)) }
