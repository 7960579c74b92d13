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
	"bytes"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const (
	textDebugString = `^time=\S+ level=DEBUG msg="www.debugExample.com" severity=DEBUG`
	textInfoString  = `^time=\S+ level=INFO msg="www.infoExample.com" severity=INFO`
	textWarnString  = `^time=\S+ level=WARN msg="www.warningExample.com" severity=WARNING`
	textErrorString = `^time=\S+ level=ERROR msg="www.errorExample.com" severity=ERROR`

	jsonErrorString = `"msg":"www.errorExample.com","severity":"ERROR"`
)

type LoggerSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerSuite))
}

func (s *LoggerSuite) redirect(buf *bytes.Buffer, format, severity string) {
	level := new(slog.LevelVar)
	level.Set(levelForSeverity(severity))
	defaultFactory = handlerFactory{format: format}
	defaultLevel = level
	defaultLogger = slog.New(defaultFactory.createHandler(buf, level))
}

func (s *LoggerSuite) TestTextLevelDebugEmitsEverything() {
	var buf bytes.Buffer
	s.redirect(&buf, "text", SeverityDebug)

	Debugf("www.debugExample.com")
	s.Regexp(regexp.MustCompile(textDebugString), buf.String())
	buf.Reset()

	Infof("www.infoExample.com")
	s.Regexp(regexp.MustCompile(textInfoString), buf.String())
	buf.Reset()

	Warnf("www.warningExample.com")
	s.Regexp(regexp.MustCompile(textWarnString), buf.String())
	buf.Reset()

	Errorf("www.errorExample.com")
	s.Regexp(regexp.MustCompile(textErrorString), buf.String())
}

func (s *LoggerSuite) TestLevelErrorSuppressesLowerSeverities() {
	var buf bytes.Buffer
	s.redirect(&buf, "text", SeverityError)

	Debugf("www.debugExample.com")
	Infof("www.infoExample.com")
	Warnf("www.warningExample.com")
	assert.Empty(s.T(), buf.String())

	Errorf("www.errorExample.com")
	s.Regexp(regexp.MustCompile(textErrorString), buf.String())
}

func (s *LoggerSuite) TestOffSuppressesEverything() {
	var buf bytes.Buffer
	s.redirect(&buf, "text", SeverityOff)

	Debugf("www.debugExample.com")
	Infof("www.infoExample.com")
	Warnf("www.warningExample.com")
	Errorf("www.errorExample.com")
	assert.Empty(s.T(), buf.String())
}

func (s *LoggerSuite) TestJSONFormat() {
	var buf bytes.Buffer
	s.redirect(&buf, "json", SeverityError)

	Errorf("www.errorExample.com")
	assert.Contains(s.T(), buf.String(), jsonErrorString)
}

func TestLevelForSeverity(t *testing.T) {
	cases := map[string]slog.Level{
		SeverityTrace:   LevelTrace,
		SeverityDebug:   LevelDebug,
		SeverityInfo:    LevelInfo,
		SeverityWarning: LevelWarn,
		SeverityError:   LevelError,
		SeverityOff:     levelOff,
	}
	for severity, want := range cases {
		assert.Equal(t, want, levelForSeverity(severity), severity)
	}
}
