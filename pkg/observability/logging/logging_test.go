/*
 * Copyright 2024 The Venuemaps Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wepmaps/venuemaps/pkg/observability/logging/level"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/options"
)

func TestConsoleLogger(t *testing.T) {
	testCases := []level.Level{level.Debug, level.Info, level.Warn, level.Error}
	for _, tc := range testCases {
		t.Run(string(tc), func(t *testing.T) {
			l := ConsoleLogger(tc)
			if l.Level() != tc {
				t.Errorf("mismatch in log level: expected=%s actual=%s", tc, l.Level())
			}
		})
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	l := StreamLogger(buf, "verbose")
	if l.Level() != level.Info {
		t.Errorf("expected %s got %s", level.Info, l.Level())
	}
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Errorf("expected warning about unknown level, got %q", buf.String())
	}
}

func TestNewLogger_LogFile(t *testing.T) {
	fileName := t.TempDir() + "/out.log"
	l := New(&options.Options{LogFile: fileName, LogLevel: "info"})
	l.Info("test entry", Pairs{"testKey": "testVal"})
	l.Close()
	b, err := os.ReadFile(fileName)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "testKey=testVal") {
		t.Errorf("expected log file to contain detail, got %q", string(b))
	}
}

func TestLogLineFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := StreamLogger(buf, level.Debug).(*logger)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	l.Warn("cache miss", Pairs{"zeta": 1, "alpha": "two words", "err": errors.New("boom")})
	expected := `time=2024-01-02T03:04:05Z app=venuemaps level=warn event="cache miss" ` +
		`alpha="two words" err=boom zeta=1` + "\n"
	if buf.String() != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	l := StreamLogger(buf, level.Warn)
	l.Debug("debug entry", nil)
	l.Info("info entry", nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
	l.Error("error entry", nil)
	if !strings.Contains(buf.String(), "error entry") {
		t.Errorf("expected error entry, got %q", buf.String())
	}
}

func TestWarnOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	l := StreamLogger(buf, level.Info)
	const key = "warnonce-test-key"
	if l.HasWarnedOnce(key) {
		t.Error("expected false")
	}
	if !l.WarnOnce(key, "test entry", Pairs{"testKey": "testVal"}) {
		t.Error("expected first WarnOnce to log")
	}
	if l.WarnOnce(key, "test entry", Pairs{"testKey": "testVal"}) {
		t.Error("expected second WarnOnce to be suppressed")
	}
	if !l.HasWarnedOnce(key) {
		t.Error("expected true")
	}
	if strings.Count(buf.String(), "test entry") != 1 {
		t.Errorf("expected exactly one entry, got %q", buf.String())
	}
}

func TestErrorOnce(t *testing.T) {
	l := StreamLogger(&bytes.Buffer{}, level.Info)
	if !l.ErrorOnce("k", "e", nil) || l.ErrorOnce("k", "e", nil) {
		t.Error("expected ErrorOnce to log exactly once")
	}
	if !l.HasErroredOnce("k") {
		t.Error("expected true")
	}
}

func TestFatalNegativeCode(t *testing.T) {
	buf := &bytes.Buffer{}
	l := StreamLogger(buf, level.Info)
	l.Fatal(-1, "fatal entry", nil)
	if !strings.Contains(buf.String(), "level=fatal") {
		t.Errorf("expected fatal entry, got %q", buf.String())
	}
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	l.Error("nothing", nil)
	l.Close()
}
