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

// Package logging provides the key=value event logger used across venuemaps
package logging

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/wepmaps/venuemaps/pkg/observability/logging/level"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/options"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	_ Logger    = &logger{}
	_ io.Writer = &logger{}
)

// Logger is the interface for a venuemaps event logger
type Logger interface {
	SetLogLevel(level.Level)
	Level() level.Level
	Close()
	//
	Log(logLevel level.Level, event string, detail Pairs)
	Debug(event string, detail Pairs)
	Info(event string, detail Pairs)
	Warn(event string, detail Pairs)
	Error(event string, detail Pairs)
	Fatal(code int, event string, detail Pairs)
	//
	WarnOnce(key, event string, detail Pairs) bool
	ErrorOnce(key, event string, detail Pairs) bool
	HasWarnedOnce(key string) bool
	HasErroredOnce(key string) bool
}

// Pairs represents a key=value pair that helps to describe a log event
type Pairs map[string]any

// AppName is written as the app= field of every log line
var AppName = "venuemaps"

// New returns a Logger for the provided logging options. An empty LogFile
// logs to stdout; otherwise the file is rotated by lumberjack.
func New(o *options.Options) Logger {
	if o == nil {
		o = options.New()
	}
	l := &logger{now: time.Now}
	if o.LogFile == "" {
		l.writer = os.Stdout
	} else {
		lj := &lumberjack.Logger{
			Filename:   o.LogFile,
			MaxSize:    64, // megabytes
			MaxBackups: 20,
			MaxAge:     7, // days
			Compress:   true,
		}
		l.writer = lj
		l.closer = lj
	}
	l.SetLogLevel(level.Level(o.LogLevel))
	return l
}

// NoopLogger returns a Logger that discards everything
func NoopLogger() Logger {
	return &logger{levelID: level.FatalID + 1, level: level.Fatal, now: time.Now}
}

// StreamLogger returns a Logger that writes to w
func StreamLogger(w io.Writer, logLevel level.Level) Logger {
	l := &logger{writer: w, now: time.Now}
	if c, ok := w.(io.Closer); ok && c != nil {
		l.closer = c
	}
	l.SetLogLevel(logLevel)
	return l
}

// ConsoleLogger returns a Logger that writes to stdout
func ConsoleLogger(logLevel level.Level) Logger {
	l := &logger{writer: os.Stdout, now: time.Now}
	l.SetLogLevel(logLevel)
	return l
}

type logger struct {
	level          level.Level
	levelID        level.ID
	writer         io.Writer
	closer         io.Closer
	mtx            sync.Mutex
	onceRanEntries sync.Map
	now            func() time.Time
}

func (l *logger) Write(b []byte) (int, error) {
	if l.writer == nil {
		return 0, nil
	}
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.writer.Write(b)
}

func (l *logger) SetLogLevel(logLevel level.Level) {
	logLevel = level.Level(strings.ToLower(string(logLevel)))
	id := level.GetID(logLevel)
	if id == 0 {
		l.level = level.Info
		l.levelID = level.InfoID
		l.WarnOnce("loglevel."+string(logLevel),
			"unknown log level; using INFO",
			Pairs{"providedLevel": logLevel})
		return
	}
	l.level = logLevel
	l.levelID = id
}

func (l *logger) Level() level.Level {
	return l.level
}

func (l *logger) Log(logLevel level.Level, event string, detail Pairs) {
	lid := level.GetID(logLevel)
	if lid == 0 || lid < l.levelID {
		return
	}
	l.log(logLevel, event, detail)
}

func (l *logger) logConditionally(lvl level.Level, id level.ID, event string, detail Pairs) {
	if l.levelID > id {
		return
	}
	l.log(lvl, event, detail)
}

func (l *logger) Debug(event string, detail Pairs) {
	l.logConditionally(level.Debug, level.DebugID, event, detail)
}

func (l *logger) Info(event string, detail Pairs) {
	l.logConditionally(level.Info, level.InfoID, event, detail)
}

func (l *logger) Warn(event string, detail Pairs) {
	l.logConditionally(level.Warn, level.WarnID, event, detail)
}

func (l *logger) Error(event string, detail Pairs) {
	l.logConditionally(level.Error, level.ErrorID, event, detail)
}

func (l *logger) Fatal(code int, event string, detail Pairs) {
	l.log(level.Fatal, event, detail)
	if code < 0 {
		// tests send a negative code to avoid exiting
		return
	}
	if code == 0 {
		code = 1
	}
	os.Exit(code)
}

func (l *logger) logOnce(lvl level.Level, id level.ID, key, event string, detail Pairs) bool {
	if id < l.levelID {
		return false
	}
	_, loaded := l.onceRanEntries.LoadOrStore(string(lvl)+"."+key, true)
	if loaded {
		return false
	}
	l.log(lvl, event, detail)
	return true
}

func (l *logger) WarnOnce(key, event string, detail Pairs) bool {
	return l.logOnce(level.Warn, level.WarnID, key, event, detail)
}

func (l *logger) ErrorOnce(key, event string, detail Pairs) bool {
	return l.logOnce(level.Error, level.ErrorID, key, event, detail)
}

func (l *logger) HasWarnedOnce(key string) bool {
	_, ok := l.onceRanEntries.Load(string(level.Warn) + "." + key)
	return ok
}

func (l *logger) HasErroredOnce(key string) bool {
	_, ok := l.onceRanEntries.Load(string(level.Error) + "." + key)
	return ok
}

type item struct {
	key string
	val string
}

const (
	space   = " "
	equal   = "="
	newline = "\n"
)

func (l *logger) log(logLevel level.Level, event string, detail Pairs) {
	if l.writer == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString("time=" + l.now().UTC().Format(time.RFC3339Nano))
	sb.WriteString(space + "app=" + AppName)
	sb.WriteString(space + "level=" + string(logLevel))
	sb.WriteString(space + "event=" + quoteAsNeeded(strings.TrimSpace(event)))

	if len(detail) > 0 {
		keyPairs := make([]item, 0, len(detail))
		for k, v := range detail {
			keyPairs = append(keyPairs, item{k, formatValue(v)})
		}
		slices.SortFunc(keyPairs, func(a, b item) int {
			return cmp.Compare(a.key, b.key)
		})
		for _, kp := range keyPairs {
			sb.WriteString(space + kp.key + equal + kp.val)
		}
	}
	sb.WriteString(newline)

	l.mtx.Lock()
	l.writer.Write([]byte(sb.String()))
	l.mtx.Unlock()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return quoteAsNeeded(t)
	case error:
		return quoteAsNeeded(t.Error())
	case fmt.Stringer:
		return quoteAsNeeded(t.String())
	}
	return quoteAsNeeded(fmt.Sprintf("%v", v))
}

func quoteAsNeeded(input string) string {
	if !strings.ContainsAny(input, " \"=") {
		return input
	}
	return `"` + strings.ReplaceAll(input, `"`, `\"`) + `"`
}

func (l *logger) Close() {
	if l.closer != nil {
		l.closer.Close()
	}
}
