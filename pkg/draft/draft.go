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

// Package draft keeps the admin editor's working dataset and mirrors it to
// a single timestamped draft in durable storage, so an editing session that
// ends abruptly can be recovered
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wepmaps/venuemaps/pkg/draft/options"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/observability/metrics"
	"github.com/wepmaps/venuemaps/pkg/storage"
	"github.com/wepmaps/venuemaps/pkg/venue"
)

// ErrPublishFailed wraps a failed publish; the draft is kept
var ErrPublishFailed = errors.New("publish failed")

// State is the draft lifecycle state
type State int

const (
	// Clean means no draft exists and the working dataset mirrors the last load
	Clean = State(iota)
	// Dirty means the working dataset has unpublished changes
	Dirty
	// RecoveryOffered means a recent draft was found and awaits Accept or Decline
	RecoveryOffered
	// Published means the last publish succeeded; it returns to Clean at once
	Published
)

var stateNames = map[State]string{
	Clean:           "clean",
	Dirty:           "dirty",
	RecoveryOffered: "recovery-offered",
	Published:       "published",
}

func (s State) String() string {
	if v, ok := stateNames[s]; ok {
		return v
	}
	return "unknown"
}

// Draft is a timestamped snapshot of the working dataset
type Draft struct {
	Timestamp time.Time
	Data      venue.Dataset
}

// record is the stored form of a Draft. The timestamp is in milliseconds
// since the Unix epoch.
type record struct {
	Timestamp int64         `json:"timestamp"`
	Data      venue.Dataset `json:"data"`
}

// Age returns how old the draft is at now
func (d *Draft) Age(now time.Time) time.Duration {
	return now.Sub(d.Timestamp)
}

// Source is the authoritative dataset behind the manager
type Source interface {
	Data(ctx context.Context) (venue.Dataset, error)
	SaveData(ctx context.Context, ds venue.Dataset) error
	GenerateHTML(ctx context.Context) ([]string, error)
}

// Notifier receives non-blocking notices, such as a draft that could not
// be saved
type Notifier interface {
	Notify(msg string, err error)
}

// NotifierFunc adapts a function to a Notifier
type NotifierFunc func(msg string, err error)

// Notify calls f(msg, err)
func (f NotifierFunc) Notify(msg string, err error) {
	f(msg, err)
}

type logNotifier struct{}

func (logNotifier) Notify(msg string, err error) {
	logger.Warn(msg, logging.Pairs{"detail": err.Error()})
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the clock used to timestamp and age drafts
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithWindow sets the staleness window
func WithWindow(d time.Duration) Option {
	return func(m *Manager) { m.window = d }
}

// WithKey sets the storage key of the draft
func WithKey(key string) Option {
	return func(m *Manager) { m.key = key }
}

// WithNotifier sets the Notifier; the default logs a warning
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithOptions applies the draft section of the config
func WithOptions(o *options.Options) Option {
	return func(m *Manager) {
		if o.Window > 0 {
			m.window = o.Window
		}
		if o.Key != "" {
			m.key = o.Key
		}
	}
}

// Manager owns the working dataset and its draft
type Manager struct {
	mu       sync.Mutex
	store    storage.Store
	source   Source
	now      func() time.Time
	window   time.Duration
	key      string
	notifier Notifier
	state    State
	working  venue.Dataset
}

// New returns a Manager persisting drafts to store and loading from source
func New(store storage.Store, source Source, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		source:   source,
		now:      time.Now,
		window:   options.DefaultWindow,
		key:      options.DefaultKey,
		notifier: logNotifier{},
	}
	for _, o := range opts {
		o(m)
	}
	m.working.Normalize()
	return m
}

// State returns the current state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dataset returns a copy of the working dataset
func (m *Manager) Dataset() venue.Dataset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.working.Clone()
}

// RecordMutation makes ds the working dataset and persists it as the
// draft, replacing any prior draft. A storage failure is reported to the
// notifier and never to the caller.
func (m *Manager) RecordMutation(ds venue.Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working = ds.Clone()
	m.state = Dirty
	b, err := json.Marshal(record{Timestamp: m.now().UnixMilli(), Data: m.working})
	if err == nil {
		err = m.store.Set(m.key, string(b))
	}
	if err != nil {
		metrics.DraftOperations.WithLabelValues("record", "failure").Inc()
		m.notifier.Notify("unable to save draft", err)
		return
	}
	metrics.DraftOperations.WithLabelValues("record", "success").Inc()
}

// CheckForRecovery returns the persisted draft when one exists and is
// within the staleness window. Corrupt and stale drafts are purged.
func (m *Manager) CheckForRecovery() (*Draft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok, err := m.store.Get(m.key)
	if err != nil {
		logger.Warn("unable to read draft", logging.Pairs{"key": m.key, "detail": err.Error()})
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var r record
	if err := json.Unmarshal([]byte(v), &r); err != nil || r.Timestamp == 0 {
		logger.Info("purging unreadable draft", logging.Pairs{"key": m.key})
		metrics.DraftOperations.WithLabelValues("recover", "corrupt").Inc()
		m.purge()
		return nil, false
	}
	d := &Draft{Timestamp: time.UnixMilli(r.Timestamp), Data: r.Data}
	d.Data.Normalize()
	if d.Age(m.now()) > m.window {
		logger.Info("purging stale draft", logging.Pairs{"key": m.key,
			"savedAt": d.Timestamp.Format(time.RFC3339)})
		metrics.DraftOperations.WithLabelValues("recover", "stale").Inc()
		m.purge()
		return nil, false
	}
	m.state = RecoveryOffered
	metrics.DraftOperations.WithLabelValues("recover", "offered").Inc()
	return d, true
}

// Accept replaces the working dataset with the draft contents. The stored
// draft and its timestamp are left as they are.
func (m *Manager) Accept(d *Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working = d.Data.Clone()
	m.state = Dirty
}

// Decline purges the offered draft
func (m *Manager) Decline() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purge()
	m.state = Clean
}

// Discard purges the draft and reloads the working dataset from the source
func (m *Manager) Discard(ctx context.Context) error {
	m.mu.Lock()
	m.purge()
	m.state = Clean
	m.mu.Unlock()
	return m.Load(ctx)
}

// Load replaces the working dataset with the authoritative one
func (m *Manager) Load(ctx context.Context) error {
	ds, err := m.source.Data(ctx)
	if err != nil {
		return err
	}
	ds.Normalize()
	m.mu.Lock()
	m.working = ds
	m.mu.Unlock()
	return nil
}

// PublishSucceeded purges the draft after the working dataset reached the
// source
func (m *Manager) PublishSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purge()
	m.state = Published
	logger.Info("draft published", nil)
	m.state = Clean
}

// Publish saves the working dataset to the source and regenerates the
// public pages. The draft is purged only when both succeed.
func (m *Manager) Publish(ctx context.Context) ([]string, error) {
	ds := m.Dataset()
	if err := m.source.SaveData(ctx, ds); err != nil {
		metrics.DraftOperations.WithLabelValues("publish", "failure").Inc()
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	files, err := m.source.GenerateHTML(ctx)
	if err != nil {
		metrics.DraftOperations.WithLabelValues("publish", "failure").Inc()
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	metrics.DraftOperations.WithLabelValues("publish", "success").Inc()
	m.PublishSucceeded()
	return files, nil
}

// purge removes the stored draft. The caller holds m.mu.
func (m *Manager) purge() {
	if err := m.store.Remove(m.key); err != nil {
		m.notifier.Notify("unable to remove draft", err)
		return
	}
	metrics.DraftOperations.WithLabelValues("purge", "success").Inc()
}
