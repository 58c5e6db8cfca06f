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

package draft

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache/memory"
	"github.com/wepmaps/venuemaps/pkg/draft/options"
	"github.com/wepmaps/venuemaps/pkg/storage"
	"github.com/wepmaps/venuemaps/pkg/venue"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	data        venue.Dataset
	saved       []venue.Dataset
	saveErr     error
	generateErr error
}

func (f *fakeSource) Data(context.Context) (venue.Dataset, error) {
	return f.data.Clone(), nil
}

func (f *fakeSource) SaveData(_ context.Context, ds venue.Dataset) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, ds)
	return nil
}

func (f *fakeSource) GenerateHTML(context.Context) ([]string, error) {
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return []string{"arenas.html"}, nil
}

// failingStore rejects every write, as a full browser store would
type failingStore struct {
	storage.Store
}

var errQuota = errors.New("quota exceeded")

func (failingStore) Set(string, string) error { return errQuota }

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func dataset(name string) venue.Dataset {
	ds := venue.Dataset{Venues: []venue.Venue{{ID: "v1", Name: name}}}
	ds.Normalize()
	return ds
}

func newStore(t *testing.T) storage.Store {
	t.Helper()
	c := memory.New(t.Name(), nil)
	require.NoError(t, c.Connect())
	t.Cleanup(func() { c.Close() })
	return storage.New(c)
}

func newManager(t *testing.T, opts ...Option) (*Manager, storage.Store, *clock, *fakeSource) {
	t.Helper()
	s := newStore(t)
	clk := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	src := &fakeSource{data: dataset("authoritative")}
	m := New(s, src, append([]Option{WithClock(clk.now)}, opts...)...)
	return m, s, clk, src
}

func TestRecoveryWindow(t *testing.T) {
	m, _, clk, _ := newManager(t)
	d := dataset("edited")
	m.RecordMutation(d)
	require.Equal(t, Dirty, m.State())

	clk.advance(23 * time.Hour)
	got, ok := m.CheckForRecovery()
	require.True(t, ok)
	require.Equal(t, d, got.Data)
	require.Equal(t, RecoveryOffered, m.State())

	clk.advance(2 * time.Hour)
	_, ok = m.CheckForRecovery()
	require.False(t, ok)
	// purged, so nothing is offered even with a wider window
	m.window = 48 * time.Hour
	_, ok = m.CheckForRecovery()
	require.False(t, ok)
}

func TestConfiguredWindow(t *testing.T) {
	o := options.New()
	o.Window = time.Hour
	m, _, clk, _ := newManager(t, WithOptions(o))
	m.RecordMutation(dataset("edited"))
	clk.advance(61 * time.Minute)
	_, ok := m.CheckForRecovery()
	require.False(t, ok)
}

func TestCorruptDraftPurged(t *testing.T) {
	m, s, _, _ := newManager(t)
	require.NoError(t, s.Set(options.DefaultKey, "{not json"))
	d, ok := m.CheckForRecovery()
	require.False(t, ok)
	require.Nil(t, d)
	_, found, err := s.Get(options.DefaultKey)
	require.NoError(t, err)
	require.False(t, found)

	_, ok = m.CheckForRecovery()
	require.False(t, ok)
}

func TestMutationsReplaceDraft(t *testing.T) {
	m, s, clk, _ := newManager(t, WithKey("custom.key"))
	for i, name := range []string{"one", "two", "three"} {
		clk.advance(time.Duration(i+1) * time.Minute)
		m.RecordMutation(dataset(name))
	}
	v, found, err := s.Get("custom.key")
	require.NoError(t, err)
	require.True(t, found)
	var r record
	require.NoError(t, json.Unmarshal([]byte(v), &r))
	require.Equal(t, "three", r.Data.Venues[0].Name)
	require.Equal(t, clk.t.UnixMilli(), r.Timestamp)
	_, found, err = s.Get(options.DefaultKey)
	require.NoError(t, err)
	require.False(t, found)
}

func TestAcceptDecline(t *testing.T) {
	m, s, clk, _ := newManager(t)
	m.RecordMutation(dataset("edited"))
	saved := clk.t
	clk.advance(time.Hour)

	d, ok := m.CheckForRecovery()
	require.True(t, ok)
	m.Accept(d)
	require.Equal(t, Dirty, m.State())
	require.Equal(t, "edited", m.Dataset().Venues[0].Name)
	// accepting does not refresh the timestamp
	d, ok = m.CheckForRecovery()
	require.True(t, ok)
	require.True(t, d.Timestamp.Equal(saved))

	m.Decline()
	require.Equal(t, Clean, m.State())
	_, found, err := s.Get(options.DefaultKey)
	require.NoError(t, err)
	require.False(t, found)
}

func TestDiscard(t *testing.T) {
	m, s, _, _ := newManager(t)
	m.RecordMutation(dataset("edited"))
	require.NoError(t, m.Discard(context.Background()))
	require.Equal(t, Clean, m.State())
	require.Equal(t, "authoritative", m.Dataset().Venues[0].Name)
	_, found, err := s.Get(options.DefaultKey)
	require.NoError(t, err)
	require.False(t, found)
}

func TestStorageFailureNotifies(t *testing.T) {
	var notices []error
	n := NotifierFunc(func(_ string, err error) { notices = append(notices, err) })
	m := New(failingStore{newStore(t)}, &fakeSource{}, WithNotifier(n))

	m.RecordMutation(dataset("edited"))
	require.Equal(t, Dirty, m.State())
	require.Equal(t, "edited", m.Dataset().Venues[0].Name)
	require.Len(t, notices, 1)
	require.ErrorIs(t, notices[0], errQuota)
}

func TestPublish(t *testing.T) {
	m, s, _, src := newManager(t)
	m.RecordMutation(dataset("edited"))

	src.generateErr = errors.New("template missing")
	_, err := m.Publish(context.Background())
	require.ErrorIs(t, err, ErrPublishFailed)
	_, found, err := s.Get(options.DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, Dirty, m.State())

	src.generateErr = nil
	files, err := m.Publish(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"arenas.html"}, files)
	require.Equal(t, Clean, m.State())
	require.Equal(t, "edited", src.saved[len(src.saved)-1].Venues[0].Name)
	_, found, err = s.Get(options.DefaultKey)
	require.NoError(t, err)
	require.False(t, found)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "recovery-offered", RecoveryOffered.String())
	require.Equal(t, "unknown", State(9).String())
}
