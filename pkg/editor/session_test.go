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

package editor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/wepmaps/venuemaps/pkg/cache/memory"
	"github.com/wepmaps/venuemaps/pkg/draft"
	"github.com/wepmaps/venuemaps/pkg/storage"
	"github.com/wepmaps/venuemaps/pkg/venue"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

type call struct {
	method, path string
}

type fakeAPI struct {
	calls   []call
	saved   []venue.Dataset
	assign  string
	failErr error
}

func (f *fakeAPI) Do(_ context.Context, method, path string, _, out any) error {
	f.calls = append(f.calls, call{method, path})
	if f.failErr != nil {
		return f.failErr
	}
	resp := map[string]any{"success": true}
	if method == http.MethodPost && f.assign != "" {
		resp = map[string]any{"id": f.assign}
	}
	b, _ := json.Marshal(resp)
	return json.Unmarshal(b, out)
}

func (f *fakeAPI) SaveData(_ context.Context, ds venue.Dataset) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.saved = append(f.saved, ds)
	return nil
}

func (f *fakeAPI) Data(context.Context) (venue.Dataset, error) {
	return testDataset(), nil
}

func (f *fakeAPI) GenerateHTML(context.Context) ([]string, error) {
	return nil, nil
}

func newSession(t *testing.T, opts ...SessionOption) (*Session, *fakeAPI, *draft.Manager) {
	t.Helper()
	c := memory.New(t.Name(), nil)
	require.NoError(t, c.Connect())
	t.Cleanup(func() { c.Close() })
	api := &fakeAPI{}
	m := draft.New(storage.New(c), api)
	require.NoError(t, m.Load(context.Background()))
	return NewSession(m, api, opts...), api, m
}

func TestSessionCardMutation(t *testing.T) {
	s, api, m := newSession(t)
	require.NoError(t, s.Apply(context.Background(), ReorderCard{From: 0, To: 2}))
	require.Equal(t, draft.Dirty, m.State())
	require.Equal(t, []string{"k2", "k3", "k1"}, cardIDs(s.Dataset()))
	require.Len(t, api.saved, 1)
	require.Equal(t, []string{"k2", "k3", "k1"}, cardIDs(api.saved[0]))

	d, ok := m.CheckForRecovery()
	require.True(t, ok)
	require.Equal(t, []string{"k2", "k3", "k1"}, cardIDs(d.Data))
}

func TestSessionAssignsULIDs(t *testing.T) {
	s, api, _ := newSession(t)
	require.NoError(t, s.Apply(context.Background(), SaveVenue{Venue: venue.Venue{Name: "New Hall"}}))
	ds := s.Dataset()
	v := ds.Venues[len(ds.Venues)-1]
	_, err := ulid.ParseStrict(v.ID)
	require.NoError(t, err)
	require.Equal(t, []call{{http.MethodPost, "/api/venues"}}, api.calls)
}

func TestSessionAdoptsServerID(t *testing.T) {
	s, api, m := newSession(t, WithIDGenerator(func() string { return "local1" }))
	api.assign = "abcd1234"
	require.NoError(t, s.Apply(context.Background(), SaveCategory{Category: venue.Category{Name: "Stadiums"}}))
	ds := s.Dataset()
	require.Equal(t, -1, ds.CategoryIndex("local1"))
	require.Equal(t, "stadiums", ds.Categories[ds.CategoryIndex("abcd1234")].Slug)

	d, ok := m.CheckForRecovery()
	require.True(t, ok)
	require.GreaterOrEqual(t, d.Data.CategoryIndex("abcd1234"), 0)
	require.Equal(t, -1, d.Data.CategoryIndex("local1"))
}

func TestSessionAPIFailureKeepsDraft(t *testing.T) {
	s, api, m := newSession(t)
	api.failErr = errors.New("connection refused")
	err := s.Apply(context.Background(), DeleteLocation{VenueID: "v1", MapID: "m1", LocationID: "l1"})
	require.ErrorIs(t, err, api.failErr)
	require.Len(t, s.Dataset().Venues[0].Maps[0].Locations, 1)

	d, ok := m.CheckForRecovery()
	require.True(t, ok)
	require.Len(t, d.Data.Venues[0].Maps[0].Locations, 1)
}

func TestSessionRejectsInvalidEdit(t *testing.T) {
	s, api, m := newSession(t)
	err := s.Apply(context.Background(), DeleteVenue{ID: "missing"})
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, api.calls)
	require.Equal(t, draft.Clean, m.State())
}
