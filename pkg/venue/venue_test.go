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

package venue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func testDataset() Dataset {
	return Dataset{
		Categories: []Category{{ID: "c1", Name: "Arenas", Slug: "arenas"}},
		Venues: []Venue{{
			ID: "v1", Name: "Main Arena", Category: "c1",
			Maps: []Map{{ID: "m1", Label: "Level 1", Locations: []Location{
				{ID: "l1", Number: 1, Name: "Gate A", Position: Position{Top: "10%", Left: "20%"}},
				{ID: "l2", Number: 4, Name: "Gate B"},
			}}},
		}},
		LandingPage: LandingPage{Title: "WEP", Cards: []Card{{ID: "k1", Title: "Arena", Visible: true}}},
	}
}

func TestClone(t *testing.T) {
	ds := testDataset()
	c := ds.Clone()
	c.Venues[0].Maps[0].Locations[0].Name = "changed"
	c.Categories[0].Name = "changed"
	c.LandingPage.Cards[0].Visible = false
	require.Equal(t, "Gate A", ds.Venues[0].Maps[0].Locations[0].Name)
	require.Equal(t, "Arenas", ds.Categories[0].Name)
	require.True(t, ds.LandingPage.Cards[0].Visible)
}

func TestIndexes(t *testing.T) {
	ds := testDataset()
	require.Equal(t, 0, ds.CategoryIndex("c1"))
	require.Equal(t, -1, ds.CategoryIndex("c9"))
	require.Equal(t, 0, ds.VenueIndex("v1"))
	require.Equal(t, 0, ds.CardIndex("k1"))
	v := &ds.Venues[0]
	require.Equal(t, 0, v.MapIndex("m1"))
	require.Equal(t, -1, v.MapIndex("m2"))
	require.Equal(t, 1, v.Maps[0].LocationIndex("l2"))
	require.Equal(t, 5, v.Maps[0].NextLocationNumber())
	require.Equal(t, 1, (&Map{}).NextLocationNumber())
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Arenas":            "arenas",
		"  Fiber & ESPN!  ": "fiber-espn",
		"Level 2 -- North":  "level-2-north",
		"Café":              "caf",
		"":                  "",
	}
	for in, expected := range tests {
		require.Equal(t, expected, Slug(in), in)
	}
}

func TestNormalize(t *testing.T) {
	var ds Dataset
	require.NoError(t, json.Unmarshal([]byte(`{"venues":[{"id":"v1","name":"x","maps":[{"id":"m1"}]}]}`), &ds))
	ds.Normalize()
	b, err := json.Marshal(ds)
	require.NoError(t, err)
	require.JSONEq(t, `{"categories":[],"venues":[{"id":"v1","name":"x","maps":[{"id":"m1","label":"",
		"locations":[]}]}],"landingPage":{"cards":[]}}`, string(b))
}
