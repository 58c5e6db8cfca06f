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

// Package venue defines the venue map dataset curated by the admin editor
package venue

import (
	"strings"
	"time"
)

// Dataset is the full working copy of the venue map data
type Dataset struct {
	Categories  []Category  `json:"categories"`
	Venues      []Venue     `json:"venues"`
	LandingPage LandingPage `json:"landingPage"`
}

// Category groups venues on the public site
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Venue is a building or site with one or more floor-plan maps
type Venue struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
	Maps     []Map  `json:"maps"`
}

// Map is one floor-plan image and the markers placed on it
type Map struct {
	ID        string     `json:"id"`
	Label     string     `json:"label"`
	Subtitle  string     `json:"subtitle,omitempty"`
	Image     string     `json:"image,omitempty"`
	Locations []Location `json:"locations"`
}

// Location is a numbered marker on a Map
type Location struct {
	ID          string   `json:"id"`
	Number      int      `json:"number"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Fiber       string   `json:"fiber,omitempty"`
	Image       string   `json:"image,omitempty"`
	Position    Position `json:"position"`
}

// Position places a marker as CSS percentages of the map image, e.g. "50%"
type Position struct {
	Top  string `json:"top"`
	Left string `json:"left"`
}

// LandingPage configures the public landing page
type LandingPage struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Cards    []Card `json:"cards"`
}

// Card is one tile on the landing page
type Card struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Link        string `json:"link,omitempty"`
	VenueID     string `json:"venueId,omitempty"`
	Visible     bool   `json:"visible"`
}

// PhotoRequest is a visitor request for a new location photo
type PhotoRequest struct {
	ID            string    `json:"id"`
	LocationID    string    `json:"locationId"`
	LocationName  string    `json:"locationName"`
	VenueID       string    `json:"venueId"`
	VenueName     string    `json:"venueName"`
	MapID         string    `json:"mapId"`
	MapLabel      string    `json:"mapLabel"`
	RequestedAt   time.Time `json:"requestedAt"`
	UploadedPhoto string    `json:"uploadedPhoto,omitempty"`
}

// Normalize replaces nil collections with empty ones so the dataset
// serializes the way the Data API expects
func (ds *Dataset) Normalize() {
	if ds.Categories == nil {
		ds.Categories = []Category{}
	}
	if ds.Venues == nil {
		ds.Venues = []Venue{}
	}
	if ds.LandingPage.Cards == nil {
		ds.LandingPage.Cards = []Card{}
	}
	for i := range ds.Venues {
		if ds.Venues[i].Maps == nil {
			ds.Venues[i].Maps = []Map{}
		}
		for j := range ds.Venues[i].Maps {
			if ds.Venues[i].Maps[j].Locations == nil {
				ds.Venues[i].Maps[j].Locations = []Location{}
			}
		}
	}
}

// Clone returns a deep copy of the dataset
func (ds Dataset) Clone() Dataset {
	out := Dataset{
		Categories:  append([]Category{}, ds.Categories...),
		Venues:      make([]Venue, len(ds.Venues)),
		LandingPage: ds.LandingPage,
	}
	out.LandingPage.Cards = append([]Card{}, ds.LandingPage.Cards...)
	for i, v := range ds.Venues {
		out.Venues[i] = v.Clone()
	}
	return out
}

// Clone returns a deep copy of the venue
func (v Venue) Clone() Venue {
	maps := make([]Map, len(v.Maps))
	for i, m := range v.Maps {
		m.Locations = append([]Location{}, m.Locations...)
		maps[i] = m
	}
	v.Maps = maps
	return v
}

// CategoryIndex returns the index of the category with id, or -1
func (ds *Dataset) CategoryIndex(id string) int {
	for i := range ds.Categories {
		if ds.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// VenueIndex returns the index of the venue with id, or -1
func (ds *Dataset) VenueIndex(id string) int {
	for i := range ds.Venues {
		if ds.Venues[i].ID == id {
			return i
		}
	}
	return -1
}

// CardIndex returns the index of the landing page card with id, or -1
func (ds *Dataset) CardIndex(id string) int {
	for i := range ds.LandingPage.Cards {
		if ds.LandingPage.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

// MapIndex returns the index of the map with id, or -1
func (v *Venue) MapIndex(id string) int {
	for i := range v.Maps {
		if v.Maps[i].ID == id {
			return i
		}
	}
	return -1
}

// LocationIndex returns the index of the location with id, or -1
func (m *Map) LocationIndex(id string) int {
	for i := range m.Locations {
		if m.Locations[i].ID == id {
			return i
		}
	}
	return -1
}

// NextLocationNumber returns one more than the highest marker number on the map
func (m *Map) NextLocationNumber() int {
	var n int
	for _, l := range m.Locations {
		n = max(n, l.Number)
	}
	return n + 1
}

// Slug derives a URL slug from a display name: lowercased, with each run
// of other characters collapsed to a single dash
func Slug(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
