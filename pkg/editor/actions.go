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

// Package editor applies admin edits to the working dataset through a pure
// reducer and executes the side effects each edit produces
package editor

import "github.com/wepmaps/venuemaps/pkg/venue"

// Action is one admin edit
type Action interface {
	isAction()
}

// ReorderCard moves the landing page card at From to index To
type ReorderCard struct {
	From, To int
}

// ToggleCardVisibility shows or hides a landing page card
type ToggleCardVisibility struct {
	CardID string
}

// AddCard appends a landing page card
type AddCard struct {
	Card venue.Card
}

// RemoveCard deletes a landing page card
type RemoveCard struct {
	CardID string
}

// SaveCategory creates the category, or updates it when its ID exists
type SaveCategory struct {
	Category venue.Category
}

// DeleteCategory deletes a category and unassigns its venues
type DeleteCategory struct {
	ID string
}

// SaveVenue creates the venue, or updates its own fields when its ID exists
type SaveVenue struct {
	Venue venue.Venue
}

// DeleteVenue deletes a venue with its maps
type DeleteVenue struct {
	ID string
}

// SaveMap creates or updates a map of a venue
type SaveMap struct {
	VenueID string
	Map     venue.Map
}

// DeleteMap deletes a map with its locations
type DeleteMap struct {
	VenueID, MapID string
}

// SaveLocation creates or updates a location on a map
type SaveLocation struct {
	VenueID, MapID string
	Location       venue.Location
}

// MoveLocation places a location marker at a new position
type MoveLocation struct {
	VenueID, MapID, LocationID string
	Position                   venue.Position
}

// DeleteLocation deletes a location
type DeleteLocation struct {
	VenueID, MapID, LocationID string
}

// Kind names an entity type that the Data API assigns IDs to
type Kind string

const (
	KindCategory Kind = "category"
	KindVenue    Kind = "venue"
	KindMap      Kind = "map"
	KindLocation Kind = "location"
)

// Ref identifies an entity in the dataset
type Ref struct {
	Kind    Kind
	VenueID string
	MapID   string
	ID      string
}

// AssignID replaces the local ID of a created entity with the one the Data
// API assigned
type AssignID struct {
	Ref   Ref
	NewID string
}

func (ReorderCard) isAction()          {}
func (ToggleCardVisibility) isAction() {}
func (AddCard) isAction()              {}
func (RemoveCard) isAction()           {}
func (SaveCategory) isAction()         {}
func (DeleteCategory) isAction()       {}
func (SaveVenue) isAction()            {}
func (DeleteVenue) isAction()          {}
func (SaveMap) isAction()              {}
func (DeleteMap) isAction()            {}
func (SaveLocation) isAction()         {}
func (MoveLocation) isAction()         {}
func (DeleteLocation) isAction()       {}
func (AssignID) isAction()             {}

// Effect is a side effect requested by the reducer
type Effect interface {
	isEffect()
}

// RecordMutation persists the dataset as the draft
type RecordMutation struct {
	Dataset venue.Dataset
}

// APICall sends one request to the Data API. Created is set when the call
// creates the entity it names.
type APICall struct {
	Method  string
	Path    string
	Body    any
	Created *Ref
}

// SaveDataset replaces the full dataset through the Data API
type SaveDataset struct {
	Dataset venue.Dataset
}

func (RecordMutation) isEffect() {}
func (APICall) isEffect()        {}
func (SaveDataset) isEffect()    {}
