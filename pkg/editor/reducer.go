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
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/wepmaps/venuemaps/pkg/dataapi"
	"github.com/wepmaps/venuemaps/pkg/venue"
)

var (
	// ErrNotFound is returned for an edit naming an entity that does not exist
	ErrNotFound = errors.New("not found")
	// ErrMissingID is returned for a save or add without an entity ID
	ErrMissingID = errors.New("missing id")
	// ErrDuplicateID is returned when adding an entity whose ID is taken
	ErrDuplicateID = errors.New("duplicate id")
	// ErrInvalidIndex is returned for a card reorder outside the card list
	ErrInvalidIndex = errors.New("invalid card index")
	// ErrUnknownAction is returned for an action the reducer does not handle
	ErrUnknownAction = errors.New("unknown action")
)

// defaultPosition is where a new marker lands when none is given
var defaultPosition = venue.Position{Top: "50%", Left: "50%"}

// Reduce applies a to a copy of ds and returns the new dataset with the
// effects the edit requires, in order. ds is never modified. Every
// successful edit starts with a RecordMutation effect.
func Reduce(ds venue.Dataset, a Action) (venue.Dataset, []Effect, error) {
	out := ds.Clone()
	out.Normalize()
	var effects []Effect
	var err error
	switch a := a.(type) {
	case ReorderCard:
		err = reorderCard(&out, a)
	case ToggleCardVisibility:
		err = toggleCard(&out, a)
	case AddCard:
		err = addCard(&out, a)
	case RemoveCard:
		err = removeCard(&out, a)
	case SaveCategory:
		effects, err = saveCategory(&out, a)
	case DeleteCategory:
		effects, err = deleteCategory(&out, a)
	case SaveVenue:
		effects, err = saveVenue(&out, a)
	case DeleteVenue:
		effects, err = deleteVenue(&out, a)
	case SaveMap:
		effects, err = saveMap(&out, a)
	case DeleteMap:
		effects, err = deleteMap(&out, a)
	case SaveLocation:
		effects, err = saveLocation(&out, a)
	case MoveLocation:
		effects, err = moveLocation(&out, a)
	case DeleteLocation:
		effects, err = deleteLocation(&out, a)
	case AssignID:
		err = assignID(&out, a)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	if err != nil {
		return ds, nil, err
	}
	switch a.(type) {
	case ReorderCard, ToggleCardVisibility, AddCard, RemoveCard:
		// landing page cards have no endpoints of their own
		effects = []Effect{SaveDataset{Dataset: out.Clone()}}
	}
	return out, append([]Effect{RecordMutation{Dataset: out.Clone()}}, effects...), nil
}

func notFound(kind Kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func reorderCard(ds *venue.Dataset, a ReorderCard) error {
	cards := ds.LandingPage.Cards
	if a.From < 0 || a.From >= len(cards) || a.To < 0 || a.To >= len(cards) {
		return fmt.Errorf("%w: %d -> %d of %d", ErrInvalidIndex, a.From, a.To, len(cards))
	}
	c := cards[a.From]
	cards = slices.Delete(cards, a.From, a.From+1)
	ds.LandingPage.Cards = slices.Insert(cards, a.To, c)
	return nil
}

func toggleCard(ds *venue.Dataset, a ToggleCardVisibility) error {
	i := ds.CardIndex(a.CardID)
	if i < 0 {
		return notFound("card", a.CardID)
	}
	ds.LandingPage.Cards[i].Visible = !ds.LandingPage.Cards[i].Visible
	return nil
}

func addCard(ds *venue.Dataset, a AddCard) error {
	if a.Card.ID == "" {
		return ErrMissingID
	}
	if ds.CardIndex(a.Card.ID) >= 0 {
		return fmt.Errorf("card %q: %w", a.Card.ID, ErrDuplicateID)
	}
	ds.LandingPage.Cards = append(ds.LandingPage.Cards, a.Card)
	return nil
}

func removeCard(ds *venue.Dataset, a RemoveCard) error {
	i := ds.CardIndex(a.CardID)
	if i < 0 {
		return notFound("card", a.CardID)
	}
	ds.LandingPage.Cards = slices.Delete(ds.LandingPage.Cards, i, i+1)
	return nil
}

func saveCategory(ds *venue.Dataset, a SaveCategory) ([]Effect, error) {
	c := a.Category
	if c.ID == "" {
		return nil, ErrMissingID
	}
	if c.Slug == "" {
		c.Slug = venue.Slug(c.Name)
	}
	if i := ds.CategoryIndex(c.ID); i >= 0 {
		ds.Categories[i] = c
		return []Effect{APICall{Method: http.MethodPut, Path: dataapi.CategoryPath(c.ID), Body: c}}, nil
	}
	ds.Categories = append(ds.Categories, c)
	return []Effect{APICall{Method: http.MethodPost, Path: dataapi.PathCategories, Body: c,
		Created: &Ref{Kind: KindCategory, ID: c.ID}}}, nil
}

func deleteCategory(ds *venue.Dataset, a DeleteCategory) ([]Effect, error) {
	i := ds.CategoryIndex(a.ID)
	if i < 0 {
		return nil, notFound(KindCategory, a.ID)
	}
	ds.Categories = slices.Delete(ds.Categories, i, i+1)
	effects := []Effect{APICall{Method: http.MethodDelete, Path: dataapi.CategoryPath(a.ID)}}
	for j := range ds.Venues {
		v := &ds.Venues[j]
		if v.Category != a.ID {
			continue
		}
		v.Category = ""
		effects = append(effects, APICall{Method: http.MethodPut,
			Path: dataapi.VenuePath(v.ID), Body: dataapi.BodyForVenue(*v)})
	}
	return effects, nil
}

func saveVenue(ds *venue.Dataset, a SaveVenue) ([]Effect, error) {
	v := a.Venue
	if v.ID == "" {
		return nil, ErrMissingID
	}
	if i := ds.VenueIndex(v.ID); i >= 0 {
		cur := &ds.Venues[i]
		cur.Name, cur.Category, cur.Type = v.Name, v.Category, v.Type
		return []Effect{APICall{Method: http.MethodPut, Path: dataapi.VenuePath(v.ID),
			Body: dataapi.BodyForVenue(*cur)}}, nil
	}
	v.Maps = []venue.Map{}
	ds.Venues = append(ds.Venues, v)
	return []Effect{APICall{Method: http.MethodPost, Path: dataapi.PathVenues,
		Body: dataapi.BodyForVenue(v), Created: &Ref{Kind: KindVenue, ID: v.ID}}}, nil
}

func deleteVenue(ds *venue.Dataset, a DeleteVenue) ([]Effect, error) {
	i := ds.VenueIndex(a.ID)
	if i < 0 {
		return nil, notFound(KindVenue, a.ID)
	}
	ds.Venues = slices.Delete(ds.Venues, i, i+1)
	return []Effect{APICall{Method: http.MethodDelete, Path: dataapi.VenuePath(a.ID)}}, nil
}

func findVenue(ds *venue.Dataset, id string) (*venue.Venue, error) {
	i := ds.VenueIndex(id)
	if i < 0 {
		return nil, notFound(KindVenue, id)
	}
	return &ds.Venues[i], nil
}

func findMap(ds *venue.Dataset, venueID, mapID string) (*venue.Map, error) {
	v, err := findVenue(ds, venueID)
	if err != nil {
		return nil, err
	}
	i := v.MapIndex(mapID)
	if i < 0 {
		return nil, notFound(KindMap, mapID)
	}
	return &v.Maps[i], nil
}

func saveMap(ds *venue.Dataset, a SaveMap) ([]Effect, error) {
	m := a.Map
	if m.ID == "" {
		return nil, ErrMissingID
	}
	v, err := findVenue(ds, a.VenueID)
	if err != nil {
		return nil, err
	}
	if i := v.MapIndex(m.ID); i >= 0 {
		cur := &v.Maps[i]
		cur.Label, cur.Subtitle = m.Label, m.Subtitle
		if m.Image != "" {
			cur.Image = m.Image
		}
		return []Effect{APICall{Method: http.MethodPut, Path: dataapi.MapPath(v.ID, m.ID),
			Body: dataapi.BodyForMap(*cur)}}, nil
	}
	m.Locations = []venue.Location{}
	v.Maps = append(v.Maps, m)
	return []Effect{APICall{Method: http.MethodPost, Path: dataapi.MapsPath(v.ID),
		Body: dataapi.BodyForMap(m), Created: &Ref{Kind: KindMap, VenueID: v.ID, ID: m.ID}}}, nil
}

func deleteMap(ds *venue.Dataset, a DeleteMap) ([]Effect, error) {
	v, err := findVenue(ds, a.VenueID)
	if err != nil {
		return nil, err
	}
	i := v.MapIndex(a.MapID)
	if i < 0 {
		return nil, notFound(KindMap, a.MapID)
	}
	v.Maps = slices.Delete(v.Maps, i, i+1)
	return []Effect{APICall{Method: http.MethodDelete, Path: dataapi.MapPath(a.VenueID, a.MapID)}}, nil
}

func saveLocation(ds *venue.Dataset, a SaveLocation) ([]Effect, error) {
	l := a.Location
	if l.ID == "" {
		return nil, ErrMissingID
	}
	m, err := findMap(ds, a.VenueID, a.MapID)
	if err != nil {
		return nil, err
	}
	if l.Position == (venue.Position{}) {
		l.Position = defaultPosition
	}
	if i := m.LocationIndex(l.ID); i >= 0 {
		if l.Number == 0 {
			l.Number = m.Locations[i].Number
		}
		if a.Location.Position == (venue.Position{}) {
			l.Position = m.Locations[i].Position
		}
		m.Locations[i] = l
		return []Effect{APICall{Method: http.MethodPut,
			Path: dataapi.LocationPath(a.VenueID, a.MapID, l.ID), Body: dataapi.BodyForLocation(l)}}, nil
	}
	if l.Number == 0 {
		l.Number = m.NextLocationNumber()
	}
	m.Locations = append(m.Locations, l)
	return []Effect{APICall{Method: http.MethodPost, Path: dataapi.LocationsPath(a.VenueID, a.MapID),
		Body:    dataapi.BodyForLocation(l),
		Created: &Ref{Kind: KindLocation, VenueID: a.VenueID, MapID: a.MapID, ID: l.ID}}}, nil
}

func moveLocation(ds *venue.Dataset, a MoveLocation) ([]Effect, error) {
	m, err := findMap(ds, a.VenueID, a.MapID)
	if err != nil {
		return nil, err
	}
	i := m.LocationIndex(a.LocationID)
	if i < 0 {
		return nil, notFound(KindLocation, a.LocationID)
	}
	m.Locations[i].Position = a.Position
	return []Effect{APICall{Method: http.MethodPut,
		Path: dataapi.LocationPath(a.VenueID, a.MapID, a.LocationID),
		Body: map[string]venue.Position{"position": a.Position}}}, nil
}

func deleteLocation(ds *venue.Dataset, a DeleteLocation) ([]Effect, error) {
	m, err := findMap(ds, a.VenueID, a.MapID)
	if err != nil {
		return nil, err
	}
	i := m.LocationIndex(a.LocationID)
	if i < 0 {
		return nil, notFound(KindLocation, a.LocationID)
	}
	m.Locations = slices.Delete(m.Locations, i, i+1)
	return []Effect{APICall{Method: http.MethodDelete,
		Path: dataapi.LocationPath(a.VenueID, a.MapID, a.LocationID)}}, nil
}

func assignID(ds *venue.Dataset, a AssignID) error {
	if a.NewID == "" {
		return ErrMissingID
	}
	r := a.Ref
	switch r.Kind {
	case KindCategory:
		i := ds.CategoryIndex(r.ID)
		if i < 0 {
			return notFound(r.Kind, r.ID)
		}
		ds.Categories[i].ID = a.NewID
		for j := range ds.Venues {
			if ds.Venues[j].Category == r.ID {
				ds.Venues[j].Category = a.NewID
			}
		}
	case KindVenue:
		v, err := findVenue(ds, r.ID)
		if err != nil {
			return err
		}
		v.ID = a.NewID
		for j := range ds.LandingPage.Cards {
			if ds.LandingPage.Cards[j].VenueID == r.ID {
				ds.LandingPage.Cards[j].VenueID = a.NewID
			}
		}
	case KindMap:
		m, err := findMap(ds, r.VenueID, r.ID)
		if err != nil {
			return err
		}
		m.ID = a.NewID
	case KindLocation:
		m, err := findMap(ds, r.VenueID, r.MapID)
		if err != nil {
			return err
		}
		i := m.LocationIndex(r.ID)
		if i < 0 {
			return notFound(r.Kind, r.ID)
		}
		m.Locations[i].ID = a.NewID
	default:
		return fmt.Errorf("%w: assign id to %q", ErrUnknownAction, r.Kind)
	}
	return nil
}
