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

package dataapi

import (
	"context"
	"net/http"

	"github.com/wepmaps/venuemaps/pkg/venue"
)

// VenueBody is the request body for creating or updating a venue. Maps
// are managed through their own endpoints.
type VenueBody struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type,omitempty"`
}

// MapBody is the request body for creating or updating a map
type MapBody struct {
	Label    string `json:"label"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image,omitempty"`
}

// LocationBody is the request body for creating or updating a location
type LocationBody struct {
	Number      int            `json:"number,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Fiber       string         `json:"fiber"`
	Image       string         `json:"image,omitempty"`
	Position    venue.Position `json:"position"`
}

// BodyForVenue returns the request body describing v
func BodyForVenue(v venue.Venue) VenueBody {
	return VenueBody{Name: v.Name, Category: v.Category, Type: v.Type}
}

// BodyForMap returns the request body describing m
func BodyForMap(m venue.Map) MapBody {
	return MapBody{Label: m.Label, Subtitle: m.Subtitle, Image: m.Image}
}

// BodyForLocation returns the request body describing l
func BodyForLocation(l venue.Location) LocationBody {
	return LocationBody{Number: l.Number, Name: l.Name, Description: l.Description,
		Fiber: l.Fiber, Image: l.Image, Position: l.Position}
}

// Paths of the entity endpoints
const (
	PathData       = "/api/data"
	PathCategories = "/api/categories"
	PathVenues     = "/api/venues"
)

// CategoryPath returns the path of one category
func CategoryPath(id string) string {
	return route(PathCategories+"/%s", id)
}

// VenuePath returns the path of one venue
func VenuePath(id string) string {
	return route(PathVenues+"/%s", id)
}

// MapsPath returns the path of a venue's map collection
func MapsPath(venueID string) string {
	return route(PathVenues+"/%s/maps", venueID)
}

// MapPath returns the path of one map
func MapPath(venueID, mapID string) string {
	return route(PathVenues+"/%s/maps/%s", venueID, mapID)
}

// LocationsPath returns the path of a map's location collection
func LocationsPath(venueID, mapID string) string {
	return route(PathVenues+"/%s/maps/%s/locations", venueID, mapID)
}

// LocationPath returns the path of one location
func LocationPath(venueID, mapID, locationID string) string {
	return route(PathVenues+"/%s/maps/%s/locations/%s", venueID, mapID, locationID)
}

// Data fetches the full authoritative dataset
func (c *Client) Data(ctx context.Context) (venue.Dataset, error) {
	var ds venue.Dataset
	if err := c.call(ctx, "data", http.MethodGet, PathData, nil, &ds); err != nil {
		return venue.Dataset{}, err
	}
	ds.Normalize()
	return ds, nil
}

// SaveData replaces the full authoritative dataset
func (c *Client) SaveData(ctx context.Context, ds venue.Dataset) error {
	ds = ds.Clone()
	ds.Normalize()
	return c.call(ctx, "save_data", http.MethodPost, PathData, ds, nil)
}

// Categories lists the categories
func (c *Client) Categories(ctx context.Context) ([]venue.Category, error) {
	var out []venue.Category
	err := c.call(ctx, "categories", http.MethodGet, PathCategories, nil, &out)
	return out, err
}

// CreateCategory creates a category and returns it with its assigned ID
func (c *Client) CreateCategory(ctx context.Context, cat venue.Category) (venue.Category, error) {
	var out venue.Category
	err := c.call(ctx, "create_category", http.MethodPost, PathCategories, cat, &out)
	return out, err
}

// UpdateCategory updates a category
func (c *Client) UpdateCategory(ctx context.Context, cat venue.Category) (venue.Category, error) {
	var out venue.Category
	err := c.call(ctx, "update_category", http.MethodPut, CategoryPath(cat.ID), cat, &out)
	return out, err
}

// DeleteCategory deletes a category
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.call(ctx, "delete_category", http.MethodDelete, CategoryPath(id), nil, nil)
}

// Venues lists the venues
func (c *Client) Venues(ctx context.Context) ([]venue.Venue, error) {
	var out []venue.Venue
	err := c.call(ctx, "venues", http.MethodGet, PathVenues, nil, &out)
	return out, err
}

// CreateVenue creates a venue with no maps and returns it with its assigned ID
func (c *Client) CreateVenue(ctx context.Context, v venue.Venue) (venue.Venue, error) {
	var out venue.Venue
	err := c.call(ctx, "create_venue", http.MethodPost, PathVenues, BodyForVenue(v), &out)
	return out, err
}

// UpdateVenue updates a venue's own fields
func (c *Client) UpdateVenue(ctx context.Context, v venue.Venue) (venue.Venue, error) {
	var out venue.Venue
	err := c.call(ctx, "update_venue", http.MethodPut, VenuePath(v.ID), BodyForVenue(v), &out)
	return out, err
}

// DeleteVenue deletes a venue and its maps
func (c *Client) DeleteVenue(ctx context.Context, id string) error {
	return c.call(ctx, "delete_venue", http.MethodDelete, VenuePath(id), nil, nil)
}

// CreateMap adds a map to a venue and returns it with its assigned ID
func (c *Client) CreateMap(ctx context.Context, venueID string, m venue.Map) (venue.Map, error) {
	var out venue.Map
	err := c.call(ctx, "create_map", http.MethodPost, MapsPath(venueID), BodyForMap(m), &out)
	return out, err
}

// UpdateMap updates a map's own fields
func (c *Client) UpdateMap(ctx context.Context, venueID string, m venue.Map) (venue.Map, error) {
	var out venue.Map
	err := c.call(ctx, "update_map", http.MethodPut, MapPath(venueID, m.ID), BodyForMap(m), &out)
	return out, err
}

// DeleteMap deletes a map and its locations
func (c *Client) DeleteMap(ctx context.Context, venueID, mapID string) error {
	return c.call(ctx, "delete_map", http.MethodDelete, MapPath(venueID, mapID), nil, nil)
}

// CreateLocation adds a location to a map. The Data API numbers the
// location when l.Number is zero.
func (c *Client) CreateLocation(ctx context.Context, venueID, mapID string,
	l venue.Location) (venue.Location, error) {
	var out venue.Location
	err := c.call(ctx, "create_location", http.MethodPost, LocationsPath(venueID, mapID),
		BodyForLocation(l), &out)
	return out, err
}

// UpdateLocation updates a location
func (c *Client) UpdateLocation(ctx context.Context, venueID, mapID string,
	l venue.Location) (venue.Location, error) {
	var out venue.Location
	err := c.call(ctx, "update_location", http.MethodPut, LocationPath(venueID, mapID, l.ID),
		BodyForLocation(l), &out)
	return out, err
}

// DeleteLocation deletes a location
func (c *Client) DeleteLocation(ctx context.Context, venueID, mapID, locationID string) error {
	return c.call(ctx, "delete_location", http.MethodDelete,
		LocationPath(venueID, mapID, locationID), nil, nil)
}

// PhotoRequests lists the pending photo requests
func (c *Client) PhotoRequests(ctx context.Context) ([]venue.PhotoRequest, error) {
	var out []venue.PhotoRequest
	err := c.call(ctx, "photo_requests", http.MethodGet, "/api/photo-requests", nil, &out)
	return out, err
}

// ApprovePhotoRequest applies a requested photo to its location
func (c *Client) ApprovePhotoRequest(ctx context.Context, id string) error {
	return c.call(ctx, "approve_photo_request", http.MethodPost,
		route("/api/photo-requests/%s/approve", id), nil, nil)
}

// DismissPhotoRequest removes a photo request without applying it
func (c *Client) DismissPhotoRequest(ctx context.Context, id string) error {
	return c.call(ctx, "dismiss_photo_request", http.MethodDelete,
		route("/api/photo-requests/%s", id), nil, nil)
}
