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
	"fmt"
	"sync"

	"github.com/wepmaps/venuemaps/pkg/draft"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/venue"

	"github.com/oklog/ulid/v2"
)

// API is the part of the Data API client a Session calls
type API interface {
	Do(ctx context.Context, method, path string, body, out any) error
	SaveData(ctx context.Context, ds venue.Dataset) error
}

// Session applies edits for one admin user. Edits are serialized.
type Session struct {
	mu     sync.Mutex
	drafts *draft.Manager
	api    API
	newID  func() string
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithIDGenerator sets the function that names new entities
func WithIDGenerator(f func() string) SessionOption {
	return func(s *Session) { s.newID = f }
}

// NewSession returns a Session editing the working dataset held by drafts
func NewSession(drafts *draft.Manager, api API, opts ...SessionOption) *Session {
	s := &Session{
		drafts: drafts,
		api:    api,
		newID:  func() string { return ulid.Make().String() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dataset returns a copy of the working dataset
func (s *Session) Dataset() venue.Dataset {
	return s.drafts.Dataset()
}

// Apply reduces a against the working dataset and runs the resulting
// effects in order. The draft is recorded before any Data API call, so a
// failed call leaves the edit recoverable.
func (s *Session) Apply(ctx context.Context, a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, effects, err := Reduce(s.drafts.Dataset(), s.withIDs(a))
	if err != nil {
		return err
	}
	return s.run(ctx, effects)
}

// withIDs names new entities that arrive without an ID
func (s *Session) withIDs(a Action) Action {
	switch a := a.(type) {
	case AddCard:
		if a.Card.ID == "" {
			a.Card.ID = s.newID()
		}
		return a
	case SaveCategory:
		if a.Category.ID == "" {
			a.Category.ID = s.newID()
		}
		return a
	case SaveVenue:
		if a.Venue.ID == "" {
			a.Venue.ID = s.newID()
		}
		return a
	case SaveMap:
		if a.Map.ID == "" {
			a.Map.ID = s.newID()
		}
		return a
	case SaveLocation:
		if a.Location.ID == "" {
			a.Location.ID = s.newID()
		}
		return a
	}
	return a
}

func (s *Session) run(ctx context.Context, effects []Effect) error {
	for _, e := range effects {
		switch e := e.(type) {
		case RecordMutation:
			s.drafts.RecordMutation(e.Dataset)
		case SaveDataset:
			if err := s.api.SaveData(ctx, e.Dataset); err != nil {
				return fmt.Errorf("saving dataset: %w", err)
			}
		case APICall:
			var resp struct {
				ID string `json:"id"`
			}
			if err := s.api.Do(ctx, e.Method, e.Path, e.Body, &resp); err != nil {
				return fmt.Errorf("%s %s: %w", e.Method, e.Path, err)
			}
			if e.Created == nil || resp.ID == "" || resp.ID == e.Created.ID {
				continue
			}
			logger.Debug("data api assigned id", logging.Pairs{"kind": string(e.Created.Kind),
				"localID": e.Created.ID, "id": resp.ID})
			_, more, err := Reduce(s.drafts.Dataset(), AssignID{Ref: *e.Created, NewID: resp.ID})
			if err != nil {
				return err
			}
			if err := s.run(ctx, more); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: effect %T", ErrUnknownAction, e)
		}
	}
	return nil
}
