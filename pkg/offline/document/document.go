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

// Package document is the cached representation of an upstream HTTP response
package document

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wepmaps/venuemaps/pkg/encoding"
	"github.com/wepmaps/venuemaps/pkg/encoding/providers"
	"github.com/wepmaps/venuemaps/pkg/proxy/headers"
)

// ErrCorrupt is returned when stored bytes cannot be decoded into a Document
var ErrCorrupt = errors.New("corrupt cached document")

// Document represents a full HTTP Response as held in a cache partition
type Document struct {
	StatusCode int         `msg:"status_code"`
	Status     string      `msg:"status"`
	Header     http.Header `msg:"headers"`
	Body       []byte      `msg:"body"`
	StoredAt   time.Time   `msg:"stored_at"`
}

// FromResponse returns a Document from the provided HTTP Response and Body
func FromResponse(resp *http.Response, body []byte) *Document {
	return &Document{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     headers.StoredHeader(resp.Header),
		Body:       body,
	}
}

// Placeholder returns the empty 404 served for an image that could be
// neither read from cache nor fetched
func Placeholder() *Document {
	return &Document{
		StatusCode: http.StatusNotFound,
		Status:     strconv.Itoa(http.StatusNotFound) + " " + http.StatusText(http.StatusNotFound),
		Header:     make(http.Header),
		Body:       []byte{},
	}
}

// IsSuccess returns true for a 2xx status code
func (d *Document) IsSuccess() bool {
	return d.StatusCode >= 200 && d.StatusCode < 300
}

// Clone returns a deep copy of the Document
func (d *Document) Clone() *Document {
	c := *d
	c.Header = d.Header.Clone()
	if d.Body != nil {
		c.Body = append([]byte{}, d.Body...)
	}
	return &c
}

// Write sends the Document to w. Response headers set on w before the
// call are kept unless the Document overrides them.
func (d *Document) Write(w http.ResponseWriter) error {
	h := w.Header()
	headers.Merge(h, d.Header)
	h.Set(headers.NameContentLength, strconv.Itoa(len(d.Body)))
	w.WriteHeader(d.StatusCode)
	_, err := w.Write(d.Body)
	return err
}

// Encode serializes d with MessagePack and compresses the result with p.
// The first byte of the output records the codec.
func Encode(d *Document, p providers.Provider) ([]byte, error) {
	b, err := d.MarshalMsg(nil)
	if err != nil {
		return nil, err
	}
	if b, err = encoding.Encode(p, b); err != nil {
		return nil, err
	}
	out := make([]byte, len(b)+1)
	out[0] = byte(p)
	copy(out[1:], b)
	return out, nil
}

// Decode deserializes the output of Encode
func Decode(b []byte) (*Document, error) {
	if len(b) < 2 {
		return nil, ErrCorrupt
	}
	p := providers.Provider(b[0])
	if !p.Valid() {
		return nil, ErrCorrupt
	}
	payload, err := encoding.Decode(p, b[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	d := &Document{}
	if _, err := d.UnmarshalMsg(payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if d.Header == nil {
		d.Header = make(http.Header)
	}
	return d, nil
}
