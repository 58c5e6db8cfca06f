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

// Package encoding compresses and decompresses byte slices with the codec
// named by a providers.Provider
package encoding

import (
	"errors"
	"fmt"

	"github.com/wepmaps/venuemaps/pkg/encoding/brotli"
	"github.com/wepmaps/venuemaps/pkg/encoding/deflate"
	"github.com/wepmaps/venuemaps/pkg/encoding/gzip"
	"github.com/wepmaps/venuemaps/pkg/encoding/providers"
	"github.com/wepmaps/venuemaps/pkg/encoding/snappy"
	"github.com/wepmaps/venuemaps/pkg/encoding/zstd"
)

// ErrUnsupportedProvider is returned for a codec with no implementation
var ErrUnsupportedProvider = errors.New("unsupported encoding provider")

type codec struct {
	encode func([]byte) ([]byte, error)
	decode func([]byte) ([]byte, error)
}

func identity(in []byte) ([]byte, error) {
	return in, nil
}

var codecs = map[providers.Provider]codec{
	providers.Identity:  {identity, identity},
	providers.Snappy:    {snappy.Encode, snappy.Decode},
	providers.Zstandard: {zstd.Encode, zstd.Decode},
	providers.Brotli:    {brotli.Encode, brotli.Decode},
	providers.GZip:      {gzip.Encode, gzip.Decode},
	providers.Deflate:   {deflate.Encode, deflate.Decode},
}

// Encode compresses in with the codec p
func Encode(p providers.Provider, in []byte) ([]byte, error) {
	c, ok := codecs[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, p)
	}
	return c.encode(in)
}

// Decode decompresses in with the codec p
func Decode(p providers.Provider, in []byte) ([]byte, error) {
	c, ok := codecs[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, p)
	}
	return c.decode(in)
}
