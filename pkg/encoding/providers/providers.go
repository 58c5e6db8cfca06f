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

// Package providers enumerates the compression codecs available to the
// offline document store
package providers

import (
	"sort"
	"strconv"
	"strings"
)

// Provider identifies a compression codec. The value is written as the
// first byte of every stored document, so existing values must never change.
type Provider byte

const (
	Identity  Provider = 0 // no encoding
	Snappy    Provider = 1
	Zstandard Provider = 2
	Brotli    Provider = 3
	GZip      Provider = 4
	Deflate   Provider = 5

	IdentityValue  = "none"
	SnappyValue    = "snappy"
	ZstandardValue = "zstd"
	BrotliValue    = "br"
	GZipValue      = "gzip"
	DeflateValue   = "deflate"
	// might be used in configs
	ZstandardAltValue = "zstandard"
	BrotliAltValue    = "brotli"
)

var providerValLookup = map[Provider]string{
	Identity:  IdentityValue,
	Snappy:    SnappyValue,
	Zstandard: ZstandardValue,
	Brotli:    BrotliValue,
	GZip:      GZipValue,
	Deflate:   DeflateValue,
}

var providerLookup = map[string]Provider{
	"":                Identity,
	IdentityValue:     Identity,
	"identity":        Identity,
	SnappyValue:       Snappy,
	ZstandardValue:    Zstandard,
	ZstandardAltValue: Zstandard,
	BrotliValue:       Brotli,
	BrotliAltValue:    Brotli,
	GZipValue:         GZip,
	DeflateValue:      Deflate,
}

func (p Provider) String() string {
	if v, ok := providerValLookup[p]; ok {
		return v
	}
	return strconv.Itoa(int(p))
}

// Valid returns true if p is a known codec
func (p Provider) Valid() bool {
	_, ok := providerValLookup[p]
	return ok
}

// Providers returns the canonical names of every codec, sorted
func Providers() []string {
	out := make([]string, 0, len(providerValLookup))
	for _, v := range providerValLookup {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ProviderID returns the codec for the provided name. ok is false for an
// unknown name.
func ProviderID(providerName string) (Provider, bool) {
	p, ok := providerLookup[strings.ToLower(strings.TrimSpace(providerName))]
	return p, ok
}
