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

// Package deflate provides deflate capabilities for byte slices
package deflate

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// Decode returns the decoded version of the encoded byte slice
func Decode(in []byte) ([]byte, error) {
	dr := flate.NewReader(bytes.NewReader(in))
	defer dr.Close()
	return io.ReadAll(dr)
}

// Encode returns the encoded version of the byte slice
func Encode(in []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(in)))
	// NewWriter only returns an error for an out-of-range level
	dw, _ := flate.NewWriter(buf, flate.DefaultCompression)
	_, err := dw.Write(in)
	if cerr := dw.Close(); err == nil {
		err = cerr
	}
	return buf.Bytes(), err
}
