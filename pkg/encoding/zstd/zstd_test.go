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

package zstd

import (
	"bytes"
	"fmt"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestDecodeEncode(t *testing.T) {
	const expected = "venuemaps"
	b, err := Encode([]byte(expected))
	if err != nil {
		t.Fatal(err)
	}
	b, err = Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != expected {
		t.Errorf("expected %s got %s", expected, string(b))
	}
}

func TestDecodeEmpty(t *testing.T) {
	b, err := Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d bytes", len(out))
	}
}

// partitions encode and decode stored pages from many requests at once,
// all through the shared encoder and decoder
func TestSharedCodersConcurrently(t *testing.T) {
	pages := make([][]byte, 8)
	for i := range pages {
		pages[i] = bytes.Repeat([]byte(fmt.Sprintf("<li>location %d</li>", i)), 50*(i+1))
	}
	var g errgroup.Group
	for w := 0; w < 64; w++ {
		page := pages[w%len(pages)]
		g.Go(func() error {
			for i := 0; i < 10; i++ {
				enc, err := Encode(page)
				if err != nil {
					return err
				}
				dec, err := Decode(enc)
				if err != nil {
					return err
				}
				if !bytes.Equal(dec, page) {
					return fmt.Errorf("page of %d bytes corrupted", len(page))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Error(err)
	}
}
