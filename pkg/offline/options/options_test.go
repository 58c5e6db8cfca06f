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

package options

import (
	"errors"
	"testing"

	"github.com/wepmaps/venuemaps/pkg/encoding/providers"
	verrors "github.com/wepmaps/venuemaps/pkg/errors"
)

func TestPartitionNames(t *testing.T) {
	o := New()
	if s := o.StaticPartition(); s != "wep-static-v4" {
		t.Errorf("expected wep-static-v4 got %s", s)
	}
	if s := o.ImagePartition(); s != "wep-images-v4" {
		t.Errorf("expected wep-images-v4 got %s", s)
	}
}

func TestInitialize(t *testing.T) {
	o := &Options{Version: "v5"}
	o.Initialize()
	if o.Version != "v5" || o.Prefix != DefaultPrefix || !*o.SkipWaiting {
		t.Errorf("unexpected initialized options %+v", o)
	}
	if len(o.Manifest) != len(DefaultManifest) {
		t.Errorf("expected default manifest got %v", o.Manifest)
	}
	if err := o.Validate(); err != nil {
		t.Error(err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		mod      func(*Options)
		expected error
	}{
		{func(o *Options) { o.Prefix = "a/b" }, verrors.ErrInvalidOptions},
		{func(o *Options) { o.Version = "" }, verrors.ErrInvalidOptions},
		{func(o *Options) { o.ControlPath = "control" }, verrors.ErrInvalidPath},
		{func(o *Options) { o.FallbackDocument = "index.html" }, verrors.ErrInvalidPath},
		{func(o *Options) { o.Manifest = []string{"/a/../b"} }, verrors.ErrInvalidPath},
		{func(o *Options) { o.Compression = "lzma" }, verrors.ErrInvalidOptions},
	}
	for i, test := range tests {
		o := New()
		test.mod(o)
		if err := o.Validate(); !errors.Is(err, test.expected) {
			t.Errorf("test %d: expected %v got %v", i, test.expected, err)
		}
	}
}

func TestCodec(t *testing.T) {
	o := New()
	if o.Codec() != providers.Snappy {
		t.Errorf("expected %s got %s", providers.Snappy, o.Codec())
	}
	o.Compression = "brotli"
	if o.Codec() != providers.Brotli {
		t.Errorf("expected %s got %s", providers.Brotli, o.Codec())
	}
}

func TestClone(t *testing.T) {
	o := New()
	c := o.Clone()
	c.Manifest[0] = "/changed"
	*c.SkipWaiting = false
	if o.Manifest[0] != "/" || !*o.SkipWaiting {
		t.Error("clone shares state with original")
	}
}
