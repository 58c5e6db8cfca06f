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

	bbolt "github.com/wepmaps/venuemaps/pkg/cache/bbolt/options"
	"github.com/wepmaps/venuemaps/pkg/cache/providers"
)

func TestNew(t *testing.T) {
	o := New()
	if o == nil {
		t.Fatal("expected non-nil options")
	}
	if o.ProviderID != providers.MemoryID {
		t.Errorf("expected %s got %s", providers.MemoryID, o.ProviderID)
	}
}

func TestCloneAndEqual(t *testing.T) {
	o := New()
	o.Provider = providers.BBolt
	o.ProviderID = providers.BBoltID
	o.BBolt.Filename = "/tmp/x.db"
	o2 := o.Clone()
	if !o.Equal(o2) {
		t.Error("expected true")
	}
	o2.BBolt.Filename = "/tmp/y.db"
	if o.Equal(o2) {
		t.Error("expected false after changing the clone")
	}
	if o.BBolt.Filename != "/tmp/x.db" {
		t.Error("clone must not share provider options")
	}
	if o.Equal(nil) {
		t.Error("expected false")
	}
}

func TestInitialize(t *testing.T) {
	o := &Options{Provider: " BBolt "}
	if err := o.Initialize("drafts"); err != nil {
		t.Fatal(err)
	}
	if o.Name != "drafts" || o.ProviderID != providers.BBoltID {
		t.Errorf("unexpected options %+v", o)
	}
	if o.BBolt == nil || o.Redis == nil || o.Filesystem == nil || o.Badger == nil {
		t.Error("expected provider options to be populated")
	}
	if err := o.Validate(); err != nil {
		t.Error(err)
	}

	o = &Options{}
	if err := o.Initialize("default"); err != nil {
		t.Fatal(err)
	}
	if o.Provider != providers.Memory {
		t.Errorf("expected %s got %s", providers.Memory, o.Provider)
	}

	o = &Options{Provider: "floppy"}
	if err := o.Initialize("x"); !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("expected %v got %v", ErrInvalidProvider, err)
	}
}

func TestInitializePartialProvider(t *testing.T) {
	o := &Options{Provider: "bbolt", BBolt: &bbolt.Options{Filename: "/tmp/drafts.db"}}
	if err := o.Initialize("durable"); err != nil {
		t.Fatal(err)
	}
	if o.BBolt.Filename != "/tmp/drafts.db" {
		t.Errorf("expected %s got %s", "/tmp/drafts.db", o.BBolt.Filename)
	}
	if o.BBolt.Bucket != bbolt.DefaultBBoltBucket {
		t.Errorf("expected %s got %s", bbolt.DefaultBBoltBucket, o.BBolt.Bucket)
	}
}

func TestValidateName(t *testing.T) {
	o := New()
	o.Name = "none"
	if err := o.Validate(); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected %v got %v", ErrInvalidName, err)
	}
}
