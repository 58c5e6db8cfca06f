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

	verrors "github.com/wepmaps/venuemaps/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		url      string
		expected error
	}{
		{"http://site:8000", nil},
		{"https://venues.example.com/base", nil},
		{"site:8000", verrors.ErrInvalidURL},
		{"", verrors.ErrInvalidURL},
		{"ftp://x", verrors.ErrInvalidURL},
	}
	for _, test := range tests {
		o := New()
		o.URL = test.url
		err := o.Validate()
		if !errors.Is(err, test.expected) {
			t.Errorf("%q: expected %v got %v", test.url, test.expected, err)
		}
	}
}

func TestBase(t *testing.T) {
	o := New()
	o.URL = "http://site:8000/app"
	if err := o.Validate(); err != nil {
		t.Fatal(err)
	}
	if o.Base().Host != "site:8000" || o.Base().Path != "/app" {
		t.Errorf("unexpected base %v", o.Base())
	}
}

func TestValidateTLS(t *testing.T) {
	o := New()
	o.URL = "https://site"
	o.TLS = &TLSOptions{ClientCertPath: "cert.pem"}
	if err := o.Validate(); !errors.Is(err, verrors.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", verrors.ErrInvalidOptions, err)
	}
	o.TLS.ClientKeyPath = "key.pem"
	if err := o.Validate(); err != nil {
		t.Error(err)
	}
	o.MaxIdleConns = -1
	if err := o.Validate(); !errors.Is(err, verrors.ErrInvalidOptions) {
		t.Errorf("expected %v got %v", verrors.ErrInvalidOptions, err)
	}
}

func TestCloneEqual(t *testing.T) {
	o := New()
	o.URL = "https://site"
	o.TLS = &TLSOptions{CertificateAuthorityPaths: []string{"ca.pem"}}
	c := o.Clone()
	if !o.Equal(c) {
		t.Fatal("expected clone to be equal")
	}
	c.TLS.CertificateAuthorityPaths[0] = "other.pem"
	if o.TLS.CertificateAuthorityPaths[0] != "ca.pem" {
		t.Error("clone shares the CA path slice")
	}
	if o.Equal(c) {
		t.Error("expected changed CA paths to differ")
	}
	c = o.Clone()
	c.TLS = nil
	if o.Equal(c) {
		t.Error("expected removed TLS to differ")
	}
	c = o.Clone()
	c.Timeout = 0
	if o.Equal(c) {
		t.Error("expected changed timeout to differ")
	}
}
