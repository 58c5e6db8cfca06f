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

package headers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStoredHeader(t *testing.T) {
	h := http.Header{}
	h.Set(NameContentType, "text/css")
	h.Set(NameConnection, "keep-alive")
	h.Set(NameSetCookie, "a=b")
	out := StoredHeader(h)
	if out.Get(NameContentType) != "text/css" {
		t.Error("expected content type to be kept")
	}
	if out.Get(NameConnection) != "" || out.Get(NameSetCookie) != "" {
		t.Errorf("expected hop headers and cookies removed, got %v", out)
	}
	if h.Get(NameSetCookie) == "" {
		t.Error("expected source header to be unmodified")
	}
	if StoredHeader(nil) == nil {
		t.Error("expected non-nil header")
	}
}

func TestMerge(t *testing.T) {
	dst := http.Header{"A": {"1"}}
	Merge(dst, http.Header{"A": {"2"}, "B": {"3"}, "C": {}})
	if dst.Get("A") != "2" || dst.Get("B") != "3" {
		t.Errorf("unexpected merge result %v", dst)
	}
	if _, ok := dst["C"]; ok {
		t.Error("expected empty values to be skipped")
	}
	Merge(nil, dst)
}

func TestAcceptsHTML(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if AcceptsHTML(r) {
		t.Error("expected false without Accept header")
	}
	r.Header.Set(NameAccept, "application/xhtml+xml,TEXT/HTML;q=0.9")
	if !AcceptsHTML(r) {
		t.Error("expected true for listed text/html")
	}
	if AcceptsHTML(nil) {
		t.Error("expected false for nil request")
	}
}

func TestResultHeader(t *testing.T) {
	h := http.Header{}
	SetResultsHeader(h, "image", "hit", "wep-images-v4")
	v := h.Get(NameVenuemapsResult)
	if v != "policy=image; status=hit; partition=wep-images-v4" {
		t.Errorf("unexpected header %s", v)
	}
	p := ParseResultHeader(v)
	if p.Policy != "image" || p.Status != "hit" || p.Partition != "wep-images-v4" {
		t.Errorf("unexpected parse %+v", p)
	}
	SetResultsHeader(h, "", "x", "")
	if h.Get(NameVenuemapsResult) != v {
		t.Error("expected empty policy to leave header untouched")
	}
}

func TestAddForwardingHeaders(t *testing.T) {
	in := httptest.NewRequest(http.MethodGet, "http://venues.example/a.png", nil)
	in.RemoteAddr = "10.0.0.1:5555"
	in.Header.Set(NameXForwardedFor, "192.168.1.1")
	out := httptest.NewRequest(http.MethodGet, "http://origin/a.png", nil)
	AddForwardingHeaders(in, out)
	if out.Header.Get(NameXForwardedFor) != "192.168.1.1, 10.0.0.1" {
		t.Errorf("unexpected X-Forwarded-For %s", out.Header.Get(NameXForwardedFor))
	}
	if out.Header.Get(NameXForwardedHost) != "venues.example" {
		t.Errorf("unexpected X-Forwarded-Host %s", out.Header.Get(NameXForwardedHost))
	}
	if out.Header.Get(NameVia) == "" {
		t.Error("expected Via header")
	}

	own := httptest.NewRequest(http.MethodGet, "http://origin/style.css", nil)
	own.Header.Del(NameUserAgent)
	AddForwardingHeaders(nil, own)
	if own.Header.Get(NameUserAgent) == "" || own.Header.Get(NameXForwardedFor) != "" {
		t.Errorf("unexpected headers for self-originated request %v", own.Header)
	}
}
