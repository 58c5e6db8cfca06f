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

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSwitchHandler(t *testing.T) {
	r1 := http.NewServeMux()
	r1.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(201) })
	r2 := http.NewServeMux()
	r2.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(202) })

	sh := NewSwitchHandler(r1)
	if sh.Handler() != r1 {
		t.Error("router mismatch")
	}
	w := httptest.NewRecorder()
	sh.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != 201 {
		t.Errorf("expected %d got %d", 201, w.Code)
	}

	sh.Update(r2)
	if sh.Handler() != r2 {
		t.Error("router mismatch")
	}
	w = httptest.NewRecorder()
	sh.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != 202 {
		t.Errorf("expected %d got %d", 202, w.Code)
	}
}
