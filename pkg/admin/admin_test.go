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

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wepmaps/venuemaps/pkg/venue"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const (
	testPassword = "letmein"
	testToken    = "feedface"
)

type fakeAPI struct {
	mu        sync.Mutex
	data      venue.Dataset
	saved     int
	generated int
	deleted   []string
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) router() http.Handler {
	r := mux.NewRouter()
	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
				return
			}
			f.mu.Lock()
			defer f.mu.Unlock()
			h(w, r)
		}
	}
	r.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Password string }
		json.NewDecoder(r.Body).Decode(&body)
		if body.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": testToken})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/verify", auth(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"valid": true})
	})).Methods(http.MethodGet)
	r.HandleFunc("/api/data", auth(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.data)
	})).Methods(http.MethodGet)
	r.HandleFunc("/api/data", auth(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&f.data)
		f.saved++
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})).Methods(http.MethodPost)
	r.HandleFunc("/api/categories", auth(func(w http.ResponseWriter, r *http.Request) {
		var c venue.Category
		json.NewDecoder(r.Body).Decode(&c)
		c.ID = "srvcat01"
		writeJSON(w, http.StatusCreated, c)
	})).Methods(http.MethodPost)
	r.HandleFunc("/api/categories/{id}", auth(func(w http.ResponseWriter, r *http.Request) {
		f.deleted = append(f.deleted, mux.Vars(r)["id"])
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})).Methods(http.MethodDelete)
	r.HandleFunc("/api/venues/{id}", auth(func(w http.ResponseWriter, r *http.Request) {
		var v venue.Venue
		json.NewDecoder(r.Body).Decode(&v)
		writeJSON(w, http.StatusOK, v)
	})).Methods(http.MethodPut)
	r.HandleFunc("/api/generate-html", auth(func(w http.ResponseWriter, r *http.Request) {
		f.generated++
		writeJSON(w, http.StatusOK, map[string]any{"success": true,
			"files": []string{"arenas.html", "stadiums.html"}})
	})).Methods(http.MethodPost)
	return r
}

// newTestEnv starts a fake Data API and writes a config whose durable
// draft storage outlives each Run
func newTestEnv(t *testing.T, password string) (*fakeAPI, string) {
	t.Helper()
	f := &fakeAPI{data: venue.Dataset{
		Categories: []venue.Category{{ID: "c1", Name: "Arenas", Slug: "arenas"}},
		Venues:     []venue.Venue{{ID: "v1", Name: "Main Arena", Category: "c1"}},
	}}
	f.data.Normalize()
	ts := httptest.NewServer(f.router())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	conf := "origin:\n  url: " + ts.URL + "\n" +
		"logging:\n  log_level: error\n" +
		"caches:\n  durable:\n    provider: bbolt\n    bbolt:\n      filename: " +
		filepath.Join(dir, "admin.db") + "\n" +
		"admin:\n  password: " + password + "\n"
	path := filepath.Join(dir, "venuemaps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o600))
	return f, path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Run(context.Background(), append([]string{"-env-file", ""}, args...), &out)
	return out.String(), err
}

func TestRunUsage(t *testing.T) {
	out, err := run(t)
	require.ErrorIs(t, err, ErrUsage)
	require.Contains(t, out, "publish")

	_, err = run(t, "frobnicate")
	require.ErrorIs(t, err, ErrUsage)

	_, err = run(t, "add-category")
	require.ErrorIs(t, err, ErrUsage)

	_, err = run(t, "-bogus-flag", "status")
	require.ErrorIs(t, err, ErrUsage)
}

func TestEditThenPublish(t *testing.T) {
	f, conf := newTestEnv(t, testPassword)

	out, err := run(t, "-config", conf, "status")
	require.NoError(t, err)
	require.Contains(t, out, "draft: none")
	require.Contains(t, out, "1 categories, 1 venues")

	_, err = run(t, "-config", conf, "add-category", "Stadiums")
	require.NoError(t, err)
	require.Equal(t, 0, f.saved)

	out, err = run(t, "-config", conf, "status")
	require.NoError(t, err)
	require.Contains(t, out, "draft: saved")
	require.Contains(t, out, "2 categories, 1 venues")

	out, err = run(t, "-config", conf, "publish")
	require.NoError(t, err)
	require.Contains(t, out, "resuming draft")
	require.Contains(t, out, "generated 2 files")
	require.Equal(t, 1, f.saved)
	require.Equal(t, 1, f.generated)
	require.Len(t, f.data.Categories, 2)
	require.Equal(t, "srvcat01", f.data.Categories[1].ID)
	require.Equal(t, "stadiums", f.data.Categories[1].Slug)

	out, err = run(t, "-config", conf, "status")
	require.NoError(t, err)
	require.Contains(t, out, "draft: none")
}

func TestDeclineAndDiscard(t *testing.T) {
	f, conf := newTestEnv(t, testPassword)

	out, err := run(t, "-config", conf, "decline")
	require.NoError(t, err)
	require.Contains(t, out, "no draft")

	_, err = run(t, "-config", conf, "delete-category", "c1")
	require.NoError(t, err)
	require.Equal(t, []string{"c1"}, f.deleted)

	out, err = run(t, "-config", conf, "decline")
	require.NoError(t, err)
	require.Contains(t, out, "draft deleted")

	_, err = run(t, "-config", conf, "toggle-card", "missing")
	require.Error(t, err)

	out, err = run(t, "-config", conf, "discard")
	require.NoError(t, err)
	require.Contains(t, out, "1 categories")
	require.Equal(t, 0, f.saved)
}

func TestDiscardWithoutSession(t *testing.T) {
	f, conf := newTestEnv(t, testPassword)

	_, err := run(t, "-config", conf, "add-category", "Stadiums")
	require.NoError(t, err)
	out, err := run(t, "-config", conf, "logout")
	require.NoError(t, err)
	require.Contains(t, out, "logged out")

	// the stored token is gone, so discard has to log in again before reloading
	out, err = run(t, "-config", conf, "discard")
	require.NoError(t, err)
	require.Contains(t, out, "draft discarded")
	require.Contains(t, out, "1 categories")
	require.Equal(t, 0, f.saved)

	out, err = run(t, "-config", conf, "status")
	require.NoError(t, err)
	require.Contains(t, out, "draft: none")
}

func TestLoginFromEnvFile(t *testing.T) {
	_, conf := newTestEnv(t, "${VENUEADMIN_TEST_PASSWORD}")
	_, err := run(t, "-config", conf, "login")
	require.ErrorIs(t, err, ErrNoPassword)

	env := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(env, []byte("VENUEADMIN_TEST_PASSWORD="+testPassword+"\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("VENUEADMIN_TEST_PASSWORD") })

	var out bytes.Buffer
	err = Run(context.Background(), []string{"-env-file", env, "-config", conf, "login"}, &out)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out.String(), "logged in"))
}
