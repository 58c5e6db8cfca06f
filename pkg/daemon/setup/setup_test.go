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

package setup

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wepmaps/venuemaps/pkg/cache/providers"
	"github.com/wepmaps/venuemaps/pkg/config"
	"github.com/wepmaps/venuemaps/pkg/daemon/instance"
	origin "github.com/wepmaps/venuemaps/pkg/origin/options"

	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

func testSite(t *testing.T) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/", "/index.html":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>venues</html>"))
		case "/script.js":
			w.Write([]byte("console.log(1)"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func testConfig(t *testing.T, origin string) *config.Config {
	t.Helper()
	c := config.NewConfig()
	c.Origin.URL = origin
	c.Frontend.ListenAddress = "127.0.0.1"
	c.Frontend.ListenPort = freePort(t)
	c.Frontend.DrainTimeout = time.Second
	c.Metrics.ListenAddress = "127.0.0.1"
	c.Metrics.ListenPort = freePort(t)
	c.Mgmt.ListenPort = freePort(t)
	c.Offline.Manifest = []string{"/", "/index.html", "/script.js"}
	require.NoError(t, c.Process())
	return c
}

func get(t *testing.T, port int, path string) (int, string) {
	t.Helper()
	var resp *http.Response
	var err error
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d%s", port, path))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestApplyConfig(t *testing.T) {
	site := testSite(t)
	conf := testConfig(t, site.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	si := &instance.ServerInstance{Context: ctx}
	reloads := 0
	hup := func(string) (bool, error) { reloads++; return false, nil }
	require.NoError(t, ApplyConfig(si, conf, hup, nil))
	defer lg.DrainAndCloseAll(time.Second)
	require.NotNil(t, si.Registration)
	require.Equal(t, conf, si.Config)

	require.Eventually(t, func() bool {
		return si.Registration.Active() != nil
	}, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, "v4", si.Registration.Active().Version())

	code, body := get(t, conf.Frontend.ListenPort, "/index.html")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "<html>venues</html>", body)

	code, body = get(t, conf.Frontend.ListenPort, conf.Mgmt.PingHandlerPath)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "pong", body)

	code, body = get(t, conf.Mgmt.ListenPort, conf.Mgmt.HealthHandlerPath+"?json")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `"active_version":"v4"`)

	code, _ = get(t, conf.Metrics.ListenPort, "/metrics")
	require.Equal(t, http.StatusOK, code)

	code, _ = get(t, conf.Mgmt.ListenPort, conf.Mgmt.ReloadHandlerPath)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1, reloads)

	// a new cache version installs a new controller on the same listeners
	next := conf.Clone()
	next.Offline.Version = "v5"
	require.NoError(t, ApplyConfig(si, next, hup, nil))
	require.Eventually(t, func() bool {
		c := si.Registration.Active()
		return c != nil && c.Version() == "v5"
	}, 5*time.Second, 20*time.Millisecond)
	require.Equal(t, []string{"wep-images-v5", "wep-static-v5"}, si.Registration.Status().Partitions)

	// the origin going away leaves the cached shell available
	site.Close()
	code, body = get(t, next.Frontend.ListenPort, "/index.html")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "<html>venues</html>", body)
}

func TestOfflineChanged(t *testing.T) {
	c := config.NewConfig()
	c.Origin.URL = "http://site:8000"
	require.NoError(t, c.Process())
	require.True(t, offlineChanged(nil, c))

	c2 := c.Clone()
	require.False(t, offlineChanged(c, c2))

	c2.Offline.Manifest = append(c2.Offline.Manifest, "/extra.js")
	require.True(t, offlineChanged(c, c2))

	c3 := c.Clone()
	c3.Origin.URL = "http://other:8000"
	require.True(t, offlineChanged(c, c3))

	c5 := c.Clone()
	c5.Origin.TLS = &origin.TLSOptions{InsecureSkipVerify: true}
	require.True(t, offlineChanged(c, c5))

	c4 := c.Clone()
	c4.Caches[c4.Offline.CacheName].Provider = "filesystem"
	c4.Caches[c4.Offline.CacheName].ProviderID = providers.FilesystemID
	require.True(t, offlineChanged(c, c4))
}

func TestHandleStartupIssue(t *testing.T) {
	var called bool
	handleStartupIssue("boom", nil, func() { called = true })
	require.True(t, called)
	called = false
	handleStartupIssue("boom", nil, nil)
	require.False(t, called)
}
