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

// Package health provides an application-wide health handler endpoint
// that is usually mapped to /venuemaps/health and reports the active and
// waiting offline cache controllers
package health

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/wepmaps/venuemaps/pkg/offline/controller"
	"github.com/wepmaps/venuemaps/pkg/proxy/headers"
)

const title = "Venuemaps Offline Cache Status"

// Reporter is the part of a controller.Registration the handler reads
type Reporter interface {
	Status() controller.Status
	Active() *controller.Controller
}

type detail struct {
	controller.Status
	Title      string `json:"title"`
	UpdateTime string `json:"updateTime"`
	State      string `json:"state"`
}

// StatusHandler returns an http.Handler that prints the real-time status
// of the provided Registration. The body is JSON when the client sends an
// Accept header of application/json or the query param ?json.
func StatusHandler(reg Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := detail{
			Status:     reg.Status(),
			Title:      title,
			UpdateTime: time.Now().Truncate(time.Second).UTC().Format(time.RFC3339),
			State:      "passthrough",
		}
		if c := reg.Active(); c != nil {
			d.State = c.State().String()
		}
		code := http.StatusOK
		if d.ActiveVersion == "" {
			code = http.StatusServiceUnavailable
		}
		var body []byte
		if r.Header.Get(headers.NameAccept) == headers.ValueApplicationJSON ||
			strings.Contains(r.URL.RawQuery, "json") {
			body, _ = json.Marshal(d)
			w.Header().Set(headers.NameContentType, headers.ValueApplicationJSON)
		} else {
			body = text(d)
			w.Header().Set(headers.NameContentType, headers.ValueTextPlain)
		}
		w.Header().Set(headers.NameCacheControl, headers.ValueNoCache)
		w.WriteHeader(code)
		w.Write(body)
	})
}

func text(d detail) []byte {
	txt := &bytes.Buffer{}
	fmt.Fprintf(txt, "\n%s            as of: %s\n", title, d.UpdateTime)
	txt.WriteString("-------------------------------------------------------------------------------\n\n")
	tw := tabwriter.NewWriter(txt, 10, 10, 3, ' ', 0)
	fmt.Fprintf(tw, "active\t%s\t%s\n", orNone(d.ActiveVersion), d.State)
	fmt.Fprintf(tw, "waiting\t%s\t\n", orNone(d.WaitingVersion))
	for _, p := range d.Partitions {
		fmt.Fprintf(tw, "partition\t%s\t\n", p)
	}
	tw.Flush()
	txt.WriteString("-------------------------------------------------------------------------------\n")
	fmt.Fprintf(txt, "You can also provide a '%s: %s' Header or query param ?json\n",
		headers.NameAccept, headers.ValueApplicationJSON)
	return txt.Bytes()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
