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

package usage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wepmaps/venuemaps/pkg/appinfo"
)

func TestVersion(t *testing.T) {
	appinfo.Set("venuemaps", "1.2.3", "now", "abc123")
	v := Version()
	for _, s := range []string{"venuemaps", "1.2.3", "abc123"} {
		if !strings.Contains(v, s) {
			t.Errorf("expected %q in %q", s, v)
		}
	}
}

func TestUsage(t *testing.T) {
	buf := &bytes.Buffer{}
	fprintUsage(buf)
	if !strings.Contains(buf.String(), "-validate-config") {
		t.Error("expected usage text")
	}
}
