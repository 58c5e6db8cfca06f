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

package status

import "testing"

func TestLookupStatusString(t *testing.T) {
	tests := map[LookupStatus]string{
		LookupStatusHit:         "hit",
		LookupStatusKeyMiss:     "kmiss",
		LookupStatusFallback:    "fallback",
		LookupStatusPlaceholder: "placeholder",
		LookupStatus(99):        "99",
	}
	for s, expected := range tests {
		if s.String() != expected {
			t.Errorf("expected %s got %s", expected, s.String())
		}
	}
}
