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

package redis

import "testing"

func TestClientTypeString(t *testing.T) {
	tests := []struct {
		ct       clientType
		expected string
	}{
		{clientTypeStandard, "standard"},
		{clientTypeCluster, "cluster"},
		{clientTypeSentinel, "sentinel"},
		{clientType(9), "9"},
	}
	for _, test := range tests {
		if got := test.ct.String(); got != test.expected {
			t.Errorf("expected %s got %s", test.expected, got)
		}
	}
}

func TestClientTypeFromString(t *testing.T) {
	if clientTypeFromString(" Cluster ") != clientTypeCluster {
		t.Error("expected cluster")
	}
	if clientTypeFromString("sentinel") != clientTypeSentinel {
		t.Error("expected sentinel")
	}
	if clientTypeFromString("bogus") != clientTypeStandard {
		t.Error("expected standard fallback")
	}
}
