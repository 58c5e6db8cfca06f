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
	"strings"
)

// ResultHeaderParts defines the components for building the venuemaps Result Header
type ResultHeaderParts struct {
	Policy    string
	Status    string
	Partition string
}

func (p ResultHeaderParts) String() string {
	var sb strings.Builder
	sb.WriteString("policy=" + p.Policy)
	if p.Status != "" {
		sb.WriteString("; status=" + p.Status)
	}
	if p.Partition != "" {
		sb.WriteString("; partition=" + p.Partition)
	}
	return sb.String()
}

// SetResultsHeader adds a response header summarizing the cache handling of the HTTP request
func SetResultsHeader(headers http.Header, policy, status, partition string) {
	if headers == nil || policy == "" {
		return
	}
	p := ResultHeaderParts{Policy: policy, Status: status, Partition: partition}
	headers.Set(NameVenuemapsResult, p.String())
}

// ParseResultHeader parses a venuemaps Result Header value
func ParseResultHeader(value string) ResultHeaderParts {
	var p ResultHeaderParts
	for _, part := range strings.Split(value, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "policy":
			p.Policy = v
		case "status":
			p.Status = v
		case "partition":
			p.Partition = v
		}
	}
	return p
}
