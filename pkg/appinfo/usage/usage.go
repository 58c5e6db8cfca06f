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

// Package usage prints the command line usage and version of venuemaps
package usage

import (
	"fmt"
	"io"
	"os"
	goruntime "runtime"

	"github.com/wepmaps/venuemaps/pkg/appinfo"
)

const usageText = `
Venuemaps Usage:

 Print Version Info:
  venuemaps -version

 Using a configuration file:
  venuemaps -config /path/to/venuemaps.yaml [-log-level debug|info|warn|error] [-proxy-port 8480] [-metrics-port 8481]

 Using the origin url only:
  venuemaps -origin-url http://site.example.com:8000 [-cache-version v5] [-proxy-port 8480]

 Validating a configuration file:
  venuemaps -config /path/to/venuemaps.yaml -validate-config

------

Venuemaps listens on port 8480 by default. Set in a config file, or override using -proxy-port.

Default log level is info. Set in a config file, or override with -log-level.

Send SIGHUP, or request the mgmt reload path, to apply an edited config file. A changed
offline cache version installs a new cache controller alongside the running one.
`

// Version returns the version line of the running binary
func Version() string {
	return fmt.Sprintf("%s version: %s, buildInfo: %s %s, goVersion: %s",
		appinfo.Name, appinfo.Version,
		appinfo.BuildTime, appinfo.GitCommitID,
		goruntime.Version(),
	)
}

// PrintVersion prints the version line to stdout
func PrintVersion() {
	fmt.Println(Version())
}

// PrintUsage prints the version line and usage text to stdout
func PrintUsage() {
	fprintUsage(os.Stdout)
}

func fprintUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Version())
	fmt.Fprintln(w, usageText)
}
