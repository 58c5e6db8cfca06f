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

// Package admin runs the venueadmin command line tool, which curates the
// venue dataset through the Data API with local draft recovery
package admin

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"

	"github.com/wepmaps/venuemaps/pkg/appinfo"
	"github.com/wepmaps/venuemaps/pkg/cache"
	"github.com/wepmaps/venuemaps/pkg/cache/registry"
	"github.com/wepmaps/venuemaps/pkg/config"
	"github.com/wepmaps/venuemaps/pkg/dataapi"
	"github.com/wepmaps/venuemaps/pkg/draft"
	"github.com/wepmaps/venuemaps/pkg/editor"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/observability/tracing"
	"github.com/wepmaps/venuemaps/pkg/storage"

	"github.com/joho/godotenv"
)

// ErrNoPassword is returned when a command needs a login and no admin
// password is configured
var ErrNoPassword = errors.New("no admin password configured")

// ErrUsage is returned for a missing or malformed command
var ErrUsage = errors.New("invalid usage")

// App holds the clients one venueadmin invocation works with
type App struct {
	Config *config.Config
	Caches cache.Lookup
	Tracer *tracing.Tracer
	API    *dataapi.Client
	Drafts *draft.Manager
	Editor *editor.Session

	out io.Writer
}

// Open connects the draft caches and builds the Data API client, the
// draft manager and the editor session for cfg
func Open(cfg *config.Config, out io.Writer) (*App, error) {
	caches, err := registry.LoadCaches(cfg.CacheSubset(cfg.Draft.DurableCache,
		cfg.Draft.SessionCache))
	if err != nil {
		return nil, err
	}
	tr, err := tracing.New(cfg.Tracing, nil)
	if err != nil {
		registry.CloseCaches(caches)
		return nil, err
	}
	base, err := apiBase(cfg)
	if err != nil {
		registry.CloseCaches(caches)
		return nil, err
	}
	api := dataapi.New(base, cfg.Admin.Timeout,
		storage.New(caches[cfg.Draft.SessionCache]), tr)
	drafts := draft.New(storage.New(caches[cfg.Draft.DurableCache]), api,
		draft.WithOptions(cfg.Draft),
		draft.WithNotifier(draft.NotifierFunc(func(msg string, err error) {
			fmt.Fprintf(out, "warning: %s: %v\n", msg, err)
		})))
	return &App{
		Config: cfg,
		Caches: caches,
		Tracer: tr,
		API:    api,
		Drafts: drafts,
		Editor: editor.NewSession(drafts, api),
		out:    out,
	}, nil
}

// apiBase returns the Data API base URL, which defaults to the origin
func apiBase(cfg *config.Config) (*url.URL, error) {
	if cfg.Admin.APIBaseURL == "" {
		return cfg.Origin.Base(), nil
	}
	return url.Parse(cfg.Admin.APIBaseURL)
}

// Close releases the caches and flushes the tracer
func (a *App) Close() error {
	err := registry.CloseCaches(a.Caches)
	if terr := a.Tracer.Shutdown(context.Background()); terr != nil && err == nil {
		err = terr
	}
	return err
}

// Run parses args, loads the configuration and runs one command, writing
// its output to out
func Run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("venueadmin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var configPath, originURL, logLevel, envFile string
	fs.StringVar(&configPath, "config", "", "Path to venuemaps Config File")
	fs.StringVar(&originURL, "origin-url", "", "URL of the static venue site")
	fs.StringVar(&logLevel, "log-level", "", "Level of Logging to use")
	fs.StringVar(&envFile, "env-file", ".env", "File of environment variables to load")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() == 0 {
		printUsage(out)
		return ErrUsage
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		printUsage(out)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, fs.Arg(0))
	}
	if len(fs.Args())-1 < cmd.minArgs {
		return fmt.Errorf("%w: %s %s", ErrUsage, fs.Arg(0), cmd.args)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logger.Debug("no env file loaded", logging.Pairs{"path": envFile,
				"detail": err.Error()})
		}
	}

	var cargs []string
	if configPath != "" {
		cargs = append(cargs, "-config", configPath)
	}
	if originURL != "" {
		cargs = append(cargs, "-origin-url", originURL)
	}
	if logLevel != "" {
		cargs = append(cargs, "-log-level", logLevel)
	}
	cfg, _, err := config.Load(appinfo.Name, appinfo.Version, cargs)
	if err != nil {
		return err
	}
	logger.SetLogger(logging.New(cfg.Logging))
	defer logger.Logger().Close()
	for _, w := range cfg.LoaderWarnings {
		logger.Warn(w, nil)
	}

	a, err := Open(cfg, out)
	if err != nil {
		return err
	}
	defer a.Close()
	return cmd.run(ctx, a, fs.Args()[1:])
}

// login makes sure the session holds a valid token
func (a *App) login(ctx context.Context) error {
	ok, err := a.API.Verify(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	pw := a.Config.Admin.Password.String()
	if pw == "" {
		return ErrNoPassword
	}
	return a.API.Login(ctx, pw)
}

// resume makes a recent draft the working dataset, or loads the
// authoritative dataset when there is none. It reports whether a draft
// was resumed.
func (a *App) resume(ctx context.Context) (bool, error) {
	if d, ok := a.Drafts.CheckForRecovery(); ok {
		a.Drafts.Accept(d)
		fmt.Fprintf(a.out, "resuming draft saved %s\n", d.Timestamp.Format("2006-01-02 15:04:05"))
		return true, nil
	}
	return false, a.Drafts.Load(ctx)
}
