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

// Package controller implements the offline cache controller: it
// intercepts same-origin GETs and answers them from two versioned cache
// partitions according to the resource class of each request
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/wepmaps/venuemaps/pkg/cache/status"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/observability/metrics"
	"github.com/wepmaps/venuemaps/pkg/offline/classify"
	"github.com/wepmaps/venuemaps/pkg/offline/document"
	"github.com/wepmaps/venuemaps/pkg/offline/options"
	"github.com/wepmaps/venuemaps/pkg/offline/partition"
	"github.com/wepmaps/venuemaps/pkg/offline/upstream"
	"github.com/wepmaps/venuemaps/pkg/proxy/headers"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrOffline is returned when the origin is unreachable and no cached
	// or fallback response exists
	ErrOffline = errors.New("origin unreachable and no cached response")
	// ErrNotInstalled is returned by operations that need an installed controller
	ErrNotInstalled = errors.New("cache controller is not installed")
	// ErrInstallFailed wraps the first manifest fetch that failed during install
	ErrInstallFailed = errors.New("cache controller install failed")
	// ErrCrossOrigin is returned for a cross-origin request when those are not allowed
	ErrCrossOrigin = errors.New("cross-origin request refused")
)

// installConcurrency bounds the concurrent manifest fetches during install
const installConcurrency = 8

// policyProxy labels requests that were forwarded without interception
const policyProxy = "proxy"

// Outcome describes how a request was answered
type Outcome struct {
	Policy    string
	Status    status.LookupStatus
	Partition string
}

// Controller is one versioned instance of the offline cache controller
type Controller struct {
	opts       *options.Options
	store      *partition.Store
	fetcher    *upstream.Fetcher
	classifier *classify.Classifier
	static     string
	images     string

	mu    sync.RWMutex
	state State

	bg       sync.WaitGroup
	sf       singleflight.Group
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// New returns a Controller in the New state
func New(opts *options.Options, store *partition.Store, fetcher *upstream.Fetcher) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		opts:       opts,
		store:      store,
		fetcher:    fetcher,
		classifier: classify.New(opts.Manifest),
		static:     opts.StaticPartition(),
		images:     opts.ImagePartition(),
		bgCtx:      ctx,
		bgCancel:   cancel,
	}
}

// Version returns the cache version tag of the controller
func (c *Controller) Version() string {
	return c.opts.Version
}

// Partitions returns the static and image partition names
func (c *Controller) Partitions() (string, string) {
	return c.static, c.images
}

// State returns the current lifecycle state
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Install fetches every manifest path and, only when all of them
// succeed with a 2xx response, stores them in the static partition
func (c *Controller) Install(ctx context.Context) error {
	if s := c.State(); s != StateNew {
		return fmt.Errorf("%w: controller is %s", ErrInstallFailed, s)
	}
	c.setState(StateInstalling)
	err := c.install(ctx)
	if err != nil {
		c.setState(StateNew)
		metrics.OfflineLifecycle.WithLabelValues("install", "failure").Inc()
		logger.Error("cache controller install failed",
			logging.Pairs{"version": c.Version(), "detail": err.Error()})
		return err
	}
	c.setState(StateInstalled)
	metrics.OfflineLifecycle.WithLabelValues("install", "success").Inc()
	logger.Info("cache controller installed",
		logging.Pairs{"version": c.Version(), "assets": len(c.opts.Manifest)})
	return nil
}

func (c *Controller) install(ctx context.Context) error {
	docs := make([]*document.Document, len(c.opts.Manifest))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(installConcurrency)
	for i, p := range c.opts.Manifest {
		g.Go(func() error {
			d, err := c.fetcher.Fetch(gctx, nil, p, c.classifier.Classify(p))
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrInstallFailed, p, err)
			}
			if !d.IsSuccess() {
				return fmt.Errorf("%w: %s returned %d", ErrInstallFailed, p, d.StatusCode)
			}
			docs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := c.store.Open(c.static); err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}
	if err := c.store.Open(c.images); err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}
	for i, p := range c.opts.Manifest {
		if err := c.store.Put(c.static, partition.PathKey(p), docs[i]); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInstallFailed, p, err)
		}
	}
	return nil
}

// Activate deletes every partition other than this controller's static
// and image partitions, then starts intercepting requests
func (c *Controller) Activate(ctx context.Context) error {
	switch c.State() {
	case StateActive:
		return nil
	case StateInstalled:
	default:
		return ErrNotInstalled
	}
	names, err := c.store.Names()
	if err != nil {
		metrics.OfflineLifecycle.WithLabelValues("activate", "failure").Inc()
		return err
	}
	for _, name := range names {
		if name == c.static || name == c.images {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.store.Delete(name); err != nil {
			metrics.OfflineLifecycle.WithLabelValues("activate", "failure").Inc()
			return err
		}
		metrics.OfflinePartitionsDeleted.Inc()
		logger.Info("deleted old cache partition", logging.Pairs{"partition": name})
	}
	c.setState(StateActive)
	metrics.OfflineLifecycle.WithLabelValues("activate", "success").Inc()
	logger.Info("cache controller activated", logging.Pairs{"version": c.Version()})
	return nil
}

// Warm fetches each URL in the background and stores 2xx responses in the
// image partition. Per-URL failures are logged and otherwise ignored.
func (c *Controller) Warm(ctx context.Context, urls []string) error {
	switch c.State() {
	case StateInstalled, StateActive:
	default:
		return ErrNotInstalled
	}
	// keep the caller's trace but not its cancellation
	bgCtx := trace.ContextWithSpan(c.bgCtx, trace.SpanFromContext(ctx))
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || !c.fetcher.SameOrigin(u) {
			logger.Debug("skipping warm-up url", logging.Pairs{"url": raw})
			continue
		}
		uri := u.RequestURI()
		c.bg.Add(1)
		go func() {
			defer c.bg.Done()
			c.refresh(bgCtx, nil, c.images, partition.PathKey(uri), uri, classify.Image)
		}()
	}
	return nil
}

// Wait blocks until every background revalidation and warm-up has finished
func (c *Controller) Wait() {
	c.bg.Wait()
}

// retire marks the controller redundant once its in-flight cache writes
// have finished. It returns the state it replaced.
func (c *Controller) retire() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.state
	c.state = StateRedundant
	return prev
}

// Close retires the controller: background work is cancelled and awaited
func (c *Controller) Close() {
	c.retire()
	c.bgCancel()
	c.bg.Wait()
}

// revalidate refreshes key in the background. Overlapping refreshes of
// one key collapse into a single upstream fetch.
func (c *Controller) revalidate(r *http.Request, name, key string, class classify.Class) {
	inbound := &http.Request{Header: r.Header.Clone(), RemoteAddr: r.RemoteAddr,
		Host: r.Host, TLS: r.TLS}
	uri := r.URL.RequestURI()
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		c.refresh(c.bgCtx, inbound, name, key, uri, class)
	}()
}

func (c *Controller) refresh(ctx context.Context, inbound *http.Request,
	name, key, uri string, class classify.Class) {
	c.sf.Do(name+"/"+key, func() (any, error) {
		d, err := c.fetcher.Fetch(ctx, inbound, uri, class)
		switch {
		case err != nil:
			metrics.OfflineRevalidations.WithLabelValues(name, "error").Inc()
			logger.Debug("background fetch failed",
				logging.Pairs{"partition": name, "key": key, "detail": err.Error()})
		case !d.IsSuccess():
			metrics.OfflineRevalidations.WithLabelValues(name, "skipped").Inc()
		default:
			if err := c.write(name, key, d); err != nil {
				metrics.OfflineRevalidations.WithLabelValues(name, "error").Inc()
				logger.Warn("background cache write failed",
					logging.Pairs{"partition": name, "key": key, "detail": err.Error()})
				break
			}
			metrics.OfflineRevalidations.WithLabelValues(name, "updated").Inc()
		}
		return nil, nil
	})
}

// Intercepts returns true if r is answered by a caching policy rather
// than forwarded unchanged
func (c *Controller) Intercepts(r *http.Request) bool {
	return r.Method == http.MethodGet && c.fetcher.SameOrigin(r.URL) && c.State() == StateActive
}

// Intercept answers r. Requests that are not intercepted are forwarded to
// the network and never cached.
func (c *Controller) Intercept(ctx context.Context, r *http.Request) (*document.Document, error) {
	d, _, err := c.intercept(ctx, r)
	return d, err
}

func (c *Controller) intercept(ctx context.Context, r *http.Request) (*document.Document, Outcome, error) {
	if !c.Intercepts(r) {
		return c.forwardDocument(ctx, r)
	}
	class := c.classifier.Classify(r.URL.Path)
	var d *document.Document
	var out Outcome
	var err error
	switch class {
	case classify.Image:
		d, out, err = c.cacheFirstImage(ctx, r)
	case classify.StaticAsset:
		d, out, err = c.cacheFirstWithUpdate(ctx, r)
	case classify.Other:
		d, out, err = c.networkFirst(ctx, r)
	default:
		panic("unhandled resource class " + class.String())
	}
	out.Policy = class.String()
	metrics.OfflineLookups.WithLabelValues(out.Partition, out.Policy, out.Status.String()).Inc()
	return d, out, err
}

func (c *Controller) match(name, key string) *document.Document {
	d, _, err := c.store.Match(name, key)
	if err != nil {
		logger.Warn("cache lookup failed",
			logging.Pairs{"partition": name, "key": key, "detail": err.Error()})
		return nil
	}
	return d
}

// write stores d unless the controller has been retired. The read lock
// is held across the store write so retire waits for writes in flight.
func (c *Controller) write(name, key string, d *document.Document) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateInstalled && c.state != StateActive {
		logger.Debug("dropping cache write",
			logging.Pairs{"partition": name, "key": key, "state": c.state.String()})
		return nil
	}
	return c.store.Put(name, key, d)
}

func (c *Controller) put(name, key string, d *document.Document) {
	if err := c.write(name, key, d); err != nil {
		logger.Warn("cache write failed",
			logging.Pairs{"partition": name, "key": key, "detail": err.Error()})
	}
}

func (c *Controller) cacheFirstImage(ctx context.Context, r *http.Request) (*document.Document, Outcome, error) {
	key := partition.RequestKey(r)
	out := Outcome{Partition: c.images}
	if d := c.match(c.images, key); d != nil {
		if *c.opts.RevalidateImages {
			c.revalidate(r, c.images, key, classify.Image)
		}
		out.Status = status.LookupStatusHit
		return d, out, nil
	}
	d, err := c.fetcher.Fetch(ctx, r, r.URL.RequestURI(), classify.Image)
	if err != nil {
		out.Status = status.LookupStatusPlaceholder
		return document.Placeholder(), out, nil
	}
	if d.IsSuccess() {
		c.put(c.images, key, d)
	}
	out.Status = status.LookupStatusKeyMiss
	return d, out, nil
}

func (c *Controller) cacheFirstWithUpdate(ctx context.Context, r *http.Request) (*document.Document, Outcome, error) {
	key := partition.RequestKey(r)
	out := Outcome{Partition: c.static}
	if d := c.match(c.static, key); d != nil {
		if *c.opts.RevalidateStatic {
			c.revalidate(r, c.static, key, classify.StaticAsset)
		}
		out.Status = status.LookupStatusHit
		return d, out, nil
	}
	d, err := c.fetcher.Fetch(ctx, r, r.URL.RequestURI(), classify.StaticAsset)
	if err != nil {
		out.Status = status.LookupStatusError
		return nil, out, err
	}
	if d.IsSuccess() {
		c.put(c.static, key, d)
	}
	out.Status = status.LookupStatusKeyMiss
	return d, out, nil
}

func (c *Controller) networkFirst(ctx context.Context, r *http.Request) (*document.Document, Outcome, error) {
	key := partition.RequestKey(r)
	out := Outcome{Partition: c.static}
	d, err := c.fetcher.Fetch(ctx, r, r.URL.RequestURI(), classify.Other)
	if err == nil {
		if d.IsSuccess() {
			c.put(c.static, key, d)
		}
		out.Status = status.LookupStatusNetwork
		return d, out, nil
	}
	if cd := c.match(c.static, key); cd != nil {
		out.Status = status.LookupStatusFallback
		return cd, out, nil
	}
	if headers.AcceptsHTML(r) {
		if fd := c.match(c.static, partition.PathKey(c.opts.FallbackDocument)); fd != nil {
			out.Status = status.LookupStatusFallback
			return fd, out, nil
		}
	}
	out.Status = status.LookupStatusError
	return nil, out, fmt.Errorf("%w: %w", ErrOffline, err)
}

func (c *Controller) target(r *http.Request) (*url.URL, error) {
	if c.fetcher.SameOrigin(r.URL) {
		return c.fetcher.URL(r.URL.RequestURI())
	}
	if !c.opts.AllowCrossOrigin {
		return nil, ErrCrossOrigin
	}
	return r.URL, nil
}

func (c *Controller) forwardDocument(ctx context.Context, r *http.Request) (*document.Document, Outcome, error) {
	out := Outcome{Policy: policyProxy, Status: status.LookupStatusProxyOnly}
	u, err := c.target(r)
	if err != nil {
		out.Status = status.LookupStatusProxyError
		return nil, out, err
	}
	resp, err := c.fetcher.Forward(ctx, r, u)
	if err != nil {
		out.Status = status.LookupStatusProxyError
		return nil, out, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		out.Status = status.LookupStatusProxyError
		return nil, out, err
	}
	return document.FromResponse(resp, body), out, nil
}

// ServeHTTP adapts the controller to http.Handler
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !c.Intercepts(r) {
		c.forward(w, r)
		return
	}
	d, out, err := c.intercept(r.Context(), r)
	headers.SetResultsHeader(w.Header(), out.Policy, out.Status.String(), out.Partition)
	if err != nil {
		logger.Warn("request failed", logging.Pairs{"path": r.URL.Path,
			"policy": out.Policy, "detail": err.Error()})
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	if err := d.Write(w); err != nil {
		logger.Debug("response write failed",
			logging.Pairs{"path": r.URL.Path, "detail": err.Error()})
	}
}

// forward streams a request that is not intercepted to the network
func (c *Controller) forward(w http.ResponseWriter, r *http.Request) {
	u, err := c.target(r)
	if err != nil {
		proxyError(w, http.StatusForbidden)
		return
	}
	resp, err := c.fetcher.Forward(r.Context(), r, u)
	if err != nil {
		logger.Warn("proxy request failed", logging.Pairs{"method": r.Method,
			"path": r.URL.Path, "detail": err.Error()})
		proxyError(w, http.StatusBadGateway)
		return
	}
	stream(w, resp)
}

func proxyError(w http.ResponseWriter, code int) {
	headers.SetResultsHeader(w.Header(), policyProxy, status.LookupStatusProxyError.String(), "")
	http.Error(w, http.StatusText(code), code)
}

// stream copies an unbuffered origin response to w and closes its body
func stream(w http.ResponseWriter, resp *http.Response) {
	defer resp.Body.Close()
	h := w.Header()
	headers.Merge(h, resp.Header)
	headers.StripHopHeaders(h)
	headers.SetResultsHeader(h, policyProxy, status.LookupStatusProxyOnly.String(), "")
	if resp.ContentLength >= 0 {
		h.Set(headers.NameContentLength, strconv.FormatInt(resp.ContentLength, 10))
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.Debug("proxy response copy failed",
			logging.Pairs{"status": resp.StatusCode, "detail": err.Error()})
	}
}
