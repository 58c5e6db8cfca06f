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

// Package dataapi is a client for the venue map Data API, the
// authoritative store behind the admin editor
package dataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/observability/metrics"
	"github.com/wepmaps/venuemaps/pkg/observability/tracing"
	"github.com/wepmaps/venuemaps/pkg/proxy/headers"
	"github.com/wepmaps/venuemaps/pkg/storage"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TokenKey is the session storage key holding the bearer token
const TokenKey = "adminToken"

// maxErrorBody bounds how much of an error response is read
const maxErrorBody = 64 << 10

// ErrLoginFailed is returned when the Data API rejects a password
var ErrLoginFailed = errors.New("login failed")

// Error is a non-2xx response from the Data API
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("data api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("data api: status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized returns true if err is a 401 from the Data API
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusUnauthorized
}

// Client calls the Data API. The bearer token lives in session storage.
type Client struct {
	base    *url.URL
	http    *http.Client
	session storage.Store
	tracer  *tracing.Tracer
}

// New returns a Client for the Data API at base. A nil tracer records nothing.
func New(base *url.URL, timeout time.Duration, session storage.Store, tracer *tracing.Tracer) *Client {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		session: session,
		tracer:  tracer,
	}
}

func (c *Client) token() string {
	t, ok, err := c.session.Get(TokenKey)
	if err != nil || !ok {
		return ""
	}
	return t
}

func (c *Client) url(p string) string {
	u := *c.base
	u.Path = path.Join("/", c.base.Path, p)
	return u.String()
}

// Do sends a JSON request to the Data API and decodes the JSON response
// into out when out is non-nil
func (c *Client) Do(ctx context.Context, method, p string, body, out any) error {
	return c.call(ctx, "call", method, p, body, out)
}

func (c *Client) call(ctx context.Context, op, method, p string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	return c.send(ctx, op, method, p, headers.ValueApplicationJSON, r, out)
}

func (c *Client) send(ctx context.Context, op, method, p, contentType string,
	body io.Reader, out any) error {

	ctx, span := c.tracer.Start(ctx, "dataapi."+op, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", method),
			attribute.String("http.route", p)))
	req, err := http.NewRequestWithContext(ctx, method, c.url(p), body)
	if err != nil {
		tracing.EndHTTPSpan(span, 0, err)
		return err
	}
	if body != nil {
		req.Header.Set(headers.NameContentType, contentType)
	}
	req.Header.Set(headers.NameAccept, headers.ValueApplicationJSON)
	if t := c.token(); t != "" {
		req.Header.Set(headers.NameAuthorization, "Bearer "+t)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues(op, "error").Inc()
		tracing.EndHTTPSpan(span, 0, err)
		return err
	}
	defer resp.Body.Close()
	metrics.APIRequests.WithLabelValues(op, codeClass(resp.StatusCode)).Inc()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &Error{StatusCode: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if json.Unmarshal(b, &eb) == nil {
			e.Message = eb.Error
		}
		tracing.EndHTTPSpan(span, resp.StatusCode, e)
		logger.Debug("data api request failed", logging.Pairs{"operation": op,
			"method": method, "path": p, "status": resp.StatusCode})
		return e
	}
	tracing.EndHTTPSpan(span, resp.StatusCode, nil)
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("data api: decoding %s response: %w", op, err)
	}
	return nil
}

func codeClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}

// Login exchanges the admin password for a bearer token, which is kept
// in session storage
func (c *Client) Login(ctx context.Context, password string) error {
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Error   string `json:"error"`
	}
	err := c.call(ctx, "login", http.MethodPost, "/api/auth/login",
		map[string]string{"password": password}, &resp)
	if IsUnauthorized(err) {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if err != nil {
		return err
	}
	if !resp.Success || resp.Token == "" {
		return fmt.Errorf("%w: %s", ErrLoginFailed, resp.Error)
	}
	return c.session.Set(TokenKey, resp.Token)
}

// Logout ends the session. The stored token is cleared even when the
// Data API cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, "logout", http.MethodPost, "/api/auth/logout", nil, nil)
	if rerr := c.session.Remove(TokenKey); rerr != nil {
		return rerr
	}
	return err
}

// Verify reports whether the stored token is still valid
func (c *Client) Verify(ctx context.Context) (bool, error) {
	if c.token() == "" {
		return false, nil
	}
	var resp struct {
		Valid bool `json:"valid"`
	}
	err := c.call(ctx, "verify", http.MethodGet, "/api/auth/verify", nil, &resp)
	if IsUnauthorized(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

// GenerateHTML asks the Data API to regenerate the public category pages
// and returns the generated file names
func (c *Client) GenerateHTML(ctx context.Context) ([]string, error) {
	var resp struct {
		Success bool     `json:"success"`
		Files   []string `json:"files"`
	}
	if err := c.call(ctx, "generate_html", http.MethodPost, "/api/generate-html", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// Upload stores a location image and returns its site-relative path
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	return c.upload(ctx, "upload", "/api/upload", filename, r)
}

// UploadMap stores a map image and returns its site-relative path
func (c *Client) UploadMap(ctx context.Context, filename string, r io.Reader) (string, error) {
	return c.upload(ctx, "upload_map", "/api/upload/map", filename, r)
}

func (c *Client) upload(ctx context.Context, op, p, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	var resp struct {
		Success  bool   `json:"success"`
		Filename string `json:"filename"`
	}
	if err := c.send(ctx, op, http.MethodPost, p, mw.FormDataContentType(), &buf, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Filename == "" {
		return "", fmt.Errorf("data api: upload of %s was not accepted", filename)
	}
	return resp.Filename, nil
}

// route fills the entity IDs into a Data API path
func route(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
