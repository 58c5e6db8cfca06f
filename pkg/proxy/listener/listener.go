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

// Package listener runs the named HTTP listeners of the daemon
package listener

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	verrors "github.com/wepmaps/venuemaps/pkg/errors"
	"github.com/wepmaps/venuemaps/pkg/observability/logging"
	"github.com/wepmaps/venuemaps/pkg/observability/logging/logger"
	"github.com/wepmaps/venuemaps/pkg/observability/metrics"
	ph "github.com/wepmaps/venuemaps/pkg/proxy/handlers"

	"golang.org/x/net/netutil"
)

// Listener is the venuemaps net.Listener implementation
type Listener struct {
	net.Listener
	routeSwapper *ph.SwitchHandler
	server       *http.Server
	exitOnError  bool
}

type observedConnection struct {
	*net.TCPConn
}

func (o *observedConnection) Close() error {
	err := o.TCPConn.Close()
	metrics.FrontendActiveConnections.Dec()
	metrics.FrontendConnections.WithLabelValues("closed").Inc()
	return err
}

// Accept implements Listener.Accept
func (l *Listener) Accept() (net.Conn, error) {

	metrics.FrontendConnections.WithLabelValues("requested").Inc()

	c, err := l.Listener.Accept()
	if err != nil {
		metrics.FrontendConnections.WithLabelValues("failed").Inc()
		return c, err
	}

	metrics.FrontendActiveConnections.Inc()
	metrics.FrontendConnections.WithLabelValues("accepted").Inc()

	// this is necessary for HTTP/2 to work
	if t, ok := c.(*net.TCPConn); ok {
		return &observedConnection{t}, nil
	}

	return c, nil
}

// RouteSwapper returns the RouteSwapper reference from the Listener
func (l *Listener) RouteSwapper() *ph.SwitchHandler {
	return l.routeSwapper
}

// Group is a collection of listeners
type Group struct {
	members       map[string]*Listener
	listenersLock sync.Mutex
}

// NewGroup returns a new Group
func NewGroup() *Group {
	return &Group{
		members: make(map[string]*Listener),
	}
}

// NewListener creates a new network listener which obeys the configured max
// connection limit and monitors connections with prometheus metrics.
//
// The limit is applied by wrapping the listener with netutil.LimitListener,
// which simply blocks waiting for resources to become available whenever
// clients go above the limit.
func NewListener(listenAddress string, listenPort, connectionsLimit int) (net.Listener, error) {

	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", listenAddress, listenPort))
	if err != nil {
		// so we can exit one level above, this usually means that the port is in use
		return nil, err
	}

	if connectionsLimit > 0 {
		listener = netutil.LimitListener(listener, connectionsLimit)
		metrics.FrontendMaxConnections.Set(float64(connectionsLimit))
	}

	logger.Debug("starting listener", logging.Pairs{
		"connectionsLimit": connectionsLimit,
		"address":          listenAddress,
		"port":             listenPort,
	})

	return listener, nil
}

// Get returns the listener if it exists
func (lg *Group) Get(name string) *Listener {
	lg.listenersLock.Lock()
	defer lg.listenersLock.Unlock()
	return lg.members[name]
}

// StartListener starts a new HTTP listener and adds it to the listener
// group. It blocks until the listener stops. When f is non-nil, a listener
// that fails while serving exits the process.
func (lg *Group) StartListener(listenerName, address string, port int, connectionsLimit int,
	router http.Handler, f func(), readHeaderTimeout time.Duration) error {
	l := &Listener{routeSwapper: ph.NewSwitchHandler(router), exitOnError: f != nil}

	var err error
	l.Listener, err = NewListener(address, port, connectionsLimit)
	if err != nil {
		logger.Error("http listener startup failed",
			logging.Pairs{"listenerName": listenerName, "detail": err})
		if f != nil {
			f()
		}
		return err
	}
	logger.Info("http listener starting",
		logging.Pairs{"listenerName": listenerName, "port": port, "address": address})

	svr := &http.Server{
		Handler:           l.routeSwapper,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	l.server = svr

	lg.listenersLock.Lock()
	lg.members[listenerName] = l
	lg.listenersLock.Unlock()

	err = svr.Serve(l)
	if err == http.ErrServerClosed {
		return nil
	}
	if err != nil {
		logger.Error("http listener stopping",
			logging.Pairs{"listenerName": listenerName, "detail": err})
		if l.exitOnError {
			defer func() {
				os.Exit(1) // exit via defer to allow prior defers to run
			}()
		}
	}
	return err
}

// DrainAndClose gracefully shuts down the named listener. In-flight
// requests have up to drainWait to complete.
func (lg *Group) DrainAndClose(listenerName string, drainWait time.Duration) error {
	lg.listenersLock.Lock()
	l, ok := lg.members[listenerName]
	if !ok || l == nil {
		lg.listenersLock.Unlock()
		return verrors.ErrNoSuchListener
	}
	l.exitOnError = false
	delete(lg.members, listenerName)
	lg.listenersLock.Unlock()
	if l.Listener == nil || l.server == nil {
		return verrors.ErrNilListener
	}
	ctx, cancel := context.WithTimeout(context.Background(), drainWait)
	defer cancel()
	return l.server.Shutdown(ctx)
}

// DrainAndCloseAll gracefully shuts down every listener in the group
func (lg *Group) DrainAndCloseAll(drainWait time.Duration) {
	lg.listenersLock.Lock()
	names := make([]string, 0, len(lg.members))
	for k := range lg.members {
		names = append(names, k)
	}
	lg.listenersLock.Unlock()
	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			if err := lg.DrainAndClose(n, drainWait); err != nil {
				logger.Warn("listener shutdown failed",
					logging.Pairs{"listenerName": n, "detail": err.Error()})
			}
		}(n)
	}
	wg.Wait()
}

// UpdateRouter will swap out the router for the listener with the provided name
func (lg *Group) UpdateRouter(listenerName string, router http.Handler) {
	lg.listenersLock.Lock()
	defer lg.listenersLock.Unlock()
	if r, ok := lg.members[listenerName]; ok {
		r.routeSwapper.Update(router)
	}
}
