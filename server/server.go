/*
 * MIT License
 *
 * Copyright (c) 2021 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package server is the base connection acceptor: it binds a listening
// socket, runs an interruptible accept loop (polling a shutdown flag
// rather than blocking forever), wraps each accepted connection in TLS
// when configured, and hands it to a prehandler.Handler on its own
// goroutine. Thread-per-connection, parallel, no cooperative suspension.
package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/nabbar/netframe/logger"
	"github.com/nabbar/netframe/network"
	"github.com/nabbar/netframe/prehandler"
	"github.com/nabbar/netframe/tlscontext"
)

const acceptPollInterval = 500 * time.Millisecond

// Server is a single listening address with its own lifecycle. It is
// safe to call Start and Terminate from any goroutine; the "has-started"
// bit is guarded by a lock so the two races documented in spec.md §4.1
// cannot both succeed.
type Server struct {
	mu sync.Mutex

	cfg    Config
	pre    *prehandler.Handler
	tlsCtx *tlscontext.Context

	listener net.Listener
	port     int
	started  bool
	shutdown bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Server. tlsCtx may be nil for a plain TCP listener; when
// non-nil, every accepted connection is wrapped in TLS before being
// handed to pre.
func New(cfg Config, pre *prehandler.Handler, tlsCtx *tlscontext.Context) *Server {
	return &Server{cfg: cfg, pre: pre, tlsCtx: tlsCtx}
}

// Start binds the listener and runs the accept loop. When detached is
// true the loop runs on its own goroutine and Start returns immediately;
// otherwise Start blocks until Terminate is called.
//
// Race protocol (spec.md §4.1): acquire the lock; if the shutdown flag
// is already set, return without starting; if already started, return;
// otherwise mark started, bind, and release the lock before running the
// loop — Terminate never blocks on the loop itself while holding it.
func (s *Server) Start(detached bool) error {
	s.mu.Lock()

	if s.shutdown {
		s.mu.Unlock()
		return nil
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}

	proto := network.Resolve(s.cfg.Host, s.cfg.Protocol)
	addr := network.JoinHostPort(s.cfg.Host, s.cfg.Port)

	ln, err := net.Listen(string(proto), addr)
	if err != nil {
		s.mu.Unlock()
		return ErrorListen.ErrorParent(err)
	}

	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.listener = ln
	s.cancel = cancel
	s.started = true

	s.mu.Unlock()

	if detached {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.acceptLoop(ctx)
		}()
		return nil
	}

	s.acceptLoop(ctx)
	return nil
}

// Terminate sets the termination signal and the shutdown flag, closes
// the listener, and waits for every accepted connection's worker and the
// accept loop itself (if started detached) to finish. Safe to call
// before, during, or after Start.
func (s *Server) Terminate() error {
	s.mu.Lock()
	s.shutdown = true

	if s.cancel != nil {
		s.cancel()
	}

	ln := s.listener
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}

	s.wg.Wait()
	return nil
}

// Port returns the bound listening port, including an OS-assigned
// ephemeral port resolved from a configured Port of 0. Zero before Start.
func (s *Server) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		if dl, ok := s.listener.(interface{ SetDeadline(time.Time) error }); ok {
			_ = dl.SetDeadline(time.Now().Add(acceptPollInterval))
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			logger.WarnLevel.Logf("server: accept failed: %v", err)
			continue
		}

		conn = s.wrapTLS(conn)
		if conn == nil {
			continue
		}

		acceptedTotal.Inc()

		s.wg.Add(1)
		go func(c net.Conn) {
			defer s.wg.Done()
			activeConnections.Inc()
			defer activeConnections.Dec()
			s.pre.Serve(ctx, c)
		}(conn)
	}
}

// wrapTLS reloads the TLS context if its certificate is within the
// expiry margin, then performs the server-side handshake wrap. Returns
// nil (after closing conn) when the context has no chain loaded or the
// handshake setup fails; a reload failure is logged but does not stop
// the server from serving with the stale context, per spec.md §4.2.
func (s *Server) wrapTLS(conn net.Conn) net.Conn {
	if s.tlsCtx == nil {
		return conn
	}

	if _, err := s.tlsCtx.ReloadIfExpired(); err != nil {
		tlsReloadFailuresTotal.Inc()
		logger.ErrorLevel.Logf("server: tls reload failed, continuing with stale context: %v", err)
	}

	tconn, err := s.tlsCtx.Wrap(conn, true, "")
	if err != nil {
		logger.ErrorLevel.Logf("server: tls wrap failed: %v", err)
		_ = conn.Close()
		return nil
	}

	return tconn
}
