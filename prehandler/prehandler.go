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

// Package prehandler is the per-connection TCP + HTTP entry point: it reads
// one request line and its headers off a raw net.Conn, validates them,
// builds a chain.Request, invokes the root downstream handler, and
// serializes the Response back onto the wire, looping while the connection
// stays keep-alive. It deliberately does not use net/http's server or
// routing machinery — the hand-rolled request line/header parsing is the
// framework's own deliverable, not a concern outsourced to a library.
package prehandler

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/nabbar/netframe/chain"
	"github.com/nabbar/netframe/hostfield"
	"github.com/nabbar/netframe/logger"
)

const (
	maxRequestLineBytes = 65536
	readTotalTimeout    = 2 * time.Second
	readPollInterval    = 500 * time.Millisecond
	headerReadTimeout   = 10 * time.Second
	writeTimeout        = 10 * time.Second
)

var errRequestLineTooLong = ErrorRequestLineTooLong.Error(nil)

// Handler is a configured Pre-Handler: it owns the validation rules and a
// reference to the server-wide root handler and shared HandlerState, and
// is reused across every accepted connection.
type Handler struct {
	cfg  Config
	root chain.Handler
	hs   *chain.HandlerState
}

// New builds a Pre-Handler. root is the outermost stage of the composed
// middleware chain — usually the result of chain.Chain(...)(leaf).
func New(cfg Config, root chain.Handler, hs *chain.HandlerState) *Handler {
	return &Handler{cfg: cfg, root: root, hs: hs}
}

// Serve runs the read-validate-dispatch-emit loop for one accepted
// connection until the connection closes, the request is not keep-alive,
// or ctx is done. It always closes conn before returning.
func (h *Handler) Serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	clientIP, clientPort := splitHostPort(conn.RemoteAddr())

	br := bufio.NewReader(conn)
	tp := textproto.NewReader(br)

	for {
		if ctx.Err() != nil {
			return
		}

		line, err := h.readRequestLine(ctx, conn, tp)
		if err != nil {
			h.writeStatusOnly(conn, 414, "URI Too Long")
			return
		}
		if line == "" {
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(headerReadTimeout))

		method, target, _, ok := parseRequestLine(line)
		if !ok {
			h.writeStatusOnly(conn, 400, "Bad Request")
			return
		}

		mimeHeader, hdrErr := tp.ReadMIMEHeader()
		if hdrErr != nil && len(mimeHeader) == 0 {
			return
		}

		headers := chain.NewHeader()
		for k, vs := range mimeHeader {
			for _, v := range vs {
				headers.Add(k, v)
			}
		}

		if _, ok := h.cfg.methodSet()[strings.ToUpper(method)]; !ok {
			h.writeStatusOnly(conn, 400, "Bad Request")
			return
		}

		hostValues := headers.Get("Host")
		if len(hostValues) == 0 {
			h.writeStatusOnly(conn, 400, "Bad Request")
			return
		}

		hf, e := hostfield.Parse(hostValues[0], h.cfg.DefaultPort)
		if e != nil {
			h.writeStatusOnly(conn, 400, "Bad Request")
			return
		}

		if !validRequestTarget(target) {
			h.writeStatusOnly(conn, 400, "Bad Request")
			return
		}

		path, query := splitPathQuery(target)

		reqState := chain.NewRequestState()
		reqState.ClientIP = clientIP
		reqState.ClientPort = clientPort

		req := &chain.Request{
			Host:         hf.String(),
			RelPath:      path,
			Query:        query,
			Method:       strings.ToUpper(method),
			Headers:      headers,
			Handler:      h.root,
			HandlerState: h.hs,
			ReqState:     reqState,
			Terminate:    ctx,
			ReadBody: func(n int) ([]byte, error) {
				return readExact(br, n)
			},
		}

		if tlsConn, ok := conn.(*tls.Conn); ok {
			state := tlsConn.ConnectionState()
			req.TLSState = &state
		}

		resp := chain.NewResponse()
		h.invoke(req, resp)

		if ctx.Err() != nil || resp.WasSent() {
			return
		}

		h.writeResponse(conn, resp)
		resp.MarkSent()

		if !keepAlive(headers, resp) {
			return
		}
	}
}

// invoke calls the root handler, converting a panic into the 500 fallback
// the Pre-Handler is responsible for; stages themselves must never
// swallow a downstream panic.
func (h *Handler) invoke(req *chain.Request, resp *chain.Response) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorLevel.Logf("prehandler: handler panicked for request %s: %v", req.ReqState.RequestID, r)
			resp.Reset()
			resp.SetTextMessage(500, "Internal server error")
		}
	}()

	h.root(req, resp)
}

// readRequestLine waits up to readTotalTimeout for one CRLF-terminated
// line, polling every readPollInterval so ctx cancellation and the
// connection's own shutdown are observed promptly. A timeout or any read
// error short of "line too long" returns ("", nil): the caller treats
// that the same as an empty request line and closes without responding.
func (h *Handler) readRequestLine(ctx context.Context, conn net.Conn, tp *textproto.Reader) (string, error) {
	deadline := time.Now().Add(readTotalTimeout)

	for {
		if ctx.Err() != nil {
			return "", nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", nil
		}

		poll := readPollInterval
		if remaining < poll {
			poll = remaining
		}

		_ = conn.SetReadDeadline(time.Now().Add(poll))
		line, err := tp.ReadLine()
		if err == nil {
			if len(line) > maxRequestLineBytes {
				return "", errRequestLineTooLong
			}
			return line, nil
		}

		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			continue
		}

		return "", nil
	}
}

func (h *Handler) writeStatusOnly(conn net.Conn, code int, message string) {
	resp := chain.NewResponse()
	resp.SetTextMessage(code, message)
	h.writeResponse(conn, resp)
}

// writeResponse serializes status line, headers in insertion order (one
// line per value for a repeated header), a blank line, then the body, as
// a single write so the peer sees one contiguous message.
func (h *Handler) writeResponse(conn net.Conn, resp *chain.Response) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	var b strings.Builder
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", resp.StatusCode, http.StatusText(resp.StatusCode))
	for _, k := range resp.Headers.Keys() {
		for _, v := range resp.GetHeader(k) {
			fmt.Fprintf(&b, "%s: %s\r\n", k, v)
		}
	}
	b.WriteString("\r\n")
	if len(resp.Body) > 0 {
		b.Write(resp.Body)
	}

	_, _ = conn.Write([]byte(b.String()))
}

// keepAlive reports whether the incoming Connection header requested
// keep-alive AND the business handler called Response.AllowKeepAlive.
func keepAlive(headers *chain.Header, resp *chain.Response) bool {
	in := headers.Get("Connection")
	if len(in) == 0 || !strings.EqualFold(in[0], "keep-alive") {
		return false
	}

	for _, v := range resp.GetHeader("Connection") {
		if strings.EqualFold(v, "keep-alive") {
			return true
		}
	}

	return false
}

func readExact(br *bufio.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	read := 0
	for read < n {
		c, err := br.Read(buf[read:])
		read += c
		if err != nil {
			if read == n {
				break
			}
			return buf[:read], err
		}
	}
	return buf, nil
}

func splitHostPort(addr net.Addr) (string, int) {
	if addr == nil {
		return "", 0
	}

	host, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String(), 0
	}

	port, _ := strconv.Atoi(portStr)
	return host, port
}
