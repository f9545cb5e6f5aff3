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

package chain

import (
	"context"
	"crypto/tls"
)

// Request is the call-site bundle every stage in the chain receives. It
// replaces positional (host, relPath, ...) parameters with a single value
// so that stages which only rewrite relPath (HandlerByPath) do so without
// reshaping every other argument.
type Request struct {
	Host         string
	RelPath      string
	Query        string
	Method       string
	Headers      *Header
	TLSState     *tls.ConnectionState
	Handler      Handler
	HandlerState *HandlerState
	ReqState     *RequestState
	Terminate    context.Context

	// ReadBody reads exactly n bytes of the request body, looping until
	// satisfied or EOF. Populated by the Pre-Handler; nil for a Request
	// built outside that path (e.g. unit tests that don't need a body).
	ReadBody func(n int) ([]byte, error)
}

// Handler is the uniform stage signature: every middleware and every leaf
// business handler implements exactly this. A stage either forwards to a
// single configured next Handler with the same or a mutated Request, or
// writes a rejection into resp and returns without forwarding.
type Handler func(req *Request, resp *Response)

// Chain composes stages outside-in: Chain(a, b, c) runs a, then b, then c
// wraps the innermost handler, each constructed with the next already
// bound — matching the constructor-injection composition style used
// throughout this module's middleware stages.
func Chain(stages ...func(next Handler) Handler) func(final Handler) Handler {
	return func(final Handler) Handler {
		h := final
		for i := len(stages) - 1; i >= 0; i-- {
			h = stages[i](h)
		}
		return h
	}
}
