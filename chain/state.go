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

// Package chain defines the data carried through a request's middleware
// chain and the uniform stage signature every middleware honors.
package chain

import (
	"crypto/x509"
	"sync"

	"github.com/google/uuid"
)

// HandlerState is the server-scoped, thread-safe store shared by every
// request across the life of the server.
type HandlerState struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

func NewHandlerState() *HandlerState {
	return &HandlerState{data: make(map[string]interface{})}
}

func (h *HandlerState) Get(key string) (interface{}, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.data[key]
	return v, ok
}

func (h *HandlerState) Set(key string, val interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data[key] = val
}

func (h *HandlerState) Delete(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.data, key)
}

// RequestState is a per-request scratch space, populated by middleware
// stages as they derive facts about the request. It is not safe for
// concurrent use: a single request is handled by a single goroutine.
type RequestState struct {
	// RequestID is a correlation id generated once per request by
	// NewRequestState, logged alongside every middleware rejection so a
	// single request's path through the chain can be traced across log
	// lines.
	RequestID             string
	ClientIP              string
	ClientPort            int
	PeerCert              *x509.Certificate
	PeerIntermediateCerts []*x509.Certificate
	PeerRootCert          *x509.Certificate
	PeerCommonName        string
	PeerAltName           []string
	CurrentTOTP           string

	extra map[string]interface{}
}

func NewRequestState() *RequestState {
	return &RequestState{
		RequestID: uuid.NewString(),
		extra:     make(map[string]interface{}),
	}
}

// Extra reads a key outside the fixed, named fields above — an escape
// hatch for stages that need to stash something ad hoc.
func (r *RequestState) Extra(key string) (interface{}, bool) {
	if r.extra == nil {
		return nil, false
	}
	v, ok := r.extra[key]
	return v, ok
}

func (r *RequestState) SetExtra(key string, val interface{}) {
	if r.extra == nil {
		r.extra = make(map[string]interface{})
	}
	r.extra[key] = val
}
