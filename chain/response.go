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
	"encoding/json"
	"fmt"
)

// Header is an ordered multi-map: insertion order is preserved and a key
// may carry more than one value, each emitted on its own wire line.
type Header struct {
	keys   []string
	values map[string][]string
}

func newHeader() *Header {
	return &Header{values: make(map[string][]string)}
}

// NewHeader returns an empty ordered multi-map, for callers outside this
// package that need to build a Header (the Pre-Handler, assembling a
// Request's incoming headers).
func NewHeader() *Header {
	return newHeader()
}

func (h *Header) Add(key, value string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = append(h.values[key], value)
}

func (h *Header) Set(key, value string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = []string{value}
}

func (h *Header) Get(key string) []string {
	return h.values[key]
}

// Keys returns header names in insertion order.
func (h *Header) Keys() []string {
	return append(make([]string, 0, len(h.keys)), h.keys...)
}

// Response is the mutable object the Pre-Handler carries through a
// request; it transitions wasSent false->true exactly once.
type Response struct {
	StatusCode int
	Headers    *Header
	Body       []byte
	wasSent    bool
}

func NewResponse() *Response {
	return &Response{
		StatusCode: 500,
		Headers:    newHeader(),
	}
}

func (r *Response) WasSent() bool {
	return r.wasSent
}

func (r *Response) MarkSent() {
	r.wasSent = true
}

func (r *Response) SetStatusCode(code int) {
	r.StatusCode = code
}

func (r *Response) SetBody(body []byte) {
	r.Body = body
}

func (r *Response) AddHeader(key, value string) {
	r.Headers.Add(key, value)
}

func (r *Response) SetHeader(key, value string) {
	r.Headers.Set(key, value)
}

func (r *Response) GetHeader(key string) []string {
	return r.Headers.Get(key)
}

func (r *Response) Reset() {
	r.StatusCode = 500
	r.Headers = newHeader()
	r.Body = nil
	r.wasSent = false
}

// SetJSONBody serializes data as JSON, sets the Content-Type and
// Content-Length headers, and the response status code.
func (r *Response) SetJSONBody(data interface{}, statusCode int) error {
	b, e := json.Marshal(data)
	if e != nil {
		return e
	}

	r.StatusCode = statusCode
	r.Body = b
	r.SetHeader("Content-Type", "application/json; charset=utf-8")
	r.SetHeader("Content-Length", fmt.Sprintf("%d", len(b)))

	return nil
}

// SetTextMessage sets a plain-text body with its status code.
func (r *Response) SetTextMessage(code int, message string) {
	r.StatusCode = code
	r.Body = []byte(message)
	r.SetHeader("Content-Type", "text/plain; charset=utf-8")
	r.SetHeader("Content-Length", fmt.Sprintf("%d", len(r.Body)))
}

// AllowKeepAlive marks the response as keep-alive capable; it is the
// business handler's signal that the Pre-Handler may serve another
// request on the same connection.
func (r *Response) AllowKeepAlive() {
	r.SetHeader("Connection", "keep-alive")
}
