/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package errors provides package-scoped numeric error codes modeled as a
// lightweight HTTP-status-like taxonomy, with parent-error chaining so a
// caller can unwrap down to the root cause without losing the code that
// first classified the failure.
package errors

import "sort"

// CodeError is a numeric error classification, analogous to an HTTP status
// code. Each package that registers codes reserves a range starting at its
// MinPkg* constant.
type CodeError uint16

const (
	// UnknownError is returned when no package has claimed a code range.
	UnknownError CodeError = 0
	UnknownMessage         = "unknown error"
)

// Message renders a CodeError to a human string. Registered by each
// package via RegisterIdFctMessage.
type Message func(code CodeError) string

var idMsgFct = make(map[CodeError]Message)

// RegisterIdFctMessage registers the message function responsible for all
// codes starting at minCode. Call once from each package's init().
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	idMsgFct[minCode] = fct

	keys := make([]int, 0, len(idMsgFct))
	for k := range idMsgFct {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)
}

// ExistInMapMessage reports whether a message function has already claimed
// the range starting at code; used at init time to detect range collisions.
func ExistInMapMessage(code CodeError) bool {
	_, ok := idMsgFct[code]
	return ok
}

func findRange(code CodeError) CodeError {
	var best CodeError
	for k := range idMsgFct {
		if k <= code && k >= best {
			best = k
		}
	}
	return best
}

// Message returns the registered message for this code, or UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[findRange(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds a new Error value from this code, optionally wrapping parents.
func (c CodeError) Error(parents ...error) Error {
	return newError(c, c.Message(), parents...)
}

// ErrorParent is a convenience for Error(parent) when there is exactly one.
func (c CodeError) ErrorParent(parent error) Error {
	return newError(c, c.Message(), parent)
}

// Uint16 returns the raw numeric code.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}
