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

package errors

import (
	"strings"
)

// Error is a CodeError carrying an optional chain of parent errors.
type Error interface {
	error

	// Code returns the classification code for this error.
	Code() CodeError

	// AddParent appends parents to this error's chain.
	AddParent(parents ...error)

	// HasParent reports whether this error wraps at least one parent.
	HasParent() bool

	// Unwrap exposes the first parent, for errors.Is/As compatibility.
	Unwrap() error
}

type errImpl struct {
	code    CodeError
	message string
	parents []error
}

func newError(code CodeError, message string, parents ...error) Error {
	e := &errImpl{
		code:    code,
		message: message,
		parents: make([]error, 0, len(parents)),
	}

	e.AddParent(parents...)

	return e
}

// New creates an Error not tied to any registered code, for ad-hoc wrapping.
func New(message string, parents ...error) Error {
	return newError(UnknownError, message, parents...)
}

func (e *errImpl) Code() CodeError {
	return e.code
}

func (e *errImpl) AddParent(parents ...error) {
	for _, p := range parents {
		if p != nil {
			e.parents = append(e.parents, p)
		}
	}
}

func (e *errImpl) HasParent() bool {
	return len(e.parents) > 0
}

func (e *errImpl) Unwrap() error {
	if len(e.parents) == 0 {
		return nil
	}
	return e.parents[0]
}

func (e *errImpl) Error() string {
	if !e.HasParent() {
		return e.message
	}

	parts := make([]string, 0, len(e.parents)+1)
	parts = append(parts, e.message)

	for _, p := range e.parents {
		parts = append(parts, p.Error())
	}

	return strings.Join(parts, ": ")
}
