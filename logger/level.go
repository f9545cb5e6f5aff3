/*
 * MIT License
 *
 * Copyright (c) 2019 Nicolas JUHEL
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

// Package logger wraps logrus with the leveled, package-scoped helpers used
// across this module, in place of ad-hoc log.Printf calls.
package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Level mirrors logrus.Level with a NilLevel sentinel meaning "never log".
type Level uint8

const (
	ErrorLevel Level = iota
	WarnLevel
	InfoLevel
	DebugLevel
	NilLevel
)

func (l Level) logrus() logrus.Level {
	switch l {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.PanicLevel
	}
}

var std = logrus.New()

// SetOutput lets the caller redirect the backing logrus logger (tests do
// this to assert on captured output instead of writing to the console).
func SetOutput(w interface{ Write([]byte) (int, error) }) {
	std.SetOutput(w)
}

// Logf emits a formatted message at this level.
func (l Level) Logf(format string, args ...interface{}) {
	if l == NilLevel {
		return
	}
	std.Log(l.logrus(), fmt.Sprintf(format, args...))
}

// LogErrorCtxf emits a formatted message at this level and appends err's text.
func (l Level) LogErrorCtxf(ctx Level, format string, err error, args ...interface{}) {
	if l == NilLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	std.Log(l.logrus(), msg)
}
