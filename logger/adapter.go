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

package logger

import (
	"fmt"
	"log"
)

// GetLogger returns a standard library *log.Logger whose Write calls are
// routed through this package's logrus backend at the given level, using
// the given format as a static message prefix. net/http.Server.ErrorLog
// and similar stdlib fields accept exactly this shape.
func GetLogger(level Level, flags int, format string, args ...interface{}) *log.Logger {
	prefix := fmt.Sprintf(format, args...)
	return log.New(&levelWriter{level: level}, prefix+" ", flags)
}

type levelWriter struct {
	level Level
}

func (w *levelWriter) Write(p []byte) (int, error) {
	w.level.Logf("%s", string(p))
	return len(p), nil
}
