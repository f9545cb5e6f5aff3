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

package logger_test

import (
	"bytes"
	"testing"

	liblog "github.com/nabbar/netframe/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Level", func() {
	It("writes formatted messages at the requested level", func() {
		buf := &bytes.Buffer{}
		liblog.SetOutput(buf)

		liblog.InfoLevel.Logf("hello %s", "world")

		Expect(buf.String()).To(ContainSubstring("hello world"))
	})

	It("silently drops messages at NilLevel", func() {
		buf := &bytes.Buffer{}
		liblog.SetOutput(buf)

		liblog.NilLevel.Logf("should not appear")

		Expect(buf.String()).To(BeEmpty())
	})

	It("appends the error text in LogErrorCtxf", func() {
		buf := &bytes.Buffer{}
		liblog.SetOutput(buf)

		liblog.ErrorLevel.LogErrorCtxf(liblog.NilLevel, "operation failed", assertErr)

		Expect(buf.String()).To(ContainSubstring("operation failed"))
		Expect(buf.String()).To(ContainSubstring("boom"))
	})
})

var assertErr = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
