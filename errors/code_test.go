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

package errors_test

import (
	liberr "github.com/nabbar/netframe/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testMinCode liberr.CodeError = 9000

func testMessage(code liberr.CodeError) string {
	switch code {
	case testMinCode:
		return "sample error"
	case testMinCode + 1:
		return "sample error with arg"
	default:
		return ""
	}
}

var _ = BeforeSuite(func() {
	if !liberr.ExistInMapMessage(testMinCode) {
		liberr.RegisterIdFctMessage(testMinCode, testMessage)
	}
})

var _ = Describe("CodeError", func() {
	It("renders the registered message", func() {
		Expect(testMinCode.Message()).To(Equal("sample error"))
	})

	It("falls back to UnknownMessage for unregistered codes", func() {
		Expect(liberr.CodeError(65000).Message()).To(Equal(liberr.UnknownMessage))
	})

	It("chains parent errors in Error()", func() {
		parent := liberr.New("root cause")
		err := testMinCode.ErrorParent(parent)

		Expect(err.HasParent()).To(BeTrue())
		Expect(err.Code()).To(Equal(testMinCode))
		Expect(err.Error()).To(ContainSubstring("sample error"))
		Expect(err.Error()).To(ContainSubstring("root cause"))
	})

	It("reports no parent when constructed bare", func() {
		err := testMinCode.Error()
		Expect(err.HasParent()).To(BeFalse())
		Expect(err.Unwrap()).To(BeNil())
	})
})
