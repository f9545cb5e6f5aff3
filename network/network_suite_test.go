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

package network_test

import (
	"testing"

	. "github.com/nabbar/netframe/network"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNetwork(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Network Suite")
}

var _ = Describe("DetectFamily", func() {
	It("detects tcp4 for a dotted-quad host", func() {
		Expect(DetectFamily("127.0.0.1")).To(Equal(ProtocolTCP4))
	})

	It("detects tcp6 for a bracketed IPv6 host", func() {
		Expect(DetectFamily("[::1]")).To(Equal(ProtocolTCP6))
	})

	It("falls back to dual-stack tcp for a hostname", func() {
		Expect(DetectFamily("example.com")).To(Equal(ProtocolTCP))
	})

	It("falls back to dual-stack tcp for an empty host", func() {
		Expect(DetectFamily("")).To(Equal(ProtocolTCP))
	})
})

var _ = Describe("Resolve", func() {
	It("honors an explicit override over auto-detection", func() {
		Expect(Resolve("127.0.0.1", ProtocolTCP6)).To(Equal(ProtocolTCP6))
	})

	It("auto-detects when no override is given", func() {
		Expect(Resolve("127.0.0.1", ProtocolAuto)).To(Equal(ProtocolTCP4))
	})
})
