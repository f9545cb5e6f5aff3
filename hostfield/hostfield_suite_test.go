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

package hostfield_test

import (
	"testing"

	. "github.com/nabbar/netframe/hostfield"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHostField(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "HostField Suite")
}

var _ = Describe("Parse", func() {
	It("classifies a domain with an explicit port", func() {
		h, err := Parse("example.com:8443", 80)
		Expect(err).ToNot(HaveOccurred())
		Expect(h.IsDomain()).To(BeTrue())
		Expect(h.Domain).To(Equal("example.com"))
		Expect(h.Port).To(Equal(8443))
	})

	It("inherits the default port when none is given", func() {
		h, err := Parse("example.com", 80)
		Expect(err).ToNot(HaveOccurred())
		Expect(h.Port).To(Equal(80))
	})

	It("classifies an IPv4 address", func() {
		h, err := Parse("192.168.1.1:9000", 80)
		Expect(err).ToNot(HaveOccurred())
		Expect(h.IsIPv4()).To(BeTrue())
		Expect(h.String()).To(Equal("192.168.1.1:9000"))
	})

	It("classifies a bracketed IPv6 address", func() {
		h, err := Parse("[::1]:9000", 80)
		Expect(err).ToNot(HaveOccurred())
		Expect(h.IsIPv6()).To(BeTrue())
		Expect(h.String()).To(Equal("[::1]:9000"))
	})

	It("rejects an unbracketed IPv6 address", func() {
		_, err := Parse("::1:9000", 80)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an invalid IPv4 octet", func() {
		_, err := Parse("999.1.1.1", 80)
		Expect(err).To(HaveOccurred())
	})

	It("rejects garbage input", func() {
		_, err := Parse("not a host!!", 80)
		Expect(err).To(HaveOccurred())
	})
})
