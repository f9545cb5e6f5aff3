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

package totp_test

import (
	"testing"
	"time"

	. "github.com/nabbar/netframe/totp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTOTP(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "TOTP Suite")
}

var _ = Describe("HOTP", func() {
	It("matches the RFC 4226 test vector for counter 0", func() {
		secret := []byte("12345678901234567890")
		Expect(HOTP(secret, 0, 6)).To(Equal("755224"))
	})

	It("matches the RFC 4226 test vector for counter 1", func() {
		secret := []byte("12345678901234567890")
		Expect(HOTP(secret, 1, 6)).To(Equal("287082"))
	})
})

var _ = Describe("Generator", func() {
	It("produces the same code for two instants within the same step", func() {
		g := NewGenerator([]byte("a-shared-secret"))
		t0 := time.Unix(1_700_000_000, 0)
		t1 := t0.Add(5 * time.Second)
		Expect(g.At(t0)).To(Equal(g.At(t1)))
	})

	It("produces a different code across a step boundary", func() {
		g := NewGenerator([]byte("a-shared-secret"))
		t0 := time.Unix(1_700_000_000, 0)
		t1 := t0.Add(31 * time.Second)
		Expect(g.At(t0)).ToNot(Equal(g.At(t1)))
	})
})

var _ = Describe("Authorization header", func() {
	It("round-trips salt and digest through build then parse", func() {
		salt := "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"
		header := BuildAuthorizationHeader(salt, "123456")

		gotSalt, gotDigest, err := ParseAuthorizationHeader(header)
		Expect(err).ToNot(HaveOccurred())
		Expect(gotSalt).To(Equal(salt))
		Expect(gotDigest).To(Equal(TokenHash(salt, "123456")))
	})

	It("rejects a header with the wrong scheme", func() {
		_, _, err := ParseAuthorizationHeader("Bearer sometoken")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a salt of the wrong length", func() {
		header := "TOTP_TOKEN short:" + TokenHash("short", "123456")
		_, _, err := ParseAuthorizationHeader(header)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a missing separator", func() {
		_, _, err := ParseAuthorizationHeader("TOTP_TOKEN nocolonhere")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("KeyURI", func() {
	It("builds an otpauth URI carrying the issuer, account, and period", func() {
		u := KeyURI("ExampleCo", "alice@example.com", []byte("12345678901234567890"), 6, 30*time.Second)
		Expect(u).To(HavePrefix("otpauth://totp/ExampleCo:alice@example.com"))
		Expect(u).To(ContainSubstring("period=30"))
		Expect(u).To(ContainSubstring("issuer=ExampleCo"))
	})
})

var _ = Describe("GenURLPrefix", func() {
	It("builds a plain hostname prefix with no port", func() {
		u, err := GenURLPrefix("http", 0, "example.com", "")
		Expect(err).ToNot(HaveOccurred())
		Expect(u).To(Equal("http://example.com"))
	})

	It("appends the port when given", func() {
		u, err := GenURLPrefix("https", 8443, "example.com", "")
		Expect(err).ToNot(HaveOccurred())
		Expect(u).To(Equal("https://example.com:8443"))
	})

	It("prefers the ip literal over hostname when both are given", func() {
		u, err := GenURLPrefix("http", 80, "example.com", "192.0.2.1")
		Expect(err).ToNot(HaveOccurred())
		Expect(u).To(Equal("http://192.0.2.1:80"))
	})

	It("brackets an IPv6 literal", func() {
		u, err := GenURLPrefix("https", 0, "", "2001:db8::1")
		Expect(err).ToNot(HaveOccurred())
		Expect(u).To(Equal("https://[2001:db8::1]"))
	})

	It("rejects an invalid ip literal", func() {
		_, err := GenURLPrefix("http", 0, "", "not-an-ip")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a call with neither hostname nor ip", func() {
		_, err := GenURLPrefix("http", 0, "", "")
		Expect(err).To(MatchError(ErrNoHost))
	})

	It("GenHTTPURLPrefix and GenHTTPSURLPrefix fix the scheme", func() {
		h, err := GenHTTPURLPrefix(0, "example.com", "")
		Expect(err).ToNot(HaveOccurred())
		Expect(h).To(HavePrefix("http://"))

		s, err := GenHTTPSURLPrefix(0, "example.com", "")
		Expect(err).ToNot(HaveOccurred())
		Expect(s).To(HavePrefix("https://"))
	})
})
