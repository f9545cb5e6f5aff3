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

// Package cipher names the TLS cipher suites this module allows a TLS
// context to advertise, parsed from their Go constant names.
package cipher

import (
	"crypto/tls"
	"strings"
)

// Cipher wraps a tls cipher suite identifier.
type Cipher uint16

func (c Cipher) Uint16() uint16 {
	return uint16(c)
}

func (c Cipher) String() string {
	for _, s := range tls.CipherSuites() {
		if s.ID == uint16(c) {
			return s.Name
		}
	}
	for _, s := range tls.InsecureCipherSuites() {
		if s.ID == uint16(c) {
			return s.Name
		}
	}
	return ""
}

// Check reports whether id is one of the secure cipher suites the Go
// runtime provides; insecure suites are not accepted.
func Check(id uint16) bool {
	for _, s := range tls.CipherSuites() {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Parse matches name case-insensitively against the registered secure
// cipher suite names. It returns 0 when nothing matches.
func Parse(name string) Cipher {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, s := range tls.CipherSuites() {
		if s.Name == name {
			return Cipher(s.ID)
		}
	}
	return 0
}

// Default returns the secure cipher suite list the Go runtime proposes,
// used when a TLS context does not restrict its own list.
func Default() []Cipher {
	res := make([]Cipher, 0, len(tls.CipherSuites()))
	for _, s := range tls.CipherSuites() {
		res = append(res, Cipher(s.ID))
	}
	return res
}
