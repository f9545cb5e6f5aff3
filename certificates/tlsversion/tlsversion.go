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

// Package tlsversion names the TLS protocol versions a TLS context accepts
// as its handshake floor and ceiling.
package tlsversion

import (
	"crypto/tls"
	"strings"
)

type Version uint16

const (
	VersionUnknown = Version(0)
	VersionTLS10   = Version(tls.VersionTLS10)
	VersionTLS11   = Version(tls.VersionTLS11)
	VersionTLS12   = Version(tls.VersionTLS12)
	VersionTLS13   = Version(tls.VersionTLS13)
)

func (v Version) Uint16() uint16 {
	return uint16(v)
}

func (v Version) TLS() uint16 {
	return uint16(v)
}

func (v Version) String() string {
	switch v {
	case VersionTLS10:
		return "TLS10"
	case VersionTLS11:
		return "TLS11"
	case VersionTLS12:
		return "TLS12"
	case VersionTLS13:
		return "TLS13"
	default:
		return ""
	}
}

func Parse(s string) Version {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), ".", ""))
	s = strings.ReplaceAll(s, " ", "")
	switch s {
	case "TLS10", "TLSV10", "1.0", "10":
		return VersionTLS10
	case "TLS11", "TLSV11", "1.1", "11":
		return VersionTLS11
	case "TLS12", "TLSV12", "1.2", "12":
		return VersionTLS12
	case "TLS13", "TLSV13", "1.3", "13":
		return VersionTLS13
	default:
		return VersionUnknown
	}
}
