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

// Package network resolves a server's listening address family from the
// configured host string, with an explicit override taking precedence.
package network

import (
	"fmt"
	"net"
	"strings"
)

// Protocol names the net.Listen network argument a server binds with.
type Protocol string

const (
	// ProtocolAuto defers to DetectFamily against the configured host.
	ProtocolAuto Protocol = ""
	ProtocolTCP  Protocol = "tcp"
	ProtocolTCP4 Protocol = "tcp4"
	ProtocolTCP6 Protocol = "tcp6"
)

func (p Protocol) String() string {
	if p == ProtocolAuto {
		return string(ProtocolTCP)
	}
	return string(p)
}

// DetectFamily inspects host and returns the most specific network it can
// bind with: a bracketed or bare IPv6 literal yields tcp6, a dotted-quad
// yields tcp4, anything else (a hostname, or an empty host meaning "all
// interfaces") yields the dual-stack tcp.
func DetectFamily(host string) Protocol {
	h := strings.Trim(host, "[]")

	if h == "" {
		return ProtocolTCP
	}

	ip := net.ParseIP(h)
	if ip == nil {
		return ProtocolTCP
	}

	if ip.To4() != nil {
		return ProtocolTCP4
	}

	return ProtocolTCP6
}

// Resolve picks the network to listen with: override if given explicitly,
// else the family auto-detected from host.
func Resolve(host string, override Protocol) Protocol {
	if override != ProtocolAuto {
		return override
	}
	return DetectFamily(host)
}

// JoinHostPort mirrors net.JoinHostPort but is exported here so callers
// building listen addresses don't need a parallel import of net for just
// this helper.
func JoinHostPort(host string, port int) string {
	return net.JoinHostPort(host, fmt.Sprintf("%d", port))
}
