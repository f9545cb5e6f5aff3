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

// Package hostfield classifies an HTTP Host header value as a domain name,
// an IPv4 address, or an IPv6 address, each carrying an optional port.
package hostfield

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
)

type Kind uint8

const (
	Domain Kind = iota
	IPv4
	IPv6
)

// HostField is the parsed, tagged form of a Host header value.
type HostField struct {
	Kind   Kind
	Domain string
	IP     net.IP
	Port   int
}

var (
	reDomain = regexp.MustCompile(`^((?:[A-Za-z0-9][A-Za-z0-9-]{0,61}[A-Za-z0-9]\.)+[A-Za-z]{2,})(?::([0-9]+))?$`)
	reIPv4   = regexp.MustCompile(`^(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})(?::([0-9]+))?$`)
	reIPv6   = regexp.MustCompile(`^\[([0-9a-fA-F:]+)\](?::([0-9]+))?$`)
)

// Parse classifies raw, inheriting defaultPort when raw carries none.
// Invariant: the returned port is always in [1, 65535].
func Parse(raw string, defaultPort int) (*HostField, error) {
	if m := reDomain.FindStringSubmatch(raw); m != nil {
		port, e := parsePort(m[2], defaultPort)
		if e != nil {
			return nil, e
		}
		return &HostField{Kind: Domain, Domain: m[1], Port: port}, nil
	}

	if m := reIPv4.FindStringSubmatch(raw); m != nil {
		ip := net.ParseIP(m[1])
		if ip == nil || ip.To4() == nil {
			return nil, fmt.Errorf("hostfield: invalid IPv4 address %q", m[1])
		}
		port, e := parsePort(m[2], defaultPort)
		if e != nil {
			return nil, e
		}
		return &HostField{Kind: IPv4, IP: ip.To4(), Port: port}, nil
	}

	if m := reIPv6.FindStringSubmatch(raw); m != nil {
		ip := net.ParseIP(m[1])
		if ip == nil {
			return nil, fmt.Errorf("hostfield: invalid IPv6 address %q", m[1])
		}
		port, e := parsePort(m[2], defaultPort)
		if e != nil {
			return nil, e
		}
		return &HostField{Kind: IPv6, IP: ip, Port: port}, nil
	}

	return nil, fmt.Errorf("hostfield: unparseable host %q", raw)
}

func parsePort(raw string, defaultPort int) (int, error) {
	if raw == "" {
		if defaultPort < 1 || defaultPort > 65535 {
			return 0, fmt.Errorf("hostfield: no port in %q and no valid default", raw)
		}
		return defaultPort, nil
	}

	p, e := strconv.Atoi(raw)
	if e != nil || p < 1 || p > 65535 {
		return 0, fmt.Errorf("hostfield: invalid port %q", raw)
	}

	return p, nil
}

// String renders the canonical form: IPv6 uses bracketed [addr]:port.
func (h *HostField) String() string {
	switch h.Kind {
	case IPv4:
		return fmt.Sprintf("%s:%d", h.IP.String(), h.Port)
	case IPv6:
		return fmt.Sprintf("[%s]:%d", h.IP.String(), h.Port)
	default:
		return fmt.Sprintf("%s:%d", h.Domain, h.Port)
	}
}

func (h *HostField) IsDomain() bool {
	return h.Kind == Domain
}

func (h *HostField) IsIPv4() bool {
	return h.Kind == IPv4
}

func (h *HostField) IsIPv6() bool {
	return h.Kind == IPv6
}

// Host returns the bare host part without port: the domain name, or the
// IP's string form (unbracketed).
func (h *HostField) Host() string {
	if h.Kind == Domain {
		return h.Domain
	}
	return h.IP.String()
}
