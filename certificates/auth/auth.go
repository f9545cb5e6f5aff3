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

// Package auth defines the client authentication policy used by a TLS
// context's handshake, and the mutual-auth middleware stage's requirement
// check.
package auth

import (
	"crypto/tls"
	"strings"
)

const (
	strict  = "strict"
	require = "require"
	verify  = "verify"
	request = "request"
	none    = "none"
)

// ClientAuth wraps tls.ClientAuthType with string parsing and encoding.
type ClientAuth tls.ClientAuthType

const (
	NoClientCert               = ClientAuth(tls.NoClientCert)
	RequestClientCert          = ClientAuth(tls.RequestClientCert)
	RequireAnyClientCert       = ClientAuth(tls.RequireAnyClientCert)
	VerifyClientCertIfGiven    = ClientAuth(tls.VerifyClientCertIfGiven)
	RequireAndVerifyClientCert = ClientAuth(tls.RequireAndVerifyClientCert)
)

func List() []ClientAuth {
	return []ClientAuth{
		NoClientCert,
		RequestClientCert,
		RequireAnyClientCert,
		VerifyClientCertIfGiven,
		RequireAndVerifyClientCert,
	}
}

// Parse returns the ClientAuth matching keywords found in s, defaulting to
// NoClientCert when nothing matches.
func Parse(s string) ClientAuth {
	s = cleanString(s)

	switch {
	case strings.Contains(s, strict) || (strings.Contains(s, require) && strings.Contains(s, verify)):
		return RequireAndVerifyClientCert
	case strings.Contains(s, verify):
		return VerifyClientCertIfGiven
	case strings.Contains(s, require):
		return RequireAnyClientCert
	case strings.Contains(s, request):
		return RequestClientCert
	default:
		return NoClientCert
	}
}

func ParseBytes(p []byte) ClientAuth {
	return Parse(string(p))
}

func cleanString(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.TrimSpace(s)
}

func (a ClientAuth) String() string {
	switch a {
	case RequireAndVerifyClientCert:
		return strict
	case VerifyClientCertIfGiven:
		return verify
	case RequireAnyClientCert:
		return require
	case RequestClientCert:
		return request
	default:
		return none
	}
}

func (a ClientAuth) TLS() tls.ClientAuthType {
	return tls.ClientAuthType(a)
}

// MandatesPeerCertificate reports whether this policy requires the chain
// verifier stage to run at all: NoClientCert and RequestClientCert never
// receive a certificate worth checking.
func (a ClientAuth) MandatesPeerCertificate() bool {
	switch a {
	case RequireAnyClientCert, VerifyClientCertIfGiven, RequireAndVerifyClientCert:
		return true
	default:
		return false
	}
}
