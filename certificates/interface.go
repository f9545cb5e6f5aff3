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

// Package certificates builds crypto/tls.Config values for both server and
// client sides of a TLS context from a declarative, serializable
// configuration: root/client CA pools, certificate pairs, cipher and curve
// preference, TLS version floor/ceiling, and client authentication mode.
package certificates

import (
	"crypto/tls"
	"crypto/x509"

	tlsaut "github.com/nabbar/netframe/certificates/auth"
	tlscas "github.com/nabbar/netframe/certificates/ca"
	tlscrt "github.com/nabbar/netframe/certificates/certs"
	tlscpr "github.com/nabbar/netframe/certificates/cipher"
	tlscrv "github.com/nabbar/netframe/certificates/curves"
)

// TLSConfig accumulates TLS material and renders it into a *tls.Config.
// None of its methods are safe for concurrent mutation; a Config is built
// once at startup (or at a reload boundary owned by tlscontext) and then
// only read.
type TLSConfig interface {
	AddRootCA(ca tlscas.Cert) bool
	AddRootCAString(pem string) bool
	AddRootCAFile(pemFile string) error
	GetRootCAPool() *x509.CertPool

	AddClientCA(ca tlscas.Cert) bool
	AddClientCAString(pem string) bool
	AddClientCAFile(pemFile string) error
	GetClientCAPool() *x509.CertPool

	AddCertificatePair(c tlscrt.Certif)
	AddCertificatePairString(key, crt string) error
	AddCertificatePairFile(keyFile, crtFile string) error
	LenCertificatePair() int
	GetCertificatePair() []tls.Certificate

	SetVersionMin(v uint16)
	SetVersionMax(v uint16)
	SetClientAuth(a tlsaut.ClientAuth)
	SetCipherList(c []tlscpr.Cipher)
	SetCurveList(c []tlscrv.Curves)
	SetDynamicSizingDisabled(flag bool)
	SetSessionTicketDisabled(flag bool)

	Clone() TLSConfig

	// Build renders the accumulated material into a *tls.Config for the
	// given server name (used on the client side for SNI; ignored server
	// side).
	Build(serverName string) *tls.Config
}

// New returns an empty TLSConfig with no certificates, pools, or
// restrictions: a caller must add at least one certificate pair before
// using it server side.
func New() TLSConfig {
	return &config{
		cert:     make([]tls.Certificate, 0),
		caRoot:   x509.NewCertPool(),
		clientCA: x509.NewCertPool(),
	}
}
