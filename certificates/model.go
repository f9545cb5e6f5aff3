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

package certificates

import (
	"crypto/tls"
	"crypto/x509"
	"strings"

	tlsaut "github.com/nabbar/netframe/certificates/auth"
	tlscas "github.com/nabbar/netframe/certificates/ca"
	tlscrt "github.com/nabbar/netframe/certificates/certs"
	tlscpr "github.com/nabbar/netframe/certificates/cipher"
	tlscrv "github.com/nabbar/netframe/certificates/curves"
)

type config struct {
	cert                  []tls.Certificate
	cipherList            []tlscpr.Cipher
	curveList             []tlscrv.Curves
	caRoot                *x509.CertPool
	clientAuth            tlsaut.ClientAuth
	clientCA              *x509.CertPool
	tlsMinVersion         uint16
	tlsMaxVersion         uint16
	dynSizingDisabled     bool
	ticketSessionDisabled bool
}

func (c *config) AddRootCA(ca tlscas.Cert) bool {
	if ca == nil || ca.Len() == 0 {
		return false
	}
	if c.caRoot == nil {
		c.caRoot = x509.NewCertPool()
	}
	ca.AppendPool(c.caRoot)
	return true
}

func (c *config) AddRootCAString(pem string) bool {
	if pem == "" {
		return false
	}
	ca, e := tlscas.Parse(pem)
	if e != nil {
		return false
	}
	return c.AddRootCA(ca)
}

func (c *config) AddRootCAFile(pemFile string) error {
	var ca tlscas.Cert

	fct := func(p []byte) error {
		parsed, e := tlscas.ParseByte(p)
		if e != nil {
			return ErrorCertAppend.ErrorParent(e)
		}
		ca = parsed
		return nil
	}

	if e := checkFile(fct, pemFile); e != nil {
		return e
	}

	if !c.AddRootCA(ca) {
		return ErrorCertAppend.Error(nil)
	}

	return nil
}

func (c *config) GetRootCAPool() *x509.CertPool {
	if c.caRoot == nil {
		return x509.NewCertPool()
	}
	return c.caRoot
}

func (c *config) AddClientCA(ca tlscas.Cert) bool {
	if ca == nil || ca.Len() == 0 {
		return false
	}
	if c.clientCA == nil {
		c.clientCA = x509.NewCertPool()
	}
	ca.AppendPool(c.clientCA)
	return true
}

func (c *config) AddClientCAString(pem string) bool {
	if pem == "" {
		return false
	}
	ca, e := tlscas.Parse(pem)
	if e != nil {
		return false
	}
	return c.AddClientCA(ca)
}

func (c *config) AddClientCAFile(pemFile string) error {
	var ca tlscas.Cert

	fct := func(p []byte) error {
		parsed, e := tlscas.ParseByte(p)
		if e != nil {
			return ErrorCertAppend.ErrorParent(e)
		}
		ca = parsed
		return nil
	}

	if e := checkFile(fct, pemFile); e != nil {
		return e
	}

	if !c.AddClientCA(ca) {
		return ErrorCertAppend.Error(nil)
	}

	return nil
}

func (c *config) GetClientCAPool() *x509.CertPool {
	if c.clientCA == nil {
		return x509.NewCertPool()
	}
	return c.clientCA
}

func (c *config) AddCertificatePair(p tlscrt.Certif) {
	if p == nil {
		return
	}
	c.cert = append(c.cert, p.TLS())
}

func (c *config) AddCertificatePairString(key, crt string) error {
	key = strings.TrimSpace(key)
	crt = strings.TrimSpace(crt)

	if key == "" || crt == "" {
		return ErrorParamsEmpty.Error(nil)
	}

	p, e := tlscrt.ParsePair(key, crt)
	if e != nil {
		return ErrorCertKeyPairParse.ErrorParent(e)
	}

	c.AddCertificatePair(p)
	return nil
}

func (c *config) AddCertificatePairFile(keyFile, crtFile string) error {
	p, e := tlscrt.ParsePairFile(keyFile, crtFile)
	if e != nil {
		return ErrorCertKeyPairLoad.ErrorParent(e)
	}

	c.AddCertificatePair(p)
	return nil
}

func (c *config) LenCertificatePair() int {
	return len(c.cert)
}

func (c *config) GetCertificatePair() []tls.Certificate {
	return append(make([]tls.Certificate, 0, len(c.cert)), c.cert...)
}

func (c *config) SetVersionMin(v uint16)            { c.tlsMinVersion = v }
func (c *config) SetVersionMax(v uint16)            { c.tlsMaxVersion = v }
func (c *config) SetClientAuth(a tlsaut.ClientAuth) { c.clientAuth = a }
func (c *config) SetCipherList(cl []tlscpr.Cipher)  { c.cipherList = cl }
func (c *config) SetCurveList(cl []tlscrv.Curves)   { c.curveList = cl }
func (c *config) SetDynamicSizingDisabled(flag bool) {
	c.dynSizingDisabled = flag
}
func (c *config) SetSessionTicketDisabled(flag bool) {
	c.ticketSessionDisabled = flag
}

func (c *config) Clone() TLSConfig {
	n := &config{
		cert:                  append(make([]tls.Certificate, 0, len(c.cert)), c.cert...),
		cipherList:            append(make([]tlscpr.Cipher, 0, len(c.cipherList)), c.cipherList...),
		curveList:             append(make([]tlscrv.Curves, 0, len(c.curveList)), c.curveList...),
		clientAuth:            c.clientAuth,
		tlsMinVersion:         c.tlsMinVersion,
		tlsMaxVersion:         c.tlsMaxVersion,
		dynSizingDisabled:     c.dynSizingDisabled,
		ticketSessionDisabled: c.ticketSessionDisabled,
	}

	if c.caRoot != nil {
		n.caRoot = c.caRoot.Clone()
	}
	if c.clientCA != nil {
		n.clientCA = c.clientCA.Clone()
	}

	return n
}

func (c *config) Build(serverName string) *tls.Config {
	/* #nosec */
	cnf := &tls.Config{
		InsecureSkipVerify: false,
	}

	if serverName != "" {
		cnf.ServerName = serverName
	}

	if c.ticketSessionDisabled {
		cnf.SessionTicketsDisabled = true
	}

	if c.dynSizingDisabled {
		cnf.DynamicRecordSizingDisabled = true
	}

	if c.tlsMinVersion != 0 {
		cnf.MinVersion = c.tlsMinVersion
	}

	if c.tlsMaxVersion != 0 {
		cnf.MaxVersion = c.tlsMaxVersion
	}

	if len(c.cipherList) > 0 {
		ids := make([]uint16, 0, len(c.cipherList))
		for _, ci := range c.cipherList {
			ids = append(ids, ci.Uint16())
		}
		cnf.CipherSuites = ids
	}

	if len(c.curveList) > 0 {
		ids := make([]tls.CurveID, 0, len(c.curveList))
		for _, cv := range c.curveList {
			ids = append(ids, cv.TLS())
		}
		cnf.CurvePreferences = ids
	}

	if c.caRoot != nil {
		cnf.RootCAs = c.caRoot
	}

	if len(c.cert) > 0 {
		cnf.Certificates = c.cert
	}

	if c.clientAuth != tlsaut.NoClientCert {
		cnf.ClientAuth = c.clientAuth.TLS()
		if c.clientCA != nil {
			cnf.ClientCAs = c.clientCA
		}
	}

	return cnf
}
