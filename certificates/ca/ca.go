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

// Package ca parses and manages root and client certificate authority
// chains used both by a TLS context's handshake and by the standalone
// chain verifier that re-checks a peer certificate against its issuer.
package ca

import (
	"bytes"
	"crypto/x509"
	"encoding"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCertificate = errors.New("invalid certificate")
	ErrEmptyInput         = errors.New("empty certificate input")
)

// Cert is a parsed CA certificate chain, usable both for serialization and
// for building an *x509.CertPool.
type Cert interface {
	encoding.TextMarshaler
	encoding.TextUnmarshaler
	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
	fmt.Stringer

	Len() int
	AppendPool(p *x509.CertPool)
	AppendBytes(p []byte) error
	AppendString(s string) error
	Chain() (string, error)
	Certificates() []*x509.Certificate
}

type certif struct {
	c []*x509.Certificate
}

// New returns an empty Cert, ready to be populated by AppendBytes,
// AppendString, or an encoding.Unmarshaler call.
func New() Cert {
	return &certif{c: make([]*x509.Certificate, 0)}
}

// Parse decodes one or more concatenated PEM certificate blocks.
func Parse(s string) (Cert, error) {
	return ParseByte([]byte(s))
}

func ParseByte(p []byte) (Cert, error) {
	c := &certif{c: make([]*x509.Certificate, 0)}
	if e := c.unMarshall(p); e != nil {
		return nil, e
	}
	return c, nil
}

func (o *certif) unMarshall(p []byte) error {
	p = bytes.TrimSpace(p)
	if len(p) < 1 {
		return ErrEmptyInput
	}

	rest := p
	found := 0

	for {
		var blk *pem.Block
		blk, rest = pem.Decode(rest)
		if blk == nil {
			break
		}
		if blk.Type != "CERTIFICATE" {
			continue
		}

		crt, e := x509.ParseCertificate(blk.Bytes)
		if e != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCertificate, e)
		}

		o.c = append(o.c, crt)
		found++
	}

	if found == 0 {
		return ErrInvalidCertificate
	}

	return nil
}

func (o *certif) Len() int {
	return len(o.c)
}

func (o *certif) Certificates() []*x509.Certificate {
	return append(make([]*x509.Certificate, 0, len(o.c)), o.c...)
}

func (o *certif) AppendPool(p *x509.CertPool) {
	for _, c := range o.c {
		p.AddCert(c)
	}
}

func (o *certif) AppendBytes(p []byte) error {
	n := &certif{c: make([]*x509.Certificate, 0)}
	if e := n.unMarshall(p); e != nil {
		return e
	}
	o.c = append(o.c, n.c...)
	return nil
}

func (o *certif) AppendString(s string) error {
	return o.AppendBytes([]byte(s))
}

func (o *certif) Chain() (string, error) {
	if len(o.c) == 0 {
		return "", ErrEmptyInput
	}

	buf := &bytes.Buffer{}
	for _, c := range o.c {
		if e := pem.Encode(buf, &pem.Block{Type: "CERTIFICATE", Bytes: c.Raw}); e != nil {
			return "", e
		}
	}

	return buf.String(), nil
}

func (o *certif) String() string {
	s, _ := o.Chain()
	return s
}

func (o *certif) MarshalText() ([]byte, error) {
	s, e := o.Chain()
	return []byte(s), e
}

func (o *certif) UnmarshalText(p []byte) error {
	return o.unMarshall(p)
}

func (o *certif) MarshalJSON() ([]byte, error) {
	s, e := o.Chain()
	if e != nil {
		return nil, e
	}
	return json.Marshal(s)
}

func (o *certif) UnmarshalJSON(p []byte) error {
	var s string
	if e := json.Unmarshal(p, &s); e != nil {
		return e
	}
	return o.unMarshall([]byte(s))
}

func (o *certif) MarshalYAML() (interface{}, error) {
	return o.Chain()
}

func (o *certif) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return nil
	}
	return o.unMarshall([]byte(value.Value))
}
