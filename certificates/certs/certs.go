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

// Package certs parses and holds a private key/certificate pair as a
// tls.Certificate, either from PEM strings or from files on disk.
package certs

import (
	"crypto/tls"
	"os"
	"strings"
)

type Certif interface {
	TLS() tls.Certificate
}

type pair struct {
	crt tls.Certificate
}

func (p *pair) TLS() tls.Certificate {
	return p.crt
}

// ParsePair builds a Certif from PEM-encoded key and certificate strings.
func ParsePair(key, crt string) (Certif, error) {
	key = strings.TrimSpace(key)
	crt = strings.TrimSpace(crt)

	c, e := tls.X509KeyPair([]byte(crt), []byte(key))
	if e != nil {
		return nil, e
	}

	return &pair{crt: c}, nil
}

// ParsePairFile builds a Certif from a key file and a certificate file.
func ParsePairFile(keyFile, crtFile string) (Certif, error) {
	for _, f := range []string{keyFile, crtFile} {
		if f == "" {
			return nil, os.ErrInvalid
		}
		if _, e := os.Stat(f); e != nil {
			return nil, e
		}
	}

	c, e := tls.LoadX509KeyPair(crtFile, keyFile)
	if e != nil {
		return nil, e
	}

	return &pair{crt: c}, nil
}
