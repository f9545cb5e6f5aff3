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

// Package curves names the elliptic curves this module allows a TLS
// context to prefer for ECDHE key exchange.
package curves

import (
	"crypto/tls"
	"strings"
)

type Curves tls.CurveID

const (
	CurveP256 = Curves(tls.CurveP256)
	CurveP384 = Curves(tls.CurveP384)
	CurveP521 = Curves(tls.CurveP521)
	X25519    = Curves(tls.X25519)
)

func List() []Curves {
	return []Curves{CurveP256, CurveP384, CurveP521, X25519}
}

func (c Curves) Uint16() uint16 {
	return uint16(c)
}

func (c Curves) TLS() tls.CurveID {
	return tls.CurveID(c)
}

func (c Curves) String() string {
	switch c {
	case CurveP256:
		return "P256"
	case CurveP384:
		return "P384"
	case CurveP521:
		return "P521"
	case X25519:
		return "X25519"
	default:
		return ""
	}
}

func Check(id uint16) bool {
	for _, c := range List() {
		if c.Uint16() == id {
			return true
		}
	}
	return false
}

func Parse(name string) Curves {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, c := range List() {
		if c.String() == name {
			return c
		}
	}
	return 0
}
