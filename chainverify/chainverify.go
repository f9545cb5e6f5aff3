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

// Package chainverify walks a peer-presented X.509 certificate chain and
// verifies each link against a trust-anchor set without delegating to
// crypto/x509's built-in chain-building verifier: it implements the
// adjacency check (issuer/subject equality plus signature validity)
// explicitly, tail to head, so the mutual-TLS stage controls exactly what
// "verified" means for this framework.
package chainverify

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"time"
)

var (
	ErrEmptyChain         = errors.New("chainverify: empty certificate chain")
	ErrNoTrustedRoot      = errors.New("chainverify: no trusted root found for chain")
	ErrNoMatch            = errors.New("chainverify: no candidate certificate matches trust anchor")
	ErrUnsupportedKey     = errors.New("chainverify: unsupported public key algorithm")
	ErrSignatureInvalid   = errors.New("chainverify: signature does not validate")
	ErrCertificateExpired = errors.New("chainverify: certificate outside its validity window")
)

// Verifier holds the trust-anchor set this server validates peer chains
// against.
type Verifier struct {
	trusted []*x509.Certificate
	now     func() time.Time
}

// New builds a Verifier from a set of trust anchors (typically the
// configured client CA pool's parsed certificates).
func New(trustAnchors []*x509.Certificate) *Verifier {
	return &Verifier{trusted: trustAnchors, now: time.Now}
}

// Result is the outcome of a successful verification.
type Result struct {
	Leaf          *x509.Certificate
	Intermediates []*x509.Certificate
	Root          *x509.Certificate
}

func spki(c *x509.Certificate) []byte {
	return c.RawSubjectPublicKeyInfo
}

// findRoot walks chain tail to head; a trusted cert qualifies as the
// chain's root if its SPKI matches some chain cert (it's already present,
// duplicated) or its subject equals some chain cert's issuer.
func findRoot(chain []*x509.Certificate, trusted []*x509.Certificate) *x509.Certificate {
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]
		for _, t := range trusted {
			if bytes.Equal(spki(t), spki(c)) {
				return t
			}
			if bytes.Equal(t.RawSubject, c.RawIssuer) {
				return t
			}
		}
	}
	return nil
}

// Verify implements the algorithm in full: find a root, then iteratively
// strip one certificate at a time from the tail, matching either a
// duplicate-of-trusted (remove, keep trusted) or an issued-by-trusted
// link (remove, prepend to verified, advance trusted), until the chain is
// exhausted.
func (v *Verifier) Verify(chain []*x509.Certificate) (*Result, error) {
	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}

	root := findRoot(chain, v.trusted)
	if root == nil {
		return nil, ErrNoTrustedRoot
	}

	remaining := append([]*x509.Certificate(nil), chain...)
	verified := make([]*x509.Certificate, 0, len(chain))
	trusted := root

	for len(remaining) > 0 {
		matched := -1

		for i := len(remaining) - 1; i >= 0; i-- {
			c := remaining[i]

			if bytes.Equal(spki(c), spki(trusted)) {
				matched = i
				break
			}

			if bytes.Equal(c.RawIssuer, trusted.RawSubject) {
				if e := checkSignature(c, trusted); e != nil {
					continue
				}
				if !withinValidity(c, v.now()) {
					continue
				}

				verified = append([]*x509.Certificate{c}, verified...)
				trusted = c
				matched = i
				break
			}
		}

		if matched < 0 {
			return nil, ErrNoMatch
		}

		remaining = append(remaining[:matched], remaining[matched+1:]...)
	}

	if len(verified) == 0 {
		return nil, ErrNoMatch
	}

	res := &Result{
		Leaf: verified[0],
		Root: root,
	}
	if len(verified) > 1 {
		res.Intermediates = verified[1:]
	}

	return res, nil
}

func withinValidity(c *x509.Certificate, now time.Time) bool {
	return !now.Before(c.NotBefore) && !now.After(c.NotAfter)
}

// checkSignature validates c's signature against issuer's public key,
// dispatched by the issuer's key algorithm.
func checkSignature(c, issuer *x509.Certificate) error {
	switch pub := issuer.PublicKey.(type) {
	case ed25519.PublicKey:
		if !ed25519.Verify(pub, c.RawTBSCertificate, c.Signature) {
			return ErrSignatureInvalid
		}
		return nil

	case *ecdsa.PublicKey:
		h := hashForAlgorithm(c.SignatureAlgorithm)
		if h == 0 {
			return ErrUnsupportedKey
		}
		digest, e := digestTBS(c, h)
		if e != nil {
			return e
		}
		if !ecdsa.VerifyASN1(pub, digest, c.Signature) {
			return ErrSignatureInvalid
		}
		return nil

	case *rsa.PublicKey:
		h := hashForAlgorithm(c.SignatureAlgorithm)
		if h == 0 {
			return ErrUnsupportedKey
		}
		digest, e := digestTBS(c, h)
		if e != nil {
			return e
		}
		if isPSS(c.SignatureAlgorithm) {
			opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto, Hash: h}
			if e := rsa.VerifyPSS(pub, h, digest, c.Signature, opts); e != nil {
				return ErrSignatureInvalid
			}
			return nil
		}
		if e := rsa.VerifyPKCS1v15(pub, h, digest, c.Signature); e != nil {
			return ErrSignatureInvalid
		}
		return nil

	default:
		return ErrUnsupportedKey
	}
}

func digestTBS(c *x509.Certificate, h crypto.Hash) ([]byte, error) {
	hasher := h.New()
	if _, e := hasher.Write(c.RawTBSCertificate); e != nil {
		return nil, e
	}
	return hasher.Sum(nil), nil
}

func hashForAlgorithm(alg x509.SignatureAlgorithm) crypto.Hash {
	switch alg {
	case x509.SHA256WithRSA, x509.ECDSAWithSHA256, x509.SHA256WithRSAPSS:
		return crypto.SHA256
	case x509.SHA384WithRSA, x509.ECDSAWithSHA384, x509.SHA384WithRSAPSS:
		return crypto.SHA384
	case x509.SHA512WithRSA, x509.ECDSAWithSHA512, x509.SHA512WithRSAPSS:
		return crypto.SHA512
	case x509.SHA1WithRSA, x509.ECDSAWithSHA1:
		return crypto.SHA1
	default:
		return 0
	}
}

func isPSS(alg x509.SignatureAlgorithm) bool {
	switch alg {
	case x509.SHA256WithRSAPSS, x509.SHA384WithRSAPSS, x509.SHA512WithRSAPSS:
		return true
	default:
		return false
	}
}
