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

package middleware

import (
	"github.com/nabbar/netframe/chain"
	"github.com/nabbar/netframe/chainverify"
)

// TLS is the mutual-auth peer verifier stage. It expects req.TLSState to
// be populated (the underlying connection must be a TLS socket); a nil
// TLSState or an empty peer certificate chain rejects with 403.
// Verification never relies on the TLS library's built-in chain check —
// it delegates entirely to chainverify.Verifier.
func TLS(v *chainverify.Verifier) func(next chain.Handler) chain.Handler {
	return func(next chain.Handler) chain.Handler {
		return func(req *chain.Request, resp *chain.Response) {
			observeEntry("TLS")
			if req.TLSState == nil || len(req.TLSState.PeerCertificates) == 0 {
				reject("TLS", req, resp, 403, "Forbidden")
				return
			}

			res, err := v.Verify(req.TLSState.PeerCertificates)
			if err != nil {
				reject("TLS", req, resp, 403, "Forbidden")
				return
			}

			req.ReqState.PeerCert = res.Leaf
			req.ReqState.PeerIntermediateCerts = res.Intermediates
			req.ReqState.PeerRootCert = res.Root
			if len(res.Leaf.Subject.CommonName) > 0 {
				req.ReqState.PeerCommonName = res.Leaf.Subject.CommonName
			}
			req.ReqState.PeerAltName = append([]string(nil), res.Leaf.DNSNames...)

			next(req, resp)
		}
	}
}
