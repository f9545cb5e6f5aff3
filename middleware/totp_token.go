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
	"time"

	"github.com/nabbar/netframe/chain"
	"github.com/nabbar/netframe/totp"
)

// TotpToken requires the exact Authorization header format
// "TOTP_TOKEN <salt>:<hex-digest>" and validates the digest against the
// oracle's current code. On success it stashes the accepted code on
// ReqState.CurrentTOTP and forwards.
func TotpToken(oracle totp.Oracle) func(next chain.Handler) chain.Handler {
	return func(next chain.Handler) chain.Handler {
		return func(req *chain.Request, resp *chain.Response) {
			observeEntry("TotpToken")
			values := req.Headers.Get("Authorization")
			if len(values) == 0 {
				reject("TotpToken", req, resp, 403, "Forbidden")
				return
			}

			salt, digest, err := totp.ParseAuthorizationHeader(values[0])
			if err != nil {
				reject("TotpToken", req, resp, 403, "Forbidden")
				return
			}

			code := oracle.At(time.Now())
			if totp.TokenHash(salt, code) != digest {
				reject("TotpToken", req, resp, 403, "Forbidden")
				return
			}

			req.ReqState.CurrentTOTP = code
			next(req, resp)
		}
	}
}
