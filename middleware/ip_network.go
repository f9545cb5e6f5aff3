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
	"net"

	"github.com/nabbar/netframe/chain"
)

// NetworkRule is one entry of an IPNetwork stage's ordered rule list.
type NetworkRule struct {
	Net   *net.IPNet
	Allow bool
}

// IPNetwork matches the peer IP (chain.RequestState.ClientIP, populated
// upstream by the Pre-Handler) against rules in order; the first match
// wins. No match denies.
func IPNetwork(rules []NetworkRule) func(next chain.Handler) chain.Handler {
	return func(next chain.Handler) chain.Handler {
		return func(req *chain.Request, resp *chain.Response) {
			observeEntry("IPNetwork")
			ip := net.ParseIP(req.ReqState.ClientIP)
			if ip == nil {
				reject("IPNetwork", req, resp, 403, "Forbidden")
				return
			}

			for _, r := range rules {
				if r.Net.Contains(ip) {
					if r.Allow {
						next(req, resp)
						return
					}
					reject("IPNetwork", req, resp, 403, "Forbidden")
					return
				}
			}

			reject("IPNetwork", req, resp, 403, "Forbidden")
		}
	}
}
