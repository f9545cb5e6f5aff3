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

// Package middleware implements the chain stages a server composes ahead
// of its business handler: concurrency ceiling, rate limiting, IP
// allow/deny lists, mutual-TLS peer verification, TOTP bearer auth, and
// path-based routing.
package middleware

import (
	"golang.org/x/sync/semaphore"

	"github.com/nabbar/netframe/chain"
)

// ConcurrentLimiter caps the number of requests in flight at maxConcurrent.
// Acquisition is non-blocking: a request that finds the ceiling already
// reached is rejected with 403 rather than queued. The permit is released
// on every exit path from the downstream call, including a panic, via the
// deferred Release — a panic from next is not recovered here and keeps
// propagating to the Pre-Handler, which owns the 500 fallback.
func ConcurrentLimiter(maxConcurrent int64) func(next chain.Handler) chain.Handler {
	sem := semaphore.NewWeighted(maxConcurrent)

	return func(next chain.Handler) chain.Handler {
		return func(req *chain.Request, resp *chain.Response) {
			observeEntry("ConcurrentLimiter")
			if !sem.TryAcquire(1) {
				reject("ConcurrentLimiter", req, resp, 403, "Forbidden")
				return
			}
			defer sem.Release(1)

			next(req, resp)
		}
	}
}
