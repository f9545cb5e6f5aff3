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
	"sync"
	"time"

	"github.com/nabbar/netframe/chain"
)

// RateLimiter enforces a single global sliding window of maxReq requests
// per timePeriodSec, shared across all clients. The boundary case — an
// entry exactly timePeriodSec old — is not yet expired; only strictly
// older entries are popped.
func RateLimiter(maxReq int, timePeriodSec int) func(next chain.Handler) chain.Handler {
	var (
		mu     sync.Mutex
		window []time.Time
	)
	period := time.Duration(timePeriodSec) * time.Second

	return func(next chain.Handler) chain.Handler {
		return func(req *chain.Request, resp *chain.Response) {
			observeEntry("RateLimiter")
			now := time.Now()

			mu.Lock()
			i := 0
			for i < len(window) && now.Sub(window[i]) > period {
				i++
			}
			window = window[i:]

			if len(window) >= maxReq {
				mu.Unlock()
				reject("RateLimiter", req, resp, 403, "Forbidden")
				return
			}

			window = append(window, now)
			mu.Unlock()

			next(req, resp)
		}
	}
}
