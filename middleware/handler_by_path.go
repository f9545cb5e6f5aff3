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
)

// Routes is a path -> method -> handler routing table. Handlers are
// themselves chain.Handler values, so a route's target can be another
// HandlerByPath table, enabling recursive routing.
type Routes map[string]map[string]chain.Handler

// splitPath applies the first-level path-splitting rule: the this-level
// component is "/<segment>" where segment is the longest run of
// alphanumerics plus '-'/'_' immediately after the leading '/'; the
// remainder starts at the next non-alphanumeric character. Empty input
// matches the key "". A non-empty path not starting with '/' is invalid.
func splitPath(relPath string) (thisLevel, rest string, ok bool) {
	if relPath == "" {
		return "", "", true
	}
	if relPath[0] != '/' {
		return "", "", false
	}

	i := 1
	for i < len(relPath) && isSegmentByte(relPath[i]) {
		i++
	}

	return relPath[:i], relPath[i:], true
}

func isSegmentByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	default:
		return false
	}
}

// HandlerByPath builds a chain.Handler that dispatches on the first path
// level, then the request method, recursing into the matched handler
// with relPath rewritten to the remainder.
func HandlerByPath(routes Routes) chain.Handler {
	return func(req *chain.Request, resp *chain.Response) {
		observeEntry("HandlerByPath")
		thisLevel, rest, ok := splitPath(req.RelPath)
		if !ok {
			reject("HandlerByPath", req, resp, 404, "Not Found")
			return
		}

		byMethod, ok := routes[thisLevel]
		if !ok {
			reject("HandlerByPath", req, resp, 404, "Not Found")
			return
		}

		h, ok := byMethod[req.Method]
		if !ok {
			reject("HandlerByPath", req, resp, 404, "Not Found")
			return
		}

		sub := *req
		sub.RelPath = rest
		h(&sub, resp)
	}
}

// EndPointHandler wraps a leaf chain.Handler, enforcing that routing has
// fully consumed relPath before the handler runs.
func EndPointHandler(h chain.Handler) chain.Handler {
	return func(req *chain.Request, resp *chain.Response) {
		observeEntry("EndPointHandler")
		if req.RelPath != "" {
			reject("EndPointHandler", req, resp, 404, "Not Found")
			return
		}
		h(req, resp)
	}
}
