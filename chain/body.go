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

package chain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// GetRequestQuery returns the query string stashed by the Pre-Handler
// when it split the raw request-target into path and query.
func (r *Request) GetRequestQuery() string {
	return r.Query
}

// GetRequestJSON requires a Content-Type of application/json, reads
// exactly Content-Length bytes via ReadBody, and unmarshals them into v.
func (r *Request) GetRequestJSON(v interface{}) error {
	ct := r.Headers.Get("Content-Type")
	if len(ct) == 0 || !strings.HasPrefix(strings.ToLower(ct[0]), "application/json") {
		return fmt.Errorf("chain: request content-type is not application/json")
	}

	cl := r.Headers.Get("Content-Length")
	if len(cl) == 0 {
		return fmt.Errorf("chain: request has no content-length")
	}

	n, e := strconv.Atoi(cl[0])
	if e != nil || n < 0 {
		return fmt.Errorf("chain: invalid content-length %q", cl[0])
	}

	body, e := r.ReadBody(n)
	if e != nil {
		return e
	}

	return json.Unmarshal(body, v)
}
