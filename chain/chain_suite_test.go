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

package chain_test

import (
	"context"
	"testing"

	. "github.com/nabbar/netframe/chain"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestChain(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Chain Suite")
}

var _ = Describe("HandlerState", func() {
	It("stores, retrieves and deletes values", func() {
		hs := NewHandlerState()
		hs.Set("k", 1)

		v, ok := hs.Get("k")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))

		hs.Delete("k")
		_, ok = hs.Get("k")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("RequestState", func() {
	It("assigns a fresh, non-empty correlation id on construction", func() {
		a := NewRequestState()
		b := NewRequestState()

		Expect(a.RequestID).ToNot(BeEmpty())
		Expect(b.RequestID).ToNot(BeEmpty())
		Expect(a.RequestID).ToNot(Equal(b.RequestID))
	})
})

var _ = Describe("Response", func() {
	It("defaults to status 500 and flips wasSent once", func() {
		r := NewResponse()
		Expect(r.StatusCode).To(Equal(500))
		Expect(r.WasSent()).To(BeFalse())

		r.MarkSent()
		Expect(r.WasSent()).To(BeTrue())
	})

	It("sets JSON body with Content-Type and Content-Length", func() {
		r := NewResponse()
		Expect(r.SetJSONBody(map[string]int{"a": 1}, 200)).To(Succeed())

		Expect(r.StatusCode).To(Equal(200))
		Expect(r.GetHeader("Content-Type")).To(ContainElement("application/json; charset=utf-8"))
		Expect(r.GetHeader("Content-Length")).ToNot(BeEmpty())
	})

	It("preserves header insertion order including repeats", func() {
		r := NewResponse()
		r.AddHeader("X-A", "1")
		r.AddHeader("X-B", "2")
		r.AddHeader("X-A", "3")

		Expect(r.Headers.Keys()).To(Equal([]string{"X-A", "X-B"}))
		Expect(r.GetHeader("X-A")).To(Equal([]string{"1", "3"}))
	})
})

var _ = Describe("Chain", func() {
	It("runs stages outside-in around the final handler", func() {
		var order []string

		stage := func(name string) func(Handler) Handler {
			return func(next Handler) Handler {
				return func(req *Request, resp *Response) {
					order = append(order, name)
					next(req, resp)
				}
			}
		}

		final := func(req *Request, resp *Response) {
			order = append(order, "final")
			resp.SetStatusCode(200)
		}

		h := Chain(stage("a"), stage("b"))(final)

		req := &Request{Terminate: context.Background()}
		resp := NewResponse()
		h(req, resp)

		Expect(order).To(Equal([]string{"a", "b", "final"}))
		Expect(resp.StatusCode).To(Equal(200))
	})
})
