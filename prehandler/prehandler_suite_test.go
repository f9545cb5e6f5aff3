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

package prehandler

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/nabbar/netframe/chain"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPreHandler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PreHandler Suite")
}

func newPipe() (server, client net.Conn) {
	server, client = net.Pipe()
	return
}

func readResponse(t GinkgoTInterface, client net.Conn) string {
	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	var out strings.Builder
	for {
		n, err := client.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
		}
		if err != nil {
			break
		}
		if strings.Contains(out.String(), "\r\n\r\n") {
			break
		}
	}
	return out.String()
}

var _ = Describe("Handler.Serve", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = Config{DefaultPort: 80}
	})

	It("dispatches a valid GET and writes the response, then closes", func() {
		srv, cli := newPipe()

		captured := make(chan *chain.Request, 1)
		root := func(req *chain.Request, resp *chain.Response) {
			captured <- req
			resp.SetTextMessage(200, "ok")
		}

		h := New(cfg, root, chain.NewHandlerState())
		go h.Serve(context.Background(), srv)

		_, err := cli.Write([]byte("GET /a?x=1 HTTP/1.1\r\nHost: example.com\r\n\r\n"))
		Expect(err).ToNot(HaveOccurred())

		var req *chain.Request
		Eventually(captured, time.Second).Should(Receive(&req))
		Expect(req.RelPath).To(Equal("/a"))
		Expect(req.Query).To(Equal("x=1"))
		Expect(req.Method).To(Equal("GET"))
		Expect(req.Host).To(Equal("example.com:80"))

		out := readResponse(GinkgoT(), cli)
		Expect(out).To(ContainSubstring("200"))
		Expect(out).To(ContainSubstring("ok"))

		buf := make([]byte, 8)
		_ = cli.SetReadDeadline(time.Now().Add(time.Second))
		_, err = cli.Read(buf)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a method outside the allow-list with 400", func() {
		srv, cli := newPipe()
		h := New(cfg, func(req *chain.Request, resp *chain.Response) {
			resp.SetTextMessage(200, "unreachable")
		}, chain.NewHandlerState())
		go h.Serve(context.Background(), srv)

		_, _ = cli.Write([]byte("DELETE / HTTP/1.1\r\nHost: example.com\r\n\r\n"))
		out := readResponse(GinkgoT(), cli)
		Expect(out).To(ContainSubstring("400"))
	})

	It("rejects a request missing the Host header with 400", func() {
		srv, cli := newPipe()
		h := New(cfg, func(req *chain.Request, resp *chain.Response) {
			resp.SetTextMessage(200, "unreachable")
		}, chain.NewHandlerState())
		go h.Serve(context.Background(), srv)

		_, _ = cli.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
		out := readResponse(GinkgoT(), cli)
		Expect(out).To(ContainSubstring("400"))
	})

	It("rejects a request-target with a disallowed character with 400", func() {
		srv, cli := newPipe()
		h := New(cfg, func(req *chain.Request, resp *chain.Response) {
			resp.SetTextMessage(200, "unreachable")
		}, chain.NewHandlerState())
		go h.Serve(context.Background(), srv)

		_, _ = cli.Write([]byte("GET /a<b HTTP/1.1\r\nHost: example.com\r\n\r\n"))
		out := readResponse(GinkgoT(), cli)
		Expect(out).To(ContainSubstring("400"))
	})

	It("closes without a response on an empty request line", func() {
		srv, cli := newPipe()
		h := New(cfg, func(req *chain.Request, resp *chain.Response) {
			resp.SetTextMessage(200, "unreachable")
		}, chain.NewHandlerState())
		go h.Serve(context.Background(), srv)

		_, _ = cli.Write([]byte("\r\n"))

		buf := make([]byte, 8)
		_ = cli.SetReadDeadline(time.Now().Add(time.Second))
		_, err := cli.Read(buf)
		Expect(err).To(HaveOccurred())
	})

	It("converts a handler panic into a 500 response", func() {
		srv, cli := newPipe()
		h := New(cfg, func(req *chain.Request, resp *chain.Response) {
			panic("boom")
		}, chain.NewHandlerState())
		go h.Serve(context.Background(), srv)

		_, _ = cli.Write([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))
		out := readResponse(GinkgoT(), cli)
		Expect(out).To(ContainSubstring("500"))
	})

	It("serves a second pipelined request when keep-alive is negotiated", func() {
		srv, cli := newPipe()
		count := 0
		root := func(req *chain.Request, resp *chain.Response) {
			count++
			resp.SetTextMessage(200, "ok")
			if count == 1 {
				resp.AllowKeepAlive()
			}
		}

		h := New(cfg, root, chain.NewHandlerState())
		go h.Serve(context.Background(), srv)

		_, _ = cli.Write([]byte("GET /first HTTP/1.1\r\nHost: example.com\r\nConnection: keep-alive\r\n\r\n"))
		_ = readResponse(GinkgoT(), cli)

		_, _ = cli.Write([]byte("GET /second HTTP/1.1\r\nHost: example.com\r\n\r\n"))
		out := readResponse(GinkgoT(), cli)
		Expect(out).To(ContainSubstring("200"))

		Eventually(func() int { return count }, time.Second).Should(Equal(2))

		buf := make([]byte, 8)
		_ = cli.SetReadDeadline(time.Now().Add(time.Second))
		_, err := cli.Read(buf)
		Expect(err).To(HaveOccurred())
	})

	It("returns 414 for a request line longer than the maximum", func() {
		srv, cli := newPipe()
		h := New(cfg, func(req *chain.Request, resp *chain.Response) {
			resp.SetTextMessage(200, "unreachable")
		}, chain.NewHandlerState())
		go h.Serve(context.Background(), srv)

		huge := "GET /" + strings.Repeat("a", maxRequestLineBytes+10) + " HTTP/1.1\r\n"
		go func() {
			_, _ = cli.Write([]byte(huge))
		}()

		out := readResponse(GinkgoT(), cli)
		Expect(out).To(ContainSubstring("414"))
	})
})

var _ = Describe("parseRequestLine", func() {
	It("splits method, target, and version", func() {
		m, t, v, ok := parseRequestLine("GET /a HTTP/1.1")
		Expect(ok).To(BeTrue())
		Expect(m).To(Equal("GET"))
		Expect(t).To(Equal("/a"))
		Expect(v).To(Equal("HTTP/1.1"))
	})

	It("rejects a line without three parts", func() {
		_, _, _, ok := parseRequestLine("GET /a")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("validRequestTarget", func() {
	It("accepts the allowed character set", func() {
		Expect(validRequestTarget("/a-b_c.d+e!f*g'h(i)j,k;l/m?n:o@p=q&r$s")).To(BeTrue())
	})

	It("rejects a disallowed character", func() {
		Expect(validRequestTarget("/a<b")).To(BeFalse())
	})
})

var _ = Describe("splitPathQuery", func() {
	It("separates path from query at the first '?'", func() {
		p, q := splitPathQuery("/a/b?x=1&y=2")
		Expect(p).To(Equal("/a/b"))
		Expect(q).To(Equal("x=1&y=2"))
	})

	It("returns an empty query when there is none", func() {
		p, q := splitPathQuery("/a/b")
		Expect(p).To(Equal("/a/b"))
		Expect(q).To(Equal(""))
	})
})

var _ = Describe("Config.Validate", func() {
	It("rejects a port out of range", func() {
		c := Config{DefaultPort: 0}
		Expect(c.Validate()).ToNot(BeNil())
	})

	It("accepts a valid config", func() {
		c := Config{DefaultPort: 8080}
		Expect(c.Validate()).To(BeNil())
	})
})

var _ = Describe("readExact", func() {
	It("reads exactly n bytes looping across short reads", func() {
		r := bufio.NewReader(strings.NewReader("hello world"))
		b, err := readExact(r, 5)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(b)).To(Equal("hello"))
	})

	It("returns an error when fewer than n bytes are available", func() {
		r := bufio.NewReader(strings.NewReader("hi"))
		_, err := readExact(r, 10)
		Expect(err).To(HaveOccurred())
	})
})
