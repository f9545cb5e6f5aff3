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

package middleware_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nabbar/netframe/blockrate"
	"github.com/nabbar/netframe/chain"
	"github.com/nabbar/netframe/chainverify"
	. "github.com/nabbar/netframe/middleware"
	"github.com/nabbar/netframe/totp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

func newReq() (*chain.Request, *chain.Response) {
	return &chain.Request{
		Headers:  chain.NewHeader(),
		ReqState: chain.NewRequestState(),
	}, chain.NewResponse()
}

func ok(req *chain.Request, resp *chain.Response) {
	resp.SetTextMessage(200, "OK")
}

var _ = Describe("ConcurrentLimiter", func() {
	It("rejects once the concurrency ceiling is exhausted", func() {
		release := make(chan struct{})
		started := make(chan struct{}, 2)

		blocking := func(req *chain.Request, resp *chain.Response) {
			started <- struct{}{}
			<-release
			resp.SetTextMessage(200, "OK")
		}

		h := ConcurrentLimiter(1)(blocking)

		go func() {
			req, resp := newReq()
			h(req, resp)
		}()

		Eventually(started).Should(Receive())

		req, resp := newReq()
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))

		close(release)
	})

	It("lets a downstream panic propagate instead of swallowing it", func() {
		h := ConcurrentLimiter(1)(func(req *chain.Request, resp *chain.Response) {
			panic("boom")
		})

		req, resp := newReq()
		Expect(func() { h(req, resp) }).To(PanicWith("boom"))
	})

	It("still releases the permit when downstream panics", func() {
		limiter := ConcurrentLimiter(1)
		hPanic := limiter(func(req *chain.Request, resp *chain.Response) {
			panic("boom")
		})
		hOK := limiter(ok)

		req, resp := newReq()
		func() {
			defer func() { recover() }()
			hPanic(req, resp)
		}()

		req2, resp2 := newReq()
		Expect(func() { hOK(req2, resp2) }).ToNot(Panic())
		Expect(resp2.StatusCode).To(Equal(200))
	})
})

var _ = Describe("RateLimiter", func() {
	It("allows up to maxReq requests per window and rejects the next", func() {
		h := RateLimiter(2, 60)(ok)

		req, resp := newReq()
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))

		req, resp = newReq()
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))

		req, resp = newReq()
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))
	})
})

var _ = Describe("IPNetwork", func() {
	It("allows an IP matching an allow rule", func() {
		_, cidr, _ := net.ParseCIDR("10.0.0.0/8")
		h := IPNetwork([]NetworkRule{{Net: cidr, Allow: true}})(ok)

		req, resp := newReq()
		req.ReqState.ClientIP = "10.1.2.3"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))
	})

	It("denies an IP matching a deny rule ahead of a later allow rule", func() {
		_, deny, _ := net.ParseCIDR("10.1.0.0/16")
		_, allow, _ := net.ParseCIDR("10.0.0.0/8")
		h := IPNetwork([]NetworkRule{
			{Net: deny, Allow: false},
			{Net: allow, Allow: true},
		})(ok)

		req, resp := newReq()
		req.ReqState.ClientIP = "10.1.2.3"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))
	})

	It("denies an IP matching no rule", func() {
		_, cidr, _ := net.ParseCIDR("10.0.0.0/8")
		h := IPNetwork([]NetworkRule{{Net: cidr, Allow: true}})(ok)

		req, resp := newReq()
		req.ReqState.ClientIP = "192.168.1.1"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))
	})
})

func genECDSAKey() *ecdsa.PrivateKey {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	Expect(err).ToNot(HaveOccurred())
	return priv
}

func selfSignedRoot(cn string, priv *ecdsa.PrivateKey) *x509.Certificate {
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	Expect(err).ToNot(HaveOccurred())

	c, err := x509.ParseCertificate(der)
	Expect(err).ToNot(HaveOccurred())

	return c
}

func issueLeaf(cn string, issuer *x509.Certificate, issuerKey *ecdsa.PrivateKey) *x509.Certificate {
	priv := genECDSAKey()

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn},
		DNSNames:     []string{cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, issuer, &priv.PublicKey, issuerKey)
	Expect(err).ToNot(HaveOccurred())

	c, err := x509.ParseCertificate(der)
	Expect(err).ToNot(HaveOccurred())

	return c
}

var _ = Describe("TLS", func() {
	It("rejects a request with no TLS state", func() {
		v := chainverify.New(nil)
		h := TLS(v)(ok)

		req, resp := newReq()
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))
	})

	It("populates peer fields and forwards on a verified chain", func() {
		rootKey := genECDSAKey()
		root := selfSignedRoot("peer-root.local", rootKey)
		leaf := issueLeaf("peer.local", root, rootKey)

		v := chainverify.New([]*x509.Certificate{root})
		h := TLS(v)(ok)

		req, resp := newReq()
		req.TLSState = &tls.ConnectionState{PeerCertificates: []*x509.Certificate{leaf}}
		h(req, resp)

		Expect(resp.StatusCode).To(Equal(200))
		Expect(req.ReqState.PeerCommonName).To(Equal("peer.local"))
	})

	It("rejects a chain the verifier cannot validate", func() {
		rootKey := genECDSAKey()
		root := selfSignedRoot("untrusted-root.local", rootKey)
		leaf := issueLeaf("untrusted.local", root, rootKey)

		otherKey := genECDSAKey()
		other := selfSignedRoot("other-root.local", otherKey)

		v := chainverify.New([]*x509.Certificate{other})
		h := TLS(v)(ok)

		req, resp := newReq()
		req.TLSState = &tls.ConnectionState{PeerCertificates: []*x509.Certificate{leaf}}
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))
	})
})

const fixedSalt = "ab01ab01ab01ab01ab01ab01ab01ab01ab01ab01ab01ab01ab01ab01ab01ab01"

var _ = Describe("TotpToken", func() {
	var secret = []byte("12345678901234567890")

	It("accepts a correctly hashed current code", func() {
		gen := totp.NewGenerator(secret)
		code := gen.At(time.Now())
		header := totp.BuildAuthorizationHeader(fixedSalt, code)

		h := TotpToken(gen)(ok)

		req, resp := newReq()
		req.Headers.Set("Authorization", header)
		h(req, resp)

		Expect(resp.StatusCode).To(Equal(200))
		Expect(req.ReqState.CurrentTOTP).To(Equal(code))
	})

	It("rejects a missing Authorization header", func() {
		gen := totp.NewGenerator(secret)
		h := TotpToken(gen)(ok)

		req, resp := newReq()
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))
	})

	It("rejects a digest that does not match the current code", func() {
		gen := totp.NewGenerator(secret)
		header := totp.BuildAuthorizationHeader(fixedSalt, "000000")

		h := TotpToken(gen)(ok)

		req, resp := newReq()
		req.Headers.Set("Authorization", header)
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))
	})
})

var _ = Describe("HandlerByPath", func() {
	It("routes the empty path to the root handler", func() {
		root := func(req *chain.Request, resp *chain.Response) {
			resp.SetTextMessage(200, "root")
		}
		h := HandlerByPath(Routes{"": {"GET": root}})

		req, resp := newReq()
		req.Method = "GET"
		req.RelPath = ""
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))
		Expect(string(resp.Body)).To(Equal("root"))
	})

	It("routes /a to its handler with an empty remainder", func() {
		handlerA := func(req *chain.Request, resp *chain.Response) {
			Expect(req.RelPath).To(Equal(""))
			resp.SetTextMessage(200, "a")
		}
		h := HandlerByPath(Routes{"/a": {"GET": handlerA}})

		req, resp := newReq()
		req.Method = "GET"
		req.RelPath = "/a"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))
	})

	It("routes /a/b to the /a handler with remainder /b", func() {
		handlerA := func(req *chain.Request, resp *chain.Response) {
			Expect(req.RelPath).To(Equal("/b"))
			resp.SetTextMessage(200, "a-with-remainder")
		}
		h := HandlerByPath(Routes{"/a": {"GET": handlerA}})

		req, resp := newReq()
		req.Method = "GET"
		req.RelPath = "/a/b"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))
	})

	It("404s an unmatched this-level key", func() {
		h := HandlerByPath(Routes{"/a": {"GET": ok}})

		req, resp := newReq()
		req.Method = "GET"
		req.RelPath = "/z"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(404))
	})

	It("404s a method miss under a matched key", func() {
		h := HandlerByPath(Routes{"/a": {"GET": ok}})

		req, resp := newReq()
		req.Method = "POST"
		req.RelPath = "/a"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(404))
	})

	It("404s a path not starting with /", func() {
		h := HandlerByPath(Routes{"": {"GET": ok}})

		req, resp := newReq()
		req.Method = "GET"
		req.RelPath = "a"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(404))
	})
})

var _ = Describe("EndPointHandler", func() {
	It("forwards when relPath is fully consumed", func() {
		h := EndPointHandler(ok)

		req, resp := newReq()
		req.RelPath = ""
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))
	})

	It("404s when relPath still has a remainder", func() {
		h := EndPointHandler(ok)

		req, resp := newReq()
		req.RelPath = "/b"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(404))
	})
})

var _ = Describe("BlockByRate", func() {
	It("rejects once the limiter reports the IP blocked", func() {
		dir, err := os.MkdirTemp("", "blockrate-mw")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)

		limiter, err := blockrate.New(blockrate.Config{
			TimeWindowSec:  60,
			MaxNumRequests: 1,
			SavedStatePath: filepath.Join(dir, "state.json"),
		})
		Expect(err).ToNot(HaveOccurred())

		h := BlockByRate(limiter)(ok)

		req, resp := newReq()
		req.ReqState.ClientIP = "203.0.113.7"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))

		req, resp = newReq()
		req.ReqState.ClientIP = "203.0.113.7"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))

		req, resp = newReq()
		req.ReqState.ClientIP = "203.0.113.7"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))
	})
})

var _ = Describe("LoadIPNetworkRules", func() {
	It("decodes a generic config value into rules and applies them in order", func() {
		raw := []map[string]interface{}{
			{"cidr": "10.1.0.0/16", "allow": false},
			{"cidr": "10.0.0.0/8", "allow": true},
		}

		rules, err := LoadIPNetworkRules(raw)
		Expect(err).To(BeNil())
		Expect(rules).To(HaveLen(2))

		h := IPNetwork(rules)(ok)

		req, resp := newReq()
		req.ReqState.ClientIP = "10.1.2.3"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(403))

		req, resp = newReq()
		req.ReqState.ClientIP = "10.2.2.3"
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))
	})

	It("rejects a malformed CIDR", func() {
		raw := []map[string]interface{}{{"cidr": "not-a-cidr", "allow": true}}
		_, err := LoadIPNetworkRules(raw)
		Expect(err).ToNot(BeNil())
	})
})

var _ = Describe("BuildRoutes", func() {
	It("resolves route entries against a handler registry", func() {
		registry := map[string]chain.Handler{
			"root": ok,
		}
		entries := []RouteEntry{{Path: "", Method: "GET", HandlerName: "root"}}

		routes, err := BuildRoutes(entries, registry)
		Expect(err).To(BeNil())

		h := HandlerByPath(routes)
		req, resp := newReq()
		req.Method = "GET"
		req.RelPath = ""
		h(req, resp)
		Expect(resp.StatusCode).To(Equal(200))
	})

	It("fails when a route names a handler absent from the registry", func() {
		entries := []RouteEntry{{Path: "/a", Method: "GET", HandlerName: "missing"}}
		_, err := BuildRoutes(entries, map[string]chain.Handler{})
		Expect(err).ToNot(BeNil())
	})
})
