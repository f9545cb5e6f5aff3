/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package certificates_test

import (
	"os"
	"path/filepath"

	. "github.com/nabbar/netframe/certificates"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	It("validates and loads certificate pairs named by file", func() {
		dir := GinkgoT().TempDir()

		pub, key := genPairPEM()

		keyFile := filepath.Join(dir, "key.pem")
		crtFile := filepath.Join(dir, "cert.pem")

		Expect(os.WriteFile(keyFile, []byte(key), 0o600)).To(Succeed())
		Expect(os.WriteFile(crtFile, []byte(pub), 0o600)).To(Succeed())

		cfg := &Config{
			CertFiles: []CertPairFile{{Key: keyFile, Cert: crtFile}},
		}
		Expect(cfg.Validate()).To(BeNil())

		tlsCfg, err := cfg.New()
		Expect(err).To(BeNil())
		Expect(tlsCfg.LenCertificatePair()).To(Equal(1))
	})

	It("fails validation when a named file does not exist", func() {
		cfg := &Config{
			CertFiles: []CertPairFile{{Key: "/no/such/key.pem", Cert: "/no/such/cert.pem"}},
		}
		Expect(cfg.Validate()).ToNot(BeNil())
	})
})
