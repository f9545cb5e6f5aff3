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

// Package tlscontext wraps a certificates.TLSConfig with the lifecycle
// operations a listening socket needs: loading chain material from files
// or from memory, wrapping a raw connection for the handshake, and
// reloading the chain in place once it approaches expiry.
package tlscontext

import (
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	libcrt "github.com/nabbar/netframe/certificates"
	libcas "github.com/nabbar/netframe/certificates/auth"
	libcrv "github.com/nabbar/netframe/certificates/tlsversion"
)

var (
	ErrNotLoaded  = errors.New("tlscontext: no certificate chain loaded")
	ErrNoCertPath = errors.New("tlscontext: reload requires a prior file-based load")
)

// DefaultExpiryMargin is how far ahead of a leaf certificate's notAfter
// ReloadIfExpired treats it as already expired, so reload happens before
// the handshake actually starts failing.
const DefaultExpiryMargin = 24 * time.Hour

// Context wraps certificates.TLSConfig with expiry tracking and hot
// reload. The live *tls.Config is held in an atomic.Value so Wrap never
// blocks behind a reload in progress.
type Context struct {
	isServer      bool
	requireVerify bool
	expiryMargin  time.Duration

	certPath string
	keyPath  string
	password string

	cfg      libcrt.TLSConfig
	caBundle *x509.CertPool
	loaded   atomic.Bool
	live     atomic.Value // *tls.Config
	leaf     atomic.Value // *x509.Certificate
}

// CreateDefault builds a Context with the framework defaults: minimum
// TLS 1.3, and client-auth mode RequireAndVerifyClientCert when
// requireVerify is true, NoClientCert otherwise. caBundle, if non-nil,
// seeds the trusted client CA pool consulted for mutual-auth
// verification on the server side.
func CreateDefault(isServer bool, caBundle *x509.CertPool, requireVerify bool) *Context {
	cfg := libcrt.New()
	cfg.SetVersionMin(libcrv.VersionTLS13.Uint16())

	auth := libcas.NoClientCert
	if requireVerify {
		auth = libcas.RequireAndVerifyClientCert
	}
	cfg.SetClientAuth(auth)

	c := &Context{
		isServer:      isServer,
		requireVerify: requireVerify,
		expiryMargin:  DefaultExpiryMargin,
		cfg:           cfg,
		caBundle:      caBundle,
	}

	c.rebuild()
	return c
}

// SetExpiryMargin overrides the default 1 day reload margin.
func (c *Context) SetExpiryMargin(d time.Duration) {
	if d > 0 {
		c.expiryMargin = d
	}
}

// EnableTLSv1_2 downgrades the minimum negotiated protocol version to TLS
// 1.2; an explicit opt-in, since the framework default is TLS 1.3.
func (c *Context) EnableTLSv1_2() {
	c.cfg.SetVersionMin(libcrv.VersionTLS12.Uint16())
	c.rebuild()
}

// LoadChainFromFiles loads a certificate+key pair from disk. If password
// is non-empty, the key file is expected to hold a PEM-encrypted private
// key (legacy RFC 1423 encryption) and is decrypted in place before
// building the pair.
func (c *Context) LoadChainFromFiles(certPath, keyPath, password string) error {
	certPEM, e := os.ReadFile(certPath)
	if e != nil {
		return fmt.Errorf("tlscontext: reading cert file: %w", e)
	}
	keyPEM, e := os.ReadFile(keyPath)
	if e != nil {
		return fmt.Errorf("tlscontext: reading key file: %w", e)
	}

	if password != "" {
		keyPEM, e = decryptKeyPEM(keyPEM, password)
		if e != nil {
			return fmt.Errorf("tlscontext: decrypting key: %w", e)
		}
	}

	if e := c.cfg.AddCertificatePairString(string(keyPEM), string(certPEM)); e != nil {
		return e
	}

	leaf, e := leafFromCertPEM(certPEM)
	if e != nil {
		return fmt.Errorf("tlscontext: parsing leaf certificate: %w", e)
	}

	c.certPath, c.keyPath, c.password = certPath, keyPath, password
	c.leaf.Store(leaf)
	c.loaded.Store(true)
	c.rebuild()
	return nil
}

// LoadChainFromMemory accepts an in-memory private key and certificate
// chain, writes them to restrictive-permission temp files under tmpDir
// (the key encrypted with a freshly generated high-entropy passphrase,
// since the underlying LoadChainFromFiles API only accepts file paths),
// loads them, and removes the temp files before returning.
func (c *Context) LoadChainFromMemory(privKey, chain []byte, tmpDir string) error {
	passphrase, e := randomPassphrase(32)
	if e != nil {
		return e
	}

	keyFile, e := os.CreateTemp(tmpDir, "tlscontext-key-*.pem")
	if e != nil {
		return fmt.Errorf("tlscontext: creating temp key file: %w", e)
	}
	keyPath := keyFile.Name()
	defer os.Remove(keyPath)

	block, _ := pem.Decode(privKey)
	if block == nil {
		_ = keyFile.Close()
		return errors.New("tlscontext: no PEM block in private key")
	}
	//nolint:staticcheck // RFC 1423 PEM encryption is what the underlying
	// file-based loader speaks; this is a scratch temp file, not at-rest storage.
	encBlock, e := x509.EncryptPEMBlock(rand.Reader, block.Type, block.Bytes, []byte(passphrase), x509.PEMCipherAES256)
	if e != nil {
		_ = keyFile.Close()
		return fmt.Errorf("tlscontext: encrypting temp key: %w", e)
	}

	if e := keyFile.Chmod(0o600); e != nil {
		_ = keyFile.Close()
		return e
	}
	if e := pem.Encode(keyFile, encBlock); e != nil {
		_ = keyFile.Close()
		return fmt.Errorf("tlscontext: writing temp key: %w", e)
	}
	if e := keyFile.Close(); e != nil {
		return e
	}

	certFile, e := os.CreateTemp(tmpDir, "tlscontext-chain-*.pem")
	if e != nil {
		return fmt.Errorf("tlscontext: creating temp chain file: %w", e)
	}
	certPath := certFile.Name()
	defer os.Remove(certPath)

	if e := certFile.Chmod(0o600); e != nil {
		_ = certFile.Close()
		return e
	}
	if _, e := certFile.Write(chain); e != nil {
		_ = certFile.Close()
		return fmt.Errorf("tlscontext: writing temp chain: %w", e)
	}
	if e := certFile.Close(); e != nil {
		return e
	}

	return c.LoadChainFromFiles(certPath, keyPath, passphrase)
}

// Wrap performs (or prepares for) the TLS handshake over conn: server
// side returns tls.Server, client side tls.Client with serverName set
// for SNI and hostname verification.
func (c *Context) Wrap(conn net.Conn, asServer bool, serverName string) (*tls.Conn, error) {
	if !c.loaded.Load() {
		return nil, ErrNotLoaded
	}

	cfg, _ := c.live.Load().(*tls.Config)
	if cfg == nil {
		return nil, ErrNotLoaded
	}

	if asServer {
		return tls.Server(conn, cfg), nil
	}

	clientCfg := cfg.Clone()
	clientCfg.ServerName = serverName
	return tls.Client(conn, clientCfg), nil
}

// ReloadIfExpired re-reads the certificate chain from the paths it was
// last loaded from if the leaf certificate is within expiryMargin of (or
// past) its notAfter. Reload failures, and a still-expired result, are
// reported to the caller but never panic; the caller is expected to log
// and keep serving with the stale context, exactly as the accept loop
// does on every TLS accept.
func (c *Context) ReloadIfExpired() (reloaded bool, err error) {
	leaf, _ := c.leaf.Load().(*x509.Certificate)
	if leaf == nil {
		return false, nil
	}

	if time.Now().Before(leaf.NotAfter.Add(-c.expiryMargin)) {
		return false, nil
	}

	if c.certPath == "" || c.keyPath == "" {
		return false, ErrNoCertPath
	}

	if e := c.LoadChainFromFiles(c.certPath, c.keyPath, c.password); e != nil {
		return false, e
	}

	if c.IsExpiring() {
		return true, errors.New("tlscontext: reloaded certificate is still within the expiry margin")
	}

	return true, nil
}

// IsExpiring reports whether the loaded leaf is within the expiry margin,
// without attempting a reload.
func (c *Context) IsExpiring() bool {
	leaf, _ := c.leaf.Load().(*x509.Certificate)
	if leaf == nil {
		return false
	}
	return !time.Now().Before(leaf.NotAfter.Add(-c.expiryMargin))
}

func (c *Context) rebuild() {
	built := c.cfg.Build("")
	// Every load appends its pair to cfg; only the most recent pair is served.
	if n := len(built.Certificates); n > 1 {
		built.Certificates = built.Certificates[n-1:]
	}
	if c.caBundle != nil {
		if c.isServer {
			built.ClientCAs = c.caBundle
		} else {
			built.RootCAs = c.caBundle
		}
	}
	c.live.Store(built)
}

func randomPassphrase(n int) (string, error) {
	buf := make([]byte, n)
	if _, e := rand.Read(buf); e != nil {
		return "", e
	}
	return fmt.Sprintf("%x", buf), nil
}

func decryptKeyPEM(keyPEM []byte, password string) ([]byte, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	//nolint:staticcheck // the only stdlib path for PEM-encrypted keys.
	der, e := x509.DecryptPEMBlock(block, []byte(password))
	if e != nil {
		return nil, e
	}
	return pem.EncodeToMemory(&pem.Block{Type: block.Type, Bytes: der}), nil
}

func leafFromCertPEM(certPEM []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	return x509.ParseCertificate(block.Bytes)
}
