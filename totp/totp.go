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

// Package totp implements the HOTP (RFC 4226) and TOTP (RFC 6238) one-time
// password algorithms, the token envelope the TotpToken middleware stage
// consumes, a key-URI builder for provisioning authenticator apps, and a
// scheme://host[:port] URL-prefix builder for hostnames and IP literals.
package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Oracle produces the current one-time code for a given instant. TotpToken
// consults an Oracle rather than holding key material itself.
type Oracle interface {
	At(t time.Time) string
}

// Generator is an Oracle backed by an HMAC-SHA1 TOTP over the given
// secret, with the standard 30 second step and 6 digit codes unless
// overridden.
type Generator struct {
	Secret []byte
	Step   time.Duration
	Digits int
}

// NewGenerator builds a Generator with RFC 6238 defaults (30s step, 6
// digits) for secret.
func NewGenerator(secret []byte) *Generator {
	return &Generator{Secret: secret, Step: 30 * time.Second, Digits: 6}
}

func (g *Generator) step() time.Duration {
	if g.Step <= 0 {
		return 30 * time.Second
	}
	return g.Step
}

func (g *Generator) digits() int {
	if g.Digits <= 0 {
		return 6
	}
	return g.Digits
}

// At returns the TOTP code for instant t.
func (g *Generator) At(t time.Time) string {
	counter := uint64(t.Unix() / int64(g.step().Seconds()))
	return HOTP(g.Secret, counter, g.digits())
}

// HOTP computes the RFC 4226 HMAC-SHA1-based one-time password for the
// given counter, truncated to digits decimal digits.
func HOTP(secret []byte, counter uint64, digits int) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], counter)

	mac := hmac.New(sha1.New, secret)
	mac.Write(buf[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	code := (uint32(sum[offset]&0x7f) << 24) |
		(uint32(sum[offset+1]) << 16) |
		(uint32(sum[offset+2]) << 8) |
		uint32(sum[offset+3])

	mod := uint32(1)
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, code%mod)
}

// TOTP computes the RFC 6238 time-stepped HOTP code for instant t.
func TOTP(secret []byte, t time.Time, step time.Duration, digits int) string {
	if step <= 0 {
		step = 30 * time.Second
	}
	counter := uint64(t.Unix() / int64(step.Seconds()))
	return HOTP(secret, counter, digits)
}

// KeyURI builds the otpauth:// provisioning URI an authenticator app scans,
// per the Google Authenticator Key URI Format.
func KeyURI(issuer, accountName string, secret []byte, digits int, step time.Duration) string {
	if digits <= 0 {
		digits = 6
	}
	if step <= 0 {
		step = 30 * time.Second
	}

	enc := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret)
	label := accountName
	if issuer != "" {
		label = fmt.Sprintf("%s:%s", issuer, accountName)
	}

	u := fmt.Sprintf("otpauth://totp/%s?secret=%s&digits=%d&period=%d",
		label, enc, digits, int(step.Seconds()))
	if issuer != "" {
		u += "&issuer=" + issuer
	}
	return u
}

// TokenHash computes the digest half of the TOTP_TOKEN envelope:
// sha512(salt + ":" + code) as lowercase hex.
func TokenHash(salt, code string) string {
	return sha512Hex(salt + ":" + code)
}

// BuildAuthorizationHeader assembles the Authorization header value a
// client sends: "TOTP_TOKEN <salt>:<hex-sha512>".
func BuildAuthorizationHeader(salt, code string) string {
	return "TOTP_TOKEN " + salt + ":" + TokenHash(salt, code)
}

const (
	saltHexLen   = 64
	digestHexLen = 128
)

// ParseAuthorizationHeader splits and validates an Authorization header
// value against the exact "TOTP_TOKEN <salt>:<hex-digest>" shape: scheme
// keyword, single colon separator, 64 hex char salt, 128 hex char digest.
func ParseAuthorizationHeader(header string) (salt, digest string, err error) {
	const scheme = "TOTP_TOKEN "
	if !strings.HasPrefix(header, scheme) {
		return "", "", fmt.Errorf("totp: missing or wrong scheme")
	}

	rest := strings.TrimPrefix(header, scheme)
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("totp: malformed separator")
	}

	salt, digest = parts[0], parts[1]
	if len(salt) != saltHexLen || !isHex(salt) {
		return "", "", fmt.Errorf("totp: unexpected salt length")
	}
	if len(digest) != digestHexLen || !isHex(digest) {
		return "", "", fmt.Errorf("totp: unexpected digest length")
	}

	return salt, digest, nil
}

func isHex(s string) bool {
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}
