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

package totp

import (
	"errors"
	"fmt"
	"net"
)

// ErrNoHost is returned by GenURLPrefix when neither hostname nor ip is given.
var ErrNoHost = errors.New("totp: either hostname or ip must be provided")

// GenURLPrefix builds a "scheme://host[:port]" prefix for a hostname or IP
// literal, bracketing IPv6 addresses the way a URL requires. ip takes
// precedence over hostname when both are given, matching the preference
// for the literal address over whatever name resolved to it.
func GenURLPrefix(scheme string, port int, hostname, ip string) (string, error) {
	if hostname == "" && ip == "" {
		return "", ErrNoHost
	}

	hostStr := hostname
	if ip != "" {
		addr := net.ParseIP(ip)
		if addr == nil {
			return "", fmt.Errorf("totp: invalid ip address %q", ip)
		}
		if addr.To4() != nil {
			hostStr = addr.String()
		} else {
			hostStr = "[" + addr.String() + "]"
		}
	}

	if port > 0 {
		hostStr = fmt.Sprintf("%s:%d", hostStr, port)
	}

	return fmt.Sprintf("%s://%s", scheme, hostStr), nil
}

// GenHTTPURLPrefix builds an "http://" prefix for hostname or ip.
func GenHTTPURLPrefix(port int, hostname, ip string) (string, error) {
	return GenURLPrefix("http", port, hostname, ip)
}

// GenHTTPSURLPrefix builds an "https://" prefix for hostname or ip.
func GenHTTPSURLPrefix(port int, hostname, ip string) (string, error) {
	return GenURLPrefix("https", port, hostname, ip)
}
