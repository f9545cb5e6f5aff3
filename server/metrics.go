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

package server

import "github.com/prometheus/client_golang/prometheus"

// Registry is this package's own prometheus registry, exported so a
// caller can expose it on its own metrics endpoint rather than this
// module reaching for net/http to serve one itself.
var Registry = prometheus.NewRegistry()

var (
	acceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "server_connections_accepted_total",
		Help: "Total TCP connections accepted by the server.",
	})

	activeConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "server_connections_active",
		Help: "Connections currently being served.",
	})

	tlsReloadFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "server_tls_reload_failures_total",
		Help: "TLS context reloads attempted on accept that failed.",
	})
)

func init() {
	Registry.MustRegister(acceptedTotal, activeConnections, tlsReloadFailuresTotal)
}
