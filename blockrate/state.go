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

// Package blockrate implements a sliding-window, per-IP request counter
// backed by a persistent blocked-host list and a read-only global
// blocked-network list.
package blockrate

import (
	"encoding/json"
	"net"
)

// hostEntry is one blocked IP with the timestamp it was blocked at.
type hostEntry struct {
	IP        string  `json:"ip"`
	Timestamp float64 `json:"timestamp"`
}

// netEntry is one blocked CIDR network.
type netEntry struct {
	Net string `json:"net"`
}

// BlockedState is the JSON-serializable blocked-host and blocked-network
// set consulted on every request. Networks and GlobalNetworks are
// sets of CIDR ranges; GlobalNetworks is read-only after load.
type BlockedState struct {
	Hosts          map[string]float64
	Networks       []*net.IPNet
	GlobalNetworks []*net.IPNet
}

// NewBlockedState returns an empty BlockedState ready to be populated or
// loaded from disk.
func NewBlockedState() *BlockedState {
	return &BlockedState{
		Hosts: make(map[string]float64),
	}
}

type wireState struct {
	Hosts    []hostEntry `json:"hosts"`
	Networks []netEntry  `json:"networks"`
}

// MarshalJSON renders the {"hosts":[...],"networks":[...]} schema. Only
// Networks is serialized; GlobalNetworks lives in the separate global
// state file and is never written back out by this side.
func (b *BlockedState) MarshalJSON() ([]byte, error) {
	w := wireState{
		Hosts:    make([]hostEntry, 0, len(b.Hosts)),
		Networks: make([]netEntry, 0, len(b.Networks)),
	}
	for ip, ts := range b.Hosts {
		w.Hosts = append(w.Hosts, hostEntry{IP: ip, Timestamp: ts})
	}
	for _, n := range b.Networks {
		w.Networks = append(w.Networks, netEntry{Net: n.String()})
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the {"hosts":[...],"networks":[...]} schema into
// Networks; GlobalNetworks is populated separately by New from the
// global state file.
func (b *BlockedState) UnmarshalJSON(data []byte) error {
	var w wireState
	if e := json.Unmarshal(data, &w); e != nil {
		return e
	}

	hosts := make(map[string]float64, len(w.Hosts))
	for _, h := range w.Hosts {
		hosts[h.IP] = h.Timestamp
	}

	nets := make([]*net.IPNet, 0, len(w.Networks))
	for _, n := range w.Networks {
		_, ipn, e := net.ParseCIDR(n.Net)
		if e != nil {
			continue
		}
		nets = append(nets, ipn)
	}

	b.Hosts = hosts
	b.Networks = nets
	return nil
}

// IsBlocked reports whether ip is blocked: present verbatim in Hosts, or
// contained in any Networks or GlobalNetworks range.
func (b *BlockedState) IsBlocked(ip net.IP) bool {
	if _, ok := b.Hosts[ip.String()]; ok {
		return true
	}
	for _, n := range b.Networks {
		if n.Contains(ip) {
			return true
		}
	}
	for _, n := range b.GlobalNetworks {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Block adds ip to the blocked-hosts set with the given timestamp.
func (b *BlockedState) Block(ip net.IP, timestamp float64) {
	if b.Hosts == nil {
		b.Hosts = make(map[string]float64)
	}
	b.Hosts[ip.String()] = timestamp
}
