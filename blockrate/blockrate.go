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

package blockrate

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// requestRecord is one entry in the sliding window.
type requestRecord struct {
	ip string
	ts time.Time
}

// Config carries the tunables a BlockByRate instance is constructed with.
type Config struct {
	// TimeWindowSec is the sliding window's width.
	TimeWindowSec int
	// MaxNumRequests is the per-IP request count allowed inside the window
	// before the IP is blocked.
	MaxNumRequests int
	// SavedStatePath, if set, persists the blocked-host/network state as
	// JSON across restarts. Its parent directory must already exist.
	SavedStatePath string
	// GlobalStatePath, if set, is a read-only blocked-network list loaded
	// once at construction; only its networks list is consulted.
	GlobalStatePath string
}

// BlockByRate is a sliding-window per-IP request counter guarding a
// persistent blocked-host list and a read-only global blocked-network
// list. Two locks are used with a fixed acquisition order:
// requesterRecordLock may be held while briefly acquiring
// blockedStateLock; the reverse is never done.
type BlockByRate struct {
	cfg Config

	requesterRecordLock sync.Mutex
	requesterList       []requestRecord
	requesterCounter    map[string]int

	blockedStateLock sync.Mutex
	state            *BlockedState

	now func() time.Time
}

// New constructs a BlockByRate, loading any pre-existing saved state and
// the read-only global state. If SavedStatePath's parent directory does
// not exist, New fails loudly rather than silently disabling persistence.
func New(cfg Config) (*BlockByRate, error) {
	b := &BlockByRate{
		cfg:              cfg,
		requesterCounter: make(map[string]int),
		state:            NewBlockedState(),
		now:              time.Now,
	}

	if cfg.SavedStatePath != "" {
		dir := filepath.Dir(cfg.SavedStatePath)
		if _, e := os.Stat(dir); e != nil {
			return nil, fmt.Errorf("blockrate: saved state parent directory %q: %w", dir, e)
		}

		if data, e := os.ReadFile(cfg.SavedStatePath); e == nil {
			if e := json.Unmarshal(data, b.state); e != nil {
				return nil, fmt.Errorf("blockrate: parsing saved state %q: %w", cfg.SavedStatePath, e)
			}
		} else if !os.IsNotExist(e) {
			return nil, fmt.Errorf("blockrate: reading saved state %q: %w", cfg.SavedStatePath, e)
		}
	}

	if cfg.GlobalStatePath != "" {
		data, e := os.ReadFile(cfg.GlobalStatePath)
		if e != nil {
			if os.IsNotExist(e) {
				return b, nil
			}
			return nil, fmt.Errorf("blockrate: reading global state %q: %w", cfg.GlobalStatePath, e)
		}

		global := NewBlockedState()
		if e := json.Unmarshal(data, global); e != nil {
			return nil, fmt.Errorf("blockrate: parsing global state %q: %w", cfg.GlobalStatePath, e)
		}
		b.state.GlobalNetworks = global.Networks
	}

	return b, nil
}

// normalizeIP maps an IPv4-mapped IPv6 address down to its IPv4 form.
func normalizeIP(ip net.IP) net.IP {
	if v4 := ip.To4(); v4 != nil {
		return v4
	}
	return ip
}

// Check runs the full per-request algorithm: consult the blocked state,
// slide the window, update the per-IP counter, and block the IP once it
// exceeds MaxNumRequests. It returns true when the request must be
// dropped, that is when the IP was already blocked before this call; an
// IP blocked by this call itself is only dropped from its next request on.
func (b *BlockByRate) Check(rawIP string) bool {
	ip := net.ParseIP(rawIP)
	if ip == nil {
		return true
	}
	ip = normalizeIP(ip)
	key := ip.String()

	b.blockedStateLock.Lock()
	blocked := b.state.IsBlocked(ip)
	b.blockedStateLock.Unlock()

	b.requesterRecordLock.Lock()
	now := b.now()
	cutoff := now.Add(-time.Duration(b.cfg.TimeWindowSec) * time.Second)

	kept := b.requesterList[:0]
	for _, r := range b.requesterList {
		if r.ts.Before(cutoff) {
			b.requesterCounter[r.ip]--
			if b.requesterCounter[r.ip] <= 0 {
				delete(b.requesterCounter, r.ip)
			}
			continue
		}
		kept = append(kept, r)
	}
	b.requesterList = append(kept, requestRecord{ip: key, ts: now})
	b.requesterCounter[key]++

	exceeded := b.requesterCounter[key] > b.cfg.MaxNumRequests
	b.requesterRecordLock.Unlock()

	if exceeded {
		b.blockedStateLock.Lock()
		b.state.Block(ip, float64(now.UnixNano())/float64(time.Second))
		b.persistLocked()
		b.blockedStateLock.Unlock()
	}

	return blocked
}

// persistLocked writes the current state to SavedStatePath as
// tab-indented JSON, atomically via a rename. Caller must hold
// blockedStateLock.
func (b *BlockByRate) persistLocked() {
	if b.cfg.SavedStatePath == "" {
		return
	}

	data, e := json.MarshalIndent(b.state, "", "\t")
	if e != nil {
		return
	}

	tmp := b.cfg.SavedStatePath + ".tmp"
	if e := os.WriteFile(tmp, data, 0o600); e != nil {
		return
	}
	_ = os.Rename(tmp, b.cfg.SavedStatePath)
}

// IsBlocked reports the current blocked status of ip without mutating the
// sliding window. Useful for diagnostics and tests.
func (b *BlockByRate) IsBlocked(rawIP string) bool {
	ip := net.ParseIP(rawIP)
	if ip == nil {
		return true
	}
	ip = normalizeIP(ip)

	b.blockedStateLock.Lock()
	defer b.blockedStateLock.Unlock()
	return b.state.IsBlocked(ip)
}
