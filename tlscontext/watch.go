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

package tlscontext

import (
	"context"

	"github.com/fsnotify/fsnotify"
)

// Watch proactively reloads the chain when its certificate or key file
// changes on disk, instead of waiting for the next accept's
// ReloadIfExpired check to notice an expiry. It runs until ctx is
// cancelled; watch errors and reload errors are both reported on the
// returned channel rather than stopping the watch, mirroring
// ReloadIfExpired's own log-and-continue behavior on the accept path.
func (c *Context) Watch(ctx context.Context) (<-chan error, error) {
	if c.certPath == "" || c.keyPath == "" {
		return nil, ErrNoCertPath
	}

	w, e := fsnotify.NewWatcher()
	if e != nil {
		return nil, e
	}
	if e := w.Add(c.certPath); e != nil {
		_ = w.Close()
		return nil, e
	}
	if e := w.Add(c.keyPath); e != nil {
		_ = w.Close()
		return nil, e
	}

	errs := make(chan error, 1)

	go func() {
		defer w.Close()
		defer close(errs)

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if e := c.LoadChainFromFiles(c.certPath, c.keyPath, c.password); e != nil {
					select {
					case errs <- e:
					default:
					}
				}

			case e, ok := <-w.Errors:
				if !ok {
					return
				}
				select {
				case errs <- e:
				default:
				}
			}
		}
	}()

	return errs, nil
}
