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

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"

	liberr "github.com/nabbar/netframe/errors"
	"github.com/nabbar/netframe/network"
)

// Config is the declarative shape of a listening address: Host may be a
// v4/v6 literal or a hostname, Port 0 requests an OS-assigned ephemeral
// port, and Protocol overrides the family auto-detected from Host.
type Config struct {
	Host     string           `mapstructure:"host" json:"host" yaml:"host"`
	Port     int              `mapstructure:"port" json:"port" yaml:"port" validate:"min=0,max=65535"`
	Protocol network.Protocol `mapstructure:"protocol" json:"protocol" yaml:"protocol"`
}

func (c Config) Validate() liberr.Error {
	err := ErrorValidateConfig.Error(nil)

	if e := libval.New().Struct(c); e != nil {
		if verr, ok := e.(libval.ValidationErrors); ok {
			for _, f := range verr {
				err.AddParent(fmt.Errorf("config field '%s' fails constraint '%s'", f.StructNamespace(), f.ActualTag()))
			}
		} else {
			err.AddParent(e)
		}
	}

	if err.HasParent() {
		return err
	}

	return nil
}
