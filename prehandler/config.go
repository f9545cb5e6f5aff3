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

package prehandler

import (
	"fmt"
	"strings"

	libval "github.com/go-playground/validator/v10"

	liberr "github.com/nabbar/netframe/errors"
)

// Config is the declarative shape of a Pre-Handler: the method allow-list
// and the port a Host header without an explicit port inherits.
type Config struct {
	AllowedMethods []string `mapstructure:"allowedMethods" json:"allowedMethods" yaml:"allowedMethods" validate:"omitempty,dive,required"`
	DefaultPort    int      `mapstructure:"defaultPort" json:"defaultPort" yaml:"defaultPort" validate:"required,min=1,max=65535"`
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

// methodSet resolves the configured allow-list, defaulting to {GET, POST}
// when none was provided, canonicalized to upper-case for lookup.
func (c Config) methodSet() map[string]struct{} {
	list := c.AllowedMethods
	if len(list) == 0 {
		list = []string{"GET", "POST"}
	}

	set := make(map[string]struct{}, len(list))
	for _, m := range list {
		set[strings.ToUpper(m)] = struct{}{}
	}

	return set
}
