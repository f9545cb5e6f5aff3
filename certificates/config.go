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

package certificates

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"

	tlsaut "github.com/nabbar/netframe/certificates/auth"
	tlscpr "github.com/nabbar/netframe/certificates/cipher"
	tlscrv "github.com/nabbar/netframe/certificates/curves"
	tlsvrs "github.com/nabbar/netframe/certificates/tlsversion"
	liberr "github.com/nabbar/netframe/errors"
)

// Config is the declarative, file-loadable shape of a TLSConfig: the
// fields a server config file or client config file carries for its TLS
// context, decoded by mapstructure from a config map or unmarshalled
// directly from JSON/YAML.
type Config struct {
	RootCAFiles          []string        `mapstructure:"rootCAFiles" json:"rootCAFiles" yaml:"rootCAFiles" validate:"dive,file"`
	RootCAStrings        []string        `mapstructure:"rootCAStrings" json:"rootCAStrings" yaml:"rootCAStrings"`
	ClientCAFiles        []string        `mapstructure:"clientCAFiles" json:"clientCAFiles" yaml:"clientCAFiles" validate:"dive,file"`
	ClientCAStrings      []string        `mapstructure:"clientCAStrings" json:"clientCAStrings" yaml:"clientCAStrings"`
	CertFiles            []CertPairFile  `mapstructure:"certFiles" json:"certFiles" yaml:"certFiles" validate:"dive"`
	CipherList           []tlscpr.Cipher `mapstructure:"cipherList" json:"cipherList" yaml:"cipherList"`
	CurveList            []tlscrv.Curves `mapstructure:"curveList" json:"curveList" yaml:"curveList"`
	VersionMin           tlsvrs.Version  `mapstructure:"versionMin" json:"versionMin" yaml:"versionMin"`
	VersionMax           tlsvrs.Version  `mapstructure:"versionMax" json:"versionMax" yaml:"versionMax"`
	AuthClient           tlsaut.ClientAuth `mapstructure:"authClient" json:"authClient" yaml:"authClient"`
	DynamicSizingDisable bool            `mapstructure:"dynamicSizingDisable" json:"dynamicSizingDisable" yaml:"dynamicSizingDisable"`
	SessionTicketDisable bool            `mapstructure:"sessionTicketDisable" json:"sessionTicketDisable" yaml:"sessionTicketDisable"`
}

// CertPairFile names a certificate/key file pair on disk.
type CertPairFile struct {
	Key  string `mapstructure:"key" json:"key" yaml:"key" validate:"required,file"`
	Cert string `mapstructure:"cert" json:"cert" yaml:"cert" validate:"required,file"`
}

func (c *Config) Validate() liberr.Error {
	err := ErrorValidatorError.Error(nil)

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

// New builds a TLSConfig from this declarative config, loading every file
// and string it names. It stops at the first file load error; a root or
// client CA string that fails to parse is skipped without an error.
func (c *Config) New() (TLSConfig, liberr.Error) {
	t := New()

	for _, f := range c.RootCAFiles {
		if e := t.AddRootCAFile(f); e != nil {
			return nil, ErrorCertAppend.ErrorParent(e)
		}
	}
	for _, s := range c.RootCAStrings {
		t.AddRootCAString(s)
	}
	for _, f := range c.ClientCAFiles {
		if e := t.AddClientCAFile(f); e != nil {
			return nil, ErrorCertAppend.ErrorParent(e)
		}
	}
	for _, s := range c.ClientCAStrings {
		t.AddClientCAString(s)
	}
	for _, p := range c.CertFiles {
		if e := t.AddCertificatePairFile(p.Key, p.Cert); e != nil {
			return nil, ErrorCertKeyPairLoad.ErrorParent(e)
		}
	}

	t.SetCipherList(c.CipherList)
	t.SetCurveList(c.CurveList)
	t.SetVersionMin(c.VersionMin.Uint16())
	t.SetVersionMax(c.VersionMax.Uint16())
	t.SetClientAuth(c.AuthClient)
	t.SetDynamicSizingDisabled(c.DynamicSizingDisable)
	t.SetSessionTicketDisabled(c.SessionTicketDisable)

	return t, nil
}
