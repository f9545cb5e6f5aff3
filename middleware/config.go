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

package middleware

import (
	"fmt"
	"net"
	"os"

	libval "github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/nabbar/netframe/chain"
	liberr "github.com/nabbar/netframe/errors"
)

// IPNetworkRuleConfig is the declarative, file-loadable shape of one
// IPNetwork rule: a CIDR string and an allow/deny flag.
type IPNetworkRuleConfig struct {
	CIDR  string `mapstructure:"cidr" json:"cidr" yaml:"cidr" validate:"required,cidr"`
	Allow bool   `mapstructure:"allow" json:"allow" yaml:"allow"`
}

func validateStruct(v interface{}) liberr.Error {
	if e := libval.New().Struct(v); e != nil {
		err := ErrorValidateConfig.Error(nil)
		if verr, ok := e.(libval.ValidationErrors); ok {
			for _, f := range verr {
				err.AddParent(fmt.Errorf("config field '%s' fails constraint '%s'", f.StructNamespace(), f.ActualTag()))
			}
		} else {
			err.AddParent(e)
		}
		return err
	}
	return nil
}

func buildNetworkRules(cfgs []IPNetworkRuleConfig) ([]NetworkRule, liberr.Error) {
	rules := make([]NetworkRule, 0, len(cfgs))

	for _, c := range cfgs {
		if e := validateStruct(&c); e != nil {
			return nil, e
		}

		_, ipnet, e := net.ParseCIDR(c.CIDR)
		if e != nil {
			return nil, ErrorInvalidCIDR.ErrorParent(e)
		}

		rules = append(rules, NetworkRule{Net: ipnet, Allow: c.Allow})
	}

	return rules, nil
}

// LoadIPNetworkRules decodes a generic config value (as produced by a
// config-file unmarshaller handing back map[string]interface{}/
// []interface{}) into the IPNetwork stage's ordered rule list, validating
// each CIDR along the way.
func LoadIPNetworkRules(data interface{}) ([]NetworkRule, liberr.Error) {
	var cfgs []IPNetworkRuleConfig

	if e := mapstructure.Decode(data, &cfgs); e != nil {
		return nil, ErrorDecodeConfig.ErrorParent(e)
	}

	return buildNetworkRules(cfgs)
}

// LoadIPNetworkRulesFile reads a YAML file of IPNetworkRuleConfig entries
// and builds the IPNetwork stage's rule list from it, for the common case
// of a human-authored allow/deny list checked into the deployment repo.
func LoadIPNetworkRulesFile(path string) ([]NetworkRule, liberr.Error) {
	data, e := os.ReadFile(path)
	if e != nil {
		return nil, ErrorDecodeConfig.ErrorParent(e)
	}

	var cfgs []IPNetworkRuleConfig
	if e := yaml.Unmarshal(data, &cfgs); e != nil {
		return nil, ErrorDecodeConfig.ErrorParent(e)
	}

	return buildNetworkRules(cfgs)
}

// RouteEntry is the declarative shape of one HandlerByPath route: a
// this-level path key, an HTTP method, and the name of a handler resolved
// against a caller-supplied registry (handlers are functions and cannot
// themselves come from config).
type RouteEntry struct {
	Path        string `mapstructure:"path" json:"path" yaml:"path"`
	Method      string `mapstructure:"method" json:"method" yaml:"method" validate:"required"`
	HandlerName string `mapstructure:"handler" json:"handler" yaml:"handler" validate:"required"`
}

// LoadRouteEntries decodes a generic config value into a RouteEntry list.
func LoadRouteEntries(data interface{}) ([]RouteEntry, liberr.Error) {
	var entries []RouteEntry

	if e := mapstructure.Decode(data, &entries); e != nil {
		return nil, ErrorDecodeConfig.ErrorParent(e)
	}

	for _, entry := range entries {
		if e := validateStruct(&entry); e != nil {
			return nil, e
		}
	}

	return entries, nil
}

// BuildRoutes resolves a RouteEntry list against a handler registry,
// producing the Routes table HandlerByPath dispatches on.
func BuildRoutes(entries []RouteEntry, registry map[string]chain.Handler) (Routes, liberr.Error) {
	routes := make(Routes)

	for _, entry := range entries {
		h, ok := registry[entry.HandlerName]
		if !ok {
			return nil, ErrorUnknownHandler.Error(fmt.Errorf("handler %q", entry.HandlerName))
		}

		if routes[entry.Path] == nil {
			routes[entry.Path] = make(map[string]chain.Handler)
		}
		routes[entry.Path][entry.Method] = h
	}

	return routes, nil
}
