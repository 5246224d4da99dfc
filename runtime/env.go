// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtime ties the [github.com/go-asn1rt/asn1rt/ber],
// [github.com/go-asn1rt/asn1rt/per], and [github.com/go-asn1rt/asn1rt/avn]
// codecs together behind a single rule-selectable [Env], plus a small
// concurrency-safe registry for named [Module] collaborators.
package runtime

import (
	"github.com/go-asn1rt/asn1rt"
	"github.com/go-asn1rt/asn1rt/avn"
	"github.com/go-asn1rt/asn1rt/ber"
	"github.com/go-asn1rt/asn1rt/per"
)

// Env selects an encoding [Rule] and dispatches Encode/Decode to the
// matching codec package. Its zero value uses [RuleAVN]; construct with
// [NewEnv] to pick a different rule explicitly.
type Env struct {
	Rule Rule

	registry *moduleRegistry
}

// NewEnv returns an Env that encodes and decodes using rule.
func NewEnv(rule Rule) *Env {
	return &Env{Rule: rule, registry: newModuleRegistry()}
}

func (e *Env) reg() *moduleRegistry {
	if e.registry == nil {
		e.registry = newModuleRegistry()
	}
	return e.registry
}

// RegisterModule adds m to the environment's module registry, replacing any
// existing module of the same name.
func (e *Env) RegisterModule(m Module) { e.reg().RegisterModule(m) }

// UnregisterModule removes the module named name, if any.
func (e *Env) UnregisterModule(name string) { e.reg().UnregisterModule(name) }

// FindModule looks up the module named name, returning [ErrModuleNotFound]
// if none is registered. Safe for concurrent use, including concurrent use
// alongside RegisterModule/UnregisterModule.
func (e *Env) FindModule(name string) (Module, error) { return e.reg().FindModule(name) }

// Encode renders v per e.Rule: BER/PER produce a binary []byte, AVN
// produces its text re-encoded as []byte.
func (e *Env) Encode(v *asn1rt.Value) ([]byte, error) {
	switch e.Rule {
	case RuleBER:
		return ber.Encode(v)
	case RulePERAligned:
		return per.Encode(v)
	case RuleAVN:
		s, err := avn.Encode(v)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	default:
		return nil, asn1rt.ErrUnsupported
	}
}

// Decode parses data into v per e.Rule. For BER/PER it fails with
// [asn1rt.ErrTruncated] if trailing bytes remain after the value; AVN's
// parser enforces that itself.
func (e *Env) Decode(data []byte, v *asn1rt.Value) error {
	switch e.Rule {
	case RuleBER:
		n, err := ber.Decode(data, v)
		if err != nil {
			return err
		}
		if n != len(data) {
			return asn1rt.ErrTruncated
		}
		return nil
	case RulePERAligned:
		n, err := per.Decode(data, v)
		if err != nil {
			return err
		}
		if n != len(data) {
			return asn1rt.ErrTruncated
		}
		return nil
	case RuleAVN:
		return avn.Decode(string(data), v)
	default:
		return asn1rt.ErrUnsupported
	}
}

// FormatAVN renders v as value notation regardless of e.Rule, for
// diagnostics (error messages, test failure output) where a rule-specific
// binary dump would be unreadable.
func (e *Env) FormatAVN(v *asn1rt.Value) (string, error) {
	return avn.Encode(v)
}
