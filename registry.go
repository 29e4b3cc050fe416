// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package featureflags

import (
	"fmt"
	"log/slog"
	"sort"
)

// fallback evaluates undefined flags: accepts any arguments, returns false.
var fallback = Constant(false)

// Config configures a Registry.
//
// All fields are optional. The zero Config produces a registry with no
// environment label and no logging.
type Config struct {
	// Env is an opaque environment label compared by EnvMatches.
	// Empty means no environment is set.
	Env string

	// Logger receives Debug-level records for definitions and override
	// state changes. Nil disables logging.
	Logger *slog.Logger
}

// Registry maps flag names to evaluators and tracks active overrides.
//
// A Registry is a plain value with no global state; the embedding
// application decides its lifetime and visibility (typically one long-lived
// instance created at startup). It is not safe for concurrent mutation; see
// the package documentation.
type Registry struct {
	env       string
	logger    *slog.Logger
	flags     map[string]Evaluator
	overrides map[string]Evaluator
}

// New creates a Registry from cfg. If setup is non-nil it is invoked
// immediately with the new instance, allowing flags to be defined inline:
//
//	reg := featureflags.New(featureflags.Config{Env: "staging"}, func(r *featureflags.Registry) {
//	    r.MustDefine("beta_search", featureflags.Constant(true))
//	})
func New(cfg Config, setup func(*Registry)) *Registry {
	r := &Registry{
		env:       cfg.Env,
		logger:    cfg.Logger,
		flags:     make(map[string]Evaluator),
		overrides: make(map[string]Evaluator),
	}
	if setup != nil {
		setup(r)
	}
	return r
}

// Env returns the environment label supplied at construction, or the empty
// string if none was set.
func (r *Registry) Env() string {
	return r.env
}

// Define registers ev under name. It returns an *AlreadyDefinedError if
// name is already defined; definitions are add-only. It panics if ev was
// not built with Fixed, Variadic, or Constant.
func (r *Registry) Define(name string, ev Evaluator) error {
	if !ev.valid() {
		panic("featureflags: evaluator not built with Fixed, Variadic, or Constant")
	}
	if _, ok := r.flags[name]; ok {
		return &AlreadyDefinedError{Flag: name}
	}
	r.flags[name] = ev
	if r.logger != nil {
		r.logger.Debug("feature flag defined", "flag", name, "arity", ev.arity.String())
	}
	return nil
}

// MustDefine is like Define but panics on error. It is intended for setup
// blocks, where a duplicate definition is a programming mistake.
func (r *Registry) MustDefine(name string, ev Evaluator) {
	if err := r.Define(name, ev); err != nil {
		panic(err)
	}
}

// Redefine unconditionally assigns ev under name, bypassing the
// already-defined check. It does not touch overrides: if name is currently
// overridden, a later ResetOverride restores the evaluator saved when the
// override was applied, not ev.
func (r *Registry) Redefine(name string, ev Evaluator) {
	if !ev.valid() {
		panic("featureflags: evaluator not built with Fixed, Variadic, or Constant")
	}
	r.flags[name] = ev
	if r.logger != nil {
		r.logger.Debug("feature flag redefined", "flag", name, "arity", ev.arity.String())
	}
}

// Flags returns the currently defined flag names. The result is sorted for
// stable output, but callers must not attach meaning to the order.
func (r *Registry) Flags() []string {
	names := make([]string, 0, len(r.flags))
	for name := range r.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defined reports whether name has been defined.
func (r *Registry) Defined(name string) bool {
	_, ok := r.flags[name]
	return ok
}

// IsActive evaluates the flag and returns its raw result.
//
// An undefined flag evaluates to false with no error, regardless of the
// arguments given. For a defined flag the argument count is validated
// against the current evaluator's arity (the override's arity while
// overridden) and an *ArgumentCountError is returned on mismatch; otherwise
// the evaluator's result is passed through unchanged, so callers may return
// computed objects rather than booleans.
func (r *Registry) IsActive(name string, args ...any) (any, error) {
	ev, ok := r.flags[name]
	if !ok {
		ev = fallback
	}
	if !ev.arity.Accepts(len(args)) {
		return nil, &ArgumentCountError{Flag: name, Expected: ev.arity, Given: len(args)}
	}
	return ev.fn(args...), nil
}

// Enabled is an alias for IsActive.
func (r *Registry) Enabled(name string, args ...any) (any, error) {
	return r.IsActive(name, args...)
}

// On is an alias for IsActive.
func (r *Registry) On(name string, args ...any) (any, error) {
	return r.IsActive(name, args...)
}

// IsInactive returns the logical negation of IsActive's result interpreted
// through Truthy. Arity errors propagate unchanged.
func (r *Registry) IsInactive(name string, args ...any) (bool, error) {
	v, err := r.IsActive(name, args...)
	if err != nil {
		return false, err
	}
	return !Truthy(v), nil
}

// Disabled is an alias for IsInactive.
func (r *Registry) Disabled(name string, args ...any) (bool, error) {
	return r.IsInactive(name, args...)
}

// Off is an alias for IsInactive.
func (r *Registry) Off(name string, args ...any) (bool, error) {
	return r.IsInactive(name, args...)
}

// Presence returns the IsActive result unchanged if it is truthy, and nil
// otherwise. It distinguishes "flag produced a value" from "flag evaluated
// falsy" for callers that treat the result as an optional payload.
func (r *Registry) Presence(name string, args ...any) (any, error) {
	v, err := r.IsActive(name, args...)
	if err != nil {
		return nil, err
	}
	if !Truthy(v) {
		return nil, nil
	}
	return v, nil
}

// With invokes fn only if IsActive(name, args...) is truthy. Arity errors
// propagate and fn is not invoked.
func (r *Registry) With(name string, fn func(), args ...any) error {
	v, err := r.IsActive(name, args...)
	if err != nil {
		return err
	}
	if Truthy(v) {
		fn()
	}
	return nil
}

// EnvMatches reports whether any candidate equals the registry's
// environment label. Candidates are normalized to strings (fmt.Stringer is
// honored), so heterogeneous label types compare by their string form. It
// returns false when no environment was set at construction.
func (r *Registry) EnvMatches(candidates ...any) bool {
	if r.env == "" {
		return false
	}
	for _, c := range candidates {
		if stringify(c) == r.env {
			return true
		}
	}
	return false
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
