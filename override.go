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

// Override replaces the flag's evaluator with one that always returns
// result, saving the current evaluator so ResetOverride can restore it.
// The saved evaluator is returned to the caller.
//
// Overrides are single-level: it returns an *AlreadyDefinedError if the
// flag is already overridden, and a *NotDefinedError if it was never
// defined.
func (r *Registry) Override(name string, result any) (Evaluator, error) {
	return r.applyOverride(name, Constant(result), false)
}

// OverrideFunc is like Override but installs ev as the replacement
// evaluator instead of a fixed result. The replacement's required argument
// count must exactly match the original evaluator's required count
// (variadic arities are normalized to their required count); mismatch
// returns an *ArgumentCountError. While the override is in place, IsActive
// validates argument counts against ev's arity, not the original's.
func (r *Registry) OverrideFunc(name string, ev Evaluator) (Evaluator, error) {
	if !ev.valid() {
		panic("featureflags: evaluator not built with Fixed, Variadic, or Constant")
	}
	return r.applyOverride(name, ev, true)
}

func (r *Registry) applyOverride(name string, ev Evaluator, checkArity bool) (Evaluator, error) {
	orig, ok := r.flags[name]
	if !ok {
		return Evaluator{}, &NotDefinedError{Flag: name}
	}
	if _, active := r.overrides[name]; active {
		return Evaluator{}, &AlreadyDefinedError{Flag: name, Overridden: true}
	}
	if checkArity && ev.arity.Required != orig.arity.Required {
		return Evaluator{}, &ArgumentCountError{
			Flag:     name,
			Expected: Arity{Required: orig.arity.Required},
			Given:    ev.arity.Required,
		}
	}
	r.overrides[name] = orig
	r.flags[name] = ev
	if r.logger != nil {
		r.logger.Debug("feature flag overridden", "flag", name)
	}
	return orig, nil
}

// ResetOverride restores the evaluator saved by Override or OverrideFunc
// and clears the override. It returns a *NotOverriddenError if the flag has
// no active override.
func (r *Registry) ResetOverride(name string) error {
	orig, ok := r.overrides[name]
	if !ok {
		return &NotOverriddenError{Flag: name}
	}
	delete(r.overrides, name)
	r.flags[name] = orig
	if r.logger != nil {
		r.logger.Debug("feature flag override reset", "flag", name)
	}
	return nil
}

// ResetAllOverrides restores every overridden flag. Restoration order is
// unspecified; each restore is independent.
func (r *Registry) ResetAllOverrides() {
	for name := range r.overrides {
		// Each name is known to be overridden, so this cannot fail.
		_ = r.ResetOverride(name)
	}
}

// Overridden reports whether name currently carries an override installed
// by Override or OverrideFunc. OverrideWith swaps are invisible here.
func (r *Registry) Overridden(name string) bool {
	_, ok := r.overrides[name]
	return ok
}

// OverrideWith replaces the flag's evaluator with one returning result for
// the duration of fn only, then restores the previous evaluator. The
// restore runs on every exit path, including a panic inside fn.
//
// Unlike Override, the swap is not recorded in the overrides map and the
// single-level check does not apply, so OverrideWith calls may be nested
// and may target flags that already carry an Override. It returns a
// *NotDefinedError if the flag was never defined.
func (r *Registry) OverrideWith(name string, result any, fn func()) error {
	orig, ok := r.flags[name]
	if !ok {
		return &NotDefinedError{Flag: name}
	}
	r.flags[name] = Constant(result)
	defer func() {
		r.flags[name] = orig
		if r.logger != nil {
			r.logger.Debug("feature flag scoped override released", "flag", name)
		}
	}()
	fn()
	return nil
}
