// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package featureflags provides a lightweight in-process feature-flag
// registry: named toggles backed by evaluator functions, with arity-checked
// evaluation and a reversible override mechanism for tests.
//
// # Design Philosophy
//
// The registry is deliberately small. Flags are defined once during
// application setup, evaluated many times, and overridden only by test
// code. There is no persistence, no remote flag distribution, no rollout
// percentages, and no user targeting: a flag is just a name bound to an
// evaluator, and evaluation is a direct in-memory call.
//
// Evaluators may return any value, not just booleans. IsActive passes the
// raw result through unchanged, so a flag can compute and return a
// configuration object while callers that only care about on/off use
// IsInactive, With, or the Truthy helper. Only nil and false are falsy.
//
// # Basic Usage
//
// Define flags during setup and evaluate them at decision points:
//
//	reg := featureflags.New(featureflags.Config{Env: "production"}, func(r *featureflags.Registry) {
//	    r.MustDefine("new_checkout", featureflags.Constant(true))
//	    r.MustDefine("discount", featureflags.Fixed(1, func(args ...any) any {
//	        return args[0].(int) > 100
//	    }))
//	})
//
//	if on, _ := reg.IsActive("discount", total); featureflags.Truthy(on) {
//	    applyDiscount()
//	}
//
// # Overrides in Tests
//
// Override replaces a flag's evaluator and remembers the original so
// ResetOverride can restore it. Overrides are single-level: overriding an
// already-overridden flag fails. For block-scoped control, OverrideWith
// swaps the evaluator only for the duration of a function and restores it
// on every exit path, including panics:
//
//	err := reg.OverrideWith("new_checkout", false, func() {
//	    runLegacyCheckoutTest()
//	})
//
// The flagtest subpackage wires overrides to testing.TB cleanup.
//
// # Arity
//
// Every evaluator declares how many positional arguments it accepts, fixed
// or variadic, at construction time. IsActive validates the argument count
// before invoking the evaluator and returns an ArgumentCountError naming
// the flag and the expected and given counts on mismatch. Querying an
// undefined flag never fails; it evaluates to false.
//
// # Thread Safety
//
// The registry is NOT safe for concurrent mutation. It is designed for
// single-threaded use: populate during startup, evaluate from one
// goroutine, mutate only in tests. Hosts that share a registry across
// goroutines must supply their own synchronization around Define,
// Redefine, Override, ResetOverride, ResetAllOverrides, and OverrideWith.
package featureflags
