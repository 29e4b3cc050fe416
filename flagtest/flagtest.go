// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package flagtest provides helpers for controlling feature flags in tests.
//
// Each helper installs an override on the registry and registers a cleanup
// with the testing framework, so the flag returns to its previous state
// when the test (or subtest) finishes:
//
//	func TestCheckout(t *testing.T) {
//	    flagtest.Enable(t, reg, "new_checkout")
//	    // "new_checkout" is true for the rest of this test.
//	}
//
// Helpers fail the test immediately if the override cannot be installed,
// e.g. when the flag is undefined or already overridden.
package flagtest

import (
	"testing"

	"github.com/AleutianAI/featureflags"
)

// Override installs a fixed-result override for flag and restores the
// original evaluator via t.Cleanup.
func Override(t testing.TB, r *featureflags.Registry, flag string, result any) {
	t.Helper()
	if _, err := r.Override(flag, result); err != nil {
		t.Fatalf("flagtest: override %q: %v", flag, err)
	}
	t.Cleanup(func() {
		// The test body may have reset the flag itself already.
		_ = r.ResetOverride(flag)
	})
}

// OverrideFunc installs an evaluator override for flag and restores the
// original evaluator via t.Cleanup. The evaluator's required argument
// count must match the original's, as with Registry.OverrideFunc.
func OverrideFunc(t testing.TB, r *featureflags.Registry, flag string, ev featureflags.Evaluator) {
	t.Helper()
	if _, err := r.OverrideFunc(flag, ev); err != nil {
		t.Fatalf("flagtest: override func %q: %v", flag, err)
	}
	t.Cleanup(func() {
		_ = r.ResetOverride(flag)
	})
}

// ResetAll restores every overridden flag immediately and once more at
// test cleanup, so overrides installed without flagtest cannot leak into
// later tests sharing the registry.
func ResetAll(t testing.TB, r *featureflags.Registry) {
	t.Helper()
	r.ResetAllOverrides()
	t.Cleanup(r.ResetAllOverrides)
}

// Enable forces flag to evaluate true for the duration of the test.
func Enable(t testing.TB, r *featureflags.Registry, flag string) {
	t.Helper()
	Override(t, r, flag, true)
}

// Disable forces flag to evaluate false for the duration of the test.
func Disable(t testing.TB, r *featureflags.Registry, flag string) {
	t.Helper()
	Override(t, r, flag, false)
}
