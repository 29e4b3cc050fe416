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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOverride_RoundTrip verifies override then reset restores the
// original evaluator's behavior.
func TestOverride_RoundTrip(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f", Constant(false))

	saved, err := reg.Override("f", true)
	require.NoError(t, err)
	assert.True(t, reg.Overridden("f"))

	v, err := reg.IsActive("f")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	// The saved evaluator is the pre-override one.
	assert.Equal(t, false, saved.fn())

	require.NoError(t, reg.ResetOverride("f"))
	assert.False(t, reg.Overridden("f"))

	v, err = reg.IsActive("f")
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

// TestOverride_NotDefined verifies overriding an unknown flag fails.
func TestOverride_NotDefined(t *testing.T) {
	reg := New(Config{}, nil)

	_, err := reg.Override("ghost", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotDefined)

	var ndErr *NotDefinedError
	require.ErrorAs(t, err, &ndErr)
	assert.Equal(t, "ghost", ndErr.Flag)
}

// TestOverride_SingleLevel verifies re-overriding an overridden flag is
// rejected and leaves the first override in place.
func TestOverride_SingleLevel(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f", Constant("original"))

	_, err := reg.Override("f", "first")
	require.NoError(t, err)

	_, err = reg.Override("f", "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyDefined)

	var defErr *AlreadyDefinedError
	require.ErrorAs(t, err, &defErr)
	assert.True(t, defErr.Overridden)

	v, err := reg.IsActive("f")
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	require.NoError(t, reg.ResetOverride("f"))
	v, err = reg.IsActive("f")
	require.NoError(t, err)
	assert.Equal(t, "original", v)
}

// TestOverride_IgnoresArguments verifies a fixed-result override accepts
// any argument count, regardless of the original evaluator's arity.
func TestOverride_IgnoresArguments(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f", Fixed(2, func(args ...any) any { return false }))

	_, err := reg.Override("f", true)
	require.NoError(t, err)

	// While overridden, arity is the override's, not the original's.
	v, err := reg.IsActive("f")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = reg.IsActive("f", 1, 2, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	// After reset the original fixed arity applies again.
	require.NoError(t, reg.ResetOverride("f"))
	_, err = reg.IsActive("f")
	assert.ErrorIs(t, err, ErrArgumentCount)
}

// TestOverrideFunc verifies replacement evaluators must match the original
// required argument count.
func TestOverrideFunc(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f", Fixed(2, func(args ...any) any { return "orig" }))

	// Matching required count is accepted.
	_, err := reg.OverrideFunc("f", Fixed(2, func(args ...any) any { return "repl" }))
	require.NoError(t, err)

	v, err := reg.IsActive("f", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "repl", v)
	require.NoError(t, reg.ResetOverride("f"))

	// Mismatched count is rejected with the expected and given counts.
	_, err = reg.OverrideFunc("f", Fixed(3, func(args ...any) any { return "repl" }))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArgumentCount)

	var countErr *ArgumentCountError
	require.ErrorAs(t, err, &countErr)
	assert.Equal(t, "f", countErr.Flag)
	assert.Equal(t, 2, countErr.Expected.Required)
	assert.Equal(t, 3, countErr.Given)
	assert.False(t, reg.Overridden("f"), "failed override must not be recorded")
}

// TestOverrideFunc_VariadicNormalization verifies variadic arities compare
// by their required count on both sides.
func TestOverrideFunc_VariadicNormalization(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f", Variadic(2, func(args ...any) any { return "orig" }))

	// A variadic replacement with the same required count is accepted.
	_, err := reg.OverrideFunc("f", Variadic(2, func(args ...any) any { return "repl" }))
	require.NoError(t, err)
	require.NoError(t, reg.ResetOverride("f"))

	// So is a fixed replacement with the same required count.
	_, err = reg.OverrideFunc("f", Fixed(2, func(args ...any) any { return "repl" }))
	require.NoError(t, err)

	// While overridden, the fixed replacement's arity governs: the
	// variadic tail is gone.
	_, err = reg.IsActive("f", 1, 2, 3)
	assert.ErrorIs(t, err, ErrArgumentCount)
	require.NoError(t, reg.ResetOverride("f"))

	_, err = reg.OverrideFunc("f", Variadic(1, func(args ...any) any { return "repl" }))
	assert.ErrorIs(t, err, ErrArgumentCount)
}

// TestResetOverride_NotOverridden verifies resetting a flag without an
// active override fails, defined or not.
func TestResetOverride_NotOverridden(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f", Constant(true))

	err := reg.ResetOverride("f")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotOverridden)

	err = reg.ResetOverride("ghost")
	assert.ErrorIs(t, err, ErrNotOverridden)
}

// TestResetAllOverrides verifies every override is cleared and original
// evaluators are restored.
func TestResetAllOverrides(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f1", Constant("one"))
	reg.MustDefine("f2", Constant("two"))
	reg.MustDefine("untouched", Constant("three"))

	_, err := reg.Override("f1", true)
	require.NoError(t, err)
	_, err = reg.Override("f2", true)
	require.NoError(t, err)

	reg.ResetAllOverrides()

	assert.False(t, reg.Overridden("f1"))
	assert.False(t, reg.Overridden("f2"))

	for name, want := range map[string]string{"f1": "one", "f2": "two", "untouched": "three"} {
		v, err := reg.IsActive(name)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	// Idempotent on an empty overrides map.
	reg.ResetAllOverrides()
}

// TestOverrideWith verifies the swap is visible only inside the block.
func TestOverrideWith(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f", Constant(false))

	var inside any
	err := reg.OverrideWith("f", true, func() {
		inside, _ = reg.IsActive("f")
		// The scoped swap is not an override in the bookkeeping sense.
		assert.False(t, reg.Overridden("f"))
	})
	require.NoError(t, err)
	assert.Equal(t, true, inside)

	v, err := reg.IsActive("f")
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

// TestOverrideWith_NotDefined verifies scoped overrides require a defined
// flag and the block does not run otherwise.
func TestOverrideWith_NotDefined(t *testing.T) {
	reg := New(Config{}, nil)

	ran := false
	err := reg.OverrideWith("ghost", true, func() { ran = true })
	assert.ErrorIs(t, err, ErrNotDefined)
	assert.False(t, ran)
}

// TestOverrideWith_RestoresOnPanic verifies the original evaluator comes
// back even when the block panics.
func TestOverrideWith_RestoresOnPanic(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f", Constant("original"))

	func() {
		defer func() {
			require.NotNil(t, recover(), "the block's panic must propagate")
		}()
		_ = reg.OverrideWith("f", "temporary", func() {
			panic("boom")
		})
	}()

	v, err := reg.IsActive("f")
	require.NoError(t, err)
	assert.Equal(t, "original", v)
}

// TestOverrideWith_Nested verifies scoped overrides bypass the single-level
// check: they can nest and stack on top of a standing Override.
func TestOverrideWith_Nested(t *testing.T) {
	reg := New(Config{}, nil)
	reg.MustDefine("f", Constant("original"))

	_, err := reg.Override("f", "standing")
	require.NoError(t, err)

	err = reg.OverrideWith("f", "outer", func() {
		v, _ := reg.IsActive("f")
		assert.Equal(t, "outer", v)

		innerErr := reg.OverrideWith("f", "inner", func() {
			v, _ := reg.IsActive("f")
			assert.Equal(t, "inner", v)
		})
		require.NoError(t, innerErr)

		v, _ = reg.IsActive("f")
		assert.Equal(t, "outer", v)
	})
	require.NoError(t, err)

	// Back to the standing override, and reset restores the original.
	v, err := reg.IsActive("f")
	require.NoError(t, err)
	assert.Equal(t, "standing", v)

	require.NoError(t, reg.ResetOverride("f"))
	v, err = reg.IsActive("f")
	require.NoError(t, err)
	assert.Equal(t, "original", v)
}
