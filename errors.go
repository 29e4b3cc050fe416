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
	"errors"
	"fmt"
)

// Sentinel errors for registry operations. The typed errors below unwrap to
// these, so callers can branch with errors.Is or extract fields with
// errors.As.
var (
	// ErrAlreadyDefined is returned by Define when the flag name is taken,
	// and by Override when the flag already carries an override.
	ErrAlreadyDefined = errors.New("feature flag already defined")

	// ErrNotDefined is returned by Override and OverrideWith when the
	// target flag was never defined.
	ErrNotDefined = errors.New("feature flag not defined")

	// ErrNotOverridden is returned by ResetOverride when the target flag
	// has no active override.
	ErrNotOverridden = errors.New("feature flag not overridden")

	// ErrArgumentCount is returned when an argument count does not satisfy
	// an evaluator's declared arity.
	ErrArgumentCount = errors.New("feature flag argument count mismatch")
)

// AlreadyDefinedError reports a name collision: either a duplicate Define,
// or an Override on a flag that is already overridden (overrides are
// single-level).
type AlreadyDefinedError struct {
	// Flag is the conflicting flag name.
	Flag string

	// Overridden is true when the conflict is an existing override rather
	// than an existing definition.
	Overridden bool
}

// Error implements the error interface.
func (e *AlreadyDefinedError) Error() string {
	if e.Overridden {
		return fmt.Sprintf("feature flag %q is already overridden", e.Flag)
	}
	return fmt.Sprintf("feature flag %q is already defined", e.Flag)
}

// Unwrap returns ErrAlreadyDefined for errors.Is support.
func (e *AlreadyDefinedError) Unwrap() error {
	return ErrAlreadyDefined
}

// NotDefinedError reports an operation on a flag that was never defined.
type NotDefinedError struct {
	// Flag is the missing flag name.
	Flag string
}

// Error implements the error interface.
func (e *NotDefinedError) Error() string {
	return fmt.Sprintf("feature flag %q is not defined", e.Flag)
}

// Unwrap returns ErrNotDefined for errors.Is support.
func (e *NotDefinedError) Unwrap() error {
	return ErrNotDefined
}

// NotOverriddenError reports a ResetOverride on a flag with no active
// override.
type NotOverriddenError struct {
	// Flag is the flag name.
	Flag string
}

// Error implements the error interface.
func (e *NotOverriddenError) Error() string {
	return fmt.Sprintf("feature flag %q is not overridden", e.Flag)
}

// Unwrap returns ErrNotOverridden for errors.Is support.
func (e *NotOverriddenError) Unwrap() error {
	return ErrNotOverridden
}

// ArgumentCountError reports an argument count that does not satisfy an
// evaluator's arity. IsActive returns it when the call-time argument count
// is wrong; OverrideFunc returns it when a replacement evaluator's required
// count disagrees with the original's.
type ArgumentCountError struct {
	// Flag is the flag name.
	Flag string

	// Expected is the arity the evaluator declared.
	Expected Arity

	// Given is the argument count that was supplied.
	Given int
}

// Error implements the error interface.
func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("feature flag %q expects %s, given %d", e.Flag, e.Expected, e.Given)
}

// Unwrap returns ErrArgumentCount for errors.Is support.
func (e *ArgumentCountError) Unwrap() error {
	return ErrArgumentCount
}
