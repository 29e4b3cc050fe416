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

import "fmt"

// EvalFunc is the callable behind a flag. It receives the positional
// arguments passed to IsActive and returns the flag's result. The result is
// not coerced: any value may be returned, and only nil and false are
// interpreted as falsy (see Truthy).
type EvalFunc func(args ...any) any

// Arity describes how many positional arguments an evaluator accepts.
//
// A fixed arity accepts exactly Required arguments. A variadic arity
// accepts Required or more. Arity is computed once when an Evaluator is
// constructed, never inferred at call time.
type Arity struct {
	// Required is the number of mandatory positional arguments.
	Required int

	// Variadic reports whether additional arguments beyond Required
	// are accepted.
	Variadic bool
}

// Accepts reports whether an argument count satisfies the arity.
func (a Arity) Accepts(n int) bool {
	if a.Variadic {
		return n >= a.Required
	}
	return n == a.Required
}

// String returns a human-readable form used in error messages, e.g.
// "exactly 2 arguments" or "1 or more arguments".
func (a Arity) String() string {
	if a.Variadic {
		return fmt.Sprintf("%d or more arguments", a.Required)
	}
	if a.Required == 1 {
		return "exactly 1 argument"
	}
	return fmt.Sprintf("exactly %d arguments", a.Required)
}

// Evaluator bundles an EvalFunc with its declared arity. The zero value is
// not usable; construct evaluators with Fixed, Variadic, or Constant.
type Evaluator struct {
	arity Arity
	fn    EvalFunc
}

// Fixed returns an evaluator that requires exactly required arguments.
// It panics if required is negative or fn is nil.
func Fixed(required int, fn EvalFunc) Evaluator {
	return newEvaluator(Arity{Required: required}, fn)
}

// Variadic returns an evaluator that requires at least required arguments
// and accepts any number beyond that. It panics if required is negative or
// fn is nil.
func Variadic(required int, fn EvalFunc) Evaluator {
	return newEvaluator(Arity{Required: required, Variadic: true}, fn)
}

// Constant returns a variadic evaluator that ignores its arguments and
// always returns v. Override uses it for fixed-result overrides, and the
// registry uses Constant(false) as the fallback for undefined flags.
func Constant(v any) Evaluator {
	return Variadic(0, func(...any) any { return v })
}

func newEvaluator(arity Arity, fn EvalFunc) Evaluator {
	if arity.Required < 0 {
		panic(fmt.Sprintf("featureflags: negative required argument count %d", arity.Required))
	}
	if fn == nil {
		panic("featureflags: nil evaluator function")
	}
	return Evaluator{arity: arity, fn: fn}
}

// Arity returns the evaluator's declared arity.
func (e Evaluator) Arity() Arity {
	return e.arity
}

// valid reports whether the evaluator was built by a constructor.
func (e Evaluator) valid() bool {
	return e.fn != nil
}

// Truthy reports whether an evaluator result counts as "active". Only nil
// and false are falsy; every other value, including zero numbers and empty
// strings, is truthy. This mirrors how evaluators are allowed to return
// arbitrary computed values rather than strict booleans.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}
