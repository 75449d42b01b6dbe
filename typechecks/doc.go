// Package typechecks provides runtime type assertions that report which
// argument failed, by name, without the caller spelling the name out.
//
// The assertion functions validate a value against a type Spec or a boolean
// condition and, on failure, return a structured error naming the offending
// variable or expression, its actual value, and the expected constraint. The
// expression text is recovered from the caller's own source file by walking
// the call stack and tokenizing the call's argument list; when the source is
// unavailable the error degrades to a placeholder name instead of failing.
//
//	numThreads := "4"
//	if err := typechecks.AssertIsType(numThreads, typechecks.Integer()); err != nil {
//		// type violation: argument `numThreads` should be integer, got string (= "4")
//	}
//
// Passing assertions are free of I/O: the caller's source is read only on the
// failure path, and nothing is cached between calls.
package typechecks
