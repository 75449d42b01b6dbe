// Package safe provides panic-free, cached regular expression compilation for
// the typechecks library.
//
// Patterns are matched with prefix semantics: a pattern matches when it
// matches at the start of the input, not necessarily the whole input.
// Compilation failures return explicit errors instead of panicking, so dynamic
// patterns can be handled predictably.
package safe
