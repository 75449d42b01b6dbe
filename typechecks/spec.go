package typechecks

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// specKind discriminates the closed set of supported spec shapes. The zero
// value is deliberately invalid so an uninitialized Spec is caught by the
// matcher as a contract violation.
type specKind uint8

const (
	specInvalid specKind = iota
	specNone
	specString
	specInteger
	specNumeric
	specConcrete
	specOneOf
)

// Spec describes the type constraint an assertion will accept: absence (nil),
// an abstract tag covering every in-process representation of a concept, a
// concrete runtime type, or a one-level alternation of those.
//
// Specs are immutable once constructed and are compared only against values
// under test, never checked themselves.
type Spec struct {
	kind specKind
	typ  reflect.Type
	alts []Spec
}

// None returns the spec satisfied only by an absent (nil) value.
func None() Spec {
	return Spec{kind: specNone}
}

// String returns the abstract string spec, satisfied by every textual
// representation the runtime exposes (see IsString).
func String() Spec {
	return Spec{kind: specString}
}

// Integer returns the abstract integer spec, satisfied by every whole-number
// representation the runtime exposes (see IsInteger).
func Integer() Spec {
	return Spec{kind: specInteger}
}

// Numeric returns the abstract numeric spec, satisfied by integers and
// floating-point representations alike (see IsNumeric).
func Numeric() Spec {
	return Spec{kind: specNumeric}
}

// Boolean returns the spec for the concrete bool type.
func Boolean() Spec {
	return Spec{kind: specConcrete, typ: reflect.TypeOf(false)}
}

// Type returns a spec satisfied only by values whose runtime type is exactly t.
// Panics if t is nil; use None for absent values.
func Type(t reflect.Type) Spec {
	if t == nil {
		panic("typechecks: Type called with nil reflect.Type, use None for absent values")
	}

	return Spec{kind: specConcrete, typ: t}
}

// Of returns a spec satisfied only by values whose runtime type is exactly T.
func Of[T any]() Spec {
	return Spec{kind: specConcrete, typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// OneOf returns a spec satisfied when at least one alternative is satisfied.
// Only one level of alternation is permitted: an alternative that is itself
// an alternation is rejected by the matcher.
func OneOf(alts ...Spec) Spec {
	if len(alts) == 0 {
		panic("typechecks: OneOf requires at least one alternative")
	}

	return Spec{kind: specOneOf, alts: slices.Clone(alts)}
}

// String renders the spec the way error messages describe expected types.
func (s Spec) String() string {
	switch s.kind {
	case specNone:
		return "nil"
	case specString:
		return "string"
	case specInteger:
		return "integer"
	case specNumeric:
		return "numeric"
	case specConcrete:
		return s.typ.String()
	case specOneOf:
		parts := make([]string, len(s.alts))
		for i, alt := range s.alts {
			parts[i] = alt.String()
		}

		return strings.Join(parts, " | ")
	default:
		return "<invalid spec>"
	}
}

// matches reports whether value satisfies spec.
//
// A malformed spec (the zero Spec, or an alternation nested beyond one level)
// is a contract violation by the caller and panics immediately; it is never
// reported as an ordinary type violation.
func matches(value any, spec Spec) bool {
	return matchSpec(value, spec, false)
}

func matchSpec(value any, spec Spec, nested bool) bool {
	switch spec.kind {
	case specNone:
		return isNilValue(value)
	case specString:
		return IsString(value)
	case specInteger:
		return IsInteger(value)
	case specNumeric:
		return IsNumeric(value)
	case specConcrete:
		return reflect.TypeOf(value) == spec.typ
	case specOneOf:
		if nested {
			panic(fmt.Sprintf("typechecks: alternation nested beyond one level in spec %s", spec))
		}

		for _, alt := range spec.alts {
			if matchSpec(value, alt, true) {
				return true
			}
		}

		return false
	default:
		panic(fmt.Sprintf("typechecks: invalid type spec %#v", spec))
	}
}

// Decimal returns the spec for the concrete decimal.Decimal type.
func Decimal() Spec {
	return Spec{kind: specConcrete, typ: reflect.TypeOf(decimal.Decimal{})}
}
