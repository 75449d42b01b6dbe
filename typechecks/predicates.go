package typechecks

import (
	"math/big"
	"reflect"

	"github.com/shopspring/decimal"
)

// IsString reports whether v is a textual value: any value of string kind
// (named string types included) or a byte slice, the runtime's alternate
// textual representation.
//
// IsString is total: it never panics, for any input including nil.
func IsString(v any) bool {
	if v == nil {
		return false
	}

	t := reflect.TypeOf(v)

	switch t.Kind() {
	case reflect.String:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8
	default:
		return false
	}
}

// IsInteger reports whether v is a whole-number value: any signed or unsigned
// integer kind, or a math/big.Int — the arbitrary-precision integer type
// distinct from the primary integer types.
//
// IsInteger is total: it never panics, for any input including nil.
func IsInteger(v any) bool {
	if v == nil {
		return false
	}

	switch v.(type) {
	case big.Int, *big.Int:
		return true
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether v is an integer (per IsInteger) or a
// floating-point value, including math/big.Float and decimal.Decimal.
//
// IsNumeric is total: it never panics, for any input including nil.
func IsNumeric(v any) bool {
	if IsInteger(v) {
		return true
	}

	if v == nil {
		return false
	}

	switch v.(type) {
	case big.Float, *big.Float, decimal.Decimal, *decimal.Decimal:
		return true
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsListLike reports whether v is an ordered, indexable, non-mapping sequence
// container: a slice or an array. Byte slices are excluded since they are
// treated as textual values (see IsString).
//
// IsListLike is total: it never panics, for any input including nil.
func IsListLike(v any) bool {
	if v == nil {
		return false
	}

	t := reflect.TypeOf(v)

	switch t.Kind() {
	case reflect.Array:
		return true
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

// isNilValue reports whether v is absent: either an untyped nil or a typed
// nil inside a non-nil interface (nil pointer, slice, map, chan, or func).
func isNilValue(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
