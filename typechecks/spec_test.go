//go:build unit

package typechecks

import (
	"math/big"
	"math/rand"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMatches_None(t *testing.T) {
	t.Parallel()

	// The none spec is satisfied exactly by absent values, nothing else.
	require.True(t, matches(nil, None()))
	require.True(t, matches((*int)(nil), None()))
	require.False(t, matches(0, None()))
	require.False(t, matches("", None()))
	require.False(t, matches(new(int), None()))
}

func TestMatches_AbstractTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		spec  Spec
		want  bool
	}{
		{"string tag accepts string", "x", String(), true},
		{"string tag accepts bytes", []byte("x"), String(), true},
		{"string tag rejects int", 1, String(), false},
		{"integer tag accepts int", 7, Integer(), true},
		{"integer tag accepts big.Int", big.NewInt(7), Integer(), true},
		{"integer tag rejects float", 7.0, Integer(), false},
		{"numeric tag accepts float", 7.0, Numeric(), true},
		{"numeric tag accepts decimal", decimal.NewFromInt(7), Numeric(), true},
		{"numeric tag rejects string", "7", Numeric(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, matches(tt.value, tt.spec))
		})
	}
}

func TestMatches_ConcreteTypeIsExact(t *testing.T) {
	t.Parallel()

	require.True(t, matches(true, Boolean()))
	require.True(t, matches(3.5, Of[float64]()))
	require.True(t, matches(decimal.NewFromInt(1), Decimal()))

	// Named types do not satisfy the underlying concrete type.
	require.False(t, matches(namedInt(5), Of[int]()))
	require.True(t, matches(namedInt(5), Of[namedInt]()))

	// But named types do satisfy the abstract tags.
	require.True(t, matches(namedInt(5), Integer()))

	require.False(t, matches(nil, Boolean()))
}

func TestMatches_TypeConstructor(t *testing.T) {
	t.Parallel()

	require.True(t, matches(5, Type(reflect.TypeOf(0))))
	require.False(t, matches("5", Type(reflect.TypeOf(0))))
	require.Panics(t, func() { Type(nil) })
}

func TestMatches_OneOf(t *testing.T) {
	t.Parallel()

	spec := OneOf(Integer(), String(), None())

	require.True(t, matches(5, spec))
	require.True(t, matches("five", spec))
	require.True(t, matches(nil, spec))
	require.False(t, matches(5.0, spec))
	require.False(t, matches(true, spec))
}

func TestMatches_OneOf_OrderIndependent(t *testing.T) {
	t.Parallel()

	alts := []Spec{Integer(), String(), Boolean(), None()}
	values := []any{5, "x", true, nil, 2.5, []int{1}}

	rng := rand.New(rand.NewSource(1))

	for range 20 {
		rng.Shuffle(len(alts), func(i, j int) { alts[i], alts[j] = alts[j], alts[i] })
		shuffled := OneOf(alts...)
		baseline := OneOf(Integer(), String(), Boolean(), None())

		for _, v := range values {
			require.Equal(t, matches(v, baseline), matches(v, shuffled))
		}
	}
}

func TestMatches_OneOf_MatchesIffAnyAlternativeMatches(t *testing.T) {
	t.Parallel()

	alts := []Spec{Integer(), Boolean(), Of[float32]()}
	values := []any{1, true, float32(2), "x", nil, 4.5}

	for _, v := range values {
		anyMatch := false
		for _, alt := range alts {
			if matches(v, alt) {
				anyMatch = true
			}
		}

		require.Equal(t, anyMatch, matches(v, OneOf(alts...)))
	}
}

func TestMatches_MalformedSpecPanics(t *testing.T) {
	t.Parallel()

	// The zero Spec is a contract violation, not a failed check.
	require.Panics(t, func() { matches(5, Spec{}) })

	// Alternations cannot nest beyond one level.
	nested := OneOf(Integer(), OneOf(String(), None()))
	require.Panics(t, func() { matches("x", nested) })
}

func TestOneOf_RequiresAlternatives(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { OneOf() })
}

func TestSpec_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec Spec
		want string
	}{
		{None(), "nil"},
		{String(), "string"},
		{Integer(), "integer"},
		{Numeric(), "numeric"},
		{Boolean(), "bool"},
		{Of[float64](), "float64"},
		{Decimal(), "decimal.Decimal"},
		{OneOf(Integer(), None()), "integer | nil"},
		{Spec{}, "<invalid spec>"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.spec.String())
	}
}

func TestOneOf_ImmutableAfterConstruction(t *testing.T) {
	t.Parallel()

	alts := []Spec{Integer()}
	spec := OneOf(alts...)

	// Mutating the caller's slice must not affect the constructed spec.
	alts[0] = String()

	require.True(t, matches(5, spec))
	require.False(t, matches("x", spec))
}
