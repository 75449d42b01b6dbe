//go:build unit

package safe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompile_Valid(t *testing.T) {
	t.Parallel()

	re, err := Compile(`\d+`)
	require.NoError(t, err)
	require.True(t, re.MatchString("abc123"))
}

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Compile(`[unclosed`)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidRegex)
}

func TestCompile_CachesPattern(t *testing.T) {
	t.Parallel()

	first, err := Compile(`cache-me-\d`)
	require.NoError(t, err)

	second, err := Compile(`cache-me-\d`)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestMatchPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{"prefix match", "hello", "hello world", true},
		{"exact match", "hello", "hello", true},
		{"no match at start", "hello", "xhello", false},
		{"empty pattern", "", "anything", true},
		{"regex prefix", `\d{4}`, "2026-08-30", true},
		{"regex not at start", `\d{4}`, "year 2026", false},
		{"unanchored dollar respected", "hello$", "hello world", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := MatchPrefix(tt.pattern, tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMatchPrefix_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := MatchPrefix(`(`, "input")
	require.ErrorIs(t, err, ErrInvalidRegex)
}

func TestCompilePrefix_DistinctFromCompile(t *testing.T) {
	t.Parallel()

	plain, err := Compile(`abc`)
	require.NoError(t, err)

	prefixed, err := CompilePrefix(`abc`)
	require.NoError(t, err)
	require.NotSame(t, plain, prefixed)
	require.True(t, plain.MatchString("xxabc"))
	require.False(t, prefixed.MatchString("xxabc"))
}
