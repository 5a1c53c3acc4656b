package mavenver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_NumericNotLexicographic(t *testing.T) {
	assert.Equal(t, -1, Compare("1.2.0", "1.10.0"))
	assert.Equal(t, 1, Compare("1.10.0", "1.2.0"))
}

func TestCompare_ReleaseSuffixStripped(t *testing.T) {
	assert.Equal(t, 0, Compare("2.0.0-RELEASE", "2.0.0"))
	assert.Equal(t, 0, Compare("5.3.1_final", "5.3.1"))
	assert.Equal(t, 0, Compare("1.1-GA", "1.1-ga"))
}

func TestCompare_ShorterSequenceIsLesser(t *testing.T) {
	assert.Equal(t, -1, Compare("1.0", "1.0.0"))
	assert.Equal(t, 1, Compare("1.0.0", "1.0"))
}

func TestCompare_Equal(t *testing.T) {
	for _, v := range []string{"1.0.0", "2.13.4", "1.0.0-beta", "9", ""} {
		assert.Zero(t, Compare(v, v), "compare(%q, %q)", v, v)
	}
}

func TestCompare_Antisymmetry(t *testing.T) {
	pairs := [][2]string{
		{"1.2.0", "1.10.0"},
		{"1.0.0-alpha", "1.0.0-beta"},
		{"2.0", "2.0.0"},
		{"3.1.4", "3.1.4"},
		{"1.0.0", "1.0.0-RELEASE"},
	}
	for _, p := range pairs {
		assert.Equal(t, -Compare(p[1], p[0]), Compare(p[0], p[1]),
			"antisymmetry for %q vs %q", p[0], p[1])
	}
}

func TestCompare_MixedTokensFallBackToStrings(t *testing.T) {
	// "alpha" vs 2 at the same position compares "alpha" against "2".
	assert.Equal(t, 1, Compare("1.alpha", "1.2"))
	assert.Equal(t, -1, Compare("1.2", "1.alpha"))
}

func TestCompare_EmptyTokensSortFirst(t *testing.T) {
	// "1..2" has an empty token at position one, which sorts before any
	// non-empty string and before any numeric token's string form.
	assert.Equal(t, -1, Compare("1..2", "1.0.2"))
}

func TestCompare_QualifierBeyondCommonPrefix(t *testing.T) {
	// Extra tokens make the version greater regardless of content.
	assert.Equal(t, 1, Compare("1.0.0-beta", "1.0.0"))
}

func TestMax(t *testing.T) {
	v, ok := Max([]string{"4.3.0", "4.3.1", "4.2.0", "5.0.0", "4.10.2"})
	require.True(t, ok)
	assert.Equal(t, "5.0.0", v)
}

func TestMax_Empty(t *testing.T) {
	_, ok := Max(nil)
	assert.False(t, ok)
}

func TestMax_RawStringTieBreak(t *testing.T) {
	// "1.0-RELEASE" and "1.0" compare equal; the higher raw string wins.
	v, ok := Max([]string{"1.0", "1.0-RELEASE"})
	require.True(t, ok)
	assert.Equal(t, "1.0-RELEASE", v)
}
