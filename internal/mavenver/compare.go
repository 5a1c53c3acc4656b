// Package mavenver compares Maven-style version strings the way the
// repository tooling expects: numeric where possible, lexicographic
// otherwise. This is deliberately not full semantic versioning; the
// per-token ordering matches what the rest of the pipeline depends on.
package mavenver

import (
	"regexp"
	"strconv"
)

// releaseSuffix matches a trailing release qualifier such as
// "-RELEASE", "_Final" or "-ga" that should not affect ordering.
var releaseSuffix = regexp.MustCompile(`(?i)[-_](RELEASE|FINAL|GA)$`)

// delimiters splits on the characters Maven versions mix freely.
var delimiters = regexp.MustCompile(`[._-]`)

// token is one delimited segment of a version string. Numeric segments
// compare numerically against each other; everything else falls back to
// plain string comparison of the raw text.
type token struct {
	num   int
	isNum bool
	raw   string
}

// tokenize strips the release qualifier and splits the version on the
// '.', '_' and '-' delimiters. Consecutive delimiters yield empty
// string tokens, which sort before any non-empty token; malformed input
// never fails, every segment becomes either a number or a string.
func tokenize(v string) []token {
	v = releaseSuffix.ReplaceAllString(v, "")
	parts := delimiters.Split(v, -1)
	tokens := make([]token, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(p); err == nil {
			tokens = append(tokens, token{num: n, isNum: true, raw: p})
		} else {
			tokens = append(tokens, token{raw: p})
		}
	}
	return tokens
}

// Compare returns -1 if a sorts before b, 1 if after, and 0 if the two
// versions are equivalent under the normalization rule.
func Compare(a, b string) int {
	ta, tb := tokenize(a), tokenize(b)
	n := len(ta)
	if len(tb) < n {
		n = len(tb)
	}
	for i := 0; i < n; i++ {
		x, y := ta[i], tb[i]
		if x.isNum && y.isNum {
			switch {
			case x.num < y.num:
				return -1
			case x.num > y.num:
				return 1
			}
			continue
		}
		switch {
		case x.raw < y.raw:
			return -1
		case x.raw > y.raw:
			return 1
		}
	}
	switch {
	case len(ta) < len(tb):
		return -1
	case len(ta) > len(tb):
		return 1
	}
	return 0
}

// Max returns the greatest version in vs, using raw string order to
// break exact ties. The second return is false when vs is empty.
func Max(vs []string) (string, bool) {
	if len(vs) == 0 {
		return "", false
	}
	best := vs[0]
	for _, v := range vs[1:] {
		c := Compare(v, best)
		if c > 0 || (c == 0 && v > best) {
			best = v
		}
	}
	return best, true
}
