// Package pair canonicalizes unordered token pairs into stable keys.
// The key policy is load-bearing: stored pair histories compare keys
// byte-for-byte, so the separator and case handling must never change.
package pair

import "strings"

// Separator joins the two token addresses of a pair key. It does not
// occur in token addresses.
const Separator = "-"

// Normalize returns the canonical key for an unordered token pair:
// both addresses lowercased, sorted lexicographically, joined with
// Separator. Normalize(a, b) == Normalize(b, a) for all a, b.
func Normalize(tokenA, tokenB string) string {
	a := strings.ToLower(tokenA)
	b := strings.ToLower(tokenB)
	if a > b {
		a, b = b, a
	}
	return a + Separator + b
}

// Base returns the lexicographically-first token of a normalized pair
// key. Directional netting classifies a trade as BUY when its
// destination token equals the base.
func Base(pairKey string) string {
	if i := strings.Index(pairKey, Separator); i >= 0 {
		return pairKey[:i]
	}
	return pairKey
}
