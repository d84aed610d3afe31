package testutil

import "pgregory.net/rapid"

// GoroutineCount draws a number of concurrent callers, always at least two
// so that there is a race to lose.
func GoroutineCount() *rapid.Generator[int] {
	return rapid.IntRange(2, 64)
}

// Entries draws a small non-empty map used as a multi-field value whose
// construction must be observed in full.
func Entries() *rapid.Generator[map[int]string] {
	return rapid.MapOfN(rapid.IntRange(0, 1000), rapid.StringN(1, 8, -1), 1, 16)
}

// Identifier draws names usable for declarations.
func Identifier() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-z][a-z0-9_]{0,15}`)
}
