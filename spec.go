// Package ensnorm implements ENSIP-15 ENS name normalization: a deterministic
// transform from a user-supplied Unicode string to a canonical on-chain name,
// or a precise, position-located rejection reason.
//
// The package is pure and synchronous: Spec is built once via Load (or
// UnmarshalSpec, for a cached binary encoding) and is safe to share read-only across goroutines; every other exported
// function is a pure computation over its arguments with no I/O and no
// global mutable state.
package ensnorm

import "ensnorm/internal/emojitrie"

// Group is a script-restricted set of allowed code points (spec.md §3).
type Group struct {
	Name    string
	P       map[rune]bool // primary set
	Q       map[rune]bool // secondary set
	V       map[rune]bool // P ∪ Q
	CMCheck bool           // true iff this group requires the NSM/CM multi-check
}

// wholeEntry is one whole_map value: either "ignore for whole-confusable"
// (scalar 1 in the source JSON) or a set of maker group indices per code
// point that can "make" it, per spec.md §3/§4.3.
type wholeEntry struct {
	ignore  bool
	makerOf map[rune][]int // cp -> group indices that can produce this cp
}

// Spec is the frozen, immutable table set described in spec.md §3. It is
// constructed once (via Load or UnmarshalSpec) and shared read-only thereafter.
type Spec struct {
	UnicodeVersion string

	Valid    map[rune]bool   // allowed as-is, NFD-closed at load
	Ignored  map[rune]bool
	Mapped   map[rune][]rune
	CM       map[rune]bool   // combining marks, with FE0F explicitly removed
	NSM      map[rune]bool
	NSMMax   int
	NFCCheck map[rune]bool
	Fenced   map[rune]string // cp -> label used only in messages

	Groups []Group

	wholeMap map[rune]*wholeEntry

	// Emoji sequences as originally declared (FE0F may appear internally).
	Emoji [][]rune

	// emojiFE0FOf maps an FE0F-stripped emoji sequence (as a string key) to
	// its FE0F-restored ("pretty") form.
	emojiFE0FOf map[string][]rune

	// trie performs longest-match lookup over emoji sequences with every
	// interior FE0F optional.
	trie *emojitrie.Trie
}
