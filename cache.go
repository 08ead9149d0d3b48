package ensnorm

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"ensnorm/internal/emojitrie"
)

// gobWholeEntry mirrors wholeEntry with exported fields for gob encoding.
type gobWholeEntry struct {
	Ignore  bool
	MakerOf map[rune][]int
}

// gobSpec is a serializable mirror of Spec, used by internal/speccache to
// persist a precomputed binary cache (spec.md §6/§9: "a binary cache is
// permitted but must include a structural version so that code changes
// invalidate it"). The trie and the emoji-FE0F lookup are derived fields,
// rebuilt after decode rather than serialized, since they are cheap to
// recompute from Emoji and avoid pinning emojitrie's internal layout into
// the on-disk format.
type gobSpec struct {
	UnicodeVersion string
	Valid          map[rune]bool
	Ignored        map[rune]bool
	Mapped         map[rune][]rune
	CM             map[rune]bool
	NSM            map[rune]bool
	NSMMax         int
	NFCCheck       map[rune]bool
	Fenced         map[rune]string
	Groups         []Group
	WholeMap       map[rune]gobWholeEntry
	Emoji          [][]rune
}

// CacheVersion is bumped whenever Spec's derived structures or gobSpec's
// shape change in a way that would make a previously persisted binary cache
// unsafe to reuse. internal/speccache mixes this into its cache key.
const CacheVersion = 1

// MarshalBinary encodes s for storage in a binary spec cache.
func (s *Spec) MarshalBinary() ([]byte, error) {
	g := gobSpec{
		UnicodeVersion: s.UnicodeVersion,
		Valid:          s.Valid,
		Ignored:        s.Ignored,
		Mapped:         s.Mapped,
		CM:             s.CM,
		NSM:            s.NSM,
		NSMMax:         s.NSMMax,
		NFCCheck:       s.NFCCheck,
		Fenced:         s.Fenced,
		Groups:         s.Groups,
		Emoji:          s.Emoji,
	}
	g.WholeMap = make(map[rune]gobWholeEntry, len(s.wholeMap))
	for cp, e := range s.wholeMap {
		g.WholeMap[cp] = gobWholeEntry{Ignore: e.ignore, MakerOf: e.makerOf}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&g); err != nil {
		return nil, fmt.Errorf("ensnorm: encode spec cache: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalSpec decodes a Spec previously written by MarshalBinary,
// rebuilding its derived trie and emoji-FE0F lookup.
func UnmarshalSpec(data []byte) (*Spec, error) {
	var g gobSpec
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return nil, fmt.Errorf("ensnorm: decode spec cache: %w", err)
	}

	wholeMap := make(map[rune]*wholeEntry, len(g.WholeMap))
	for cp, e := range g.WholeMap {
		wholeMap[cp] = &wholeEntry{ignore: e.Ignore, makerOf: e.MakerOf}
	}

	emojiFE0FOf := make(map[string][]rune, len(g.Emoji))
	for _, seq := range g.Emoji {
		emojiFE0FOf[string(stripFE0F(seq))] = seq
	}

	s := &Spec{
		UnicodeVersion: g.UnicodeVersion,
		Valid:          g.Valid,
		Ignored:        g.Ignored,
		Mapped:         g.Mapped,
		CM:             g.CM,
		NSM:            g.NSM,
		NSMMax:         g.NSMMax,
		NFCCheck:       g.NFCCheck,
		Fenced:         g.Fenced,
		Groups:         g.Groups,
		wholeMap:       wholeMap,
		Emoji:          g.Emoji,
		emojiFE0FOf:    emojiFE0FOf,
		trie:           emojitrie.Build(g.Emoji),
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}
