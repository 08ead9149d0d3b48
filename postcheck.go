package ensnorm

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// tokensToFE0FProjection renders the post-C3 token stream into the
// projection used by the post-checks (spec.md §4.3): every Emoji token
// becomes a single U+FE0F placeholder, Ignored/Disallowed tokens vanish,
// Stop renders as '.', and everything else contributes its code points.
func tokensToFE0FProjection(tokens []Token) []rune {
	var out []rune
	for _, t := range tokens {
		switch t.Kind {
		case TokenIgnored, TokenDisallowed:
			continue
		case TokenEmoji:
			out = append(out, cpFE0F)
		case TokenStop:
			out = append(out, cpStop)
		case TokenNFC:
			out = append(out, t.NFCOutput...)
		default:
			out = append(out, t.CPs...)
		}
	}
	return out
}

// postCheckResult carries the per-label Greek flag out of postCheck so the
// beautify emitter can special-case ξ→Ξ rewriting (spec.md §4.4).
type postCheckResult struct {
	labelIsGreek []bool
}

// postCheck runs every check in spec.md §4.3 over the FE0F-projected name.
// It returns either a *DisallowedError or a *CurableError whose Index is
// already relative to the whole projection (label start offsets are added
// here); the caller maps it back to input coordinates with offsetErrIndex
// (C6).
func (s *Spec) postCheck(proj []rune) (*postCheckResult, error) {
	if err := checkEmptyProjection(proj); err != nil {
		return nil, err
	}

	res := &postCheckResult{}
	labelOffset := 0
	for _, label := range splitRunes(proj, cpStop) {
		isGreek := false

		err := firstNonNil(
			func() error { return underscoreErr(label) },
			func() error { return hyphenErr(label) },
			func() error { return s.cmPositionErr(label) },
			func() error { return s.fencedErr(label) },
			func() error {
				g, gerr := s.resolveGroup(label)
				if gerr != nil {
					return gerr
				}
				isGreek = g.Name == "Greek"
				return firstNonNil(
					func() error { return s.groupMemberErr(g, label) },
					func() error { return s.nsmMultiCheck(g, label) },
					func() error { return s.wholeConfusableErr(label) },
				)
			},
		)

		res.labelIsGreek = append(res.labelIsGreek, isGreek)

		if err != nil {
			if ce, ok := err.(*CurableError); ok {
				ce.Index += labelOffset
			}
			return res, err
		}
		labelOffset += len(label) + 1
	}
	return res, nil
}

func firstNonNil(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func splitRunes(s []rune, sep rune) [][]rune {
	var out [][]rune
	start := 0
	for i, cp := range s {
		if cp == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// checkEmptyProjection is post_check_empty (spec.md §4.3): EMPTY_LABEL if
// the projection starts or ends with '.', or contains "..". An empty
// projection returns nil here: Process does not call postCheck for a
// non-empty input whose projection is empty (it reports EMPTY_LABEL
// itself), so an empty projection at this point comes from the empty
// string, which is a legal name.
func checkEmptyProjection(proj []rune) error {
	if len(proj) == 0 {
		return nil
	}
	if proj[0] == cpStop {
		return &CurableError{Kind: KindEmptyLabel, Index: 0, Sequence: ".", Suggested: ""}
	}
	if proj[len(proj)-1] == cpStop {
		return &CurableError{Kind: KindEmptyLabel, Index: len(proj) - 1, Sequence: ".", Suggested: ""}
	}
	for i := 0; i+1 < len(proj); i++ {
		if proj[i] == cpStop && proj[i+1] == cpStop {
			return &CurableError{Kind: KindEmptyLabel, Index: i, Sequence: "..", Suggested: "."}
		}
	}
	return nil
}

// underscoreErr: '_' is allowed only as a contiguous run at the label start.
func underscoreErr(label []rune) error {
	inMiddle := false
	for i, cp := range label {
		if cp != '_' {
			inMiddle = true
			continue
		}
		if inMiddle {
			cnt := 1
			for i+cnt < len(label) && label[i+cnt] == '_' {
				cnt++
			}
			return &CurableError{Kind: KindUnderscore, Index: i, Sequence: repeatRune('_', cnt), Suggested: ""}
		}
	}
	return nil
}

func repeatRune(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}

// hyphenErr: label length >= 4, all ASCII, positions 2 and 3 both '-'.
func hyphenErr(label []rune) error {
	if len(label) < 4 {
		return nil
	}
	for _, cp := range label {
		if cp >= 0x80 {
			return nil
		}
	}
	if label[2] == '-' && label[3] == '-' {
		return &CurableError{Kind: KindHyphen, Index: 2, Sequence: "--", Suggested: ""}
	}
	return nil
}

// cmPositionErr: a combining mark may not open a label, nor follow an
// emoji (the FE0F placeholder in this projection).
func (s *Spec) cmPositionErr(label []rune) error {
	for i, cp := range label {
		if !s.CM[cp] {
			continue
		}
		if i == 0 {
			return &CurableError{Kind: KindCMStart, Index: i, Sequence: string(cp), Suggested: ""}
		}
		if label[i-1] == cpFE0F {
			return &CurableError{Kind: KindCMEmoji, Index: i, Sequence: string(cp), Suggested: ""}
		}
	}
	return nil
}

func makeFencedErr(label []rune, start, end int) *CurableError {
	var kind Kind
	suggested := ""
	switch {
	case start == 0:
		kind = KindFencedLeading
	case end == len(label):
		kind = KindFencedTrailing
	default:
		kind = KindFencedMulti
		suggested = string(label[start])
	}
	return &CurableError{
		Kind:      kind,
		Index:     start,
		Sequence:  string(label[start:end]),
		Suggested: suggested,
	}
}

// fencedErr implements post_check_fenced (spec.md §4.3).
func (s *Spec) fencedErr(label []rune) error {
	if len(label) == 0 {
		return nil
	}
	if _, ok := s.Fenced[label[0]]; ok {
		return makeFencedErr(label, 0, 1)
	}
	n := len(label)
	last := -1
	for i := 1; i < n; i++ {
		if _, ok := s.Fenced[label[i]]; ok {
			if last == i {
				return makeFencedErr(label, i-1, i+1)
			}
			last = i + 1
		}
	}
	if last == n {
		return makeFencedErr(label, n-1, n)
	}
	return nil
}

// uniqueOrdered returns label's distinct code points (excluding the FE0F
// emoji placeholder) in first-occurrence order, per the determinism note
// in spec.md §9.
func uniqueOrdered(label []rune) []rune {
	seen := make(map[rune]bool, len(label))
	out := make([]rune, 0, len(label))
	for _, cp := range label {
		if cp == cpFE0F || seen[cp] {
			continue
		}
		seen[cp] = true
		out = append(out, cp)
	}
	return out
}

func indexOfRune(label []rune, cp rune) int {
	for i, c := range label {
		if c == cp {
			return i
		}
	}
	return -1
}

// resolveGroup implements determine_group (spec.md §4.3): restrict the
// candidate group set by each unique code point's membership until one
// group remains (or all code points are consumed).
func (s *Spec) resolveGroup(label []rune) (*Group, error) {
	candidates := make([]int, len(s.Groups))
	for i := range s.Groups {
		candidates[i] = i
	}
	fullSet := true

	for _, cp := range uniqueOrdered(label) {
		var next []int
		for _, gi := range candidates {
			if s.Groups[gi].V[cp] {
				next = append(next, gi)
			}
		}
		if len(next) == 0 {
			kind := KindConfMixed
			meta := map[string]string{}
			if fullSet {
				kind = KindDisallowed
			} else {
				meta["script2"] = s.Groups[candidates[0]].Name
				if owner := s.firstGroupContaining(cp); owner != "" {
					meta["script1"] = owner
					meta["scripts"] = owner + "/" + meta["script2"]
				} else {
					meta["script1"] = ""
					meta["scripts"] = meta["script2"] + " plus other scripts"
				}
			}
			return nil, &CurableError{
				Kind:      kind,
				Index:     indexOfRune(label, cp),
				Sequence:  string(cp),
				Suggested: "",
				Meta:      meta,
			}
		}
		candidates = next
		fullSet = false
		if len(candidates) == 1 {
			break
		}
	}
	return &s.Groups[candidates[0]], nil
}

func (s *Spec) firstGroupContaining(cp rune) string {
	for _, g := range s.Groups {
		if g.V[cp] {
			return g.Name
		}
	}
	return ""
}

// groupMemberErr implements the "every label code point must be in g.V"
// half of post_check_group (spec.md §4.3); the NFD/NSM half is
// nsmMultiCheck.
func (s *Spec) groupMemberErr(g *Group, label []rune) error {
	for i, cp := range label {
		if cp == cpFE0F {
			continue
		}
		if !g.V[cp] {
			return &CurableError{Kind: KindConfMixed, Index: i, Sequence: string(cp), Suggested: ""}
		}
	}
	return nil
}

// nsmMultiCheck implements the NFD-CM multi-check half of post_check_group
// (spec.md §4.3): decompose the label (excluding the FE0F placeholder) via
// NFD and walk maximal runs of non-spacing marks.
func (s *Spec) nsmMultiCheck(g *Group, label []rune) error {
	if !g.CMCheck {
		return nil
	}
	var cps []rune
	for _, cp := range label {
		if cp != cpFE0F {
			cps = append(cps, cp)
		}
	}
	decomposed := []rune(norm.NFD.String(string(cps)))
	n := len(decomposed)
	for i := 1; i < n; i++ {
		if !s.NSM[decomposed[i]] {
			continue
		}
		j := i + 1
		for j < n && s.NSM[decomposed[j]] {
			if j-i+1 > s.NSMMax {
				return &DisallowedError{Kind: KindNSMTooMany}
			}
			for k := i; k < j; k++ {
				if decomposed[k] == decomposed[j] {
					return &DisallowedError{Kind: KindNSMRepeated}
				}
			}
			j++
		}
		i = j
	}
	return nil
}

// wholeConfusableErr implements post_check_whole (spec.md §4.3). It never
// carries a position — whole-script confusability is a property of the
// label as a whole.
func (s *Spec) wholeConfusableErr(label []rune) error {
	var maker map[int]bool
	initialized := false
	var shared []rune

	resolvedName := ""
	if g, err := s.resolveGroup(label); err == nil {
		resolvedName = g.Name
	}

	for _, cp := range uniqueOrdered(label) {
		entry, ok := s.wholeMap[cp]
		if !ok {
			shared = append(shared, cp)
			continue
		}
		if entry.ignore {
			return nil
		}
		ids := entry.makerOf[cp]
		if initialized {
			next := make(map[int]bool)
			for _, id := range ids {
				if maker[id] {
					next[id] = true
				}
			}
			maker = next
		} else {
			maker = make(map[int]bool, len(ids))
			for _, id := range ids {
				maker[id] = true
			}
			initialized = true
		}
		if len(maker) == 0 {
			return nil
		}
	}

	if !initialized || len(maker) == 0 {
		return nil
	}

	ordered := make([]int, 0, len(maker))
	for id := range maker {
		ordered = append(ordered, id)
	}
	sort.Ints(ordered)

	for _, gi := range ordered {
		g := s.Groups[gi]
		allShared := true
		for _, cp := range shared {
			if !g.V[cp] {
				allShared = false
				break
			}
		}
		if allShared {
			return &DisallowedError{
				Kind: KindConfWhole,
				Meta: map[string]string{"script1": resolvedName, "script2": g.Name},
			}
		}
	}
	return nil
}
