package ensnorm

// tokenize performs the C2 scan described in spec.md §4.1: greedy longest
// emoji match, else single-code-point classification. It always consumes the
// entire input and never stops at an error so that tokenize/transformations
// remain meaningful for non-fatal consumers; the first DISALLOWED/INVISIBLE
// encountered is returned as a latched, input-aligned CurableError.
func (s *Spec) tokenize(cps []rune) ([]Token, *CurableError) {
	tokens := make([]Token, 0, len(cps))
	var latched *CurableError

	i := 0
	for i < len(cps) {
		if consumed, text, ok := s.trie.LongestMatch(cps, i); ok {
			input := append([]rune(nil), cps[i:i+consumed]...)
			pretty, hasPretty := s.emojiFE0FOf[string(text)]
			if !hasPretty {
				pretty = text
			}
			tokens = append(tokens, emojiToken(pretty, input, text))
			i += consumed
			continue
		}

		cp := cps[i]
		i++

		switch {
		case cp == cpStop:
			tokens = append(tokens, stop())
		case s.Valid[cp]:
			tokens = append(tokens, valid([]rune{cp}))
		case s.Ignored[cp]:
			tokens = append(tokens, ignored(cp))
		default:
			if dst, ok := s.Mapped[cp]; ok {
				tokens = append(tokens, mapped(cp, dst))
				continue
			}
			if latched == nil {
				kind := KindDisallowed
				if cp == 0x200D || cp == 0x200C {
					kind = KindInvisible
				}
				latched = &CurableError{
					Kind:       kind,
					Index:      i - 1,
					Sequence:   string(cp),
					Suggested:  "",
				}
			}
			tokens = append(tokens, disallowed(cp))
		}
	}

	return tokens, latched
}
