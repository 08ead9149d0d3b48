package ensnorm

import "golang.org/x/text/unicode/norm"

// cpsRequireCheck reports whether any code point in cps signals that its
// run must be tested for NFC (spec.md §4.2).
func (s *Spec) cpsRequireCheck(cps []rune) bool {
	for _, cp := range cps {
		if s.NFCCheck[cp] {
			return true
		}
	}
	return false
}

// nfcPass is the C3 component: it scans the token stream for maximal runs
// of Valid/Mapped tokens (interior Ignored tokens are absorbed) where at
// least one token carries an nfc_check code point, re-runs NFC over the
// concatenated code points, and replaces the run with a single Nfc token
// when the result differs. Consecutive Valid tokens are merged afterward.
//
// Ported from the adraffy/ens-normalize.js normalize_tokens algorithm, as
// reflected in original_source/ens_normalize/normalization.py.
func (s *Spec) nfcPass(tokens []Token) []Token {
	i := 0
	start := -1
	for i < len(tokens) {
		tok := tokens[i]
		if tok.Kind == TokenValid || tok.Kind == TokenMapped {
			if s.cpsRequireCheck(tok.CPs) {
				end := i + 1
				for pos := end; pos < len(tokens); pos++ {
					t := tokens[pos]
					if t.Kind == TokenValid || t.Kind == TokenMapped {
						if !s.cpsRequireCheck(t.CPs) {
							break
						}
						end = pos + 1
					} else if t.Kind != TokenIgnored {
						break
					}
				}
				if start < 0 {
					start = i
				}
				slice := tokens[start:end]
				var cps []rune
				for _, t := range slice {
					if t.Kind == TokenValid || t.Kind == TokenMapped {
						cps = append(cps, t.CPs...)
					}
				}
				out := []rune(norm.NFC.String(string(cps)))
				if string(out) == string(cps) {
					i = end - 1
				} else {
					replacement := nfcToken(cps, out)
					tokens = append(tokens[:start], append([]Token{replacement}, tokens[end:]...)...)
					i = start
				}
				start = -1
			} else {
				start = i
			}
		} else if tok.Kind != TokenIgnored {
			start = -1
		}
		i++
	}
	return collapseValidTokens(tokens)
}

// collapseValidTokens merges consecutive Valid tokens' code points into one.
func collapseValidTokens(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		if tokens[i].Kind == TokenValid {
			j := i + 1
			for j < len(tokens) && tokens[j].Kind == TokenValid {
				j++
			}
			var cps []rune
			for k := i; k < j; k++ {
				cps = append(cps, tokens[k].CPs...)
			}
			out = append(out, valid(cps))
			i = j
		} else {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}
