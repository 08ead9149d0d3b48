package ensnorm

import "regexp"

// fastPathPattern matches names that are already trivially normalized:
// lowercase ASCII letters and digits, dot-separated labels, no emoji, no
// mapping, no NFC work. The pipeline below produces byte-identical output
// for such inputs, so we short-circuit it (spec.md §4.4).
var fastPathPattern = regexp.MustCompile(`^[a-z0-9]+(\.[a-z0-9]+)*$`)

func isFastPath(s string) bool {
	return fastPathPattern.MatchString(s)
}

// fastPathTokens builds the token stream a full C2+C3 pass would produce
// for a fast-path input: one Valid token per label, Stop between labels.
func fastPathTokens(s string) []Token {
	var tokens []Token
	label := make([]rune, 0, len(s))
	flush := func() {
		if len(label) > 0 {
			tokens = append(tokens, valid(append([]rune(nil), label...)))
			label = label[:0]
		}
	}
	for _, cp := range s {
		if cp == cpStop {
			flush()
			tokens = append(tokens, stop())
			continue
		}
		label = append(label, cp)
	}
	flush()
	return tokens
}
