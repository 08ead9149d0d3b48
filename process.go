package ensnorm

import "fmt"

// ProcessOptions selects which views Process computes. The Normalize,
// Beautify, Tokenize and Transformations views are derived from a single
// tokenize+NFC+post-check pass; the Cure view additionally runs the cure
// loop, which processes the input again once per applied fix.
type ProcessOptions struct {
	Normalize       bool
	Beautify        bool
	Tokenize        bool
	Transformations bool
	Cure            bool
}

// Result is the union of every view Process can produce (SPEC_FULL.md §6).
type Result struct {
	Normalized      string
	Beautified      string
	Tokens          []Token
	Cured           string
	Cures           []CurableError
	Transformations []Transformation
	Error           error // *DisallowedError or *CurableError, nil if s normalizes
}

// Process runs the tokenizer, NFC pass, and post-checks once and fills in
// every view selected by opts, mirroring ens_process in the Python
// original. Normalize/Beautify/Tokenize/Transformations/Cure are thin
// wrappers over this for API parity with spec.md §6.
func (s *Spec) Process(input string, opts ProcessOptions) Result {
	cps := []rune(input)

	var tokens []Token
	var err error

	if isFastPath(input) {
		tokens = fastPathTokens(input)
	} else {
		toks, latched := s.tokenize(cps)
		tokens = s.nfcPass(toks)
		if latched != nil {
			err = latched
		}
	}

	var transformations []Transformation
	if opts.Transformations {
		transformations = findTransformations(tokens)
	}

	var greek []bool
	if err == nil {
		proj := tokensToFE0FProjection(tokens)
		if len(proj) == 0 && len(cps) > 0 {
			// Every input code point was ignored (e.g. U+FE0F U+FE0F when
			// FE0F is in the ignored set): the name is an empty label,
			// cured by deleting the whole input.
			err = &CurableError{Kind: KindEmptyLabel, Index: 0, Sequence: input, Suggested: ""}
		} else {
			res, perr := s.postCheck(proj)
			if res != nil {
				greek = res.labelIsGreek
			}
			if perr != nil {
				if ce, ok := perr.(*CurableError); ok {
					offsetErrIndex(ce, tokens)
				}
				err = perr
			}
		}
	}

	result := Result{Error: err, Transformations: transformations}

	if err == nil {
		if opts.Normalize {
			result.Normalized = tokensToString(tokens)
		}
		if opts.Beautify {
			result.Beautified = tokensToBeautified(tokens, greek)
		}
	}

	if opts.Tokenize {
		result.Tokens = tokens
	}

	if opts.Cure {
		if cured, cures, cerr := s.cure(input); cerr == nil {
			result.Cured = cured
			result.Cures = cures
		}
	}

	return result
}

// tokensToString renders the post-pipeline token stream as ordinary text
// (Emoji as its text form, Stop as '.', Ignored/Disallowed dropped).
func tokensToString(tokens []Token) string {
	var out []rune
	for _, t := range tokens {
		switch t.Kind {
		case TokenIgnored, TokenDisallowed:
			continue
		case TokenEmoji:
			out = append(out, t.EmojiText...)
		case TokenStop:
			out = append(out, cpStop)
		case TokenNFC:
			out = append(out, t.NFCOutput...)
		default:
			out = append(out, t.CPs...)
		}
	}
	return string(out)
}

// tokensToBeautified renders the FE0F-restored, Greek-aware form
// (spec.md §4.4).
func tokensToBeautified(tokens []Token, labelIsGreek []bool) string {
	var out []rune
	labelIndex := 0
	labelStart := 0
	rewrite := func(cps []rune) []rune {
		if labelIndex < len(labelIsGreek) && labelIsGreek[labelIndex] {
			return cps
		}
		rewritten := make([]rune, len(cps))
		for i, cp := range cps {
			if cp == cpXiSmall {
				rewritten[i] = cpXiCapital
			} else {
				rewritten[i] = cp
			}
		}
		return rewritten
	}

	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i].Kind != TokenStop {
			continue
		}
		for j := labelStart; j < i; j++ {
			t := tokens[j]
			switch t.Kind {
			case TokenIgnored, TokenDisallowed:
				continue
			case TokenEmoji:
				out = append(out, t.EmojiPretty...)
			case TokenStop:
				out = append(out, cpStop)
			case TokenNFC:
				out = append(out, rewrite(t.NFCOutput)...)
			default:
				out = append(out, rewrite(t.CPs)...)
			}
		}
		if i < len(tokens) {
			out = append(out, cpStop)
		}
		labelStart = i + 1
		labelIndex++
	}
	return string(out)
}

const (
	cpXiSmall   = 0x3BE
	cpXiCapital = 0x39E
)

// findTransformations implements find_normalization_transformations
// (spec.md §4.4): one record per soft modification, at a running
// input-aligned index.
func findTransformations(tokens []Token) []Transformation {
	var out []Transformation
	start := 0
	for _, t := range tokens {
		var kind Kind
		var seq, suggested string
		scanned := t.inputLen()

		switch t.Kind {
		case TokenMapped:
			kind = KindMappedXform
			seq = string(t.CP)
			suggested = string(t.CPs)
		case TokenIgnored:
			kind = KindIgnoredXform
			seq = string(t.CP)
			suggested = ""
		case TokenEmoji:
			if string(t.EmojiInput) != string(t.EmojiText) {
				kind = KindFE0FXform
				seq = string(t.EmojiInput)
				suggested = string(t.EmojiText)
			}
		case TokenNFC:
			kind = KindNFCXform
			seq = string(t.NFCInput)
			suggested = string(t.NFCOutput)
		}

		if kind != "" {
			out = append(out, Transformation{Kind: kind, Index: start, Sequence: seq, Suggested: suggested})
		}
		start += scanned
	}
	return out
}

// cure repeats normalize, applying each Curable fix in place, until the
// string normalizes or the iteration bound is exceeded (spec.md §4.4).
func (s *Spec) cure(input string) (string, []CurableError, error) {
	text := input
	var cures []CurableError
	limit := 2*len([]rune(input)) + 1

	for n := 0; n < limit; n++ {
		res := s.Process(text, ProcessOptions{Normalize: true})
		if res.Error == nil {
			return res.Normalized, cures, nil
		}
		ce, ok := res.Error.(*CurableError)
		if !ok {
			return "", nil, res.Error
		}
		cps := []rune(text)
		seqLen := len([]rune(ce.Sequence))
		if ce.Index < 0 || ce.Index+seqLen > len(cps) {
			return "", nil, fmt.Errorf("ensnorm: cure index out of range")
		}
		var next []rune
		next = append(next, cps[:ce.Index]...)
		next = append(next, []rune(ce.Suggested)...)
		next = append(next, cps[ce.Index+seqLen:]...)
		newText := string(next)
		if newText == text {
			return "", nil, fmt.Errorf("ensnorm: cure made no progress")
		}
		text = newText
		cures = append(cures, *ce)
	}
	return "", nil, fmt.Errorf("ensnorm: cure exceeded iteration bound")
}
