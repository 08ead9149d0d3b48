package ensnorm

// offsetErrIndex re-aligns a CurableError's Index from postCheck's FE0F
// projection coordinate space back to the original input's code-point
// coordinate space (spec.md §4.3/§6, C6). It mirrors, token by token, the
// same advance/shrink accounting nfcPass and tokenize applied going
// forward.
func offsetErrIndex(err *CurableError, tokens []Token) {
	i := 0
	offset := 0
	for _, t := range tokens {
		if i >= err.Index {
			break
		}
		switch t.Kind {
		case TokenIgnored, TokenDisallowed:
			offset++
		case TokenEmoji:
			offset += len(t.EmojiInput) - 1
			i++
		case TokenNFC:
			offset += len(t.NFCInput) - len(t.NFCOutput)
			i += len(t.NFCOutput)
		case TokenMapped:
			offset += 1 - len(t.CPs)
			i += len(t.CPs)
		case TokenStop:
			i++
		default:
			i += len(t.CPs)
		}
	}
	err.Index += offset
}
