package ensnorm

// Normalize applies ENS name normalization (spec.md §6). It returns the
// canonical string, or a *DisallowedError/*CurableError describing why the
// input cannot be normalized.
func (s *Spec) Normalize(input string) (string, error) {
	res := s.Process(input, ProcessOptions{Normalize: true})
	if res.Error != nil {
		return "", res.Error
	}
	return res.Normalized, nil
}

// Beautify normalizes and additionally restores FE0F on emoji and
// capitalizes ξ→Ξ outside Greek labels (spec.md §4.4).
func (s *Spec) Beautify(input string) (string, error) {
	res := s.Process(input, ProcessOptions{Beautify: true})
	if res.Error != nil {
		return "", res.Error
	}
	return res.Beautified, nil
}

// Tokenize returns the post-C3 token stream for input. Unlike Normalize,
// it always succeeds: a latched tokenizer error does not stop scanning.
func (s *Spec) Tokenize(input string) []Token {
	res := s.Process(input, ProcessOptions{Tokenize: true})
	return res.Tokens
}

// Transformations lists every soft modification Normalize would apply
// silently, at input-aligned indices (spec.md §4.4).
func (s *Spec) Transformations(input string) ([]Transformation, error) {
	res := s.Process(input, ProcessOptions{Transformations: true})
	if res.Error != nil {
		return nil, res.Error
	}
	return res.Transformations, nil
}

// Cure repeatedly applies suggested fixes to curable errors until the
// result normalizes, or fails with the first Disallowed error encountered
// (spec.md §4.4). It returns the cured string and the list of fixes
// applied, in order.
func (s *Spec) Cure(input string) (string, []CurableError, error) {
	return s.cure(input)
}

// IsNormalized reports whether Normalize(input) would return input
// unchanged.
func (s *Spec) IsNormalized(input string) bool {
	out, err := s.Normalize(input)
	return err == nil && out == input
}

// IsNormalizable reports whether Normalize(input) would succeed at all,
// without requiring the result to equal the input.
func (s *Spec) IsNormalizable(input string) bool {
	_, err := s.Normalize(input)
	return err == nil
}
