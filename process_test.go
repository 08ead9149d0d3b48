package ensnorm

import "testing"

func TestNormalize_ASCIIMapping(t *testing.T) {
	spec := mustLoadTestSpec(t)
	out, err := spec.Normalize("Ab")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ab" {
		t.Errorf("got %q, want %q", out, "ab")
	}
}

func TestNormalize_IgnoredSoftHyphen(t *testing.T) {
	spec := mustLoadTestSpec(t)
	out, err := spec.Normalize("a­b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ab" {
		t.Errorf("got %q, want %q", out, "ab")
	}
}

func TestNormalize_NFCComposition(t *testing.T) {
	spec := mustLoadTestSpec(t)
	in := "a" + string(rune(0x300)) + "b" // a + combining grave, decomposed
	out, err := spec.Normalize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := string(rune(0xE0)) + "b" // à + b, recomposed
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestNormalize_Emoji_NoFE0FVariant(t *testing.T) {
	spec := mustLoadTestSpec(t)
	grin := string(rune(128512))
	out, err := spec.Normalize(grin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != grin {
		t.Errorf("got %q, want %q", out, grin)
	}
}

func TestNormalize_EmojiStripsFE0F(t *testing.T) {
	spec := mustLoadTestSpec(t)
	pretty := string([]rune{128692, 65039, 8205, 9794, 65039})
	stripped := string([]rune{128692, 8205, 9794})
	out, err := spec.Normalize(pretty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != stripped {
		t.Errorf("got %q, want %q", out, stripped)
	}
}

func TestBeautify_RestoresEmojiFE0F(t *testing.T) {
	spec := mustLoadTestSpec(t)
	stripped := string([]rune{128692, 8205, 9794})
	pretty := string([]rune{128692, 65039, 8205, 9794, 65039})
	out, err := spec.Beautify(stripped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != pretty {
		t.Errorf("got %q, want %q", out, pretty)
	}
}

func TestBeautify_XiRewriteOutsideGreekLabel(t *testing.T) {
	spec := mustLoadTestSpec(t)
	xi := string(rune(0x3BE))
	out, err := spec.Beautify(xi + "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := string(rune(0x39E)) + "abc"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestBeautify_XiUnchangedInGreekLabel(t *testing.T) {
	spec := mustLoadTestSpec(t)
	in := string([]rune{0x3BE, 0x3BB, 0x3C6, 0x3B1})
	out, err := spec.Beautify(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != in {
		t.Errorf("got %q, want %q (Greek labels keep lowercase xi)", out, in)
	}
}

func TestBeautify_MixedLabelsAcrossDot(t *testing.T) {
	spec := mustLoadTestSpec(t)
	in := string(rune(0x3BE)) + "abc." + string([]rune{0x3BE, 0x3BB, 0x3C6, 0x3B1})
	out, err := spec.Beautify(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := string(rune(0x39E)) + "abc." + string([]rune{0x3BE, 0x3BB, 0x3C6, 0x3B1})
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestNormalize_CrossScriptConfMixed(t *testing.T) {
	spec := mustLoadTestSpec(t)
	_, err := spec.Normalize("a" + string(rune(0x3BB)))
	ce, ok := err.(*CurableError)
	if !ok {
		t.Fatalf("expected *CurableError, got %#v", err)
	}
	if ce.Kind != KindConfMixed {
		t.Errorf("got Kind %q, want %q", ce.Kind, KindConfMixed)
	}
}

func TestNormalize_NSMRepeated(t *testing.T) {
	spec := mustLoadTestSpec(t)
	in := "a" + string([]rune{0x300, 0x300, 0x300}) + "b"
	_, err := spec.Normalize(in)
	de, ok := err.(*DisallowedError)
	if !ok {
		t.Fatalf("expected *DisallowedError, got %#v", err)
	}
	if de.Kind != KindNSMRepeated {
		t.Errorf("got Kind %q, want %q", de.Kind, KindNSMRepeated)
	}
}

func TestNormalize_UnderscoreMidLabel(t *testing.T) {
	spec := mustLoadTestSpec(t)
	_, err := spec.Normalize("a_b")
	ce, ok := err.(*CurableError)
	if !ok {
		t.Fatalf("expected *CurableError, got %#v", err)
	}
	if ce.Kind != KindUnderscore {
		t.Errorf("got Kind %q, want %q", ce.Kind, KindUnderscore)
	}
}

func TestNormalize_LeadingUnderscoreAllowed(t *testing.T) {
	spec := mustLoadTestSpec(t)
	out, err := spec.Normalize("__ab")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "__ab" {
		t.Errorf("got %q, want %q", out, "__ab")
	}
}

func TestNormalize_DoubleHyphenInPositionTwoThree(t *testing.T) {
	spec := mustLoadTestSpec(t)
	_, err := spec.Normalize("ab--cd")
	ce, ok := err.(*CurableError)
	if !ok {
		t.Fatalf("expected *CurableError, got %#v", err)
	}
	if ce.Kind != KindHyphen {
		t.Errorf("got Kind %q, want %q", ce.Kind, KindHyphen)
	}
	if ce.Index != 2 {
		t.Errorf("got Index %d, want 2", ce.Index)
	}
}

func TestNormalize_FencedLeading(t *testing.T) {
	spec := mustLoadTestSpec(t)
	_, err := spec.Normalize(string(rune(0x2019)) + "abc")
	ce, ok := err.(*CurableError)
	if !ok {
		t.Fatalf("expected *CurableError, got %#v", err)
	}
	if ce.Kind != KindFencedLeading {
		t.Errorf("got Kind %q, want %q", ce.Kind, KindFencedLeading)
	}
}

func TestNormalize_EmptyLabelLeadingDot(t *testing.T) {
	spec := mustLoadTestSpec(t)
	_, err := spec.Normalize(".abc")
	ce, ok := err.(*CurableError)
	if !ok || ce.Kind != KindEmptyLabel {
		t.Fatalf("got %#v, want EMPTY_LABEL", err)
	}
}

func TestNormalize_EmptyLabelDoubleDot(t *testing.T) {
	spec := mustLoadTestSpec(t)
	_, err := spec.Normalize("ab..cd")
	ce, ok := err.(*CurableError)
	if !ok || ce.Kind != KindEmptyLabel {
		t.Fatalf("got %#v, want EMPTY_LABEL", err)
	}
}

func TestCure_RemovesUnderscore(t *testing.T) {
	spec := mustLoadTestSpec(t)
	out, cures, err := spec.Cure("a_b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ab" {
		t.Errorf("got %q, want %q", out, "ab")
	}
	if len(cures) != 1 || cures[0].Kind != KindUnderscore {
		t.Errorf("got cures %#v, want one UNDERSCORE fix", cures)
	}
}

func TestCure_RemovesDoubleHyphen(t *testing.T) {
	spec := mustLoadTestSpec(t)
	out, _, err := spec.Cure("ab--cd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "abcd" {
		t.Errorf("got %q, want %q", out, "abcd")
	}
}

func TestCure_RemovesFencedLeading(t *testing.T) {
	spec := mustLoadTestSpec(t)
	out, _, err := spec.Cure(string(rune(0x2019)) + "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "abc" {
		t.Errorf("got %q, want %q", out, "abc")
	}
}

func TestTransformations_MappedAndIgnored(t *testing.T) {
	spec := mustLoadTestSpec(t)
	xs, err := spec.Transformations("A­b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(xs) != 2 {
		t.Fatalf("got %d transformations, want 2: %#v", len(xs), xs)
	}
	if xs[0].Kind != KindMappedXform || xs[0].Index != 0 {
		t.Errorf("got %#v, want MAPPED at index 0", xs[0])
	}
	if xs[1].Kind != KindIgnoredXform || xs[1].Index != 1 {
		t.Errorf("got %#v, want IGNORED at index 1", xs[1])
	}
}

func TestTransformations_FE0F(t *testing.T) {
	spec := mustLoadTestSpec(t)
	pretty := string([]rune{128692, 65039, 8205, 9794, 65039})
	xs, err := spec.Transformations(pretty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(xs) != 1 || xs[0].Kind != KindFE0FXform {
		t.Fatalf("got %#v, want one FE0F transformation", xs)
	}
}

func TestIsNormalized(t *testing.T) {
	spec := mustLoadTestSpec(t)
	if !spec.IsNormalized("ab") {
		t.Error("expected \"ab\" to be normalized")
	}
	if spec.IsNormalized("Ab") {
		t.Error("expected \"Ab\" to not already be normalized")
	}
}

func TestIsNormalizable(t *testing.T) {
	spec := mustLoadTestSpec(t)
	if !spec.IsNormalizable("Ab") {
		t.Error("expected \"Ab\" to be normalizable")
	}
	if spec.IsNormalizable("a_b") {
		t.Error("expected \"a_b\" to not be normalizable without curing")
	}
}
