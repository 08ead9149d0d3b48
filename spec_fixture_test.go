package ensnorm

import (
	"fmt"
	"strings"
	"testing"
)

// testSpecJSON is a small but functionally complete spec.json fixture used
// by the root package's tests. It covers: ASCII case mapping, an ignored
// soft hyphen, a plain emoji and a ZWJ sequence with optional FE0F, an NFC
// re-composition pair (a + combining grave), a fenced punctuation mark, two
// script groups (Latin and Greek) that share U+03BE so that "ξ" resolves to
// Latin when mixed with Latin letters and to Greek when mixed with Greek-only
// letters, and a one-mark NSM set (U+0300, also a Latin group member) for the
// repeated combining-mark check.
func testSpecJSON() string {
	var mapped strings.Builder
	for cp := rune('A'); cp <= 'Z'; cp++ {
		if mapped.Len() > 0 {
			mapped.WriteString(",")
		}
		fmt.Fprintf(&mapped, "[%d, [%d]]", cp, cp+32)
	}

	var latinPrimary strings.Builder
	for cp := rune('a'); cp <= 'z'; cp++ {
		if latinPrimary.Len() > 0 {
			latinPrimary.WriteString(",")
		}
		fmt.Fprintf(&latinPrimary, "%d", cp)
	}
	for cp := rune('0'); cp <= '9'; cp++ {
		fmt.Fprintf(&latinPrimary, ",%d", cp)
	}
	// à, combining grave, ξ (shared with Greek), underscore, hyphen,
	// right-single-quote (fenced)
	fmt.Fprintf(&latinPrimary, ",%d,%d,%d,%d,%d,%d", 0xE0, 0x300, 0x3BE, '_', '-', 0x2019)

	return fmt.Sprintf(`{
  "unicode": "15.1.0",
  "ignored": [173],
  "mapped": [%s],
  "cm": [768],
  "emoji": [[128512], [128692, 65039, 8205, 9794, 65039]],
  "nfc_check": [97, 768],
  "fenced": [[8217, "apostrophe"]],
  "groups": [
    {"name": "Latin", "primary": [%s], "secondary": []},
    {"name": "Greek", "primary": [%d, %d, %d, %d], "secondary": []}
  ],
  "whole_map": {},
  "nsm": [768],
  "nsm_max": 2
}`, mapped.String(), latinPrimary.String(), 0x3BE, 0x3BB, 0x3C6, 0x3B1)
}

func mustLoadTestSpec(t *testing.T) *Spec {
	t.Helper()
	spec, err := Load([]byte(testSpecJSON()))
	if err != nil {
		t.Fatalf("Load(testSpecJSON): %v", err)
	}
	return spec
}
