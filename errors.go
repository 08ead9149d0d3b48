package ensnorm

import (
	"fmt"
	"strings"
)

// Kind is a stable error code string, per spec.md §6.
type Kind string

// Disallowed kinds: whole-name errors with no per-position cure.
const (
	KindNSMRepeated Kind = "NSM_REPEATED"
	KindNSMTooMany  Kind = "NSM_TOO_MANY"
	KindConfWhole   Kind = "CONF_WHOLE"
	KindEmptyName   Kind = "EMPTY_NAME"
)

// Curable kinds: carry (index, sequence, suggested).
const (
	KindUnderscore     Kind = "UNDERSCORE"
	KindHyphen         Kind = "HYPHEN"
	KindEmptyLabel     Kind = "EMPTY_LABEL"
	KindCMStart        Kind = "CM_START"
	KindCMEmoji        Kind = "CM_EMOJI"
	KindDisallowed     Kind = "DISALLOWED"
	KindInvisible      Kind = "INVISIBLE"
	KindFencedLeading  Kind = "FENCED_LEADING"
	KindFencedMulti    Kind = "FENCED_MULTI"
	KindFencedTrailing Kind = "FENCED_TRAILING"
	KindConfMixed      Kind = "CONF_MIXED"
)

// Transformation kinds: soft modifications normalize applies silently.
const (
	KindIgnoredXform Kind = "IGNORED"
	KindMappedXform  Kind = "MAPPED"
	KindFE0FXform    Kind = "FE0F"
	KindNFCXform     Kind = "NFC"
)

// messageTemplates holds the general, stable English description for each
// Kind. Templates are formatted on demand (never baked into the error
// value), per spec.md §7/§9.
var messageTemplates = map[Kind]string{
	KindNSMRepeated:    "contains a repeated non-spacing mark",
	KindNSMTooMany:     "contains too many consecutive non-spacing marks",
	KindConfWhole:      "contains visually confusing characters that are disallowed ({script1}/{script2})",
	KindEmptyName:      "the name is empty",
	KindUnderscore:     "contains an underscore in a disallowed position",
	KindHyphen:         "contains the sequence '--' in a disallowed position",
	KindEmptyLabel:     "contains a disallowed empty label",
	KindCMStart:        "contains a combining mark in a disallowed position at the start of the label",
	KindCMEmoji:        "contains a combining mark in a disallowed position after an emoji",
	KindDisallowed:     "contains a disallowed character",
	KindInvisible:      "contains a disallowed invisible character",
	KindFencedLeading:  "contains a disallowed character at the start of a label",
	KindFencedMulti:    "contains a disallowed consecutive sequence of characters",
	KindFencedTrailing: "contains a disallowed character at the end of a label",
	KindConfMixed:      "contains visually confusing characters from different scripts ({scripts})",
}

// DisallowedError is a whole-name error with no per-position cure
// (spec.md §7: NSM_REPEATED, NSM_TOO_MANY, CONF_WHOLE, EMPTY_NAME).
type DisallowedError struct {
	Kind Kind
	Meta map[string]string // e.g. {"script1": "...", "script2": "..."}
}

func (e *DisallowedError) Error() string { return e.Message() }

// Message formats the stable English template for this error, substituting
// any {slot} present in Meta.
func (e *DisallowedError) Message() string {
	return formatTemplate(messageTemplates[e.Kind], e.Meta)
}

// CurableError carries a position-anchored rewrite suggestion
// (spec.md §7). Index is a 0-based code-point offset into the original
// input; Sequence is the substring to replace; Suggested is its
// replacement (empty means deletion).
type CurableError struct {
	Kind      Kind
	Index     int
	Sequence  string
	Suggested string
	Meta      map[string]string
}

func (e *CurableError) Error() string { return e.Message() }

// Message formats the stable English template for this error.
func (e *CurableError) Message() string {
	meta := e.Meta
	if meta == nil {
		meta = map[string]string{}
	}
	meta["disallowed"] = e.Sequence
	meta["suggested"] = e.Suggested
	return fmt.Sprintf("%s at index %d", formatTemplate(messageTemplates[e.Kind], meta), e.Index)
}

// Transformation is a soft-modification record: same shape as CurableError
// but drawn from {IGNORED, MAPPED, FE0F, NFC} (spec.md §3).
type Transformation struct {
	Kind      Kind
	Index     int
	Sequence  string
	Suggested string
}

func formatTemplate(tmpl string, meta map[string]string) string {
	pairs := make([]string, 0, len(meta)*2)
	for k, v := range meta {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
