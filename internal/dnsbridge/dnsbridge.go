// Package dnsbridge converts a beautified ENS name to the ASCII/Punycode
// form DNS and legacy resolvers expect, using golang.org/x/net/idna. It sits
// downstream of ensnorm.Beautify: normalization decides what is a legal ENS
// name, idna decides how to spell it for a DNS label.
package dnsbridge

import "golang.org/x/net/idna"

// profile is the UTS #46 lookup profile (non-transitional): besides mapping
// non-ASCII labels to their Punycode form, MapForLookup applies the lookup
// mapping and turns on label validation and the STD3 host-name rules, so a
// name ensnorm accepts (e.g. one with a leading underscore) can still be
// rejected here.
var profile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
)

// ToASCII converts a beautified ENS name into its DNS ASCII ("xn--") form.
// The input should already be ensnorm-normalized; ToASCII does not re-run
// ENSIP-15 checks, only the profile's IDNA validation and ASCII compatible
// encoding.
func ToASCII(beautified string) (string, error) {
	return profile.ToASCII(beautified)
}

// FromASCII decodes a DNS ASCII ("xn--") name back to its Unicode form. The
// result is not guaranteed to be ensnorm-normalized; callers that need that
// guarantee should re-run it through ensnorm.Normalize.
func FromASCII(ascii string) (string, error) {
	return profile.ToUnicode(ascii)
}
