package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns for performance
var (
	nonAlnumRegex       = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)

	// Matches a trailing parenthesized variant suffix: "Name (Variant)"
	trailingVariantRegex = regexp.MustCompile(`^(.*\S)\s*\(([^()]*)\)\s*$`)
)

// stripMarks removes diacritics: compatibility-decompose, drop combining
// marks, recompose
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// brandCasings maps lowercase bank/network abbreviations to their
// canonical display casing. Applied word-by-word on base names.
var brandCasings = map[string]string{
	"hdfc":     "HDFC",
	"icici":    "ICICI",
	"sbi":      "SBI",
	"idfc":     "IDFC",
	"au":       "AU",
	"rbl":      "RBL",
	"pnb":      "PNB",
	"bob":      "BoB",
	"hsbc":     "HSBC",
	"dbs":      "DBS",
	"idbi":     "IDBI",
	"amex":     "Amex",
	"yes":      "YES",
	"uco":      "UCO",
	"axis":     "Axis",
	"kotak":    "Kotak",
	"indusind": "IndusInd",
	"federal":  "Federal",
	"canara":   "Canara",
	"upi":      "UPI",
	"rupay":    "RuPay",
	"visa":     "Visa",
	"onecard":  "OneCard",
	"bharatpe": "BharatPe",
	"paytm":    "Paytm",
	"phonepe":  "PhonePe",
	"gpay":     "GPay",
	"cred":     "CRED",
}

// Normalize canonicalizes a raw instrument-name string: lowercase,
// diacritics stripped, punctuation flattened to spaces, whitespace
// collapsed. Idempotent; empty input yields "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToLower(raw)
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	s = nonAlnumRegex.ReplaceAllString(s, " ")
	s = multipleSpacesRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ExtractBase strips a trailing parenthesized variant suffix:
// "HDFC Regalia (Visa Signature)" -> "HDFC Regalia". Names without a
// trailing suffix are returned unchanged (trimmed).
func ExtractBase(name string) string {
	if name == "" {
		return ""
	}
	if m := trailingVariantRegex.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(name)
}

// ExtractVariant returns the contents of a trailing parenthesized variant
// suffix, or "" when the name carries none.
func ExtractVariant(name string) string {
	if name == "" {
		return ""
	}
	if m := trailingVariantRegex.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[2])
	}
	return ""
}

// CanonicalizeBrand rewrites known financial-brand abbreviations to their
// canonical casing ("hdfc Regalia" -> "HDFC Regalia"). It operates on
// display text, so unlike Normalize it preserves the casing of words it
// does not recognize.
func CanonicalizeBrand(text string) string {
	if text == "" {
		return ""
	}
	words := strings.Fields(text)
	for i, word := range words {
		if canonical, ok := brandCasings[strings.ToLower(word)]; ok {
			words[i] = canonical
		}
	}
	return strings.Join(words, " ")
}
