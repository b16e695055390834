package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/offerdeck/backend/internal/domain"
)

// Header aliases, ordered by preference. Resolution tries a
// case-insensitive exact header match for each alias first, then a
// case-insensitive substring match; the first populated cell wins.
var instrumentColumnAliases = map[domain.InstrumentType][]string{
	domain.InstrumentCredit: {
		"applicable to credit cards", "credit cards", "credit card", "credit",
	},
	domain.InstrumentDebit: {
		"applicable to debit cards", "debit cards", "debit card", "debit",
	},
	domain.InstrumentUPI: {
		"upi handles", "upi apps", "wallets upi", "upi",
	},
	domain.InstrumentNetBanking: {
		"net banking", "netbanking", "net-banking", "internet banking",
	},
}

// typeHintAliases locate an explicit per-row type column used to classify
// tokens from an ambiguous "cards" column
var typeHintAliases = []string{"card type", "instrument type", "payment type", "type"}

// Offer field aliases, same resolution rule as instrument columns
var (
	titleAliases  = []string{"offer", "offer title", "offer text", "title", "deal"}
	descAliases   = []string{"description", "offer details", "details"}
	couponAliases = []string{"coupon code", "promo code", "coupon", "code"}
	termsAliases  = []string{"terms and conditions", "terms", "t&c", "tnc"}
	linkAliases   = []string{"offer link", "link", "url"}
	imageAliases  = []string{"image url", "image", "logo"}
)

var (
	// Splits a multi-instrument cell on comma, slash, semicolon, pipe,
	// newline, bullet, or the standalone word "and"
	instrumentDelimiterRegex = regexp.MustCompile(`(?i)(?:[,;/|•\n]|\band\b)+`)

	debitHintRegex   = regexp.MustCompile(`(?i)\bdebit\b`)
	creditHintRegex  = regexp.MustCompile(`(?i)\bcredit\b`)
	upiHintRegex     = regexp.MustCompile(`(?i)\bupi\b`)
	netBankHintRegex = regexp.MustCompile(`(?i)\bnet\s*bank`)
)

// sortedHeaders returns the row's header names in deterministic order.
// Source rows are plain maps, so iteration order must be pinned before
// any first-match-wins resolution.
func sortedHeaders(row map[string]string) []string {
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers
}

// resolveField resolves a cell by trying each alias in order, exact
// header match before substring match. Returns "" when no alias resolves
// to a populated cell.
func resolveField(row map[string]string, aliases []string) string {
	headers := sortedHeaders(row)

	for _, alias := range aliases {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				if v := strings.TrimSpace(row[h]); v != "" {
					return v
				}
			}
		}
	}
	for _, alias := range aliases {
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), alias) {
				if v := strings.TrimSpace(row[h]); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// resolveMixedCell finds an ambiguous instrument column: a header that
// mentions cards or instruments without naming a specific type
func resolveMixedCell(row map[string]string) string {
	for _, h := range sortedHeaders(row) {
		lower := strings.ToLower(h)
		if !strings.Contains(lower, "card") && !strings.Contains(lower, "instrument") {
			continue
		}
		// Type-hint columns ("Card Type") hold a classification, not names
		if strings.Contains(lower, "type") {
			continue
		}
		if creditHintRegex.MatchString(lower) || debitHintRegex.MatchString(lower) ||
			upiHintRegex.MatchString(lower) || netBankHintRegex.MatchString(lower) {
			continue
		}
		if v := strings.TrimSpace(row[h]); v != "" {
			return v
		}
	}
	return ""
}

// splitInstrumentCell breaks a delimited cell into raw instrument tokens
func splitInstrumentCell(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := instrumentDelimiterRegex.Split(cell, -1)
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// classifyToken determines the instrument type for a token from an
// ambiguous column: the row's explicit type-hint column wins, then
// keywords inside the token itself. Returns false when unclassifiable;
// such tokens are skipped rather than guessed.
func classifyToken(row map[string]string, token string) (domain.InstrumentType, bool) {
	if hint := resolveField(row, typeHintAliases); hint != "" {
		if t, ok := classifyText(hint); ok {
			return t, true
		}
	}
	return classifyText(token)
}

// classifyText maps free text to an instrument type via keyword scan
func classifyText(text string) (domain.InstrumentType, bool) {
	switch {
	case debitHintRegex.MatchString(text):
		return domain.InstrumentDebit, true
	case creditHintRegex.MatchString(text):
		return domain.InstrumentCredit, true
	case upiHintRegex.MatchString(text):
		return domain.InstrumentUPI, true
	case netBankHintRegex.MatchString(text):
		return domain.InstrumentNetBanking, true
	}
	return "", false
}

// parseInstrumentToken projects one raw token into an InstrumentName.
// The variant must be extracted before Normalize runs, since Normalize
// flattens parentheses away.
func parseInstrumentToken(token string, t domain.InstrumentType) domain.InstrumentName {
	token = strings.TrimSpace(token)
	base := ExtractBase(token)
	return domain.InstrumentName{
		Raw:        token,
		Normalized: Normalize(token),
		BaseName:   Normalize(base),
		Variant:    ExtractVariant(token),
		Type:       t,
	}
}
