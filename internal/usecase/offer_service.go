package usecase

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/offerdeck/backend/internal/domain"
)

// fingerprintSeparator joins fingerprint components. Coupon codes are
// deliberately absent from fingerprints: the same promotion syndicated to
// several platforms usually differs only in its per-platform code, and
// those copies must collapse to one entry.
const fingerprintSeparator = "||"

// OfferConfig holds configuration for the offer matcher
type OfferConfig struct {
	// ProviderPriority is the traversal order for cross-provider
	// deduplication; first provider listed wins duplicates
	ProviderPriority []domain.Provider
	// VariantNoteProviders are the providers whose sheets carry
	// variant-specific restrictions worth surfacing to the user
	VariantNoteProviders []domain.Provider
}

// OfferService parses provider offer rows and matches them against a
// selected instrument
type OfferService struct {
	providerPriority []domain.Provider
	variantNote      map[domain.Provider]bool
	log              *logrus.Logger
}

// NewOfferService creates an offer matcher with the given configuration,
// falling back to the default provider priority
func NewOfferService(config OfferConfig, logger *logrus.Logger) *OfferService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	priority := config.ProviderPriority
	if len(priority) == 0 {
		priority = domain.DefaultProviderPriority
	}
	variantNote := make(map[domain.Provider]bool, len(config.VariantNoteProviders))
	for _, p := range config.VariantNoteProviders {
		variantNote[p] = true
	}
	return &OfferService{
		providerPriority: priority,
		variantNote:      variantNote,
		log:              logger,
	}
}

// ParseRows projects one provider's raw sheet rows into typed offer rows.
// Field resolution is per-field: a row missing some alias columns keeps
// whatever fields did resolve. Rows that resolve neither a title nor any
// applicable instrument are dropped.
func (s *OfferService) ParseRows(provider domain.Provider, rows []map[string]string) []domain.OfferRow {
	offers := make([]domain.OfferRow, 0, len(rows))
	for _, row := range rows {
		offer := domain.OfferRow{
			Provider:    provider,
			Title:       resolveField(row, titleAliases),
			Description: resolveField(row, descAliases),
			CouponCode:  resolveField(row, couponAliases),
			Terms:       resolveField(row, termsAliases),
			Link:        resolveField(row, linkAliases),
			Image:       resolveField(row, imageAliases),
			Applicable:  parseApplicableInstruments(row),
		}
		if offer.Title == "" && len(offer.Applicable) == 0 {
			continue
		}
		offers = append(offers, offer)
	}

	s.log.WithFields(logrus.Fields{
		"provider": provider,
		"rows":     len(rows),
		"offers":   len(offers),
	}).Debug("Parsed provider offer rows")

	return offers
}

// parseApplicableInstruments gathers the row's instrument tokens from
// explicitly-typed columns and from an ambiguous cards column, the latter
// classified via row hints or per-token keywords
func parseApplicableInstruments(row map[string]string) []domain.InstrumentName {
	var names []domain.InstrumentName
	for _, t := range domain.InstrumentTypes {
		cell := resolveField(row, instrumentColumnAliases[t])
		if cell == "" {
			continue
		}
		for _, token := range splitInstrumentCell(cell) {
			names = append(names, parseInstrumentToken(token, t))
		}
	}
	if cell := resolveMixedCell(row); cell != "" {
		for _, token := range splitInstrumentCell(cell) {
			if t, ok := classifyToken(row, token); ok {
				names = append(names, parseInstrumentToken(token, t))
			}
		}
	}
	return names
}

// Match returns the offers applicable to the selected instrument.
// Matching is by normalized base-name equality and instrument type; a
// token without a variant suffix applies to every variant of the base
// instrument, and the first non-empty variant found supplies VariantText.
func (s *OfferService) Match(selected domain.CatalogEntry, offers []domain.OfferRow) []domain.MatchedOffer {
	var matched []domain.MatchedOffer
	for _, offer := range offers {
		variantText := ""
		applies := false
		for _, name := range offer.Applicable {
			if name.Type != selected.Type || name.BaseName != selected.BaseNorm {
				continue
			}
			applies = true
			if variantText == "" && name.Variant != "" {
				variantText = name.Variant
			}
		}
		if !applies {
			continue
		}
		m := domain.MatchedOffer{
			Offer:       offer,
			Provider:    offer.Provider,
			VariantText: variantText,
		}
		if variantText != "" && s.variantNote[offer.Provider] {
			m.VariantNote = "only on " + variantText
		}
		matched = append(matched, m)
	}
	return matched
}

// MatchAll matches the selected instrument against every provider's
// offers, deduplicates identical promotions across providers in priority
// order, and groups the survivors by provider.
func (s *OfferService) MatchAll(selected domain.CatalogEntry, offersByProvider map[domain.Provider][]domain.OfferRow) []domain.ProviderOffers {
	seen := make(map[string]bool)
	var groups []domain.ProviderOffers
	for _, provider := range s.traversalOrder(offersByProvider) {
		rows := offersByProvider[provider]
		if len(rows) == 0 {
			continue
		}
		var kept []domain.MatchedOffer
		for _, m := range s.Match(selected, rows) {
			fp := offerFingerprint(m.Offer)
			if seen[fp] {
				continue
			}
			seen[fp] = true
			kept = append(kept, m)
		}
		if len(kept) > 0 {
			groups = append(groups, domain.ProviderOffers{Provider: provider, Offers: kept})
		}
	}
	return groups
}

// traversalOrder is the configured priority followed by any provider
// present in the offer tables but absent from it, sorted for determinism.
// A provider with a configured sheet must never be silently dropped just
// because the priority list omits it.
func (s *OfferService) traversalOrder(offersByProvider map[domain.Provider][]domain.OfferRow) []domain.Provider {
	order := make([]domain.Provider, 0, len(s.providerPriority)+len(offersByProvider))
	listed := make(map[domain.Provider]bool, len(s.providerPriority))
	for _, p := range s.providerPriority {
		order = append(order, p)
		listed[p] = true
	}

	var extra []domain.Provider
	for p := range offersByProvider {
		if !listed[p] {
			extra = append(extra, p)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(order, extra...)
}

// offerFingerprint derives the duplicate-detection key for an offer from
// its user-visible content
func offerFingerprint(offer domain.OfferRow) string {
	return strings.Join([]string{
		Normalize(offer.Title),
		Normalize(offer.Description),
		normalizeURL(offer.Image),
		normalizeURL(offer.Link),
	}, fingerprintSeparator)
}

// normalizeURL canonicalizes a URL for fingerprinting: lowercase, scheme
// and leading www stripped, trailing slash stripped
func normalizeURL(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimSuffix(u, "/")
}
