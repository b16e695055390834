package usecase

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/offerdeck/backend/internal/domain"
)

// CatalogService builds the deduplicated instrument catalog from
// loosely-structured tabular rows
type CatalogService struct {
	log *logrus.Logger
}

// NewCatalogService creates a catalog builder
func NewCatalogService(logger *logrus.Logger) *CatalogService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CatalogService{log: logger}
}

// Build parses catalog rows into a catalog grouped by instrument type.
// Building is deterministic and idempotent: identical input rows always
// yield identical entries in identical order. Rows that resolve no
// recognizable instrument cell contribute nothing but never abort the
// build.
func (s *CatalogService) Build(rows []map[string]string) *domain.Catalog {
	catalog := domain.NewCatalog()
	seen := make(map[domain.InstrumentType]map[string]bool, len(domain.InstrumentTypes))
	for _, t := range domain.InstrumentTypes {
		seen[t] = make(map[string]bool)
	}

	skipped := 0
	for _, row := range rows {
		for _, t := range domain.InstrumentTypes {
			cell := resolveField(row, instrumentColumnAliases[t])
			if cell == "" {
				continue
			}
			for _, token := range splitInstrumentCell(cell) {
				s.addToken(catalog, seen, t, token)
			}
		}

		// Ambiguous "cards" column: classify per row hint or per token,
		// skip tokens that classify as nothing
		if cell := resolveMixedCell(row); cell != "" {
			for _, token := range splitInstrumentCell(cell) {
				t, ok := classifyToken(row, token)
				if !ok {
					skipped++
					continue
				}
				s.addToken(catalog, seen, t, token)
			}
		}
	}

	for _, t := range domain.InstrumentTypes {
		entries := catalog.Entries[t]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Display < entries[j].Display
		})
		catalog.Entries[t] = entries
	}

	s.log.WithFields(logrus.Fields{
		"rows":    len(rows),
		"entries": catalog.Size(),
		"skipped": skipped,
	}).Info("Built instrument catalog")

	return catalog
}

// addToken inserts one raw token into the catalog unless its normalized
// base is empty or already present for the type. First occurrence wins
// the display form.
func (s *CatalogService) addToken(catalog *domain.Catalog, seen map[domain.InstrumentType]map[string]bool, t domain.InstrumentType, token string) {
	display := CanonicalizeBrand(ExtractBase(collapseSpaces(token)))
	baseNorm := Normalize(display)
	if baseNorm == "" || seen[t][baseNorm] {
		return
	}
	seen[t][baseNorm] = true
	catalog.Entries[t] = append(catalog.Entries[t], domain.CatalogEntry{
		Display:  display,
		BaseNorm: baseNorm,
		Type:     t,
	})
}

// collapseSpaces trims and collapses whitespace while preserving casing
// and punctuation, unlike Normalize
func collapseSpaces(s string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(s, " "))
}
