package domain

// InstrumentType classifies the payment instruments an offer can be restricted to
type InstrumentType string

const (
	InstrumentCredit     InstrumentType = "credit"
	InstrumentDebit      InstrumentType = "debit"
	InstrumentUPI        InstrumentType = "upi"
	InstrumentNetBanking InstrumentType = "netbanking"
)

// InstrumentTypes lists all types in canonical presentation order
var InstrumentTypes = []InstrumentType{
	InstrumentCredit,
	InstrumentDebit,
	InstrumentUPI,
	InstrumentNetBanking,
}

// Valid reports whether t is one of the known instrument types
func (t InstrumentType) Valid() bool {
	switch t {
	case InstrumentCredit, InstrumentDebit, InstrumentUPI, InstrumentNetBanking:
		return true
	}
	return false
}

// InstrumentName is a single instrument token as parsed from a source cell.
// BaseName (normalized, variant suffix stripped) is the join key for all
// matching; Raw is only kept for display and diagnostics.
type InstrumentName struct {
	Raw        string         `json:"raw"`
	Normalized string         `json:"normalized"`
	BaseName   string         `json:"baseName"`
	Variant    string         `json:"variant,omitempty"`
	Type       InstrumentType `json:"type"`
}

// CatalogEntry is one deduplicated instrument in the catalog
type CatalogEntry struct {
	Display  string         `json:"display"`
	BaseNorm string         `json:"baseNorm"`
	Type     InstrumentType `json:"type"`
}

// Catalog groups catalog entries by instrument type.
// At most one entry exists per (BaseNorm, Type) pair; entries within a
// type are sorted lexicographically by Display.
type Catalog struct {
	Entries map[InstrumentType][]CatalogEntry `json:"entries"`
}

// NewCatalog creates an empty catalog with all type buckets present
func NewCatalog() *Catalog {
	entries := make(map[InstrumentType][]CatalogEntry, len(InstrumentTypes))
	for _, t := range InstrumentTypes {
		entries[t] = nil
	}
	return &Catalog{Entries: entries}
}

// Empty reports whether the catalog holds no entries at all
func (c *Catalog) Empty() bool {
	if c == nil {
		return true
	}
	for _, entries := range c.Entries {
		if len(entries) > 0 {
			return false
		}
	}
	return true
}

// Size returns the total number of entries across all types
func (c *Catalog) Size() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, entries := range c.Entries {
		total += len(entries)
	}
	return total
}

// Lookup finds the entry with the given normalized base name and type
func (c *Catalog) Lookup(baseNorm string, t InstrumentType) (CatalogEntry, bool) {
	if c == nil {
		return CatalogEntry{}, false
	}
	for _, entry := range c.Entries[t] {
		if entry.BaseNorm == baseNorm {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// MatchCandidate pairs a catalog entry with its query-time relevance score
type MatchCandidate struct {
	Entry CatalogEntry `json:"entry"`
	Score float64      `json:"score"`
}

// SuggestionGroup is a ranked slice of candidates under one type header
type SuggestionGroup struct {
	Type       InstrumentType   `json:"type"`
	Candidates []MatchCandidate `json:"candidates"`
}
