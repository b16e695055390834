package usecase

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/offerdeck/backend/internal/domain"
)

// Scoring constants. Scores live on a 0-100 scale throughout; the ratio
// thresholds below apply to 0-1 similarity ratios. All of these are
// empirical and tunable, not laws.
const (
	scoreExact     = 100.0 // normalized query equals normalized candidate
	scoreSubstring = 90.0  // normalized candidate contains the query

	// Blended-score weights, summing to 1. Three-term form: word overlap
	// dominates, fuzzy per-word matches recover typos, whole-string
	// similarity breaks the remaining ties.
	weightWordMatch = 0.5
	weightFuzzyWord = 0.3
	weightOverall   = 0.2

	// A query word fuzzy-matches a candidate word when the edit distance
	// is at most fuzzyWordMaxDistance and the distance-to-length ratio
	// stays under fuzzyWordMaxRatio.
	fuzzyWordMaxDistance = 2
	fuzzyWordMaxRatio    = 0.35

	// IsFuzzyNameMatch thresholds
	fuzzyWholeMinSimilarity = 0.6
	fuzzyPairMinSimilarity  = 0.7
	fuzzyPairMinWordLen     = 3

	defaultRelevanceThreshold = 30.0
	defaultSuggestionLimit    = 20
)

// Distance computes the Levenshtein edit distance between a and b over
// their normalized forms. Inputs are normalized here; callers must not
// pre-normalize differently.
func Distance(a, b string) int {
	return fuzzy.LevenshteinDistance(Normalize(a), Normalize(b))
}

// similarityRatio is 1 - distance/maxLen over already-normalized strings,
// in [0, 1]. Two empty strings are treated as identical.
func similarityRatio(normA, normB string) float64 {
	lenA := utf8.RuneCountInString(normA)
	lenB := utf8.RuneCountInString(normB)
	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	if maxLen == 0 {
		return 1
	}
	dist := fuzzy.LevenshteinDistance(normA, normB)
	return 1 - float64(dist)/float64(maxLen)
}

// Score ranks a candidate name against a query on a 0-100 scale.
// Rule order: exact normalized equality wins outright, substring
// containment next, otherwise a blended word/character score.
func Score(query, candidate string) float64 {
	nq := Normalize(query)
	nc := Normalize(candidate)
	if nq == "" || nc == "" {
		return 0
	}
	if nq == nc {
		return scoreExact
	}
	if strings.Contains(nc, nq) {
		return scoreSubstring
	}

	queryWords := strings.Fields(nq)
	candWords := strings.Fields(nc)

	wordMatches := 0
	fuzzyMatches := 0
	for _, qw := range queryWords {
		matched := false
		fuzzyMatched := false
		for _, cw := range candWords {
			if !matched && strings.Contains(cw, qw) {
				matched = true
			}
			if !fuzzyMatched && wordsFuzzyEqual(qw, cw) {
				fuzzyMatched = true
			}
			if matched && fuzzyMatched {
				break
			}
		}
		if matched {
			wordMatches++
		}
		if fuzzyMatched {
			fuzzyMatches++
		}
	}

	wordMatchRatio := float64(wordMatches) / float64(len(queryWords))
	fuzzyWordRatio := float64(fuzzyMatches) / float64(len(queryWords))
	overall := similarityRatio(nq, nc)

	return (weightWordMatch*wordMatchRatio + weightFuzzyWord*fuzzyWordRatio + weightOverall*overall) * scoreExact
}

// wordsFuzzyEqual reports whether two normalized words are within the
// per-word typo tolerance
func wordsFuzzyEqual(a, b string) bool {
	dist := fuzzy.LevenshteinDistance(a, b)
	if dist > fuzzyWordMaxDistance {
		return false
	}
	maxLen := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return true
	}
	return float64(dist)/float64(maxLen) < fuzzyWordMaxRatio
}

// IsFuzzyNameMatch is the inclusion heuristic, separate from ranking: a
// label is "good enough" when it contains the query, resembles it as a
// whole, or shares at least one closely-matching word pair.
func IsFuzzyNameMatch(query, label string) bool {
	nq := Normalize(query)
	nl := Normalize(label)
	if nq == "" || nl == "" {
		return false
	}
	if strings.Contains(nl, nq) || strings.Contains(nq, nl) {
		return true
	}
	if similarityRatio(nq, nl) >= fuzzyWholeMinSimilarity {
		return true
	}
	for _, qw := range strings.Fields(nq) {
		if utf8.RuneCountInString(qw) < fuzzyPairMinWordLen {
			continue
		}
		for _, lw := range strings.Fields(nl) {
			if utf8.RuneCountInString(lw) < fuzzyPairMinWordLen {
				continue
			}
			if similarityRatio(qw, lw) >= fuzzyPairMinSimilarity {
				return true
			}
		}
	}
	return false
}

// MatchConfig holds configuration for the matcher service
type MatchConfig struct {
	RelevanceThreshold float64
	SuggestionLimit    int
}

// MatcherService ranks user queries against the instrument catalog
type MatcherService struct {
	relevanceThreshold float64
	suggestionLimit    int
}

// NewMatcherService creates a matcher with the given configuration,
// falling back to defaults for zero values
func NewMatcherService(config MatchConfig) *MatcherService {
	threshold := config.RelevanceThreshold
	if threshold <= 0 {
		threshold = defaultRelevanceThreshold
	}
	limit := config.SuggestionLimit
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	return &MatcherService{
		relevanceThreshold: threshold,
		suggestionLimit:    limit,
	}
}

// Suggest ranks every catalog entry against the query and returns the
// relevant ones grouped by instrument type. Candidates are sorted by
// descending score with lexicographic display-name tie-break, truncated
// to the suggestion limit before grouping.
func (s *MatcherService) Suggest(query string, catalog *domain.Catalog) []domain.SuggestionGroup {
	if catalog == nil || Normalize(query) == "" {
		return nil
	}

	var candidates []domain.MatchCandidate
	for _, t := range domain.InstrumentTypes {
		for _, entry := range catalog.Entries[t] {
			score := Score(query, entry.Display)
			if score < s.relevanceThreshold {
				continue
			}
			candidates = append(candidates, domain.MatchCandidate{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Entry.Display < candidates[j].Entry.Display
	})

	if len(candidates) > s.suggestionLimit {
		candidates = candidates[:s.suggestionLimit]
	}

	return groupByType(candidates)
}

// ResolveBest resolves raw query text directly against the catalog,
// returning the single best-scoring entry above the relevance threshold.
// Used by the commit action when no suggestion list is visible.
func (s *MatcherService) ResolveBest(query string, catalog *domain.Catalog) (domain.CatalogEntry, float64, error) {
	if catalog == nil || Normalize(query) == "" {
		return domain.CatalogEntry{}, 0, domain.ErrInvalidRequest
	}

	var best domain.CatalogEntry
	bestScore := -1.0
	for _, t := range domain.InstrumentTypes {
		for _, entry := range catalog.Entries[t] {
			score := Score(query, entry.Display)
			if score > bestScore || (score == bestScore && entry.Display < best.Display) {
				best = entry
				bestScore = score
			}
		}
	}

	if bestScore < s.relevanceThreshold {
		return domain.CatalogEntry{}, bestScore, domain.ErrNoCatalogMatch
	}
	return best, bestScore, nil
}

// groupByType buckets ranked candidates under type headers, preserving
// rank order within each group and canonical type order across groups
func groupByType(candidates []domain.MatchCandidate) []domain.SuggestionGroup {
	byType := make(map[domain.InstrumentType][]domain.MatchCandidate)
	for _, c := range candidates {
		byType[c.Entry.Type] = append(byType[c.Entry.Type], c)
	}

	var groups []domain.SuggestionGroup
	for _, t := range domain.InstrumentTypes {
		if len(byType[t]) == 0 {
			continue
		}
		groups = append(groups, domain.SuggestionGroup{Type: t, Candidates: byType[t]})
	}
	return groups
}
