package usecase

import (
	"context"
	"errors"

	"github.com/offerdeck/backend/internal/domain"
)

// EventKind enumerates the user actions a widget session reacts to
type EventKind int

const (
	// EventQueryChanged fires on every text-input change
	EventQueryChanged EventKind = iota
	// EventSuggestionChosen fires when the user clicks a suggestion
	EventSuggestionChosen
	// EventCommit fires on the explicit confirm action
	EventCommit
)

// SessionEvent is one user action applied to the session state
type SessionEvent struct {
	Kind   EventKind
	Query  string
	Choice *domain.CatalogEntry
}

// SessionState is the explicit widget state: current query text, visible
// suggestions, committed selection and the offers shown for it. It is a
// value, produced only by Apply, so every transition is testable without
// a UI harness.
type SessionState struct {
	Query       string
	Suggestions []domain.SuggestionGroup
	Selected    *domain.CatalogEntry
	Result      domain.ResultState
	Offers      []domain.ProviderOffers
}

// Apply is the single state-transition function for session events.
// Changing the query always clears the selection. Committing with no
// suggestion list visible resolves the typed text directly against the
// catalog with the same scorer used for suggestions.
func (s *SearchService) Apply(ctx context.Context, state SessionState, event SessionEvent) SessionState {
	switch event.Kind {
	case EventQueryChanged:
		next := SessionState{Query: event.Query}
		groups, err := s.Suggest(ctx, event.Query)
		if err != nil {
			return next
		}
		next.Suggestions = groups
		return next

	case EventSuggestionChosen:
		if event.Choice == nil {
			return state
		}
		return s.selectEntry(ctx, state.Query, *event.Choice)

	case EventCommit:
		if state.Selected != nil {
			return state
		}
		if len(state.Suggestions) > 0 {
			// Commit with a visible list picks its highest-scored
			// candidate. Groups are ordered by instrument type, not by
			// score, so the overall best may sit in any group.
			return s.selectEntry(ctx, state.Query, topCandidate(state.Suggestions))
		}
		entry, _, err := s.matcherResolve(state.Query)
		if err != nil {
			next := SessionState{Query: state.Query, Result: domain.ResultNoInstrument}
			return next
		}
		return s.selectEntry(ctx, state.Query, entry)
	}
	return state
}

// topCandidate returns the highest-scored candidate across all groups,
// keeping the first one on ties (candidates within a group are already
// rank-ordered)
func topCandidate(groups []domain.SuggestionGroup) domain.CatalogEntry {
	best := groups[0].Candidates[0]
	for _, g := range groups {
		for _, c := range g.Candidates {
			if c.Score > best.Score {
				best = c
			}
		}
	}
	return best.Entry
}

// selectEntry commits a catalog entry and loads its offers
func (s *SearchService) selectEntry(ctx context.Context, query string, entry domain.CatalogEntry) SessionState {
	next := SessionState{Query: query, Selected: &entry}
	state, _, groups, err := s.Offers(ctx, OfferQuery{BaseNorm: entry.BaseNorm, Type: entry.Type})
	if err != nil {
		if errors.Is(err, domain.ErrNoCatalogMatch) {
			next.Selected = nil
			next.Result = domain.ResultNoInstrument
		}
		return next
	}
	next.Result = state
	next.Offers = groups
	return next
}

// matcherResolve resolves raw text against the current catalog snapshot
func (s *SearchService) matcherResolve(query string) (domain.CatalogEntry, float64, error) {
	catalog, _, _ := s.snapshot()
	if catalog.Empty() {
		return domain.CatalogEntry{}, 0, domain.ErrCatalogUnavailable
	}
	return s.matcher.ResolveBest(query, catalog)
}
