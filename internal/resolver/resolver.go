// Package resolver maps free-text input to a vocabulary entry.
// Resolution follows a strict precedence: exact canonical match, exact alias
// match, fuzzy match, unresolved. An unresolved term is a normal result, not
// an error; the caller decides the fallback behavior.
package resolver

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/logging"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/vocabulary"
)

// Status describes how an input matched the vocabulary.
type Status string

const (
	StatusExact      Status = "exact"
	StatusAlias      Status = "alias"
	StatusFuzzy      Status = "fuzzy"
	StatusUnresolved Status = "unresolved"
)

// Result is the outcome of a single resolution. Entry is nil when Status is
// StatusUnresolved. MatchedText is the normalized form of the input.
type Result struct {
	Status      Status
	Entry       *vocabulary.Entry
	MatchedText string
}

// Fuzzy matching thresholds. A candidate qualifies when the normalized input
// is a substring of the canonical term (or vice versa), or when the
// Levenshtein distance is at most maxEditDistance for inputs of at least
// minFuzzyInputLen characters.
const (
	maxEditDistance  = 2
	minFuzzyInputLen = 4
)

// Normalize trims surrounding whitespace, lowercases, and collapses internal
// whitespace runs to single spaces.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// Resolve finds the best-matching vocabulary entry for raw input.
// Stateless and safe for concurrent use.
func Resolve(raw string, store *vocabulary.Store) Result {
	normalized := Normalize(raw)
	if normalized == "" {
		return Result{Status: StatusUnresolved, MatchedText: normalized}
	}

	if entry := store.LookupCanonical(normalized); entry != nil {
		return Result{Status: StatusExact, Entry: entry, MatchedText: normalized}
	}

	if entry := store.LookupAlias(normalized); entry != nil {
		logging.Get(logging.CategoryResolver).Debugw("alias match",
			"input", normalized, "term", entry.CanonicalTerm)
		return Result{Status: StatusAlias, Entry: entry, MatchedText: normalized}
	}

	if entry := bestFuzzyMatch(normalized, store); entry != nil {
		logging.Get(logging.CategoryResolver).Debugw("fuzzy match",
			"input", normalized, "term", entry.CanonicalTerm)
		return Result{Status: StatusFuzzy, Entry: entry, MatchedText: normalized}
	}

	logging.Get(logging.CategoryResolver).Debugw("unresolved term", "input", normalized)
	return Result{Status: StatusUnresolved, MatchedText: normalized}
}

// bestFuzzyMatch scores every canonical term against the normalized input and
// returns the single best candidate, or nil when none qualifies.
//
// Scoring: a substring relationship in either direction counts as distance 0;
// otherwise the score is the Levenshtein distance, admitted only when it is
// within maxEditDistance and the input is at least minFuzzyInputLen long.
// Ties break by shortest canonical term, then lexicographically.
func bestFuzzyMatch(normalized string, store *vocabulary.Store) *vocabulary.Entry {
	var (
		best      *vocabulary.Entry
		bestScore int
	)

	consider := func(entry *vocabulary.Entry, score int) {
		if best == nil || score < bestScore {
			best, bestScore = entry, score
			return
		}
		if score > bestScore {
			return
		}
		cur, prev := entry.CanonicalTerm, best.CanonicalTerm
		if len(cur) < len(prev) || (len(cur) == len(prev) && cur < prev) {
			best = entry
		}
	}

	for _, entry := range store.AllEntries() {
		canonical := strings.ToLower(entry.CanonicalTerm)

		if strings.Contains(canonical, normalized) || strings.Contains(normalized, canonical) {
			consider(entry, 0)
			continue
		}

		if len(normalized) < minFuzzyInputLen {
			continue
		}
		if dist := levenshtein.ComputeDistance(normalized, canonical); dist <= maxEditDistance {
			consider(entry, dist)
		}
	}

	return best
}
