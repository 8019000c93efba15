package vocabulary

import (
	"sort"
	"strings"
)

// Store is the immutable vocabulary table. All lookups are case-insensitive.
// A Store is only constructed by the loaders in this package, which enforce
// the invariants: canonical terms are unique, and no alias collides with a
// canonical term or another alias.
type Store struct {
	entries     []*Entry
	byCanonical map[string]*Entry
	byAlias     map[string]*Entry
	systems     map[BodySystem]string // system -> description
	forbidden   []string
}

func newStore() *Store {
	return &Store{
		byCanonical: make(map[string]*Entry),
		byAlias:     make(map[string]*Entry),
		systems:     make(map[BodySystem]string),
	}
}

// normalizeKey lowercases and collapses whitespace for index keys.
func normalizeKey(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}

// add indexes an entry, reporting invariant violations via DataError.
func (s *Store) add(e *Entry, source string) error {
	if err := e.Validate(); err != nil {
		return &DataError{Source: source, Reason: "invalid entry", Err: err}
	}

	key := normalizeKey(e.CanonicalTerm)
	if _, exists := s.byCanonical[key]; exists {
		return dataErr(source, "duplicate canonical term %q", e.CanonicalTerm)
	}
	if _, exists := s.byAlias[key]; exists {
		return dataErr(source, "canonical term %q collides with an existing alias", e.CanonicalTerm)
	}
	s.byCanonical[key] = e
	s.entries = append(s.entries, e)

	for _, alias := range e.Aliases {
		aliasKey := normalizeKey(alias)
		if aliasKey == "" {
			return dataErr(source, "entry %q has an empty alias", e.CanonicalTerm)
		}
		if _, exists := s.byCanonical[aliasKey]; exists {
			return dataErr(source, "alias %q of %q collides with a canonical term", alias, e.CanonicalTerm)
		}
		if prev, exists := s.byAlias[aliasKey]; exists {
			return dataErr(source, "alias %q of %q already resolves to %q", alias, e.CanonicalTerm, prev.CanonicalTerm)
		}
		s.byAlias[aliasKey] = e
	}
	return nil
}

// LookupCanonical returns the entry whose canonical term matches, or nil.
func (s *Store) LookupCanonical(term string) *Entry {
	return s.byCanonical[normalizeKey(term)]
}

// LookupAlias returns the entry one of whose aliases matches, or nil.
func (s *Store) LookupAlias(term string) *Entry {
	return s.byAlias[normalizeKey(term)]
}

// AllEntries returns every entry sorted by body system (canonical system
// order) and then alphabetically by term. The listing is stable across calls.
func (s *Store) AllEntries() []*Entry {
	out := append([]*Entry(nil), s.entries...)
	systemRank := make(map[BodySystem]int, 6)
	for i, sys := range AllBodySystems() {
		systemRank[sys] = i
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BodySystem != out[j].BodySystem {
			return systemRank[out[i].BodySystem] < systemRank[out[j].BodySystem]
		}
		return out[i].CanonicalTerm < out[j].CanonicalTerm
	})
	return out
}

// CanonicalTerms returns all canonical terms in AllEntries order.
func (s *Store) CanonicalTerms() []string {
	entries := s.AllEntries()
	terms := make([]string, len(entries))
	for i, e := range entries {
		terms[i] = e.CanonicalTerm
	}
	return terms
}

// TermsForSystem returns the canonical terms of one body system, sorted.
func (s *Store) TermsForSystem(sys BodySystem) []string {
	var terms []string
	for _, e := range s.entries {
		if e.BodySystem == sys {
			terms = append(terms, e.CanonicalTerm)
		}
	}
	sort.Strings(terms)
	return terms
}

// SystemDescription returns the description of a body system.
func (s *Store) SystemDescription(sys BodySystem) (string, bool) {
	desc, ok := s.systems[sys]
	return desc, ok
}

// ForbiddenTerms returns the corpus-level denylist additions, if any.
func (s *Store) ForbiddenTerms() []string {
	return append([]string(nil), s.forbidden...)
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }
