// Package vocabulary implements the immutable anatomical term store.
// The store maps canonical terms to metadata (body system, description,
// aliases, view-specific phrase fragments, safety tier). It is loaded once
// at startup from a YAML corpus (embedded or external) and never mutated,
// so concurrent reads need no locking.
package vocabulary

import (
	"fmt"
	"strings"
)

// BodySystem classifies an entry into one of the six supported systems.
type BodySystem string

const (
	SystemSkeletal    BodySystem = "skeletal"
	SystemCirculatory BodySystem = "circulatory"
	SystemRespiratory BodySystem = "respiratory"
	SystemNervous     BodySystem = "nervous"
	SystemDigestive   BodySystem = "digestive"
	SystemMuscular    BodySystem = "muscular"
)

// AllBodySystems returns the supported systems in canonical listing order.
func AllBodySystems() []BodySystem {
	return []BodySystem{
		SystemSkeletal,
		SystemCirculatory,
		SystemRespiratory,
		SystemNervous,
		SystemDigestive,
		SystemMuscular,
	}
}

// Valid reports whether the system is one of the supported six.
func (s BodySystem) Valid() bool {
	for _, known := range AllBodySystems() {
		if s == known {
			return true
		}
	}
	return false
}

// SafetyTier controls how an entry's content may be used.
type SafetyTier string

const (
	// TierSafe entries are used as-is.
	TierSafe SafetyTier = "safe"

	// TierNeedsRewrite entries have their description and fragments passed
	// through the replacement table before composition.
	TierNeedsRewrite SafetyTier = "needs_rewrite"

	// TierBlocked entries veto the whole request.
	TierBlocked SafetyTier = "blocked"
)

// Valid reports whether the tier is a known value.
func (t SafetyTier) Valid() bool {
	switch t {
	case TierSafe, TierNeedsRewrite, TierBlocked:
		return true
	}
	return false
}

// ViewType selects the anatomical presentation of a prompt.
type ViewType string

const (
	ViewStandard       ViewType = "standard"
	ViewCrossSection   ViewType = "cross_section"
	ViewSystemOverview ViewType = "system_overview"
)

// AllViewTypes returns the supported view types.
func AllViewTypes() []ViewType {
	return []ViewType{ViewStandard, ViewCrossSection, ViewSystemOverview}
}

// Valid reports whether the view type is a known value.
func (v ViewType) Valid() bool {
	for _, known := range AllViewTypes() {
		if v == known {
			return true
		}
	}
	return false
}

// Entry is a single vocabulary record. Entries held by a Store are shared
// and must not be mutated; callers that rewrite content work on a Clone.
type Entry struct {
	CanonicalTerm string
	BodySystem    BodySystem
	Aliases       []string
	Description   string
	ViewFragments map[ViewType][]string
	SafetyTier    SafetyTier
}

// Validate checks the entry for consistency errors.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.CanonicalTerm) == "" {
		return fmt.Errorf("entry missing canonical term")
	}
	if !e.BodySystem.Valid() {
		return fmt.Errorf("entry %q: unknown body system %q", e.CanonicalTerm, e.BodySystem)
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("entry %q: missing description", e.CanonicalTerm)
	}
	if !e.SafetyTier.Valid() {
		return fmt.Errorf("entry %q: unknown safety tier %q", e.CanonicalTerm, e.SafetyTier)
	}
	for view := range e.ViewFragments {
		if !view.Valid() {
			return fmt.Errorf("entry %q: unknown view type %q", e.CanonicalTerm, view)
		}
	}
	return nil
}

// Clone creates a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	clone := *e
	clone.Aliases = append([]string(nil), e.Aliases...)
	if e.ViewFragments != nil {
		clone.ViewFragments = make(map[ViewType][]string, len(e.ViewFragments))
		for view, frags := range e.ViewFragments {
			clone.ViewFragments[view] = append([]string(nil), frags...)
		}
	}
	return &clone
}
