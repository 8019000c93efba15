// Package composer assembles the final positive and negative prompt strings.
// Assembly is deterministic: fragments are appended in a fixed order,
// deduplicated by exact string (first occurrence wins), and joined with ", ".
package composer

import (
	"fmt"
	"strings"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/logging"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/vocabulary"
)

// Focus selects the stylistic shaping of the positive prompt.
type Focus string

const (
	FocusEducation  Focus = "education"
	Focus3DModeling Focus = "3d_modeling"
	FocusScientific Focus = "scientific"
)

// AllFocusModes returns the supported focus modes.
func AllFocusModes() []Focus {
	return []Focus{FocusEducation, Focus3DModeling, FocusScientific}
}

// Valid reports whether the focus is a known value.
func (f Focus) Valid() bool {
	for _, known := range AllFocusModes() {
		if f == known {
			return true
		}
	}
	return false
}

// genericTerm is used in the positive prompt when no entry resolved.
const genericTerm = "anatomical structure"

// baseContextFragments always follow the subject fragment.
var baseContextFragments = []string{
	"medical textbook style",
	"educational diagram",
	"for grade school science class",
}

// defaultViewFragments are used when the entry carries no fragments for the
// requested view (or no entry resolved at all).
var defaultViewFragments = map[vocabulary.ViewType][]string{
	vocabulary.ViewStandard: {
		"simple front view",
		"whole structure visible",
	},
	vocabulary.ViewCrossSection: {
		"cutaway diagram, internal structure visible",
	},
	vocabulary.ViewSystemOverview: {
		"full body system overview",
		"showing how the parts work together",
	},
}

// focusFragments close the positive prompt.
var focusFragments = map[Focus][]string{
	FocusEducation: {
		"educational poster style",
		"simple shapes",
		"friendly colors",
	},
	Focus3DModeling: {
		"orthographic projection, clean topology, neutral lighting",
		"single subject on plain background",
	},
	FocusScientific: {
		"detailed scientific illustration",
		"accurate proportions",
		"reference quality",
	},
}

// baselineNegative is always present in the negative prompt, in this order,
// regardless of whether the term resolved.
var baselineNegative = []string{
	"blood",
	"gore",
	"graphic",
	"text",
	"labels",
	"annotations",
	"arrows",
	"numbers",
}

// Result holds the two assembled prompt strings.
type Result struct {
	Positive string
	Negative string
}

// Compose builds the prompt pair for a resolved (and safety-filtered) entry.
// A nil entry with vetoed=false means the term was unresolved and the generic
// fallback subject is used. vetoed=true means the safety filter refused the
// request: the positive prompt is left empty so no caller can mistake a
// refusal for a generated prompt. The negative prompt is produced in every
// case.
func Compose(focus Focus, view vocabulary.ViewType, entry *vocabulary.Entry, extraNegative []string, vetoed bool) Result {
	result := Result{Negative: composeNegative(extraNegative)}
	if vetoed {
		return result
	}

	result.Positive = composePositive(focus, view, entry)
	logging.Get(logging.CategoryComposer).Debugw("composed prompt",
		"focus", focus, "view", view, "positive_len", len(result.Positive))
	return result
}

func composePositive(focus Focus, view vocabulary.ViewType, entry *vocabulary.Entry) string {
	term := genericTerm
	if entry != nil {
		term = entry.CanonicalTerm
	}

	var fragments []string
	fragments = append(fragments, fmt.Sprintf("anatomical illustration of %s", term))
	fragments = append(fragments, baseContextFragments...)
	fragments = append(fragments, viewFragments(view, entry)...)
	fragments = append(fragments, focusFragments[focus]...)

	return joinDeduplicated(fragments)
}

// viewFragments prefers the entry's own fragments for the requested view,
// falling back to the per-view defaults.
func viewFragments(view vocabulary.ViewType, entry *vocabulary.Entry) []string {
	if entry != nil {
		if frags := entry.ViewFragments[view]; len(frags) > 0 {
			return frags
		}
	}
	return defaultViewFragments[view]
}

func composeNegative(extraNegative []string) string {
	fragments := append(append([]string(nil), baselineNegative...), extraNegative...)
	return joinDeduplicated(fragments)
}

// joinDeduplicated joins fragments with ", ", dropping exact duplicates while
// preserving first-occurrence order.
func joinDeduplicated(fragments []string) string {
	seen := make(map[string]bool, len(fragments))
	out := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		frag = strings.TrimSpace(frag)
		if frag == "" || seen[frag] {
			continue
		}
		seen[frag] = true
		out = append(out, frag)
	}
	return strings.Join(out, ", ")
}
