// Package safety enforces age-appropriate content rules on resolved terms.
// It handles the three safety tiers (pass through, rewrite, veto) and scans
// the raw input for denylisted wording that should strengthen the negative
// prompt. Warnings are informational; only the blocked-tier veto changes
// control flow.
package safety

import (
	"fmt"
	"strings"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/logging"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/vocabulary"
)

// rewriteTable substitutes graphic or clinical wording with neutral diagram
// wording in needs_rewrite entries. Keys are matched as whole words,
// case-insensitively.
var rewriteTable = []struct{ from, to string }{
	{"dissection", "diagram"},
	{"autopsy", "study"},
	{"cadaver", "model"},
	{"surgical", "medical"},
	{"pathology", "health study"},
	{"trauma", "injury study"},
	{"blood", "circulation"},
	{"gore", "anatomy"},
}

// baseDenylist is scanned against the raw input independently of the
// resolved entry's tier. Hits are appended to the negative prompt.
var baseDenylist = []string{
	"blood",
	"gore",
	"graphic",
	"nudity",
	"violence",
	"dissection",
	"autopsy",
	"cadaver",
}

// Filter applies safety rules to resolved entries and raw input.
// A Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	denylist []string
}

// NewFilter builds a filter from the base denylist plus any corpus-level
// additions. Duplicates are dropped, first occurrence wins.
func NewFilter(extraDenied []string) *Filter {
	seen := make(map[string]bool)
	var denylist []string
	for _, term := range append(append([]string(nil), baseDenylist...), extraDenied...) {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		denylist = append(denylist, key)
	}
	return &Filter{denylist: denylist}
}

// Apply runs the safety rules in order:
//  1. A nil entry (unresolved term) passes through unchanged.
//  2. A blocked-tier entry vetoes the request: the returned entry is nil and
//     a warning describes the refusal.
//  3. A needs_rewrite entry has its description and view fragments passed
//     through the rewrite table; the original store entry is never mutated.
//  4. The raw input is scanned for denylisted words; hits become extra
//     negative-prompt terms.
//
// The returned warnings explain every modification. Apply never returns an
// error; the veto is signalled by (nil entry, warning) with a resolved input.
func (f *Filter) Apply(entry *vocabulary.Entry, rawInput string) (*vocabulary.Entry, []string, []string) {
	var warnings []string

	safeEntry := entry
	if entry != nil {
		switch entry.SafetyTier {
		case vocabulary.TierBlocked:
			logging.Get(logging.CategorySafety).Infow("blocked term vetoed", "term", entry.CanonicalTerm)
			warnings = append(warnings, fmt.Sprintf(
				"term %q is blocked for grade school content and cannot be illustrated", entry.CanonicalTerm))
			safeEntry = nil
		case vocabulary.TierNeedsRewrite:
			safeEntry = rewriteEntry(entry)
			warnings = append(warnings, fmt.Sprintf(
				"term %q content was rewritten with neutral diagram wording", entry.CanonicalTerm))
		}
	}

	extra := f.scanInput(rawInput, &warnings)
	return safeEntry, warnings, extra
}

// Vetoed reports whether Apply refused the request: the input resolved to an
// entry but the filter returned none.
func Vetoed(resolved, safe *vocabulary.Entry) bool {
	return resolved != nil && safe == nil
}

// scanInput collects denylisted words present in the raw input.
func (f *Filter) scanInput(rawInput string, warnings *[]string) []string {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(rawInput)) {
		words[strings.Trim(w, ".,;:!?\"'()")] = true
	}

	var extra []string
	for _, denied := range f.denylist {
		if !containsPhrase(words, rawInput, denied) {
			continue
		}
		extra = append(extra, denied)
		*warnings = append(*warnings, fmt.Sprintf("input contains unsafe word %q; added to negative prompt", denied))
		logging.Get(logging.CategorySafety).Debugw("denylist hit", "word", denied)
	}
	return extra
}

// containsPhrase matches single denylist words against the tokenized input
// and multi-word phrases against the lowercased input as a whole.
func containsPhrase(words map[string]bool, rawInput, denied string) bool {
	if !strings.Contains(denied, " ") {
		return words[denied]
	}
	return strings.Contains(strings.ToLower(rawInput), denied)
}

// rewriteEntry clones the entry and applies the rewrite table to its
// description and view fragments.
func rewriteEntry(entry *vocabulary.Entry) *vocabulary.Entry {
	clone := entry.Clone()
	clone.Description = rewriteText(clone.Description)
	for view, frags := range clone.ViewFragments {
		for i, frag := range frags {
			frags[i] = rewriteText(frag)
		}
		clone.ViewFragments[view] = frags
	}
	return clone
}

// rewriteText replaces whole-word occurrences of rewrite-table keys.
func rewriteText(text string) string {
	fields := strings.Fields(text)
	for i, field := range fields {
		trimmed := strings.Trim(field, ".,;:!?\"'()")
		lower := strings.ToLower(trimmed)
		for _, rule := range rewriteTable {
			if lower == rule.from {
				fields[i] = strings.Replace(field, trimmed, rule.to, 1)
				break
			}
		}
	}
	return strings.Join(fields, " ")
}
