// Package refiner exposes the single integration entry point of the prompt
// pipeline: a PromptRequest goes through Resolve -> Filter -> Compose and
// comes back as a PromptResult. Each call is a pure function of its inputs
// given the immutable vocabulary store, so an Engine is safe for concurrent
// use without locking.
package refiner

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/composer"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/logging"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/resolver"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/safety"
	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/vocabulary"
)

// PromptRequest describes a single refinement call.
type PromptRequest struct {
	RawInput string
	Focus    composer.Focus
	ViewType vocabulary.ViewType
}

// PromptResult is the immutable outcome of a refinement call. An empty
// Positive with a resolved MatchedTerm means the safety filter refused the
// request; Warnings carry the explanation.
type PromptResult struct {
	Positive string   `json:"positive"`
	Negative string   `json:"negative"`
	Warnings []string `json:"warnings,omitempty"`

	// Observability fields for verbose/structured output.
	MatchedTerm string `json:"matched_term,omitempty"`
	MatchStatus string `json:"match_status"`
	BodySystem  string `json:"body_system,omitempty"`
}

// Refused reports whether the result is a safety refusal rather than a
// usable prompt pair.
func (r PromptResult) Refused() bool {
	return r.Positive == "" && r.MatchedTerm != ""
}

// InvalidSelectorError reports an unrecognized focus or view type. It is
// returned before resolution begins.
type InvalidSelectorError struct {
	Kind     string // "focus" or "view type"
	Value    string
	Accepted []string
}

func (e *InvalidSelectorError) Error() string {
	return fmt.Sprintf("invalid %s %q (accepted values: %s)", e.Kind, e.Value, strings.Join(e.Accepted, ", "))
}

// ParseFocus converts a user-supplied focus string. Empty input selects the
// default (education).
func ParseFocus(s string) (composer.Focus, error) {
	if s == "" {
		return composer.FocusEducation, nil
	}
	f := composer.Focus(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", &InvalidSelectorError{Kind: "focus", Value: s, Accepted: focusNames()}
	}
	return f, nil
}

// ParseViewType converts a user-supplied view type string. Empty input
// selects the default (standard).
func ParseViewType(s string) (vocabulary.ViewType, error) {
	if s == "" {
		return vocabulary.ViewStandard, nil
	}
	v := vocabulary.ViewType(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", &InvalidSelectorError{Kind: "view type", Value: s, Accepted: viewNames()}
	}
	return v, nil
}

func focusNames() []string {
	modes := composer.AllFocusModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

func viewNames() []string {
	views := vocabulary.AllViewTypes()
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = string(v)
	}
	return names
}

// Engine binds a vocabulary store to the refinement pipeline.
type Engine struct {
	store  *vocabulary.Store
	filter *safety.Filter
}

// NewEngine creates an engine over a loaded store.
func NewEngine(store *vocabulary.Store) *Engine {
	return &Engine{
		store:  store,
		filter: safety.NewFilter(store.ForbiddenTerms()),
	}
}

// Store returns the engine's vocabulary store.
func (e *Engine) Store() *vocabulary.Store { return e.store }

// Refine runs the full pipeline for one request. Selector validation happens
// before resolution; an unknown focus or view type fails with
// *InvalidSelectorError. Every other condition (unresolved term, safety
// rewrite, blocked veto) is represented in the result, never as an error.
func (e *Engine) Refine(req PromptRequest) (PromptResult, error) {
	if !req.Focus.Valid() {
		return PromptResult{}, &InvalidSelectorError{Kind: "focus", Value: string(req.Focus), Accepted: focusNames()}
	}
	if !req.ViewType.Valid() {
		return PromptResult{}, &InvalidSelectorError{Kind: "view type", Value: string(req.ViewType), Accepted: viewNames()}
	}

	requestID := uuid.NewString()
	log := logging.Get(logging.CategoryEngine).With("request_id", requestID)
	log.Debugw("refining term", "input", req.RawInput, "focus", req.Focus, "view", req.ViewType)

	res := resolver.Resolve(req.RawInput, e.store)

	var warnings []string
	if res.Status == resolver.StatusUnresolved {
		warnings = append(warnings, fmt.Sprintf(
			"term %q did not match any known anatomical term; using a generic subject", res.MatchedText))
	}

	safeEntry, filterWarnings, extraNegative := e.filter.Apply(res.Entry, req.RawInput)
	warnings = append(warnings, filterWarnings...)
	vetoed := safety.Vetoed(res.Entry, safeEntry)

	composed := composer.Compose(req.Focus, req.ViewType, safeEntry, extraNegative, vetoed)

	result := PromptResult{
		Positive:    composed.Positive,
		Negative:    composed.Negative,
		Warnings:    warnings,
		MatchStatus: string(res.Status),
	}
	if res.Entry != nil {
		result.MatchedTerm = res.Entry.CanonicalTerm
		result.BodySystem = string(res.Entry.BodySystem)
	}

	log.Debugw("refined term",
		"status", res.Status, "vetoed", vetoed, "warnings", len(result.Warnings))
	return result, nil
}

// SystemTerms lists one body system for the term listing surfaces.
type SystemTerms struct {
	System      vocabulary.BodySystem `json:"system"`
	Description string                `json:"description"`
	Terms       []string              `json:"terms"`
}

// ListTerms returns every canonical term grouped by body system, in stable
// order (canonical system order, alphabetical terms within a system).
func (e *Engine) ListTerms() []SystemTerms {
	var out []SystemTerms
	for _, sys := range vocabulary.AllBodySystems() {
		terms := e.store.TermsForSystem(sys)
		if len(terms) == 0 {
			continue
		}
		desc, _ := e.store.SystemDescription(sys)
		out = append(out, SystemTerms{System: sys, Description: desc, Terms: terms})
	}
	return out
}

// SystemInfo returns the listing for a single body system.
func (e *Engine) SystemInfo(name string) (SystemTerms, error) {
	sys := vocabulary.BodySystem(strings.ToLower(strings.TrimSpace(name)))
	desc, ok := e.store.SystemDescription(sys)
	if !ok {
		var names []string
		for _, s := range vocabulary.AllBodySystems() {
			names = append(names, string(s))
		}
		return SystemTerms{}, &InvalidSelectorError{Kind: "body system", Value: name, Accepted: names}
	}
	return SystemTerms{System: sys, Description: desc, Terms: e.store.TermsForSystem(sys)}, nil
}
