package vocabulary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/logging"
)

// corpusDocument is the YAML shape of a vocabulary source. Unknown top-level
// or nested keys are rejected (strict decoding), so a document of the wrong
// shape fails with a DataError instead of silently loading half a corpus.
type corpusDocument struct {
	Version        int                  `yaml:"version"`
	BodySystems    map[string]systemDoc `yaml:"body_systems"`
	ForbiddenTerms []string             `yaml:"forbidden_terms"`
}

type systemDoc struct {
	Description string     `yaml:"description"`
	Organs      []organDoc `yaml:"organs"`

	// Keywords are system-level aliases. They resolve to the system's
	// primary organ (the first in the list).
	Keywords []string `yaml:"keywords"`
}

type organDoc struct {
	Term          string              `yaml:"term"`
	Description   string              `yaml:"description"`
	SafetyTier    string              `yaml:"safety_tier"`
	Aliases       []string            `yaml:"aliases"`
	ViewFragments map[string][]string `yaml:"view_fragments"`
}

// Load parses a vocabulary corpus from r and builds a Store. The source name
// is used in error messages only.
func Load(r io.Reader, source string) (*Store, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc corpusDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, &DataError{Source: source, Reason: "failed to parse corpus", Err: err}
	}
	// A corpus is a single document; trailing documents indicate the wrong file.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, dataErr(source, "unexpected trailing document in corpus")
	}

	return buildStore(&doc, source)
}

// LoadFile loads a vocabulary corpus from a YAML file on disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataError{Source: path, Reason: "failed to read corpus file", Err: err}
	}
	return Load(bytes.NewReader(data), path)
}

func buildStore(doc *corpusDocument, source string) (*Store, error) {
	if len(doc.BodySystems) == 0 {
		return nil, dataErr(source, "corpus has no body_systems section")
	}

	store := newStore()

	// Iterate systems in canonical order so the store's load order (and any
	// downstream persistence) is deterministic regardless of map ordering.
	seen := 0
	for _, sys := range AllBodySystems() {
		raw, ok := doc.BodySystems[string(sys)]
		if !ok {
			continue
		}
		seen++
		if err := addSystem(store, sys, raw, source); err != nil {
			return nil, err
		}
	}
	if seen != len(doc.BodySystems) {
		for name := range doc.BodySystems {
			if !BodySystem(name).Valid() {
				return nil, dataErr(source, "unknown body system %q", name)
			}
		}
	}

	store.forbidden = append([]string(nil), doc.ForbiddenTerms...)

	logging.Get(logging.CategoryVocabulary).Infow("loaded vocabulary corpus",
		"source", source, "systems", seen, "entries", store.Len())
	return store, nil
}

func addSystem(store *Store, sys BodySystem, raw systemDoc, source string) error {
	if raw.Description == "" {
		return dataErr(source, "body system %q missing description", sys)
	}
	if len(raw.Organs) == 0 {
		return dataErr(source, "body system %q has no organs", sys)
	}
	store.systems[sys] = raw.Description

	for i, organ := range raw.Organs {
		entry, err := convertOrgan(sys, organ, source)
		if err != nil {
			return err
		}
		// System keywords alias the primary organ.
		if i == 0 && len(raw.Keywords) > 0 {
			entry.Aliases = append(entry.Aliases, raw.Keywords...)
		}
		if err := store.add(entry, source); err != nil {
			return err
		}
	}
	return nil
}

func convertOrgan(sys BodySystem, raw organDoc, source string) (*Entry, error) {
	if raw.Term == "" {
		return nil, dataErr(source, "body system %q has an organ with no term", sys)
	}
	if raw.Description == "" {
		return nil, dataErr(source, "organ %q missing description", raw.Term)
	}

	tier := TierSafe
	if raw.SafetyTier != "" {
		tier = SafetyTier(raw.SafetyTier)
		if !tier.Valid() {
			return nil, dataErr(source, "organ %q has unknown safety tier %q", raw.Term, raw.SafetyTier)
		}
	}

	var fragments map[ViewType][]string
	if len(raw.ViewFragments) > 0 {
		fragments = make(map[ViewType][]string, len(raw.ViewFragments))
		for view, frags := range raw.ViewFragments {
			vt := ViewType(view)
			if !vt.Valid() {
				return nil, dataErr(source, "organ %q has unknown view type %q", raw.Term, view)
			}
			fragments[vt] = append([]string(nil), frags...)
		}
	}

	entry := &Entry{
		CanonicalTerm: raw.Term,
		BodySystem:    sys,
		Aliases:       append([]string(nil), raw.Aliases...),
		Description:   raw.Description,
		ViewFragments: fragments,
		SafetyTier:    tier,
	}
	if err := entry.Validate(); err != nil {
		return nil, &DataError{Source: source, Reason: fmt.Sprintf("invalid organ %q", raw.Term), Err: err}
	}
	return entry, nil
}
