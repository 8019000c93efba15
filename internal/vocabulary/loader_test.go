package vocabulary

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalCorpus = `
version: 1
body_systems:
  skeletal:
    description: Bones of the body.
    keywords:
      - bones
    organs:
      - term: skeleton
        description: All the bones together.
        aliases:
          - skeletal system
      - term: femur
        description: The thigh bone.
  circulatory:
    description: Heart and vessels.
    organs:
      - term: heart
        description: Pumps oxygen around the body.
        view_fragments:
          cross_section:
            - cutaway diagram, internal structure visible
      - term: blood
        description: Not suitable for young audiences.
        safety_tier: blocked
forbidden_terms:
  - corpse
`

func TestLoad(t *testing.T) {
	t.Run("minimal corpus", func(t *testing.T) {
		store, err := Load(strings.NewReader(minimalCorpus), "test")
		require.NoError(t, err)
		assert.Equal(t, 4, store.Len())

		heart := store.LookupCanonical("heart")
		require.NotNil(t, heart)
		assert.Equal(t, SystemCirculatory, heart.BodySystem)
		assert.Equal(t, TierSafe, heart.SafetyTier)
		assert.Len(t, heart.ViewFragments[ViewCrossSection], 1)

		blood := store.LookupCanonical("blood")
		require.NotNil(t, blood)
		assert.Equal(t, TierBlocked, blood.SafetyTier)

		assert.Equal(t, []string{"corpse"}, store.ForbiddenTerms())
	})

	t.Run("system keywords alias the primary organ", func(t *testing.T) {
		store, err := Load(strings.NewReader(minimalCorpus), "test")
		require.NoError(t, err)

		entry := store.LookupAlias("bones")
		require.NotNil(t, entry)
		assert.Equal(t, "skeleton", entry.CanonicalTerm)
	})

	t.Run("embedded corpus loads and validates", func(t *testing.T) {
		store, err := LoadEmbedded()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, store.Len(), 20)

		for _, sys := range AllBodySystems() {
			desc, ok := store.SystemDescription(sys)
			assert.True(t, ok, "system %s has no description", sys)
			assert.NotEmpty(t, desc)
			assert.NotEmpty(t, store.TermsForSystem(sys), "system %s has no terms", sys)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		corpus := `
version: 1
body_systems:
  skeletal:
    description: Bones.
    extra_field: nope
    organs:
      - term: skeleton
        description: All the bones.
`
		_, err := Load(strings.NewReader(corpus), "test")
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Equal(t, "test", dataErr.Source)
	})

	t.Run("unknown body system rejected", func(t *testing.T) {
		corpus := `
version: 1
body_systems:
  lymphatic:
    description: Not supported.
    organs:
      - term: lymph node
        description: A small filter.
`
		_, err := Load(strings.NewReader(corpus), "test")
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Contains(t, err.Error(), "lymphatic")
	})

	t.Run("invalid safety tier rejected", func(t *testing.T) {
		corpus := `
version: 1
body_systems:
  skeletal:
    description: Bones.
    organs:
      - term: skeleton
        description: All the bones.
        safety_tier: radioactive
`
		_, err := Load(strings.NewReader(corpus), "test")
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr)
	})

	t.Run("duplicate canonical term rejected", func(t *testing.T) {
		corpus := `
version: 1
body_systems:
  skeletal:
    description: Bones.
    organs:
      - term: skeleton
        description: All the bones.
      - term: skeleton
        description: Duplicated.
`
		_, err := Load(strings.NewReader(corpus), "test")
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Contains(t, err.Error(), "duplicate canonical term")
	})

	t.Run("alias colliding with canonical rejected", func(t *testing.T) {
		corpus := `
version: 1
body_systems:
  skeletal:
    description: Bones.
    organs:
      - term: skeleton
        description: All the bones.
      - term: femur
        description: The thigh bone.
        aliases:
          - skeleton
`
		_, err := Load(strings.NewReader(corpus), "test")
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Contains(t, err.Error(), "collides")
	})

	t.Run("trailing document rejected", func(t *testing.T) {
		_, err := Load(strings.NewReader(minimalCorpus+"\n---\nversion: 2\n"), "test")
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr)
		assert.Contains(t, err.Error(), "trailing document")
	})

	t.Run("missing file reported as data error", func(t *testing.T) {
		_, err := LoadFile("/does/not/exist.yaml")
		var dataErr *DataError
		require.ErrorAs(t, err, &dataErr)
	})

	t.Run("data errors unwrap", func(t *testing.T) {
		wrapped := errors.New("boom")
		err := &DataError{Source: "x", Reason: "r", Err: wrapped}
		assert.ErrorIs(t, err, wrapped)
	})
}
