package composer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/vocabulary"
)

func heartEntry() *vocabulary.Entry {
	return &vocabulary.Entry{
		CanonicalTerm: "heart",
		BodySystem:    vocabulary.SystemCirculatory,
		Description:   "The muscle that pumps oxygen around the whole body.",
		SafetyTier:    vocabulary.TierSafe,
		ViewFragments: map[vocabulary.ViewType][]string{
			vocabulary.ViewStandard:     {"four-chambered organ", "simple front view"},
			vocabulary.ViewCrossSection: {"cutaway diagram, internal structure visible", "showing chambers and valves"},
		},
	}
}

func TestCompose(t *testing.T) {
	t.Run("standard education prompt", func(t *testing.T) {
		result := Compose(FocusEducation, vocabulary.ViewStandard, heartEntry(), nil, false)

		assert.Equal(t, "anatomical illustration of heart, "+
			"medical textbook style, educational diagram, for grade school science class, "+
			"four-chambered organ, simple front view, "+
			"educational poster style, simple shapes, friendly colors",
			result.Positive)
	})

	t.Run("cross section 3d modeling prompt", func(t *testing.T) {
		result := Compose(Focus3DModeling, vocabulary.ViewCrossSection, heartEntry(), nil, false)

		assert.True(t, strings.HasPrefix(result.Positive, "anatomical illustration of heart"))
		assert.Contains(t, result.Positive, "cutaway diagram, internal structure visible")
		assert.Contains(t, result.Positive, "showing chambers and valves")
		assert.Contains(t, result.Positive, "orthographic projection, clean topology, neutral lighting")
		assert.Contains(t, result.Positive, "single subject on plain background")
	})

	t.Run("entry without fragments falls back to view defaults", func(t *testing.T) {
		entry := heartEntry()
		entry.ViewFragments = nil

		result := Compose(FocusScientific, vocabulary.ViewSystemOverview, entry, nil, false)
		assert.Contains(t, result.Positive, "full body system overview")
		assert.Contains(t, result.Positive, "showing how the parts work together")
		assert.Contains(t, result.Positive, "detailed scientific illustration")
	})

	t.Run("nil entry uses the generic subject", func(t *testing.T) {
		result := Compose(FocusEducation, vocabulary.ViewStandard, nil, nil, false)
		assert.True(t, strings.HasPrefix(result.Positive, "anatomical illustration of anatomical structure"))
		assert.Contains(t, result.Positive, "simple front view")
	})

	t.Run("composition is deterministic", func(t *testing.T) {
		first := Compose(FocusEducation, vocabulary.ViewStandard, heartEntry(), []string{"extra"}, false)
		second := Compose(FocusEducation, vocabulary.ViewStandard, heartEntry(), []string{"extra"}, false)
		assert.Equal(t, first, second)
	})
}

func TestComposeNegative(t *testing.T) {
	t.Run("baseline negative is always present in order", func(t *testing.T) {
		result := Compose(FocusEducation, vocabulary.ViewStandard, heartEntry(), nil, false)
		assert.Equal(t, "blood, gore, graphic, text, labels, annotations, arrows, numbers", result.Negative)
	})

	t.Run("extra negatives append after the baseline", func(t *testing.T) {
		result := Compose(FocusEducation, vocabulary.ViewStandard, heartEntry(), []string{"violence", "nudity"}, false)
		assert.Equal(t, "blood, gore, graphic, text, labels, annotations, arrows, numbers, violence, nudity", result.Negative)
	})

	t.Run("extra negatives already in the baseline are dropped", func(t *testing.T) {
		result := Compose(FocusEducation, vocabulary.ViewStandard, heartEntry(), []string{"blood", "violence", "gore"}, false)
		assert.Equal(t, "blood, gore, graphic, text, labels, annotations, arrows, numbers, violence", result.Negative)
	})
}

func TestComposeVetoed(t *testing.T) {
	result := Compose(FocusEducation, vocabulary.ViewStandard, nil, []string{"blood"}, true)

	assert.Empty(t, result.Positive)
	require.NotEmpty(t, result.Negative)
	assert.True(t, strings.HasPrefix(result.Negative, "blood, gore, graphic"))
}

func TestComposeDeduplication(t *testing.T) {
	// The entry's standard fragments repeat a default fragment; the repeat
	// must appear once, at its first position.
	entry := heartEntry()
	entry.ViewFragments[vocabulary.ViewStandard] = []string{"educational diagram", "simple front view"}

	result := Compose(FocusEducation, vocabulary.ViewStandard, entry, nil, false)
	assert.Equal(t, 1, strings.Count(result.Positive, "educational diagram"))
	assert.Contains(t, result.Positive, "simple front view")
}

func TestFocusValid(t *testing.T) {
	for _, f := range AllFocusModes() {
		assert.True(t, f.Valid())
	}
	assert.False(t, Focus("cinematic").Valid())
	assert.False(t, Focus("").Valid())
}
