package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	t.Run("silent before initialization", func(t *testing.T) {
		SetLogger(nil)
		require.NotPanics(t, func() {
			Get(CategoryResolver).Infow("should go nowhere")
		})
	})

	t.Run("categories are named and cached", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		SetLogger(zap.New(core))

		Get(CategorySafety).Infow("denylist hit", "word", "gore")

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "safety", entries[0].LoggerName)
		assert.Equal(t, "denylist hit", entries[0].Message)

		assert.Same(t, Get(CategorySafety), Get(CategorySafety))
	})

	t.Run("replacing the root resets category loggers", func(t *testing.T) {
		first := Get(CategoryEngine)
		SetLogger(zap.NewNop())
		assert.NotSame(t, first, Get(CategoryEngine))
	})
}

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	require.NoError(t, Initialize(false))
	require.NoError(t, Initialize(true))
	Sync()
}
