package vocabulary

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "vocab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSyncToDB(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	db := openTestDB(t)

	require.NoError(t, store.SyncToDB(ctx, db))

	t.Run("round trip preserves entries", func(t *testing.T) {
		loaded, err := LoadFromDB(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, store.Len(), loaded.Len())

		// The database returns aliases in alphabetical order; resolution
		// does not depend on alias order, so compare them sorted.
		for _, entry := range store.AllEntries() {
			got := loaded.LookupCanonical(entry.CanonicalTerm)
			require.NotNil(t, got, "term %q missing after round trip", entry.CanonicalTerm)

			want := entry.Clone()
			sort.Strings(want.Aliases)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("entry %q mismatch (-want +got):\n%s", entry.CanonicalTerm, diff)
			}
		}

		assert.Equal(t, store.ForbiddenTerms(), loaded.ForbiddenTerms())
		for _, sys := range AllBodySystems() {
			wantDesc, wantOK := store.SystemDescription(sys)
			gotDesc, gotOK := loaded.SystemDescription(sys)
			assert.Equal(t, wantOK, gotOK)
			assert.Equal(t, wantDesc, gotDesc)
		}
	})

	t.Run("sync is idempotent", func(t *testing.T) {
		require.NoError(t, store.SyncToDB(ctx, db))

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM vocabulary_entries").Scan(&count))
		assert.Equal(t, store.Len(), count)

		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM vocabulary_forbidden").Scan(&count))
		assert.Equal(t, len(store.ForbiddenTerms()), count)
	})
}

func TestSyncToDBRemovesStaleRows(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, testStore(t).SyncToDB(ctx, db))

	reducedCorpus := `
version: 1
body_systems:
  skeletal:
    description: Bones of the body.
    organs:
      - term: skeleton
        description: All the bones together.
        aliases:
          - skeletal system
forbidden_terms:
  - corpse
`
	reduced, err := Load(strings.NewReader(reducedCorpus), "test")
	require.NoError(t, err)
	require.NoError(t, reduced.SyncToDB(ctx, db))

	t.Run("removed terms and systems are gone", func(t *testing.T) {
		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM vocabulary_entries").Scan(&count))
		assert.Equal(t, reduced.Len(), count)

		require.NoError(t, db.QueryRow(
			"SELECT COUNT(*) FROM vocabulary_aliases WHERE term IN ('heart', 'femur', 'blood')").Scan(&count))
		assert.Zero(t, count)

		require.NoError(t, db.QueryRow(
			"SELECT COUNT(*) FROM vocabulary_fragments WHERE term = 'heart'").Scan(&count))
		assert.Zero(t, count)

		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM vocabulary_systems").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("reload matches the reduced corpus", func(t *testing.T) {
		loaded, err := LoadFromDB(ctx, db)
		require.NoError(t, err)

		assert.Equal(t, reduced.Len(), loaded.Len())
		assert.Nil(t, loaded.LookupCanonical("heart"))
		assert.Nil(t, loaded.LookupCanonical("femur"))
		require.NotNil(t, loaded.LookupCanonical("skeleton"))

		_, ok := loaded.SystemDescription(SystemCirculatory)
		assert.False(t, ok)
	})
}

func TestLoadFromDBEmpty(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, EnsureSchema(ctx, db))

	_, err := LoadFromDB(ctx, db)
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Contains(t, err.Error(), "empty")
}
