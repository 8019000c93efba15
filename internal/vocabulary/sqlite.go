// SQLite ingestion and loading for the vocabulary table. `refiner vocab sync`
// ingests a YAML corpus into SQLite; the store can then be loaded from that
// table instead of the YAML source. The table is static: it is written only
// by sync and read-only afterwards.
package vocabulary

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/logging"
)

const schema = `
	CREATE TABLE IF NOT EXISTS vocabulary_entries (
		term TEXT PRIMARY KEY,
		body_system TEXT NOT NULL,
		description TEXT NOT NULL,
		safety_tier TEXT NOT NULL DEFAULT 'safe'
	);

	CREATE TABLE IF NOT EXISTS vocabulary_aliases (
		term TEXT NOT NULL,
		alias TEXT NOT NULL,
		PRIMARY KEY (term, alias),
		FOREIGN KEY (term) REFERENCES vocabulary_entries(term) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS vocabulary_fragments (
		term TEXT NOT NULL,
		view_type TEXT NOT NULL,
		position INTEGER NOT NULL,
		fragment TEXT NOT NULL,
		PRIMARY KEY (term, view_type, position),
		FOREIGN KEY (term) REFERENCES vocabulary_entries(term) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS vocabulary_systems (
		name TEXT PRIMARY KEY,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS vocabulary_forbidden (
		term TEXT PRIMARY KEY
	);

	CREATE INDEX IF NOT EXISTS idx_entries_system ON vocabulary_entries(body_system);
	CREATE INDEX IF NOT EXISTS idx_aliases_alias ON vocabulary_aliases(alias);
`

// EnsureSchema creates the vocabulary tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create vocabulary tables: %w", err)
	}
	return nil
}

// SyncToDB mirrors the store's contents into the vocabulary tables. Existing
// rows are upserted, and rows for terms or systems no longer in the store are
// deleted, so repeated syncs converge on exactly the corpus contents.
func (s *Store) SyncToDB(ctx context.Context, db *sql.DB) error {
	if err := EnsureSchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vocabulary_entries (term, body_system, description, safety_tier)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(term) DO UPDATE SET
			body_system = excluded.body_system,
			description = excluded.description,
			safety_tier = excluded.safety_tier`)
	if err != nil {
		return err
	}
	defer entryStmt.Close()

	aliasStmt, err := tx.PrepareContext(ctx, "INSERT INTO vocabulary_aliases (term, alias) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer aliasStmt.Close()

	fragStmt, err := tx.PrepareContext(ctx, "INSERT INTO vocabulary_fragments (term, view_type, position, fragment) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer fragStmt.Close()

	for _, e := range s.AllEntries() {
		if _, err := entryStmt.ExecContext(ctx, e.CanonicalTerm, string(e.BodySystem), e.Description, string(e.SafetyTier)); err != nil {
			return fmt.Errorf("upsert entry %q failed: %w", e.CanonicalTerm, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM vocabulary_aliases WHERE term = ?", e.CanonicalTerm); err != nil {
			return fmt.Errorf("clear aliases for %q failed: %w", e.CanonicalTerm, err)
		}
		for _, alias := range e.Aliases {
			if _, err := aliasStmt.ExecContext(ctx, e.CanonicalTerm, alias); err != nil {
				return fmt.Errorf("insert alias %q failed: %w", alias, err)
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM vocabulary_fragments WHERE term = ?", e.CanonicalTerm); err != nil {
			return fmt.Errorf("clear fragments for %q failed: %w", e.CanonicalTerm, err)
		}
		for _, view := range AllViewTypes() {
			for i, frag := range e.ViewFragments[view] {
				if _, err := fragStmt.ExecContext(ctx, e.CanonicalTerm, string(view), i, frag); err != nil {
					return fmt.Errorf("insert fragment for %q failed: %w", e.CanonicalTerm, err)
				}
			}
		}
	}

	// Drop terms and systems no longer in the corpus so the table mirrors
	// the source exactly instead of accumulating removed rows.
	stale, err := staleTerms(ctx, tx, s)
	if err != nil {
		return err
	}
	for _, term := range stale {
		for _, stmt := range []string{
			"DELETE FROM vocabulary_aliases WHERE term = ?",
			"DELETE FROM vocabulary_fragments WHERE term = ?",
			"DELETE FROM vocabulary_entries WHERE term = ?",
		} {
			if _, err := tx.ExecContext(ctx, stmt, term); err != nil {
				return fmt.Errorf("delete stale term %q failed: %w", term, err)
			}
		}
	}

	for sys, desc := range s.systems {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO vocabulary_systems (name, description) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET description = excluded.description`,
			string(sys), desc); err != nil {
			return fmt.Errorf("upsert system %q failed: %w", sys, err)
		}
	}

	staleSystems, err := staleSystemNames(ctx, tx, s)
	if err != nil {
		return err
	}
	for _, name := range staleSystems {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vocabulary_systems WHERE name = ?", name); err != nil {
			return fmt.Errorf("delete stale system %q failed: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM vocabulary_forbidden"); err != nil {
		return fmt.Errorf("clear forbidden terms failed: %w", err)
	}
	for _, term := range s.forbidden {
		if _, err := tx.ExecContext(ctx, "INSERT INTO vocabulary_forbidden (term) VALUES (?)", term); err != nil {
			return fmt.Errorf("insert forbidden term %q failed: %w", term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	logging.Get(logging.CategoryStore).Infow("synced vocabulary to sqlite", "entries", s.Len())
	return nil
}

// staleTerms collects terms present in the table but absent from the store.
func staleTerms(ctx context.Context, tx *sql.Tx, s *Store) ([]string, error) {
	rows, err := tx.QueryContext(ctx, "SELECT term FROM vocabulary_entries")
	if err != nil {
		return nil, fmt.Errorf("query existing terms failed: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("scan existing term failed: %w", err)
		}
		if s.LookupCanonical(term) == nil {
			stale = append(stale, term)
		}
	}
	return stale, rows.Err()
}

// staleSystemNames collects system rows absent from the store.
func staleSystemNames(ctx context.Context, tx *sql.Tx, s *Store) ([]string, error) {
	rows, err := tx.QueryContext(ctx, "SELECT name FROM vocabulary_systems")
	if err != nil {
		return nil, fmt.Errorf("query existing systems failed: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan existing system failed: %w", err)
		}
		if _, ok := s.systems[BodySystem(name)]; !ok {
			stale = append(stale, name)
		}
	}
	return stale, rows.Err()
}

// LoadFromDB reconstructs a Store from the vocabulary tables. The same
// invariants apply as for YAML loading; a table with colliding terms fails
// with a DataError.
func LoadFromDB(ctx context.Context, db *sql.DB) (*Store, error) {
	store := newStore()

	rows, err := db.QueryContext(ctx,
		"SELECT term, body_system, description, safety_tier FROM vocabulary_entries ORDER BY term")
	if err != nil {
		return nil, &DataError{Source: "sqlite", Reason: "failed to query entries", Err: err}
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var term, system, description, tier string
		if err := rows.Scan(&term, &system, &description, &tier); err != nil {
			return nil, &DataError{Source: "sqlite", Reason: "failed to scan entry", Err: err}
		}
		entries = append(entries, &Entry{
			CanonicalTerm: term,
			BodySystem:    BodySystem(system),
			Description:   description,
			SafetyTier:    SafetyTier(tier),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &DataError{Source: "sqlite", Reason: "entry iteration failed", Err: err}
	}
	if len(entries) == 0 {
		return nil, dataErr("sqlite", "vocabulary_entries table is empty (run 'refiner vocab sync' first)")
	}

	for _, e := range entries {
		if err := loadEntryChildren(ctx, db, e); err != nil {
			return nil, err
		}
		if err := store.add(e, "sqlite"); err != nil {
			return nil, err
		}
	}

	sysRows, err := db.QueryContext(ctx, "SELECT name, description FROM vocabulary_systems")
	if err != nil {
		return nil, &DataError{Source: "sqlite", Reason: "failed to query systems", Err: err}
	}
	defer sysRows.Close()
	for sysRows.Next() {
		var name, desc string
		if err := sysRows.Scan(&name, &desc); err != nil {
			return nil, &DataError{Source: "sqlite", Reason: "failed to scan system", Err: err}
		}
		sys := BodySystem(name)
		if !sys.Valid() {
			return nil, dataErr("sqlite", "unknown body system %q", name)
		}
		store.systems[sys] = desc
	}
	if err := sysRows.Err(); err != nil {
		return nil, &DataError{Source: "sqlite", Reason: "system iteration failed", Err: err}
	}

	fRows, err := db.QueryContext(ctx, "SELECT term FROM vocabulary_forbidden ORDER BY term")
	if err != nil {
		return nil, &DataError{Source: "sqlite", Reason: "failed to query forbidden terms", Err: err}
	}
	defer fRows.Close()
	for fRows.Next() {
		var term string
		if err := fRows.Scan(&term); err != nil {
			return nil, &DataError{Source: "sqlite", Reason: "failed to scan forbidden term", Err: err}
		}
		store.forbidden = append(store.forbidden, term)
	}
	if err := fRows.Err(); err != nil {
		return nil, &DataError{Source: "sqlite", Reason: "forbidden term iteration failed", Err: err}
	}

	logging.Get(logging.CategoryStore).Infow("loaded vocabulary from sqlite", "entries", store.Len())
	return store, nil
}

func loadEntryChildren(ctx context.Context, db *sql.DB, e *Entry) error {
	aliasRows, err := db.QueryContext(ctx,
		"SELECT alias FROM vocabulary_aliases WHERE term = ? ORDER BY alias", e.CanonicalTerm)
	if err != nil {
		return &DataError{Source: "sqlite", Reason: "failed to query aliases", Err: err}
	}
	defer aliasRows.Close()
	for aliasRows.Next() {
		var alias string
		if err := aliasRows.Scan(&alias); err != nil {
			return &DataError{Source: "sqlite", Reason: "failed to scan alias", Err: err}
		}
		e.Aliases = append(e.Aliases, alias)
	}
	if err := aliasRows.Err(); err != nil {
		return &DataError{Source: "sqlite", Reason: "alias iteration failed", Err: err}
	}

	fragRows, err := db.QueryContext(ctx,
		"SELECT view_type, fragment FROM vocabulary_fragments WHERE term = ? ORDER BY view_type, position", e.CanonicalTerm)
	if err != nil {
		return &DataError{Source: "sqlite", Reason: "failed to query fragments", Err: err}
	}
	defer fragRows.Close()
	for fragRows.Next() {
		var view, frag string
		if err := fragRows.Scan(&view, &frag); err != nil {
			return &DataError{Source: "sqlite", Reason: "failed to scan fragment", Err: err}
		}
		if e.ViewFragments == nil {
			e.ViewFragments = make(map[ViewType][]string)
		}
		e.ViewFragments[ViewType(view)] = append(e.ViewFragments[ViewType(view)], frag)
	}
	return fragRows.Err()
}
