package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siddharth-k03/prompt-refiner-anatomy/internal/vocabulary"
)

var vocabDBPath string

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage the vocabulary database",
}

var vocabSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Write the vocabulary corpus into a SQLite database",
	Long: `Loads the vocabulary corpus (embedded or --vocab override) and mirrors it
into a SQLite database. Existing entries are updated in place; the sync is
transactional, so a failed run leaves the database untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cfg.LoadVocabulary()
		if err != nil {
			return fmt.Errorf("failed to load vocabulary: %w", err)
		}

		db, err := sql.Open("sqlite3", vocabDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", vocabDBPath, err)
		}
		defer db.Close()

		ctx := cmd.Context()
		if err := vocabulary.EnsureSchema(ctx, db); err != nil {
			return err
		}
		if err := store.SyncToDB(ctx, db); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d entries to %s\n", store.Len(), vocabDBPath)
		return nil
	},
}

var vocabVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Reload the vocabulary from a SQLite database and check it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := sql.Open("sqlite3", vocabDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", vocabDBPath, err)
		}
		defer db.Close()

		store, err := vocabulary.LoadFromDB(cmd.Context(), db)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Database holds %d valid entries\n", store.Len())
		return nil
	},
}

func init() {
	vocabCmd.PersistentFlags().StringVar(&vocabDBPath, "db", "vocabulary.db", "path to the SQLite database")
	vocabCmd.AddCommand(vocabSyncCmd)
	vocabCmd.AddCommand(vocabVerifyCmd)
}
