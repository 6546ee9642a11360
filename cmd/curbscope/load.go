package main

import (
	"fmt"
	"time"

	"github.com/curbscope/curbscope/internal/loader"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <dataset.json>",
	Short: "Import a readings dataset into the database",
	Long: `Reads a JSON dataset of entities and time-stamped readings, validates it,
and stores it in the local SQLite database. Duplicate readings (same
timestamp and entity) are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Load started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	ds, err := loader.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, e := range ds.Entities {
		if err := db.UpsertEntity(e); err != nil {
			return fmt.Errorf("storing entity %s: %w", e.ID, err)
		}
	}
	fmt.Printf("Stored %d entities\n", len(ds.Entities))

	stored := 0
	for _, r := range ds.Readings {
		if err := db.InsertReading(r); err != nil {
			return fmt.Errorf("storing reading: %w", err)
		}
		stored++
	}
	fmt.Printf("Stored %d readings\n", stored)

	return nil
}
