package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listKind string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored entities and their reading counts",
	Long:  `Displays all stored entities with their kind and number of readings.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listKind, "kind", "", "Filter by entity kind (area or blockface)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	entities, err := db.ListEntities()
	if err != nil {
		return fmt.Errorf("listing entities: %w", err)
	}

	if listKind != "" {
		filtered := entities[:0]
		for _, e := range entities {
			if string(e.Kind) == listKind {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	if len(entities) == 0 {
		fmt.Println("No entities found")
		return nil
	}

	fmt.Println("\nStored Entities:")
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("%-16s %-24s %-10s %12s\n", "ID", "Name", "Kind", "Readings")
	fmt.Println("------------------------------------------------------------")

	total := 0
	for _, e := range entities {
		count, err := db.CountReadings(e.ID)
		if err != nil {
			return fmt.Errorf("counting readings for %s: %w", e.ID, err)
		}
		fmt.Printf("%-16s %-24s %-10s %12s\n", e.ID, e.Name, e.Kind, humanize.Comma(int64(count)))
		total += count
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %s readings across %d entities\n", humanize.Comma(int64(total)), len(entities))

	return nil
}
