package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/curbscope/curbscope/internal/loader"
	"github.com/curbscope/curbscope/internal/series"
)

var (
	mapFlags  snapshotFlags
	mapFormat string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Compute map-coloring values for all entities",
	Long: `Computes one scalar per entity for the given configuration. Values are
produced by the same bucket-then-aggregate path as chart reference values,
so a chart and map generated from the same flags always agree.`,
	RunE: runMap,
}

func init() {
	mapFlags.register(mapCmd)
	mapCmd.Flags().StringVar(&mapFormat, "format", "table", "Output format: table or json")
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	snap, err := mapFlags.build(cfg)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	entities, err := db.ListEntities()
	if err != nil {
		return fmt.Errorf("listing entities: %w", err)
	}
	readings, err := db.ListReadings()
	if err != nil {
		return fmt.Errorf("listing readings: %w", err)
	}

	ds := loader.FromStore(entities, readings)
	values := series.MapValues(ds.Readings, ds.EntityIndex(), snap)

	if mapFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}

	fmt.Println("\nMap Values:")
	fmt.Println("----------------------------------------")
	fmt.Printf("%-20s %12s\n", "Entity", "Value")
	fmt.Println("----------------------------------------")
	for _, v := range values {
		fmt.Printf("%-20s %12.2f\n", v.EntityID, v.Value)
	}

	return nil
}
