package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/curbscope/curbscope/internal/loader"
	"github.com/curbscope/curbscope/internal/series"
)

var (
	chartFlags  snapshotFlags
	chartFormat string
	chartOutput string
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Compute chart series for a configuration",
	Long: `Runs the aggregation pipeline over the stored readings and prints the
resulting series. Each series carries its points and a reference value equal
to the mean of the point values — the same number the map command reports.`,
	RunE: runChart,
}

func init() {
	chartFlags.register(chartCmd)
	chartCmd.Flags().StringVar(&chartFormat, "format", "table", "Output format: table, json, or csv")
	chartCmd.Flags().StringVar(&chartOutput, "output", "", "Write output to a file instead of stdout")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	snap, err := chartFlags.build(cfg)
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
	result := series.Build(ds.Readings, ds.EntityIndex(), snap)

	out := os.Stdout
	if chartOutput != "" {
		f, err := os.Create(chartOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch chartFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "csv":
		return writeSeriesCSV(out, result)
	case "table":
		printSeriesTable(result)
		return nil
	default:
		return fmt.Errorf("unknown format %q (use table, json, or csv)", chartFormat)
	}
}

func printSeriesTable(result series.Result) {
	fmt.Printf("Axis: %s, %d series\n", result.Axis, len(result.Series))
	for _, s := range result.Series {
		fmt.Printf("\n%s (%s)  reference=%.2f\n", s.Name, s.ID, s.ReferenceValue)
		fmt.Println("----------------------------------------")
		for _, p := range s.Points {
			fmt.Printf("%-18s %10.2f\n", p.Key, p.Value)
		}
	}
}

func writeSeriesCSV(out *os.File, result series.Result) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"series_id", "series_name", "key", "value", "reference_value"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, s := range result.Series {
		ref := strconv.FormatFloat(s.ReferenceValue, 'f', -1, 64)
		for _, p := range s.Points {
			row := []string{s.ID, s.Name, p.Key, strconv.FormatFloat(p.Value, 'f', -1, 64), ref}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing CSV row: %w", err)
			}
		}
	}
	return nil
}
