package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/curbscope/curbscope/internal/loader"
	"github.com/curbscope/curbscope/internal/publisher"
	"github.com/curbscope/curbscope/internal/series"
)

var publishFlags snapshotFlags

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish map values to MQTT",
	Long: `Computes the map value for every entity under the given configuration and
publishes each as a retained MQTT message to <prefix>/<entityId>/state.`,
	RunE: runPublish,
}

func init() {
	publishFlags.register(publishCmd)
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	snap, err := publishFlags.build(cfg)
	if err != nil {
		return err
	}

	pub, err := publisher.New(cfg.MQTT, cfg.GetTopicPrefix(), cfg.GetClientID())
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

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
	index := ds.EntityIndex()
	values := series.MapValues(ds.Readings, index, snap)

	published := 0
	for i, v := range values {
		e := index[v.EntityID]
		fmt.Printf("[%d/%d] Publishing %s (%.2f)... ", i+1, len(values), v.EntityID, v.Value)
		if err := pub.PublishValue(e, v.Value); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}
		fmt.Printf("✓\n")
		published++
	}

	fmt.Printf("\nPublished %d/%d entity values\n", published, len(values))
	return nil
}
