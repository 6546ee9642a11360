// Package loader reads and validates reading datasets. It is the boundary
// the aggregation engine trusts: everything it hands out satisfies
// capacity > 0 and 0 <= occupied <= capacity, and the synthetic all-areas
// entity is always present in the entity index.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/curbscope/curbscope/pkg/models"
)

// Dataset is a flat, validated set of readings plus entity metadata.
type Dataset struct {
	Entities []models.Entity  `json:"entities"`
	Readings []models.Reading `json:"readings"`
}

// LoadFile reads and validates a JSON dataset file.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset file: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset file: %w", err)
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("validating dataset: %w", err)
	}

	return &ds, nil
}

// Validate checks reading invariants and entity references.
func (d *Dataset) Validate() error {
	ids := make(map[string]struct{}, len(d.Entities))
	for i, e := range d.Entities {
		if e.ID == "" {
			return fmt.Errorf("entity %d: missing id", i)
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("entity %q: duplicate id", e.ID)
		}
		ids[e.ID] = struct{}{}
	}

	for i, r := range d.Readings {
		if r.Timestamp.IsZero() {
			return fmt.Errorf("reading %d: missing timestamp", i)
		}
		if r.EntityID == "" {
			return fmt.Errorf("reading %d: missing entityId", i)
		}
		if _, ok := ids[r.EntityID]; !ok {
			return fmt.Errorf("reading %d: unknown entity %q", i, r.EntityID)
		}
		if r.Capacity <= 0 {
			return fmt.Errorf("reading %d: capacity must be positive, got %v", i, r.Capacity)
		}
		if r.Occupied < 0 || r.Occupied > r.Capacity {
			return fmt.Errorf("reading %d: occupied %v outside [0, %v]", i, r.Occupied, r.Capacity)
		}
	}

	return nil
}

// EntityIndex returns the entities keyed by ID, synthesizing the all-areas
// aggregate entity when the dataset does not carry one.
func (d *Dataset) EntityIndex() map[string]models.Entity {
	idx := make(map[string]models.Entity, len(d.Entities)+1)
	for _, e := range d.Entities {
		idx[e.ID] = e
	}
	if _, ok := idx[models.AggregateEntityID]; !ok {
		idx[models.AggregateEntityID] = models.Entity{
			ID:    models.AggregateEntityID,
			Name:  "All Areas",
			Color: "#888888",
			Kind:  models.EntityArea,
		}
	}
	return idx
}

// FromStore builds a dataset from already-persisted entities and readings.
// Stored data was validated on load, so this does not re-validate.
func FromStore(entities []models.Entity, readings []models.Reading) *Dataset {
	return &Dataset{Entities: entities, Readings: readings}
}
