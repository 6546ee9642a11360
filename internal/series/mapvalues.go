package series

import (
	"sort"

	"github.com/curbscope/curbscope/pkg/models"
)

// MapValues computes the map-coloring scalar for every entity under the
// snapshot. Each value is the reference value of the series that entitySeries
// would build for the same entity and configuration; map and chart therefore
// share one code path and cannot drift apart. Output is sorted by entity ID.
func MapValues(readings []models.Reading, entities map[string]models.Entity, snap Snapshot) []EntityValue {
	filtered := applyFilters(readings, snap)

	ids := make([]string, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]EntityValue, 0, len(ids))
	for _, id := range ids {
		s := entitySeries(entities[id], filtered, snap)
		out = append(out, EntityValue{EntityID: id, Value: s.ReferenceValue})
	}
	return out
}
