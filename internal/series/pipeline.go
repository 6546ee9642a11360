package series

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/curbscope/curbscope/internal/stats"
	"github.com/curbscope/curbscope/internal/temporal"
	"github.com/curbscope/curbscope/pkg/models"
)

// Build runs the full pipeline: filter the readings per the snapshot, group
// them under the selected dimension, and compute one value per bucket. Each
// run returns fresh series; nothing is cached between calls.
func Build(readings []models.Reading, entities map[string]models.Entity, snap Snapshot) Result {
	filtered := applyFilters(readings, snap)

	var out []Series
	switch snap.Dimension.Type {
	case DimensionDayOfWeek:
		out = buildDayOfWeek(filtered, snap)
	case DimensionTimeOfDay:
		out = buildTimeOfDay(filtered, snap)
	case DimensionBlockface:
		out = buildBlockface(filtered, entities, snap)
	default:
		out = buildAreas(filtered, entities, snap)
	}

	return Result{RunID: uuid.NewString(), Axis: snap.Dimension.Type.Axis(), Series: out}
}

// applyFilters applies the common filter chain: time range, then day-of-week,
// then hour range. The day-of-week filter is skipped when the dimension
// itself groups by weekday, and the hour filter when it groups by time of
// day, since the dimension already expresses that pattern.
func applyFilters(readings []models.Reading, snap Snapshot) []models.Reading {
	out := temporal.FilterByRange(readings, snap.Range)
	if snap.Dimension.Type != DimensionDayOfWeek {
		out = temporal.FilterByWeekdays(out, snap.Weekdays)
	}
	if snap.Dimension.Type != DimensionTimeOfDay {
		out = temporal.FilterByHours(out, snap.Hours)
	}
	return out
}

// metricValues extracts the per-reading values to aggregate.
func metricValues(readings []models.Reading, metric Metric) []float64 {
	out := make([]float64, len(readings))
	for i, r := range readings {
		if metric == MetricTransactions {
			out[i] = r.Transactions
		} else {
			out[i] = r.OccupancyPct()
		}
	}
	return out
}

// weightedOccupancy returns sum(occupied)/sum(capacity) as a percentage. A
// plain mean of per-reading rates misrepresents aggregate load when
// capacities differ, so the average statistic always uses this form.
func weightedOccupancy(readings []models.Reading) float64 {
	var occ, capacity float64
	for _, r := range readings {
		occ += r.Occupied
		capacity += r.Capacity
	}
	if capacity == 0 {
		return 0
	}
	return occ / capacity * 100
}

// bucketValue computes the aggregated value for one bucket's readings.
func bucketValue(readings []models.Reading, metric Metric, kind stats.Kind) float64 {
	if metric != MetricTransactions && kind.IsAverage() {
		return weightedOccupancy(readings)
	}
	return stats.Calculate(metricValues(readings, metric), kind)
}

// referenceValue is the mean of the point values; it is the series' summary
// scalar and the entity's map value.
func referenceValue(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	var s float64
	for _, p := range points {
		s += p.Value
	}
	return s / float64(len(points))
}

// bucketSeries bucketizes the readings and computes one point per non-empty
// bucket, sorted chronologically by key.
func bucketSeries(id, name, color string, readings []models.Reading, snap Snapshot) Series {
	buckets := temporal.Bucketize(readings, snap.Granularity)
	points := make([]Point, 0, buckets.Len())
	for _, k := range buckets.Keys() {
		points = append(points, Point{Key: k, Value: bucketValue(buckets.Get(k), snap.Metric, snap.Statistic)})
	}
	// canonical keys of one granularity sort chronologically as strings
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return Series{ID: id, Name: name, Color: color, Points: points, ReferenceValue: referenceValue(points)}
}

// entitySeries builds the series for a single entity. The synthetic
// aggregate uses the full filtered set. A blockface with no readings in the
// window degrades to a single live-metadata point instead of an empty
// series.
func entitySeries(e models.Entity, filtered []models.Reading, snap Snapshot) Series {
	subset := filtered
	if !e.IsAggregate() {
		subset = byEntity(filtered, e.ID)
	}
	if len(subset) == 0 && e.Kind == models.EntityBlockface {
		v := e.CurrentOccupancyPct()
		return Series{
			ID:             e.ID,
			Name:           e.Name,
			Color:          e.Color,
			Points:         []Point{{Key: "live", Value: v}},
			ReferenceValue: v,
		}
	}
	return bucketSeries(e.ID, e.Name, e.Color, subset, snap)
}

func byEntity(readings []models.Reading, id string) []models.Reading {
	out := make([]models.Reading, 0, len(readings))
	for _, r := range readings {
		if r.EntityID == id {
			out = append(out, r)
		}
	}
	return out
}

// buildAreas produces one series per selected area. With combined view on
// and at least two non-aggregate areas selected, their readings are merged
// into a single series under the same weighting rules.
func buildAreas(filtered []models.Reading, entities map[string]models.Entity, snap Snapshot) []Series {
	selected := selectedEntities(entities, snap.Dimension.Entities, models.EntityArea)

	if snap.CombinedView {
		var merged, rest []models.Entity
		for _, e := range selected {
			if e.IsAggregate() {
				rest = append(rest, e)
			} else {
				merged = append(merged, e)
			}
		}
		if len(merged) >= 2 {
			out := []Series{combinedSeries(merged, filtered, snap)}
			for _, e := range rest {
				out = append(out, entitySeries(e, filtered, snap))
			}
			return out
		}
	}

	out := make([]Series, 0, len(selected))
	for _, e := range selected {
		out = append(out, entitySeries(e, filtered, snap))
	}
	return out
}

// combinedSeries merges several areas into one series over the union of
// their readings.
func combinedSeries(merged []models.Entity, filtered []models.Reading, snap Snapshot) Series {
	ids := make(map[string]struct{}, len(merged))
	names := make([]string, 0, len(merged))
	for _, e := range merged {
		ids[e.ID] = struct{}{}
		names = append(names, e.Name)
	}
	union := make([]models.Reading, 0, len(filtered))
	for _, r := range filtered {
		if _, ok := ids[r.EntityID]; ok {
			union = append(union, r)
		}
	}
	return bucketSeries("combined", strings.Join(names, " + "), merged[0].Color, union, snap)
}

// buildBlockface produces one series per selected blockface. There is no
// synthetic aggregate for blockfaces.
func buildBlockface(filtered []models.Reading, entities map[string]models.Entity, snap Snapshot) []Series {
	selected := selectedEntities(entities, snap.Dimension.Entities, models.EntityBlockface)
	out := make([]Series, 0, len(selected))
	for _, e := range selected {
		if e.IsAggregate() {
			continue
		}
		out = append(out, entitySeries(e, filtered, snap))
	}
	return out
}

// selectedEntities resolves the dimension's entity selection. An explicit
// selection keeps its order; an empty selection means every non-aggregate
// entity of the given kind, sorted by ID.
func selectedEntities(entities map[string]models.Entity, ids []string, kind models.EntityKind) []models.Entity {
	if len(ids) > 0 {
		out := make([]models.Entity, 0, len(ids))
		for _, id := range ids {
			if e, ok := entities[id]; ok {
				out = append(out, e)
			}
		}
		return out
	}
	var out []models.Entity
	for _, e := range entities {
		if e.Kind == kind && !e.IsAggregate() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
