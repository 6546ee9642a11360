// Package series builds chart series and map-coloring values from filtered,
// bucketed readings. A series' reference value and an entity's map value are
// computed by the same bucket-then-aggregate path, so the chart's reference
// line and the map fill color for an entity never disagree.
package series

import (
	"github.com/curbscope/curbscope/internal/stats"
	"github.com/curbscope/curbscope/internal/temporal"
)

// Metric selects which reading field is aggregated. Occupancy is a ratio
// metric and is subject to the capacity-weighted average rule; transactions
// is a plain count metric.
type Metric string

const (
	MetricOccupancy    Metric = "occupancy"
	MetricTransactions Metric = "transactions"
)

// DimensionType is the axis along which readings are grouped into series.
type DimensionType string

const (
	DimensionAOI       DimensionType = "aoi"
	DimensionDayOfWeek DimensionType = "dayOfWeek"
	DimensionTimeOfDay DimensionType = "timeOfDay"
	DimensionBlockface DimensionType = "blockface"
)

// Axis names the x-axis semantics implied by a dimension.
type Axis string

const (
	AxisTime      Axis = "time"
	AxisHourOfDay Axis = "hourOfDay"
	AxisWeekday   Axis = "weekday"
)

// Axis returns the x-axis kind for chart output built under this dimension.
func (t DimensionType) Axis() Axis {
	switch t {
	case DimensionDayOfWeek:
		return AxisHourOfDay
	case DimensionTimeOfDay:
		return AxisWeekday
	default:
		return AxisTime
	}
}

// Dimension selects the grouping for series construction. Exactly one of
// Entities, Weekdays or Periods is meaningful depending on Type.
type Dimension struct {
	Type     DimensionType `json:"type"`
	Entities []string      `json:"entities,omitempty"`
	Weekdays []int         `json:"weekdays,omitempty"`
	Periods  []string      `json:"periods,omitempty"`
}

// Snapshot is the immutable configuration for one pipeline run, consumed
// atomically. Weekdays and Hours are the recurring date/time patterns; empty
// means "all".
type Snapshot struct {
	Range        temporal.Range       `json:"range"`
	Granularity  temporal.Granularity `json:"granularity"`
	Statistic    stats.Kind           `json:"statistic"`
	Metric       Metric               `json:"metric"`
	Dimension    Dimension            `json:"dimension"`
	Weekdays     []int                `json:"weekdays,omitempty"`
	Hours        []temporal.HourRange `json:"hours,omitempty"`
	CombinedView bool                 `json:"combinedView,omitempty"`
}

// Point is one (bucket or category, value) pair of a series.
type Point struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Series is one named line of chart data. ReferenceValue is the arithmetic
// mean of the point values and is the scalar shown on the map for the same
// entity and configuration.
type Series struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
	Points         []Point `json:"points"`
	ReferenceValue float64 `json:"referenceValue"`
}

// Result is the output of one pipeline run.
type Result struct {
	RunID  string   `json:"runId"`
	Axis   Axis     `json:"axis"`
	Series []Series `json:"series"`
}

// EntityValue is one map-coloring value.
type EntityValue struct {
	EntityID string  `json:"entityId"`
	Value    float64 `json:"value"`
}
