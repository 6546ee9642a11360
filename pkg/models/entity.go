package models

// EntityKind distinguishes areas of interest from street segments.
type EntityKind string

const (
	EntityArea      EntityKind = "area"
	EntityBlockface EntityKind = "blockface"
)

// AggregateEntityID identifies the synthetic entity representing the union
// of all areas. Its series are computed over the full filtered reading set
// instead of an entity-scoped subset.
const AggregateEntityID = "aggregate"

// Entity is an area of interest or a street segment (blockface).
type Entity struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Color string     `json:"color"`
	Kind  EntityKind `json:"kind"`

	// Live metadata supplied by the loader. CurrentOccupied/Capacity back
	// the present-moment fallback for blockfaces with no reading history.
	Capacity        float64 `json:"capacity,omitempty"`
	CurrentOccupied float64 `json:"currentOccupied,omitempty"`
}

// IsAggregate reports whether this is the synthetic all-areas entity.
func (e Entity) IsAggregate() bool {
	return e.ID == AggregateEntityID
}

// CurrentOccupancyPct returns the live occupancy rate from entity metadata.
func (e Entity) CurrentOccupancyPct() float64 {
	if e.Capacity <= 0 {
		return 0
	}
	return e.CurrentOccupied / e.Capacity * 100
}
