package models

import "time"

// Reading is a single time-stamped occupancy observation for an entity.
// Readings are immutable once loaded; the aggregation engine only reads them.
type Reading struct {
	Timestamp    time.Time `json:"timestamp"`
	EntityID     string    `json:"entityId"`
	Occupied     float64   `json:"occupied"`
	Capacity     float64   `json:"capacity"`
	Transactions float64   `json:"transactions,omitempty"`
}

// OccupancyPct returns the occupancy rate as a percentage (0-100).
func (r Reading) OccupancyPct() float64 {
	if r.Capacity <= 0 {
		return 0
	}
	return r.Occupied / r.Capacity * 100
}
