package types

import "time"

// Demand is an open buyer request, not tied to any producer.
type Demand struct {
	DemandID     string    `json:"demand_id"`
	Crop         string    `json:"crop"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	NeededBy     Date      `json:"needed_by"`
	Notes        string    `json:"notes,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}
