package domain

// CapacityPool is the per-(site, equipment type) stock counter row.
// AvailableQuantity is a baseline: it is reduced by maintenance and stock
// corrections only, never by bookings. Free capacity for a window is always
// computed dynamically from the baseline minus overlapping reservations.
type CapacityPool struct {
	ID                  int32         `json:"id"`
	Site                string        `json:"site"`
	EquipmentType       EquipmentType `json:"equipment_type"`
	TotalQuantity       int32         `json:"total_quantity"`
	AvailableQuantity   int32         `json:"available_quantity"`
	MaintenanceQuantity int32         `json:"maintenance_quantity"`
	UpdatedOn           string        `json:"updated_at"`
}

// PoolUtilization reports reserved load against a pool over a window.
type PoolUtilization struct {
	Site                string        `json:"site"`
	EquipmentType       EquipmentType `json:"equipment_type"`
	TotalQuantity       int32         `json:"total_quantity"`
	AvailableQuantity   int32         `json:"available_quantity"`
	MaintenanceQuantity int32         `json:"maintenance_quantity"`
	ReservedQuantity    int32         `json:"reserved_quantity"`
	UtilizationRate     float64       `json:"utilization_rate"`
}
