package domain

import "time"

type UsageStatus string

const (
	UsageStatusActive   UsageStatus = "active"
	UsageStatusReturned UsageStatus = "returned"
)

// UsageRecord ties a physical unit to the reservation it was handed out
// under. At most one active record exists per unit at any time; returning
// or cancelling closes it with an end timestamp.
type UsageRecord struct {
	ID            int32       `json:"id"`
	EquipmentID   int32       `json:"equipment_id"`
	ReservationID int32       `json:"reservation_id"`
	UserAlias     string      `json:"user_alias"`
	StartedAt     time.Time   `json:"start_date"`
	EndedAt       *time.Time  `json:"end_date,omitempty"`
	Status        UsageStatus `json:"status"`
}

// UnitUsage is a usage record joined with unit identity for history views.
type UnitUsage struct {
	UsageRecord
	EquipmentCode string        `json:"equipment_code"`
	EquipmentType EquipmentType `json:"equipment_type"`
	Site          string        `json:"site"`
}
