package domain

import "fmt"

type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusInUse       EquipmentStatus = "in_use"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
)

type EquipmentType string

const (
	EquipmentTypeAmazonPC    EquipmentType = "amazon_pc"
	EquipmentTypeNonAmazonPC EquipmentType = "non_amazon_pc"
	EquipmentTypeMonitor     EquipmentType = "monitor"
)

// CodePrefix returns the fixed code prefix for an equipment type.
// Unit codes are prefix + numeric suffix (AL1, NAL12, Monitor3).
func CodePrefix(t EquipmentType) (string, error) {
	switch t {
	case EquipmentTypeAmazonPC:
		return "AL", nil
	case EquipmentTypeNonAmazonPC:
		return "NAL", nil
	case EquipmentTypeMonitor:
		return "Monitor", nil
	default:
		return "", fmt.Errorf("invalid equipment type: %s", t)
	}
}

// EquipmentUnit is one physical loaner device. Code is unique per site.
// Status and the holder/reservation fields move together: in_use implies
// both are set, available/maintenance implies both are null.
type EquipmentUnit struct {
	ID                   int32           `json:"id"`
	Code                 string          `json:"equipment_code"`
	Type                 EquipmentType   `json:"equipment_type"`
	Site                 string          `json:"site"`
	Model                string          `json:"model"`
	SerialNumber         string          `json:"serial_number"`
	Status               EquipmentStatus `json:"status"`
	CurrentHolder        *string         `json:"current_user_alias,omitempty"`
	CurrentReservationID *int32          `json:"current_reservation_id,omitempty"`
	PurchaseDate         *string         `json:"purchase_date,omitempty"`
	CreatedOn            string          `json:"created_on"`
	UpdatedOn            string          `json:"updated_on"`
}

// InUseUnit is an in-use unit joined with its reservation for reporting.
// UsageStatus is "overdue" when the reservation window has passed, else
// "in_use"; it is derived at query time and never stored.
type InUseUnit struct {
	EquipmentUnit
	HolderAlias string `json:"user_alias"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	UsageStatus string `json:"usage_status"`
}
