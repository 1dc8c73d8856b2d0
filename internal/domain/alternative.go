package domain

type AlternativeKind string

const (
	AlternativeKindSite AlternativeKind = "alternative_site"
	AlternativeKindDate AlternativeKind = "alternative_date"
)

// Alternative is one feasible substitute for an infeasible request: either
// the same window at another site, or a shifted window at the original
// site. DaysShift is negative for earlier windows, zero for site kind.
type Alternative struct {
	Kind              AlternativeKind `json:"type"`
	Site              string          `json:"site"`
	EquipmentType     EquipmentType   `json:"equipment_type"`
	AvailableQuantity int32           `json:"available_quantity"`
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	DaysShift         int             `json:"days_difference,omitempty"`
}
