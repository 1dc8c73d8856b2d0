package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending       ReservationStatus = "pending"
	ReservationStatusConfirmed     ReservationStatus = "confirmed"
	ReservationStatusSetupComplete ReservationStatus = "setup_complete"
	ReservationStatusReturned      ReservationStatus = "returned"
	ReservationStatusCancelled     ReservationStatus = "cancelled"
)

// DateLayout is the wire and storage format for reservation dates.
const DateLayout = "2006-01-02"

// Reservation is a booking header. Dates are inclusive calendar dates.
type Reservation struct {
	ID         int32             `json:"id"`
	UserAlias  string            `json:"user_alias"`
	PickupSite string            `json:"pickup_site"`
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	Status     ReservationStatus `json:"status"`
	Equipment  []LineItem        `json:"equipment,omitempty"`
	CreatedOn  string            `json:"created_at"`
	UpdatedOn  string            `json:"updated_at"`
}

// LineItem is a (type, quantity) request owned by its reservation. Line
// items are immutable and survive cancellation so the availability
// calculation can keep excluding cancelled reservations by status alone.
type LineItem struct {
	ReservationID int32         `json:"reservation_id,omitempty"`
	EquipmentType EquipmentType `json:"equipment_type"`
	Quantity      int32         `json:"quantity"`
}

// IsTerminal reports whether no further status transitions are expected.
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationStatusReturned || r.Status == ReservationStatusCancelled
}

// IsOverdue is a derived condition, never persisted: the equipment is out
// (confirmed or setup_complete) and the window has already ended.
func (r *Reservation) IsOverdue(now time.Time) bool {
	if r.Status != ReservationStatusConfirmed && r.Status != ReservationStatusSetupComplete {
		return false
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return false
	}
	today, _ := time.Parse(DateLayout, now.Format(DateLayout))
	return end.Before(today)
}

// ShiftDate moves a DateLayout date by a number of days.
func ShiftDate(date string, days int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, days).Format(DateLayout), nil
}
