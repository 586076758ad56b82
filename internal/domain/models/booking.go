package models

import "time"

// PassengerRecord carries per-seat traveller info.
type PassengerRecord struct {
	SeatID   string `json:"seat_number"`
	Name     string `json:"name"`
	Age      string `json:"age"`
	Gender   string `json:"gender"`
	IDType   string `json:"id_type"`
	IDNumber string `json:"id_number"`
}

// Complete reports whether all five traveller fields are filled.
func (p PassengerRecord) Complete() bool {
	return p.Name != "" && p.Age != "" && p.Gender != "" && p.IDType != "" && p.IDNumber != ""
}

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// BookingSummary is the past-booking entry shown on the profile page.
type BookingSummary struct {
	Reference     string            `json:"booking_reference"`
	UserID        string            `json:"user_id"`
	TripID        string            `json:"trip_id"`
	OperatorName  string            `json:"operator"`
	BusCategory   string            `json:"bus_type"`
	Origin        string            `json:"from"`
	Destination   string            `json:"to"`
	TravelDate    string            `json:"date"`
	DepartureTime string            `json:"departure_time"`
	ArrivalTime   string            `json:"arrival_time"`
	Seats         []string          `json:"seats"`
	Passengers    []PassengerRecord `json:"passengers"`
	PickupPoint   string            `json:"pickup_point"`
	DropPoint     string            `json:"drop_point"`
	TotalAmount   int64             `json:"total_amount"`
	TaxAmount     int64             `json:"tax_amount"`
	FinalAmount   int64             `json:"final_amount"`
	PaymentMethod string            `json:"payment_method"`
	BookingStatus string            `json:"booking_status"`
	PaymentStatus string            `json:"payment_status"`
	CreatedAt     time.Time         `json:"created_at"`
}
