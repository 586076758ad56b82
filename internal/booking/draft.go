// Package booking holds the in-progress reservation draft and the four-step
// wizard (seats, passengers, boarding points, payment) that drives it.
package booking

import "busline/internal/domain/models"

// MaxSeatsPerBooking caps how many seats one draft may hold.
const MaxSeatsPerBooking = 6

type SearchCriteria struct {
	OriginCity      string `json:"from"`
	DestinationCity string `json:"to"`
	TravelDate      string `json:"date"`
	PassengerCount  int    `json:"passengers"`
}

// SearchUpdate is merged into SearchCriteria; nil fields keep their value.
type SearchUpdate struct {
	OriginCity      *string `json:"from"`
	DestinationCity *string `json:"to"`
	TravelDate      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	PassengerCount  *int    `json:"passengers" validate:"omitempty,min=1,max=6"`
}

// Draft is the not-yet-paid reservation.
type Draft struct {
	Search        SearchCriteria           `json:"search"`
	Trip          *models.TripOffer        `json:"selected_trip"`
	SelectedSeats []string                 `json:"selected_seats"`
	Passengers    []models.PassengerRecord `json:"passengers"`
	PickupPoint   string                   `json:"pickup_point"`
	DropPoint     string                   `json:"drop_point"`
	TotalAmount   int64                    `json:"total_amount"`
}

func emptyDraft() Draft {
	return Draft{
		Search:        SearchCriteria{PassengerCount: 1},
		SelectedSeats: []string{},
		Passengers:    []models.PassengerRecord{},
	}
}

// FarePerSeat is zero until a trip is selected.
func (d Draft) FarePerSeat() int64 {
	if d.Trip == nil {
		return 0
	}
	return d.Trip.FarePerSeat
}

// TotalSeats falls back to DefaultTotalSeats when the trip does not say.
func (d Draft) TotalSeats() int {
	if d.Trip == nil || d.Trip.TotalSeats <= 0 {
		return DefaultTotalSeats
	}
	return d.Trip.TotalSeats
}

func (d Draft) clone() Draft {
	out := d
	out.SelectedSeats = append([]string{}, d.SelectedSeats...)
	out.Passengers = append([]models.PassengerRecord{}, d.Passengers...)
	if d.Trip != nil {
		t := *d.Trip
		out.Trip = &t
	}
	return out
}

func (d *Draft) recomputeTotal() {
	d.TotalAmount = int64(len(d.SelectedSeats)) * d.FarePerSeat()
}

// alignPassengers keeps the longest prefix of records that still lines up
// with the selected seats, so records never outnumber seats.
func (d *Draft) alignPassengers() {
	n := 0
	for n < len(d.Passengers) && n < len(d.SelectedSeats) && d.Passengers[n].SeatID == d.SelectedSeats[n] {
		n++
	}
	d.Passengers = d.Passengers[:n]
}
