package booking

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"busline/internal/domain"
)

const (
	DefaultTotalSeats = 40
	SeatsPerRow       = 4 // 2+2 with an aisle
)

// Demo inventory. There is no real seat inventory yet; these lists stand in
// for it and are the same for every trip.
var (
	DemoBookedSeats   = []string{"A1", "A3", "C2", "D4", "F1"}
	DemoCategorySeats = []string{"A2", "A4", "B2", "B4"}
)

const seatLimitMsg = "Maximum 6 seats can be selected"

var ErrSeatLimit = errors.New("seat limit reached")

func seatLimitError() error {
	return domain.ValidationError{Field: "seats", Msg: seatLimitMsg, Err: ErrSeatLimit}
}

type Seat struct {
	ID               string `json:"id"`
	Row              string `json:"row"`
	Number           int    `json:"number"`
	Booked           bool   `json:"is_booked"`
	CategoryReserved bool   `json:"is_ladies_seat"`
	Selected         bool   `json:"is_selected"`
}

type SeatRow struct {
	Label string `json:"label"`
	Seats []Seat `json:"seats"`
}

// Left and Right split the row around the aisle.
func (r SeatRow) Left() []Seat  { return r.Seats[:SeatsPerRow/2] }
func (r SeatRow) Right() []Seat { return r.Seats[SeatsPerRow/2:] }

type SeatMap struct {
	TotalSeats int       `json:"total_seats"`
	Rows       []SeatRow `json:"rows"`
}

// GenerateSeatMap builds ceil(totalSeats/4) full rows labelled from "A".
// A non-positive count means DefaultTotalSeats. Same input, same map.
func GenerateSeatMap(totalSeats int, selected []string) SeatMap {
	if totalSeats <= 0 {
		totalSeats = DefaultTotalSeats
	}
	rows := (totalSeats + SeatsPerRow - 1) / SeatsPerRow

	m := SeatMap{TotalSeats: totalSeats, Rows: make([]SeatRow, 0, rows)}
	for r := 0; r < rows; r++ {
		label := rowLabel(r)
		row := SeatRow{Label: label, Seats: make([]Seat, 0, SeatsPerRow)}
		for n := 1; n <= SeatsPerRow; n++ {
			id := label + strconv.Itoa(n)
			row.Seats = append(row.Seats, Seat{
				ID:               id,
				Row:              label,
				Number:           n,
				Booked:           slices.Contains(DemoBookedSeats, id),
				CategoryReserved: slices.Contains(DemoCategorySeats, id),
				Selected:         slices.Contains(selected, id),
			})
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// Seat looks up a seat by id (case-insensitive).
func (m SeatMap) Seat(id string) (Seat, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	for _, row := range m.Rows {
		for _, s := range row.Seats {
			if s.ID == id {
				return s, true
			}
		}
	}
	return Seat{}, false
}

// rowLabel: 0 -> A, 25 -> Z, 26 -> AA.
func rowLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}

type ToggleAction string

const (
	ToggleIgnored ToggleAction = "ignored"
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)

type ToggleResult struct {
	Seats  []string     `json:"selected_seats"`
	Action ToggleAction `json:"action"`
}

// ToggleSeat returns the selection after clicking seat. Booked seats are
// ignored, a selected seat is removed, otherwise the seat is appended in click
// order unless MaxSeatsPerBooking is already reached. selected is not modified.
func ToggleSeat(selected []string, seat Seat) (ToggleResult, error) {
	cur := append([]string{}, selected...)
	if seat.Booked {
		return ToggleResult{Seats: cur, Action: ToggleIgnored}, nil
	}
	if i := slices.Index(cur, seat.ID); i >= 0 {
		return ToggleResult{Seats: slices.Delete(cur, i, i+1), Action: ToggleRemoved}, nil
	}
	if len(cur) >= MaxSeatsPerBooking {
		return ToggleResult{Seats: cur, Action: ToggleIgnored}, seatLimitError()
	}
	return ToggleResult{Seats: append(cur, seat.ID), Action: ToggleAdded}, nil
}
