package booking

import (
	"fmt"
	"strings"
	"sync"

	"busline/internal/domain"
	"busline/internal/domain/models"
)

// Store owns one Draft. Every mutation replaces the whole draft under the
// lock; readers always get a copy.
type Store struct {
	mu    sync.Mutex
	draft Draft
}

func NewStore() *Store {
	return &Store{draft: emptyDraft()}
}

func (s *Store) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.clone()
}

func (s *Store) SetSearchCriteria(u SearchUpdate) (Draft, error) {
	if u.PassengerCount != nil && (*u.PassengerCount < 1 || *u.PassengerCount > MaxSeatsPerBooking) {
		return Draft{}, domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("must be between 1 and %d", MaxSeatsPerBooking)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.draft.clone()
	if u.OriginCity != nil {
		next.Search.OriginCity = strings.TrimSpace(*u.OriginCity)
	}
	if u.DestinationCity != nil {
		next.Search.DestinationCity = strings.TrimSpace(*u.DestinationCity)
	}
	if u.TravelDate != nil {
		next.Search.TravelDate = strings.TrimSpace(*u.TravelDate)
	}
	if u.PassengerCount != nil {
		next.Search.PassengerCount = *u.PassengerCount
	}
	s.draft = next
	return next.clone(), nil
}

// SelectTrip replaces the trip. Seats are kept and the total follows the new fare.
func (s *Store) SelectTrip(trip models.TripOffer) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.draft.clone()
	next.Trip = &trip
	next.recomputeTotal()
	s.draft = next
	return next.clone()
}

func (s *Store) SetSelectedSeats(seats []string) (Draft, error) {
	clean, err := normalizeSeats(seats)
	if err != nil {
		return Draft{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setSeatsLocked(clean), nil
}

func (s *Store) setSeatsLocked(seats []string) Draft {
	next := s.draft.clone()
	next.SelectedSeats = seats
	next.alignPassengers()
	next.recomputeTotal()
	s.draft = next
	return next.clone()
}

// ToggleSeat applies the seat-click rules to the current selection.
func (s *Store) ToggleSeat(seat Seat) (ToggleResult, Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := ToggleSeat(s.draft.SelectedSeats, seat)
	if err != nil {
		return res, s.draft.clone(), err
	}
	if res.Action == ToggleIgnored {
		return res, s.draft.clone(), nil
	}
	return res, s.setSeatsLocked(res.Seats), nil
}

// SetPassengers replaces the passenger list. Records are index aligned to the
// selected seats; a blank SeatID is filled from the seat at the same index.
func (s *Store) SetPassengers(records []models.PassengerRecord) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seats := s.draft.SelectedSeats
	if len(records) > len(seats) {
		return Draft{}, domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("%d records for %d seats", len(records), len(seats))}
	}
	clean := make([]models.PassengerRecord, len(records))
	for i, r := range records {
		r = trimRecord(r)
		if r.SeatID == "" {
			r.SeatID = seats[i]
		}
		if r.SeatID != seats[i] {
			return Draft{}, domain.ValidationError{Field: fmt.Sprintf("passengers[%d].seat_number", i), Msg: fmt.Sprintf("expected seat %s, got %s", seats[i], r.SeatID)}
		}
		clean[i] = r
	}

	next := s.draft.clone()
	next.Passengers = clean
	s.draft = next
	return next.clone(), nil
}

func (s *Store) SetBoardingPoints(pickup, drop string) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.draft.clone()
	next.PickupPoint = strings.TrimSpace(pickup)
	next.DropPoint = strings.TrimSpace(drop)
	s.draft = next
	return next.clone()
}

// Reset restores the empty draft.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = emptyDraft()
}

func normalizeSeats(seats []string) ([]string, error) {
	if len(seats) > MaxSeatsPerBooking {
		return nil, seatLimitError()
	}
	seen := make(map[string]struct{}, len(seats))
	out := make([]string, 0, len(seats))
	for _, raw := range seats {
		id := strings.ToUpper(strings.TrimSpace(raw))
		if id == "" {
			return nil, domain.ValidationError{Field: "seats", Msg: "empty seat id"}
		}
		if _, dup := seen[id]; dup {
			return nil, domain.ValidationError{Field: "seats", Msg: "duplicate seat " + id}
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func trimRecord(r models.PassengerRecord) models.PassengerRecord {
	r.SeatID = strings.ToUpper(strings.TrimSpace(r.SeatID))
	r.Name = strings.TrimSpace(r.Name)
	r.Age = strings.TrimSpace(r.Age)
	r.Gender = strings.TrimSpace(r.Gender)
	r.IDType = strings.TrimSpace(r.IDType)
	r.IDNumber = strings.TrimSpace(r.IDNumber)
	return r
}
