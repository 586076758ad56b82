package services

import (
	"strconv"
	"strings"

	"busline/internal/booking"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/utils"
)

// catalogue is the fixed offer list served for every route and date.
var catalogue = []models.TripOffer{
	{
		ID:                 "1",
		OperatorName:       "Premium Express",
		BusCategory:        "AC Sleeper",
		Rating:             4.5,
		TotalRatings:       328,
		DepartureTime:      "22:30",
		ArrivalTime:        "06:30",
		DurationLabel:      "8h 00m",
		FarePerSeat:        45,
		AvailableSeatCount: 12,
		TotalSeats:         40,
		Amenities:          []string{"wifi", "charging", "ac", "meals"},
		PickupPoints:       []string{"Downtown Terminal", "Airport", "Mall Center"},
		DropPoints:         []string{"Central Station", "City Plaza", "Bus Terminal"},
	},
	{
		ID:                 "2",
		OperatorName:       "Comfort Travel",
		BusCategory:        "AC Semi-Sleeper",
		Rating:             4.2,
		TotalRatings:       256,
		DepartureTime:      "23:45",
		ArrivalTime:        "07:15",
		DurationLabel:      "7h 30m",
		FarePerSeat:        38,
		AvailableSeatCount: 8,
		TotalSeats:         40,
		Amenities:          []string{"wifi", "charging", "ac"},
		PickupPoints:       []string{"Main Station", "Tech Park"},
		DropPoints:         []string{"Downtown", "University Area"},
	},
	{
		ID:                 "3",
		OperatorName:       "City Express",
		BusCategory:        "Non-AC",
		Rating:             3.8,
		TotalRatings:       124,
		DepartureTime:      "06:00",
		ArrivalTime:        "12:00",
		DurationLabel:      "6h 00m",
		FarePerSeat:        25,
		AvailableSeatCount: 20,
		TotalSeats:         40,
		Amenities:          []string{"charging"},
		PickupPoints:       []string{"Bus Stand", "Market Square"},
		DropPoints:         []string{"Central Hub", "Station Road"},
	},
}

// TripFilter narrows search results. Zero values match everything.
type TripFilter struct {
	BusCategory string `form:"bus_type" json:"bus_type"`
	MaxFare     int64  `form:"max_price" json:"max_price" validate:"gte=0"`
	Amenity     string `form:"amenity" json:"amenity"`
	MinSeats    int    `form:"passengers" json:"-" validate:"gte=0,lte=6"`
}

type TripService struct {
	RequestID string
}

func (s TripService) List() []models.TripOffer {
	out := make([]models.TripOffer, len(catalogue))
	for i, t := range catalogue {
		out[i] = cloneOffer(t)
	}
	return out
}

func (s TripService) Get(id string) (models.TripOffer, error) {
	id = strings.TrimSpace(id)
	for _, t := range catalogue {
		if t.ID == id {
			return cloneOffer(t), nil
		}
	}
	return models.TripOffer{}, domain.NotFoundError{Resource: "trip"}
}

// Search returns the offers that pass every filter.
func (s TripService) Search(f TripFilter) ([]models.TripOffer, error) {
	if err := validateInput(f); err != nil {
		return nil, err
	}
	out := []models.TripOffer{}
	for _, t := range catalogue {
		if f.BusCategory != "" && !strings.EqualFold(t.BusCategory, strings.TrimSpace(f.BusCategory)) {
			continue
		}
		if f.MaxFare > 0 && t.FarePerSeat > f.MaxFare {
			continue
		}
		if f.Amenity != "" && !t.HasAmenity(strings.ToLower(strings.TrimSpace(f.Amenity))) {
			continue
		}
		if f.MinSeats > 0 && t.AvailableSeatCount < f.MinSeats {
			continue
		}
		out = append(out, cloneOffer(t))
	}
	utils.LogEvent(s.RequestID, "trips", "search", "results="+strconv.Itoa(len(out)))
	return out, nil
}

// SearchForDraft merges criteria into the draft and returns the offers that
// have room for the requested passenger count.
func (s TripService) SearchForDraft(w *booking.Wizard, u booking.SearchUpdate, f TripFilter) (booking.Draft, []models.TripOffer, error) {
	if err := validateInput(u); err != nil {
		return booking.Draft{}, nil, err
	}
	d, err := w.SetSearchCriteria(u)
	if err != nil {
		return booking.Draft{}, nil, err
	}
	f.MinSeats = d.Search.PassengerCount
	offers, err := s.Search(f)
	if err != nil {
		return booking.Draft{}, nil, err
	}
	return d, offers, nil
}

func cloneOffer(t models.TripOffer) models.TripOffer {
	t.Amenities = append([]string{}, t.Amenities...)
	t.PickupPoints = append([]string{}, t.PickupPoints...)
	t.DropPoints = append([]string{}, t.DropPoints...)
	return t
}
