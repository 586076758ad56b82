package models

// TripOffer is one bookable operator/schedule/fare combination.
type TripOffer struct {
	ID                 string   `json:"id"`
	OperatorName       string   `json:"operator"`
	BusCategory        string   `json:"bus_type"`
	Rating             float64  `json:"rating"`
	TotalRatings       int      `json:"total_ratings"`
	DepartureTime      string   `json:"departure_time"`
	ArrivalTime        string   `json:"arrival_time"`
	DurationLabel      string   `json:"duration"`
	FarePerSeat        int64    `json:"price"`
	AvailableSeatCount int      `json:"seats_available"`
	TotalSeats         int      `json:"total_seats,omitempty"`
	Amenities          []string `json:"amenities"`
	PickupPoints       []string `json:"pickup_points"`
	DropPoints         []string `json:"drop_points"`
}

func (t TripOffer) HasPickupPoint(p string) bool { return contains(t.PickupPoints, p) }

func (t TripOffer) HasDropPoint(p string) bool { return contains(t.DropPoints, p) }

func (t TripOffer) HasAmenity(a string) bool { return contains(t.Amenities, a) }

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
