package services

import (
	"busline/internal/domain"
)

// Overview is the landing payload of a staff dashboard.
type Overview struct {
	Role         domain.Role `json:"role"`
	Title        string      `json:"title"`
	OpenDrafts   int         `json:"open_drafts"`
	Offers       int         `json:"offers"`
	Sections     []string    `json:"sections"`
	PaymentsMode string      `json:"payments_mode"`
}

type DashboardService struct {
	Drafts *DraftRegistry
	Trips  TripService
}

func (s DashboardService) Overview(role domain.Role) (Overview, error) {
	out := Overview{Role: role, Offers: len(s.Trips.List()), PaymentsMode: "simulated"}
	if s.Drafts != nil {
		out.OpenDrafts = s.Drafts.Count()
	}
	switch role {
	case domain.RoleAdmin:
		out.Title = "Admin Dashboard"
		out.Sections = []string{"users", "operators", "routes", "bookings"}
	case domain.RoleOperator:
		out.Title = "Operator Dashboard"
		out.Sections = []string{"buses", "schedules", "bookings"}
	case domain.RoleSupport:
		out.Title = "Support Dashboard"
		out.Sections = []string{"bookings", "customers"}
	default:
		return Overview{}, domain.ForbiddenError{Msg: "dashboard hanya untuk staff"}
	}
	return out, nil
}
