package handlers

import (
	"net/http"
	"strconv"

	"busline/internal/booking"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/http/middleware"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

type draftView struct {
	ID    string               `json:"id"`
	Draft booking.Draft        `json:"draft"`
	Step  booking.Step         `json:"current_step"`
	Steps []booking.StepStatus `json:"steps"`
}

func viewOf(id string, w *booking.Wizard) draftView {
	return draftView{ID: id, Draft: w.Draft(), Step: w.Current(), Steps: w.Steps()}
}

// wizard loads the caller's draft or writes the error response.
func (h *Handlers) wizard(c *gin.Context) (*booking.Wizard, bool) {
	w, err := h.drafts(c).Get(userID(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return nil, false
	}
	return w, true
}

// POST /api/drafts
func (h *Handlers) CreateDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		RespondDomainError(c, domain.UnauthorizedError{})
		return
	}
	p, err := h.auth(c).EnsureProfile(c.Request.Context(), claims)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	id, w := h.drafts(c).Create(claims.UserID, &p)
	c.JSON(http.StatusCreated, viewOf(id, w))
}

// GET /api/drafts/:id
func (h *Handlers) GetDraft(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(c.Param("id"), w))
}

// DELETE /api/drafts/:id
func (h *Handlers) CancelDraft(c *gin.Context) {
	if err := h.drafts(c).Cancel(userID(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "draft dibatalkan"})
}

type searchRequest struct {
	booking.SearchUpdate
	services.TripFilter
}

// POST /api/drafts/:id/search
func (h *Handlers) SearchTrips(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req searchRequest
	if !BindOptionalJSON(c, &req) {
		return
	}
	d, offers, err := h.trips(c).SearchForDraft(w, req.SearchUpdate, req.TripFilter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"search": d.Search, "trips": offers, "count": len(offers)})
}

type selectTripRequest struct {
	TripID string `json:"trip_id"`
}

// PUT /api/drafts/:id/trip
func (h *Handlers) SelectTrip(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req selectTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	trip, err := h.trips(c).Get(req.TripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if _, err := w.SelectTrip(trip); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(c.Param("id"), w))
}

// GET /api/drafts/:id/seats
func (h *Handlers) GetSeatMap(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	m, err := w.SeatMap()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	d := w.Draft()
	c.JSON(http.StatusOK, gin.H{
		"seat_map":       m,
		"selected_seats": d.SelectedSeats,
		"total_amount":   d.TotalAmount,
		"max_seats":      booking.MaxSeatsPerBooking,
	})
}

// POST /api/drafts/:id/seats/:seat
func (h *Handlers) ToggleSeat(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	res, d, err := w.ToggleSeat(c.Param("seat"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"action":         res.Action,
		"selected_seats": d.SelectedSeats,
		"total_amount":   d.TotalAmount,
	})
}

// GET /api/drafts/:id/passengers
func (h *Handlers) GetPassengerForm(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	form, err := w.PassengerForm()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"passengers": form,
		"complete":   w.StepComplete(booking.StepPassengerDetails),
		"id_types":   booking.IDTypes,
	})
}

type passengersRequest struct {
	Passengers []models.PassengerRecord `json:"passengers"`
}

// PUT /api/drafts/:id/passengers
func (h *Handlers) SetPassengers(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req passengersRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d, complete, err := w.SetPassengers(req.Passengers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"passengers": d.Passengers, "complete": complete})
}

type editPassengerRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// PATCH /api/drafts/:id/passengers/:index
func (h *Handlers) EditPassenger(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "index", Msg: "index harus angka", Err: err})
		return
	}
	var req editPassengerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	field, err := booking.ParsePassengerField(req.Field)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	d, complete, err := w.EditPassengerField(index, field, req.Value)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"passengers": d.Passengers, "complete": complete})
}

type pointsRequest struct {
	PickupPoint string `json:"pickup_point"`
	DropPoint   string `json:"drop_point"`
}

// PUT /api/drafts/:id/points
func (h *Handlers) ChooseBoardingPoints(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req pointsRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	d, err := w.ChooseBoardingPoints(req.PickupPoint, req.DropPoint)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	resp := gin.H{"pickup_point": d.PickupPoint, "drop_point": d.DropPoint}
	if d.Trip != nil {
		resp["pickup_points"] = d.Trip.PickupPoints
		resp["drop_points"] = d.Trip.DropPoints
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/drafts/:id/steps
func (h *Handlers) GetSteps(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"current_step": w.Current(), "steps": w.Steps()})
}

// POST /api/drafts/:id/steps/next
func (h *Handlers) NextStep(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	if _, err := w.Advance(); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(c.Param("id"), w))
}

// POST /api/drafts/:id/steps/:step
func (h *Handlers) GoToStep(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	n, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "step", Msg: "step harus angka", Err: err})
		return
	}
	if err := w.GoTo(booking.Step(n)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(c.Param("id"), w))
}
