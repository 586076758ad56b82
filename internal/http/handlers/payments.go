package handlers

import (
	"net/http"

	"busline/internal/booking"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/drafts/:id/payment
func (h *Handlers) GetQuote(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	d := w.Draft()
	c.JSON(http.StatusOK, gin.H{
		"quote":           h.payments(c).Quote(w),
		"ready":           w.Current() == booking.StepPayment,
		"selected_trip":   d.Trip,
		"selected_seats":  d.SelectedSeats,
		"pickup_point":    d.PickupPoint,
		"drop_point":      d.DropPoint,
		"payment_methods": services.PaymentMethods,
		"simulated":       true,
	})
}

// POST /api/drafts/:id/payment
func (h *Handlers) ConfirmPayment(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req services.ConfirmInput
	if !BindOptionalJSON(c, &req) {
		return
	}
	conf, err := h.payments(c).Confirm(c.Request.Context(), userID(c), w, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.drafts(c).Complete(userID(c), c.Param("id"))
	c.JSON(http.StatusOK, conf)
}
