package handlers

import (
	"net/http"

	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/trips?bus_type=&max_price=&amenity=&passengers=
func (h *Handlers) ListTrips(c *gin.Context) {
	var f services.TripFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondError(c, http.StatusBadRequest, "query tidak valid", err)
		return
	}
	offers, err := h.trips(c).Search(f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": offers, "count": len(offers)})
}

// GET /api/trips/:id
func (h *Handlers) GetTrip(c *gin.Context) {
	trip, err := h.trips(c).Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}
