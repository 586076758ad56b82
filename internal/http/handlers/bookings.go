package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	list, err := h.history(c).List(c.Request.Context(), userID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

// GET /api/bookings/:ref
func (h *Handlers) GetBooking(c *gin.Context) {
	b, err := h.history(c).Get(c.Request.Context(), userID(c), c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/:ref/e-ticket
func (h *Handlers) GetETicketPDF(c *gin.Context) {
	pdf, filename, err := h.docs(c).GenerateETicket(c.Request.Context(), userID(c), c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GET /api/bookings/:ref/receipt
func (h *Handlers) GetReceiptPDF(c *gin.Context) {
	pdf, filename, err := h.docs(c).GenerateReceipt(c.Request.Context(), userID(c), c.Param("ref"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
