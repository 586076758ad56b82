package handlers

import (
	"net/http"

	"busline/internal/domain"

	"github.com/gin-gonic/gin"
)

// Overview serves GET /api/{admin,operator,support}/overview for the given dashboard.
func (h *Handlers) Overview(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ov, err := h.Dashboard.Overview(role)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, ov)
	}
}
