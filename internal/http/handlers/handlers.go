package handlers

import (
	"database/sql"
	"sync"

	"busline/internal/http/middleware"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers carries the shared dependencies. Services are copied per request
// with that request's ID set.
type Handlers struct {
	DB        *sql.DB
	Auth      services.AuthService
	Drafts    *services.DraftRegistry
	Payments  services.PaymentService
	History   services.BookingHistoryService
	Trips     services.TripService
	Dashboard services.DashboardService

	routerMu sync.RWMutex
	router   *gin.Engine
}

// SetRouter stores the active gin engine for /api/routes.
func (h *Handlers) SetRouter(r *gin.Engine) {
	h.routerMu.Lock()
	defer h.routerMu.Unlock()
	h.router = r
}

func (h *Handlers) auth(c *gin.Context) services.AuthService {
	s := h.Auth
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) drafts(c *gin.Context) services.DraftService {
	return services.DraftService{Registry: h.Drafts, RequestID: middleware.GetRequestID(c)}
}

func (h *Handlers) payments(c *gin.Context) services.PaymentService {
	s := h.Payments
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) history(c *gin.Context) services.BookingHistoryService {
	s := h.History
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) trips(c *gin.Context) services.TripService {
	s := h.Trips
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h *Handlers) docs(c *gin.Context) services.DocsService {
	return services.DocsService{History: h.history(c), RequestID: middleware.GetRequestID(c)}
}
