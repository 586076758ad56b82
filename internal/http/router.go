package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intconfig "busline/internal/config"
	"busline/internal/domain"
	h "busline/internal/http/handlers"
	"busline/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

func NewRouter(env intconfig.Env, hs *h.Handlers) *gin.Engine {
	r := gin.New()

	origins := env.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route tidak ditemukan",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	requireAuth := middleware.RequireAuth(hs.Auth)

	api := r.Group("/api")
	{
		api.GET("/health", hs.Health)
		api.GET("/db-check", hs.DBCheck)
		api.GET("/routes", hs.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/register", hs.Register)
		auth.POST("/login", hs.Login)
		auth.GET("/session", requireAuth, hs.Session)
		auth.POST("/logout", requireAuth, hs.Logout)

		// Profile
		profile := api.Group("/profile", requireAuth)
		profile.GET("", hs.GetProfile)
		profile.PUT("", hs.UpdateProfile)

		// Trip catalogue
		api.GET("/trips", hs.ListTrips)
		api.GET("/trips/:id", hs.GetTrip)

		// Booking drafts
		drafts := api.Group("/drafts", requireAuth)
		drafts.POST("", hs.CreateDraft)
		drafts.GET("/:id", hs.GetDraft)
		drafts.DELETE("/:id", hs.CancelDraft)
		drafts.POST("/:id/search", hs.SearchTrips)
		drafts.PUT("/:id/trip", hs.SelectTrip)
		drafts.GET("/:id/seats", hs.GetSeatMap)
		drafts.POST("/:id/seats/:seat", hs.ToggleSeat)
		drafts.GET("/:id/passengers", hs.GetPassengerForm)
		drafts.PUT("/:id/passengers", hs.SetPassengers)
		drafts.PATCH("/:id/passengers/:index", hs.EditPassenger)
		drafts.PUT("/:id/points", hs.ChooseBoardingPoints)
		drafts.GET("/:id/steps", hs.GetSteps)
		drafts.POST("/:id/steps/next", hs.NextStep)
		drafts.POST("/:id/steps/:step", hs.GoToStep)
		drafts.GET("/:id/payment", hs.GetQuote)
		drafts.POST("/:id/payment", hs.ConfirmPayment)

		// Past bookings
		bookings := api.Group("/bookings", requireAuth)
		bookings.GET("", hs.ListBookings)
		bookings.GET("/:ref", hs.GetBooking)
		bookings.GET("/:ref/e-ticket", hs.GetETicketPDF)
		bookings.GET("/:ref/receipt", hs.GetReceiptPDF)

		// Staff dashboards
		api.GET("/admin/overview", requireAuth, middleware.RequireRoles(domain.RoleAdmin), hs.Overview(domain.RoleAdmin))
		api.POST("/admin/staff", requireAuth, middleware.RequireRoles(domain.RoleAdmin), hs.CreateStaff)
		api.GET("/operator/overview", requireAuth, middleware.RequireRoles(domain.RoleOperator, domain.RoleAdmin), hs.Overview(domain.RoleOperator))
		api.GET("/support/overview", requireAuth, middleware.RequireRoles(domain.RoleSupport, domain.RoleAdmin), hs.Overview(domain.RoleSupport))
	}

	hs.SetRouter(r)
	return r
}
