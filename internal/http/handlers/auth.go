package handlers

import (
	"net/http"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/http/middleware"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req services.RegisterInput
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := h.auth(c).Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registrasi berhasil", "profile": p, "dashboard": domain.DashboardRoute(p.Role)})
}

// POST /api/admin/staff
func (h *Handlers) CreateStaff(c *gin.Context) {
	var req services.StaffInput
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := h.auth(c).CreateStaff(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "akun staff dibuat", "profile": p, "dashboard": domain.DashboardRoute(p.Role)})
}

// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req services.LoginInput
	if !BindJSONOrError(c, &req) {
		return
	}
	sess, err := h.auth(c).Login(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// GET /api/auth/session
func (h *Handlers) Session(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		RespondDomainError(c, domain.UnauthorizedError{})
		return
	}
	sess, err := h.auth(c).Session(c.Request.Context(), claims)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": sess,
		"drafts":  h.drafts(c).ListIDs(claims.UserID),
	})
}

// POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		RespondDomainError(c, domain.UnauthorizedError{})
		return
	}
	h.auth(c).Logout(claims)
	c.JSON(http.StatusOK, gin.H{"message": "logout berhasil"})
}

// GET /api/profile
func (h *Handlers) GetProfile(c *gin.Context) {
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
	c.JSON(http.StatusOK, p)
}

// PUT /api/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if !BindJSONOrError(c, &req) {
		return
	}
	p, err := h.auth(c).UpdateProfile(c.Request.Context(), userID(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
