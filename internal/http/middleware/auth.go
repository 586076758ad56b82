package middleware

import (
	"net/http"

	"busline/internal/domain"
	"busline/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
	ClaimsKey   = "claims"
)

// TokenParser verifies a bearer token. services.AuthService satisfies it.
type TokenParser interface {
	ParseToken(raw string) (*services.Claims, error)
}

// RequireAuth rejects requests without a valid session token.
func RequireAuth(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := p.ParseToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRoles lets the request through only for the listed roles. Must run after RequireAuth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := map[domain.Role]bool{}
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(UserRoleKey))
		if role == "" {
			abort(c, http.StatusUnauthorized, "role tidak ditemukan pada sesi")
			return
		}
		if !allowed[role] {
			abort(c, http.StatusForbidden, "akses ditolak untuk role ini")
			return
		}
		c.Next()
	}
}

// GetClaims returns the claims stored by RequireAuth.
func GetClaims(c *gin.Context) *services.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if cl, ok := v.(*services.Claims); ok {
			return cl
		}
	}
	return nil
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"message":    msg,
		"request_id": GetRequestID(c),
	})
}
