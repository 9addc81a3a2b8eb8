package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ljniox/ai-concierge-sub002/internal/middleware"
	"github.com/ljniox/ai-concierge-sub002/internal/models"
)

// claimsFromContext extracts the session claims stored by the JWT
// middleware, or nil when the route is unauthenticated.
func claimsFromContext(c *gin.Context) *models.SessionClaims {
	value, ok := c.Get(middleware.ContextSessionKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
