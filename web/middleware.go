package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staffsystem/model"
)

const actorKey = "actor"

// requireAuth authenticates the session cookie and loads a fresh account
// snapshot for the request. Permissions are never cached across requests;
// every request re-reads the account so tier changes take effect
// immediately.
func (s *Server) requireAuth(c *gin.Context) {
	tokenString, err := c.Cookie(sessionCookie)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "not authenticated"})
		return
	}
	accountID, err := s.parseSessionToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "not authenticated"})
		return
	}
	account, err := s.staff.GetByID(accountID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if account == nil || !account.IsActive {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "not authenticated"})
		return
	}
	c.Set(actorKey, account)
	c.Next()
}

// actor returns the authenticated account loaded by requireAuth.
func actor(c *gin.Context) *model.StaffAccount {
	return c.MustGet(actorKey).(*model.StaffAccount)
}

// requireTier gates a route on a minimum tier level.
func (s *Server) requireTier(minTier int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor(c).Tier < minTier {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient permission"})
			return
		}
		c.Next()
	}
}

// requireAPIKey authenticates sync API calls with a shared bearer key.
func (s *Server) requireAPIKey(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "no token provided"})
		return
	}
	if strings.TrimPrefix(header, "Bearer ") != s.cfg.APIKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid API key"})
		return
	}
	c.Next()
}
