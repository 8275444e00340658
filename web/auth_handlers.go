package web

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffsystem/utils"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin verifies credentials and issues the session cookie. Unknown
// usernames and wrong passwords get the same response so the endpoint does
// not leak which accounts exist.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "username and password are required"})
		return
	}

	account, err := s.staff.GetByUsername(req.Username)
	if err != nil {
		log.Printf("Login error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if account == nil || !account.IsActive || !utils.CheckPassword(account.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
		return
	}

	token, err := s.issueSessionToken(account.ID)
	if err != nil {
		log.Printf("Login error: failed to sign session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	if err := s.staff.UpdateLastLogin(account.ID, time.Now().UnixMilli()); err != nil {
		log.Printf("Warning: failed to update last login for %s: %v", account.Username, err)
	}
	if err := s.activity.Append(account.ID, "LOGIN", fmt.Sprintf("%s logged in", account.Username), c.ClientIP()); err != nil {
		log.Printf("Warning: failed to append activity log entry: %v", err)
	}

	maxAge := int(s.cfg.SessionTTL / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": account})
}

// handleLogout clears the session cookie.
func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// handleChangePassword lets the logged-in account rotate its own password.
func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "current and new password are required"})
		return
	}
	if len(req.NewPassword) < utils.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"success": false,
			"error": fmt.Sprintf("new password must be at least %d characters", utils.MinPasswordLength)})
		return
	}

	account := actor(c)
	if !utils.CheckPassword(account.Password, req.CurrentPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "current password is incorrect"})
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("Change password error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if err := s.staff.UpdatePassword(account.ID, hash); err != nil {
		log.Printf("Change password error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	if err := s.activity.Append(account.ID, "CHANGE_PASSWORD", fmt.Sprintf("%s changed their password", account.Username), c.ClientIP()); err != nil {
		log.Printf("Warning: failed to append activity log entry: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
