package web

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"staffsystem/core"
	"staffsystem/model"
	"staffsystem/utils"
)

// handleListStaff returns every account together with the tier definitions,
// which the management view needs to render tier names and colors.
func (s *Server) handleListStaff(c *gin.Context) {
	accounts, err := s.staff.List()
	if err != nil {
		log.Printf("List staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	tiers, err := s.staff.Tiers()
	if err != nil {
		log.Printf("List staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "staff": accounts, "tiers": tiers})
}

type createStaffRequest struct {
	Username      string              `json:"username" binding:"required"`
	Email         string              `json:"email" binding:"required"`
	Password      string              `json:"password" binding:"required"`
	MinecraftUUID string              `json:"minecraftUuid"`
	MinecraftName string              `json:"minecraftName"`
	Tier          int                 `json:"tier"`
	Role          string              `json:"role"`
	Permissions   model.PermissionSet `json:"permissions"`
}

// handleCreateStaff mints a new account. The requested tier can never exceed
// the creator's own.
func (s *Server) handleCreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "username, email and password are required"})
		return
	}
	if len(req.Password) < utils.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"success": false,
			"error": fmt.Sprintf("password must be at least %d characters", utils.MinPasswordLength)})
		return
	}
	if req.Tier < 1 {
		req.Tier = 1
	}

	account := actor(c)
	if err := core.CanCreateStaff(account, req.Tier); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "cannot create staff above your own tier"})
		return
	}

	taken, err := s.staff.ExistsByUsernameOrEmail(req.Username, req.Email)
	if err != nil {
		log.Printf("Create staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if taken {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "username or email already in use"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Create staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	perms := req.Permissions
	if perms == nil {
		perms = model.PermissionSet{}
	}
	created := &model.StaffAccount{
		Username:      req.Username,
		Email:         req.Email,
		Password:      hash,
		MinecraftUUID: req.MinecraftUUID,
		MinecraftName: req.MinecraftName,
		Tier:          req.Tier,
		Role:          req.Role,
		Permissions:   perms,
		IsActive:      true,
	}
	id, err := s.staff.Create(created)
	if err != nil {
		log.Printf("Create staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	created.ID = id

	if err := s.activity.Append(account.ID, "CREATE_STAFF",
		fmt.Sprintf("%s created staff account %s (tier %d)", account.Username, created.Username, created.Tier), c.ClientIP()); err != nil {
		log.Printf("Warning: failed to append activity log entry: %v", err)
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "staff": created})
}

type updateStaffRequest struct {
	Email         *string              `json:"email"`
	MinecraftUUID *string              `json:"minecraftUuid"`
	MinecraftName *string              `json:"minecraftName"`
	DiscordID     *string              `json:"discordId"`
	Tier          *int                 `json:"tier"`
	Role          *string              `json:"role"`
	Permissions   *model.PermissionSet `json:"permissions"`
	IsActive      *bool                `json:"isActive"`
}

// handleUpdateStaff edits an account. The target must sit strictly below the
// actor unless the actor holds the maximum tier, and even then the target can
// never be raised above the actor.
func (s *Server) handleUpdateStaff(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid staff id"})
		return
	}
	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	target, err := s.staff.GetByID(id)
	if err != nil {
		log.Printf("Update staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "staff account not found"})
		return
	}

	account := actor(c)
	maxTier, err := s.staff.MaxTierLevel()
	if err != nil {
		log.Printf("Update staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if err := core.CanEditStaff(account, target, maxTier); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient permission"})
		return
	}

	if req.Email != nil {
		target.Email = *req.Email
	}
	if req.MinecraftUUID != nil {
		target.MinecraftUUID = *req.MinecraftUUID
	}
	if req.MinecraftName != nil {
		target.MinecraftName = *req.MinecraftName
	}
	if req.DiscordID != nil {
		target.DiscordID = *req.DiscordID
	}
	if req.Tier != nil {
		if *req.Tier > account.Tier {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "cannot assign a tier above your own"})
			return
		}
		target.Tier = *req.Tier
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	if req.Permissions != nil {
		target.Permissions = *req.Permissions
	}
	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}

	if err := s.staff.Update(target); err != nil {
		log.Printf("Update staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	if err := s.activity.Append(account.ID, "UPDATE_STAFF",
		fmt.Sprintf("%s updated staff account %s", account.Username, target.Username), c.ClientIP()); err != nil {
		log.Printf("Warning: failed to append activity log entry: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "staff": target})
}

// handleDeleteStaff removes an account. Strictly lower tier only, and never
// the actor's own account.
func (s *Server) handleDeleteStaff(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid staff id"})
		return
	}

	target, err := s.staff.GetByID(id)
	if err != nil {
		log.Printf("Delete staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "staff account not found"})
		return
	}

	account := actor(c)
	if err := core.CanDeleteStaff(account, target); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient permission"})
		return
	}

	if err := s.staff.Delete(id); err != nil {
		log.Printf("Delete staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	if err := s.activity.Append(account.ID, "DELETE_STAFF",
		fmt.Sprintf("%s deleted staff account %s", account.Username, target.Username), c.ClientIP()); err != nil {
		log.Printf("Warning: failed to append activity log entry: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleListTiers returns every tier definition.
func (s *Server) handleListTiers(c *gin.Context) {
	tiers, err := s.staff.Tiers()
	if err != nil {
		log.Printf("List tiers error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tiers": tiers})
}

type updateTierRequest struct {
	Name          *string              `json:"name"`
	Color         *string              `json:"color"`
	Permissions   *model.PermissionSet `json:"permissions"`
	DiscordRoleID *string              `json:"discordRoleId"`
}

// handleUpdateTier rewrites a tier definition. Reserved for holders of the
// maximum defined tier.
func (s *Server) handleUpdateTier(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid tier level"})
		return
	}
	var req updateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	account := actor(c)
	maxTier, err := s.staff.MaxTierLevel()
	if err != nil {
		log.Printf("Update tier error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if err := core.CanManageTiers(account, maxTier); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient permission"})
		return
	}

	tier, err := s.staff.GetTier(level)
	if err != nil {
		log.Printf("Update tier error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if tier == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "tier not found"})
		return
	}

	if req.Name != nil {
		tier.Name = *req.Name
	}
	if req.Color != nil {
		tier.Color = *req.Color
	}
	if req.Permissions != nil {
		tier.Permissions = *req.Permissions
	}
	if req.DiscordRoleID != nil {
		tier.DiscordRoleID = *req.DiscordRoleID
	}

	if err := s.staff.UpdateTier(tier); err != nil {
		log.Printf("Update tier error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	if err := s.activity.Append(account.ID, "UPDATE_TIER",
		fmt.Sprintf("%s updated tier %d (%s)", account.Username, tier.TierLevel, tier.Name), c.ClientIP()); err != nil {
		log.Printf("Warning: failed to append activity log entry: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tier": tier})
}
