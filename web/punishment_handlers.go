package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"staffsystem/core"
	"staffsystem/model"
	"staffsystem/utils/database/punishments"
)

const pageSize = 20

// handleDashboard returns the landing-page payload: counters, the latest
// punishments and the latest audit entries in one round trip.
func (s *Server) handleDashboard(c *gin.Context) {
	stats, err := s.records.Stats()
	if err != nil {
		log.Printf("Dashboard error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	stats.TotalStaff, err = s.staff.CountActive()
	if err != nil {
		log.Printf("Dashboard error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	recent, _, err := s.records.List(punishments.Filter{Limit: 10})
	if err != nil {
		log.Printf("Dashboard error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	entries, err := s.activity.Recent(10)
	if err != nil {
		log.Printf("Dashboard error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"stats":             stats,
		"recentPunishments": recent,
		"recentActivity":    entries,
	})
}

// handleListPunishments serves the paginated punishment browser with the
// type/status/search filters.
func (s *Server) handleListPunishments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	filter := punishments.Filter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if kind := model.PunishmentType(c.Query("type")); kind != "" {
		if !kind.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown punishment type"})
			return
		}
		filter.Type = kind
	}

	records, total, err := s.records.List(filter)
	if err != nil {
		log.Printf("List punishments error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	totalPages := (total + pageSize - 1) / pageSize
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"punishments": records,
		"page":        page,
		"totalPages":  totalPages,
		"total":       total,
	})
}

// handleGetPunishment returns one record plus the subject player's full
// history for the detail view.
func (s *Server) handleGetPunishment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid punishment id"})
		return
	}

	rec, err := s.records.GetByID(id)
	if err != nil {
		log.Printf("Get punishment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "punishment not found"})
		return
	}

	history, err := s.records.ListByPlayerUUID(rec.PlayerUUID)
	if err != nil {
		log.Printf("Get punishment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "punishment": rec, "playerHistory": history})
}

// revokeCapability maps a punishment kind to the capability that authorizes
// revoking it.
func revokeCapability(kind model.PunishmentType) string {
	switch kind {
	case model.TypeBan, model.TypeTempBan:
		return core.CapabilityBan
	case model.TypeMute, model.TypeTempMute:
		return core.CapabilityMute
	case model.TypeKick:
		return core.CapabilityKick
	default:
		return core.CapabilityWarn
	}
}

type revokeRequest struct {
	Reason string `json:"reason"`
}

// handleRevokePunishment deactivates a record on behalf of the logged-in
// account. The required capability depends on the record's kind.
func (s *Server) handleRevokePunishment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid punishment id"})
		return
	}

	var req revokeRequest
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "Revoked via dashboard"
	}

	rec, err := s.records.GetByID(id)
	if err != nil {
		log.Printf("Revoke error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "punishment not found"})
		return
	}

	account := actor(c)
	defaults, err := s.staff.TierDefaults(account.Tier)
	if err != nil {
		log.Printf("Revoke error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if err := core.Can(account, defaults, revokeCapability(rec.Type)); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient permission"})
		return
	}

	// Clear already-expired records before deciding whether this revoke
	// actually changes anything.
	if _, err := core.ExpireIfDue(s.records, rec, time.Now().UnixMilli()); err != nil {
		log.Printf("Revoke error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	res, err := core.Revoke(s.records, s.activity, id, account, req.Reason, c.ClientIP())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "punishment not found"})
			return
		}
		log.Printf("Revoke error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	body := gin.H{"success": true, "changed": res.Changed, "punishment": res.Record}
	if res.AuditErr != nil {
		log.Printf("Warning: %v", res.AuditErr)
		body["warning"] = "revoked, but the audit entry could not be written"
	}
	if !res.Changed {
		body["message"] = fmt.Sprintf("Punishment #%d was already inactive", id)
	}
	c.JSON(http.StatusOK, body)
}
