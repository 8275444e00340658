package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"staffsystem/core"
	"staffsystem/model"
	"staffsystem/utils"
	"staffsystem/utils/database/punishments"
)

// handleStatus is the unauthenticated health probe the game server and
// monitoring hit. System readings are best effort.
func (s *Server) handleStatus(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"version": runtime.Version(),
	}

	if counts, err := cpu.Counts(true); err == nil {
		body["cpuCores"] = counts
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		body["cpuPercent"] = fmt.Sprintf("%.1f", percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		body["memoryUsedPercent"] = fmt.Sprintf("%.1f", vm.UsedPercent)
	}
	if info, err := host.Info(); err == nil {
		body["os"] = fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
	}

	c.JSON(http.StatusOK, body)
}

// handleAPIPunishments is the machine-facing listing with the same filters as
// the dashboard browser.
func (s *Server) handleAPIPunishments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	filter := punishments.Filter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
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
		log.Printf("API punishments error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "punishments": records, "total": total})
}

// handleAPIPunishment returns one record by id.
func (s *Server) handleAPIPunishment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid punishment id"})
		return
	}
	rec, err := s.records.GetByID(id)
	if err != nil {
		log.Printf("API punishment error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "punishment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "punishment": rec})
}

type syncRequest struct {
	PlayerUUID string `json:"playerUuid" binding:"required"`
	PlayerName string `json:"playerName" binding:"required"`
	StaffUUID  string `json:"staffUuid"`
	StaffName  string `json:"staffName"`
	Type       string `json:"type" binding:"required"`
	Reason     string `json:"reason"`
	Timestamp  int64  `json:"timestamp" binding:"required"`
	Duration   *int64 `json:"duration"`
	Expiration int64  `json:"expiration"`
	Active     *bool  `json:"active"`
	Server     string `json:"server"`
}

// handleSync is the upsert endpoint the game server pushes punishment events
// to. Replays of the same event update the existing record instead of
// creating duplicates, so the plugin can retry freely.
func (s *Server) handleSync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "playerUuid, playerName, type and timestamp are required"})
		return
	}

	if _, err := uuid.Parse(req.PlayerUUID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "playerUuid is not a valid UUID"})
		return
	}
	kind := model.PunishmentType(req.Type)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fmt.Sprintf("unknown punishment type %q", req.Type)})
		return
	}

	duration := model.PermanentDuration
	if req.Duration != nil {
		duration = *req.Duration
	}
	expiration := req.Expiration
	if expiration == 0 && duration > 0 {
		expiration = req.Timestamp + duration
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rec := &model.PunishmentRecord{
		PlayerUUID: req.PlayerUUID,
		PlayerName: req.PlayerName,
		StaffUUID:  req.StaffUUID,
		StaffName:  req.StaffName,
		Type:       kind,
		Reason:     req.Reason,
		Timestamp:  req.Timestamp,
		Duration:   duration,
		Expiration: expiration,
		Active:     active,
		Server:     req.Server,
	}

	result, err := core.Reconcile(s.records, rec, time.Now().UnixMilli())
	if err != nil {
		log.Printf("Sync error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	if result.Action == core.ActionCreated {
		if err := s.activity.Append(0, "WEBHOOK_PUNISHMENT",
			fmt.Sprintf("%s received for %s by %s: %s", rec.Type, rec.PlayerName, rec.StaffName, rec.Reason), "sync"); err != nil {
			log.Printf("Warning: failed to append activity log entry: %v", err)
		}
		go func(webhookURL string, rec model.PunishmentRecord) {
			if err := utils.SendPunishmentNotification(webhookURL, &rec); err != nil {
				log.Printf("Warning: failed to send punishment notification: %v", err)
			}
		}(s.cfg.DiscordWebhookURL, *rec)
	}

	status := http.StatusOK
	if result.Action == core.ActionCreated {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "action": result.Action, "id": result.ID})
}

// handleAPIRevoke deactivates a record on behalf of the game server. The
// audit entry is attributed to the sync API rather than a staff account.
func (s *Server) handleAPIRevoke(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid punishment id"})
		return
	}

	var req revokeRequest
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "Revoked via sync API"
	}

	res, err := core.Revoke(s.records, s.activity, id, nil, req.Reason, "sync")
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "punishment not found"})
			return
		}
		log.Printf("API revoke error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	body := gin.H{"success": true, "changed": res.Changed}
	if res.AuditErr != nil {
		log.Printf("Warning: %v", res.AuditErr)
		body["warning"] = "revoked, but the audit entry could not be written"
	}
	c.JSON(http.StatusOK, body)
}

// handlePlayerPunishments returns a player's full history, newest first.
func (s *Server) handlePlayerPunishments(c *gin.Context) {
	playerUUID := c.Param("uuid")
	if _, err := uuid.Parse(playerUUID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid player UUID"})
		return
	}
	records, err := s.records.ListByPlayerUUID(playerUUID)
	if err != nil {
		log.Printf("Player punishments error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "punishments": records})
}

// handlePlayerBanned answers the login-time ban check. Expired bans are
// flipped inactive as a side effect of the lookup.
func (s *Server) handlePlayerBanned(c *gin.Context) {
	playerUUID := c.Param("uuid")
	if _, err := uuid.Parse(playerUUID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid player UUID"})
		return
	}
	rec, err := core.ActiveBan(s.records, playerUUID, time.Now().UnixMilli())
	if err != nil {
		log.Printf("Player banned error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "banned": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "banned": true, "punishment": rec})
}

// handlePlayerMuted answers the chat-time mute check with the same lazy
// expiry behavior as the ban check.
func (s *Server) handlePlayerMuted(c *gin.Context) {
	playerUUID := c.Param("uuid")
	if _, err := uuid.Parse(playerUUID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid player UUID"})
		return
	}
	rec, err := core.ActiveMute(s.records, playerUUID, time.Now().UnixMilli())
	if err != nil {
		log.Printf("Player muted error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "muted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "muted": true, "punishment": rec})
}

// apiStaffEntry is the safe projection served to the game server: enough to
// render staff in-game, nothing credential-shaped.
type apiStaffEntry struct {
	Username      string `json:"username"`
	MinecraftUUID string `json:"minecraftUuid"`
	MinecraftName string `json:"minecraftName"`
	Tier          int    `json:"tier"`
	Role          string `json:"role"`
}

// handleAPIStaff returns the active staff roster as a safe projection.
func (s *Server) handleAPIStaff(c *gin.Context) {
	accounts, err := s.staff.List()
	if err != nil {
		log.Printf("API staff error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	entries := make([]apiStaffEntry, 0, len(accounts))
	for _, acc := range accounts {
		if !acc.IsActive {
			continue
		}
		entries = append(entries, apiStaffEntry{
			Username:      acc.Username,
			MinecraftUUID: acc.MinecraftUUID,
			MinecraftName: acc.MinecraftName,
			Tier:          acc.Tier,
			Role:          acc.Role,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "staff": entries})
}

// handleAPIStats returns the punishment counters.
func (s *Server) handleAPIStats(c *gin.Context) {
	stats, err := s.records.Stats()
	if err != nil {
		log.Printf("API stats error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	stats.TotalStaff, err = s.staff.CountActive()
	if err != nil {
		log.Printf("API stats error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
