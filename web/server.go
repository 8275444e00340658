// Package web serves the staff dashboard JSON API and the sync API the game
// server pushes punishment events to.
package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"staffsystem/model"
	"staffsystem/utils/database/activity"
	"staffsystem/utils/database/punishments"
	"staffsystem/utils/database/staff"
)

// Server is the HTTP surface. All state lives in the store handles; request
// handling itself is stateless.
type Server struct {
	cfg      *model.Config
	engine   *gin.Engine
	http     *http.Server
	records  *punishments.Store
	staff    *staff.Store
	activity *activity.Log
	started  time.Time
}

// NewServer builds the router on an initialized database.
func NewServer(cfg *model.Config, db *sqlx.DB) *Server {
	s := &Server{
		cfg:      cfg,
		records:  punishments.NewStore(db),
		staff:    staff.NewStore(db),
		activity: activity.NewLog(db),
		started:  time.Now(),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	s.registerRoutes(engine)

	s.engine = engine
	s.http = &http.Server{Addr: cfg.ListenAddr, Handler: engine}
	return s
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.POST("/auth/login", s.handleLogin)

	authed := engine.Group("/", s.requireAuth)
	authed.POST("/auth/logout", s.handleLogout)
	authed.POST("/auth/change-password", s.handleChangePassword)

	authed.GET("/dashboard", s.handleDashboard)
	authed.GET("/punishments", s.handleListPunishments)
	authed.GET("/punishments/:id", s.handleGetPunishment)
	authed.POST("/punishments/:id/revoke", s.handleRevokePunishment)

	authed.GET("/staff", s.requireTier(3), s.handleListStaff)
	authed.POST("/staff", s.requireTier(4), s.handleCreateStaff)
	authed.PUT("/staff/:id", s.requireTier(4), s.handleUpdateStaff)
	authed.DELETE("/staff/:id", s.requireTier(4), s.handleDeleteStaff)

	authed.GET("/tiers", s.requireTier(3), s.handleListTiers)
	authed.PUT("/tiers/:level", s.handleUpdateTier)

	api := engine.Group("/api")
	api.GET("/status", s.handleStatus)

	secured := api.Group("", s.requireAPIKey)
	secured.GET("/punishments", s.handleAPIPunishments)
	secured.GET("/punishments/:id", s.handleAPIPunishment)
	secured.POST("/punishments/sync", s.handleSync)
	secured.POST("/punishments/:id/revoke", s.handleAPIRevoke)
	secured.GET("/players/:uuid/punishments", s.handlePlayerPunishments)
	secured.GET("/players/:uuid/banned", s.handlePlayerBanned)
	secured.GET("/players/:uuid/muted", s.handlePlayerMuted)
	secured.GET("/staff", s.handleAPIStaff)
	secured.GET("/stats", s.handleAPIStats)
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	log.Printf("StaffSystem dashboard listening on %s", s.cfg.ListenAddr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// requestLogger logs one line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
