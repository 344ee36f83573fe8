// Package health exposes liveness, backing-store checks, the
// connectivity guard surface and the scheduled-job admin endpoints.
package health

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/config"
	"github.com/moodnotes/core/internal/mongodb"
	"github.com/moodnotes/core/internal/notestore"
	"github.com/moodnotes/core/internal/pkg/connectivity"
	"github.com/moodnotes/core/internal/pkg/cron"
	redispkg "github.com/moodnotes/core/internal/pkg/redis"
	"github.com/moodnotes/core/internal/pkg/response"
	"gorm.io/gorm"
)

type checkResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Handler struct {
	cfg       *config.AppConfig
	db        *gorm.DB
	mongo     *mongodb.Client
	redis     *redispkg.Client
	store     *notestore.Store
	guard     *connectivity.Guard
	sched     *cron.Scheduler
	startedAt time.Time
}

func NewHandler(cfg *config.AppConfig, db *gorm.DB, mongo *mongodb.Client, redis *redispkg.Client, store *notestore.Store, guard *connectivity.Guard, sched *cron.Scheduler) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		mongo:     mongo,
		redis:     redis,
		store:     store,
		guard:     guard,
		sched:     sched,
		startedAt: time.Now(),
	}
}

// RegisterRoutes mounts the public health endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)

	if h.guard != nil {
		g := rg.Group("/connectivity")
		g.GET("", h.connectivityStatus)
		g.POST("/check", h.connectivityCheck)
		g.POST("/resolve", h.connectivityResolve)
	}
}

// RegisterAdminRoutes mounts the cron endpoints behind auth.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	if h.sched == nil {
		return
	}
	g := rg.Group("/cron")
	g.GET("", h.cronList)
	g.POST("/:name/run", h.cronRun)
}

// GET /health
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if h.store != nil {
		checks["notes"] = checkResult{Status: "ok"}
	}
	if h.db != nil {
		checks["mysql"] = h.pingSQL(ctx)
	}
	if h.mongo != nil {
		checks["mongo"] = toResult(h.mongo.Ping(ctx))
	}
	if h.redis != nil {
		checks["redis"] = toResult(h.redis.Ping(ctx))
	}
	for _, r := range checks {
		if r.(checkResult).Status != "ok" {
			healthy = false
		}
	}

	status := "ok"
	if !healthy {
		status = "degraded"
	}
	response.OK(c, gin.H{
		"status": status,
		"mode":   h.cfg.Mode,
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
		"checks": checks,
	})
}

func (h *Handler) pingSQL(ctx context.Context) checkResult {
	sqlDB, err := h.db.DB()
	if err != nil {
		return toResult(err)
	}
	return toResult(sqlDB.PingContext(ctx))
}

func toResult(err error) checkResult {
	if err != nil {
		return checkResult{Status: "fail", Error: err.Error()}
	}
	return checkResult{Status: "ok"}
}

// GET /connectivity
func (h *Handler) connectivityStatus(c *gin.Context) {
	response.OK(c, h.guard.Status())
}

// POST /connectivity/check runs one full retry sequence synchronously
// and reports where the guard landed.
func (h *Handler) connectivityCheck(c *gin.Context) {
	h.guard.Run(c.Request.Context())
	response.OK(c, h.guard.Status())
}

type resolveDTO struct {
	Resolution string `json:"resolution" binding:"required"`
}

// POST /connectivity/resolve
func (h *Handler) connectivityResolve(c *gin.Context) {
	var dto resolveDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.guard.Resolve(c.Request.Context(), connectivity.Resolution(dto.Resolution)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, h.guard.Status())
}

// GET /cron
func (h *Handler) cronList(c *gin.Context) {
	response.OK(c, h.sched.List())
}

// POST /cron/:name/run. The job outlives the request, so it does not
// inherit the request context.
func (h *Handler) cronRun(c *gin.Context) {
	if err := h.sched.Run(context.Background(), c.Param("name")); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, gin.H{"ok": 1})
}
