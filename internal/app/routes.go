package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/middleware"
	"github.com/moodnotes/core/internal/modules/auth"
	"github.com/moodnotes/core/internal/modules/backup"
	"github.com/moodnotes/core/internal/modules/health"
	"github.com/moodnotes/core/internal/modules/mood"
	"github.com/moodnotes/core/internal/modules/notes"
	pkgmail "github.com/moodnotes/core/internal/pkg/mail"
	"github.com/moodnotes/core/internal/pkg/response"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	api := r.Group(apiPrefix)

	appInfo := gin.H{
		"name":    "moodnotes-core",
		"mode":    a.cfg.Mode,
		"version": "1.0.0",
	}
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"timestamp": time.Since(processStart).Milliseconds()})
	})

	if a.cfg.IsRemote() {
		a.registerRemoteRoutes(api)
	} else {
		a.registerLocalRoutes(api)
	}
}

// registerLocalRoutes mounts the note store plus its backup surface.
// No auth middleware: the local diary is single-user by construction.
func (a *App) registerLocalRoutes(api *gin.RouterGroup) {
	notes.NewHandler(a.store, a.logger.Named("notes")).RegisterRoutes(api)

	uploader, err := backup.NewS3Uploader(a.cfg.Backup.S3)
	if err != nil {
		a.logger.Warn("s3 uploads disabled", zap.Error(err))
		uploader = nil
	}
	backupSvc := backup.NewService(
		a.store.Path(),
		a.cfg.BackupsDir(),
		a.cfg.Backup.Keep,
		uploader,
		a.logger.Named("backup"),
	)
	a.backupSvc = backupSvc
	backup.NewHandler(backupSvc).RegisterRoutes(api)

	h := health.NewHandler(a.cfg, nil, nil, nil, a.store, nil, a.sched)
	h.RegisterRoutes(api)
	h.RegisterAdminRoutes(api)
}

func (a *App) registerRemoteRoutes(api *gin.RouterGroup) {
	authMW := middleware.Auth(a.db)

	api.Use(middleware.RateLimit(a.redis.Raw()))

	mailer := pkgmail.New(pkgmail.Config{
		Enable: a.cfg.Mail.Enable,
		Host:   a.cfg.Mail.Host,
		Port:   a.cfg.Mail.Port,
		User:   a.cfg.Mail.User,
		Pass:   a.cfg.Mail.Pass,
		From:   a.cfg.Mail.From,
	})

	authSvc := auth.NewService(a.db, auth.NewRedisLimiter(a.redis.Raw()), mailer, a.logger.Named("auth"))
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW)

	moodRepo := mood.NewMongoRepository(a.mongo.Collection(a.cfg.Mongo.Collection))
	moodSvc := mood.NewService(moodRepo, a.logger.Named("mood"))
	mood.NewHandler(moodSvc, a.guard).RegisterRoutes(api, authMW)

	h := health.NewHandler(a.cfg, a.db, a.mongo, a.redis, nil, a.guard, a.sched)
	h.RegisterRoutes(api)
	h.RegisterAdminRoutes(api.Group("", authMW))
}

var processStart = time.Now()
