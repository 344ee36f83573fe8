// Package app assembles the server from config: local mode mounts the
// on-device note store, remote mode mounts the authenticated mood log
// with its MySQL, MongoDB and Redis backings.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/config"
	"github.com/moodnotes/core/internal/database"
	"github.com/moodnotes/core/internal/middleware"
	"github.com/moodnotes/core/internal/modules/backup"
	"github.com/moodnotes/core/internal/mongodb"
	"github.com/moodnotes/core/internal/notestore"
	"github.com/moodnotes/core/internal/pkg/apperr"
	"github.com/moodnotes/core/internal/pkg/connectivity"
	pkgcron "github.com/moodnotes/core/internal/pkg/cron"
	"github.com/moodnotes/core/internal/pkg/jwt"
	pkgredis "github.com/moodnotes/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	logger *zap.Logger
	cancel context.CancelFunc

	db        *gorm.DB
	mongo     *mongodb.Client
	redis     *pkgredis.Client
	store     *notestore.Store
	guard     *connectivity.Guard
	sched     *pkgcron.Scheduler
	backupSvc *backup.Service
}

// New initializes the application for the configured mode.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if cfg.JWTSecret == "" && cfg.IsRemote() {
		return nil, errors.New("jwt_secret is required in remote mode")
	}
	jwt.SetSecret(cfg.JWTSecret)

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		cfg:    cfg,
		router: router,
		logger: logger,
		cancel: cancel,
		sched:  pkgcron.New(),
	}

	var err error
	if cfg.IsRemote() {
		err = app.initRemote(ctx)
	} else {
		err = app.initLocal()
	}
	if err != nil {
		cancel()
		app.closeBackends()
		return nil, err
	}

	// Routes build the backup service the cron jobs reuse, so they
	// register first.
	app.registerRoutes()
	app.registerCronJobs()
	go app.sched.Start(ctx)

	return app, nil
}

func (a *App) initLocal() error {
	a.store = notestore.New(a.cfg.NotesFilePath(), a.logger.Named("notestore"))
	notes := a.store.Load()
	a.logger.Info("notes loaded",
		zap.String("path", a.store.Path()),
		zap.Int("count", len(notes)),
	)
	return nil
}

func (a *App) initRemote(ctx context.Context) error {
	db, err := database.Connect(a.cfg, true)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	a.db = db

	mc, err := mongodb.Connect(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	a.mongo = mc
	if err := mc.EnsureIndexes(ctx, a.cfg.Mongo.Collection); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}

	rc, err := pkgredis.Connect(a.cfg.Redis.URLValue())
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	a.redis = rc

	a.guard = connectivity.New(connectivity.Options{
		Probe:      a.buildProbe(),
		MaxRetries: a.cfg.Connectivity.MaxRetries,
		BaseDelay:  time.Duration(a.cfg.Connectivity.BaseDelayMS) * time.Millisecond,
		Logger:     a.logger.Named("connectivity"),
		OnDecision: func(reason error) {
			a.logger.Warn("backend unreachable, awaiting retry/offline/cancel decision",
				zap.Error(reason))
		},
	})
	go a.guard.Run(ctx)

	return nil
}

// buildProbe prefers an HTTP probe against the configured URL and falls
// back to pinging the document store the mood log depends on.
func (a *App) buildProbe() connectivity.ProbeFunc {
	timeout := time.Duration(a.cfg.Connectivity.TimeoutSeconds) * time.Second
	if url := a.cfg.Connectivity.ProbeURL; url != "" {
		return connectivity.HTTPProbe(url, timeout, a.logger.Named("probe"))
	}
	mc := a.mongo
	return func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := mc.Ping(pingCtx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return apperr.ErrTimeout
			}
			return fmt.Errorf("%w: %s", apperr.ErrUnreachable, err)
		}
		return nil
	}
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		c.AllowOriginFunc = func(origin string) bool {
			host := originHost(origin)
			for _, pattern := range patterns {
				if originMatches(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		c.AllowOriginFunc = func(origin string) bool { return true }
	}
	return c
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines and closes backend connections.
func (a *App) Shutdown() {
	a.cancel()
	a.closeBackends()
}

func (a *App) closeBackends() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.mongo.Close(ctx)
		cancel()
	}
}
