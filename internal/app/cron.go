package app

import (
	"context"
	"time"

	pkgcron "github.com/moodnotes/core/internal/pkg/cron"
	"github.com/moodnotes/core/internal/pkg/session"
	"go.uber.org/zap"
)

// registerCronJobs registers the scheduled jobs for the active mode.
func (a *App) registerCronJobs() {
	cronLogger := a.logger.Named("cron")

	if a.cfg.IsRemote() {
		a.sched.Register(pkgcron.Job{
			Name:        "cleanup_sessions",
			Description: "delete long-expired sessions and stale reset tokens",
			Interval:    24 * time.Hour,
			Fn: func(ctx context.Context) error {
				deleted, err := session.CleanupExpired(a.db, 24*time.Hour)
				if err != nil {
					cronLogger.Warn("session cleanup failed", zap.Error(err))
					return err
				}
				cronLogger.Info("session cleanup done", zap.Int64("deleted", deleted))
				return nil
			},
		})
		return
	}

	if a.cfg.Backup.Enable && a.backupSvc != nil {
		svc := a.backupSvc
		a.sched.Register(pkgcron.Job{
			Name:        "backup_notes",
			Description: "archive the notes blob into the backups directory",
			Interval:    time.Duration(a.cfg.Backup.IntervalHours) * time.Hour,
			Fn: func(ctx context.Context) error {
				item, err := svc.Create(ctx)
				if err != nil {
					cronLogger.Warn("notes backup failed", zap.Error(err))
					return err
				}
				cronLogger.Info("notes backup written",
					zap.String("filename", item.Filename),
					zap.String("size", item.Size),
				)
				return nil
			},
		})
	}
}
