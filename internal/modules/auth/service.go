package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/moodnotes/core/internal/models"
	"github.com/moodnotes/core/internal/pkg/apperr"
	pkgmail "github.com/moodnotes/core/internal/pkg/mail"
	sessionpkg "github.com/moodnotes/core/internal/pkg/session"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = 30 * time.Minute

// Service owns sign-in, sign-up, sign-out and password reset. It maps
// every failure onto the closed apperr kinds; it never decides UI text.
type Service struct {
	db      *gorm.DB
	limiter AttemptLimiter
	mailer  *pkgmail.Sender
	logger  *zap.Logger

	// Delay applied after a failed credential check, slowing guessing.
	// Tests set it to zero.
	failDelay time.Duration
}

func NewService(db *gorm.DB, limiter AttemptLimiter, mailer *pkgmail.Sender, logger *zap.Logger) *Service {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		limiter:   limiter,
		mailer:    mailer,
		logger:    logger,
		failDelay: 3 * time.Second,
	}
}

// Register creates an account for the email, which becomes the identity
// that scopes every remote read and write.
func (s *Service) Register(ctx context.Context, email, password string) (*models.UserModel, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrBackend, logAndHide(s.logger, "count users", err))
	}
	if count > 0 {
		return nil, apperr.ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := models.UserModel{Email: email, Password: string(hash)}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrBackend, logAndHide(s.logger, "create user", err))
	}
	return &u, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password, ip, ua string) (string, *models.UserModel, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return "", nil, err
	}

	limitKey := email + ":" + ip
	if blocked, err := s.limiter.TooMany(ctx, limitKey); err == nil && blocked {
		return "", nil, apperr.ErrRateLimited
	}

	var u models.UserModel
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, s.failLogin(ctx, limitKey)
		}
		return "", nil, fmt.Errorf("%w: %s", apperr.ErrBackend, logAndHide(s.logger, "find user", err))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, s.failLogin(ctx, limitKey)
	}
	_ = s.limiter.Reset(ctx, limitKey)

	token, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, sessionpkg.DefaultTTL)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", apperr.ErrBackend, logAndHide(s.logger, "issue session", err))
	}

	now := time.Now()
	_ = s.db.WithContext(ctx).Model(&u).
		Updates(map[string]interface{}{"last_login_time": &now, "last_login_ip": ip}).Error

	return token, &u, nil
}

func (s *Service) failLogin(ctx context.Context, limitKey string) error {
	_ = s.limiter.RecordFailure(ctx, limitKey)
	time.Sleep(s.failDelay)
	return apperr.ErrInvalidCredentials
}

// Logout revokes the session; further requests with its token fail.
func (s *Service) Logout(userID, sessionID string) error {
	if err := sessionpkg.Revoke(s.db, userID, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrAuthRequired
		}
		return fmt.Errorf("%w: %s", apperr.ErrBackend, logAndHide(s.logger, "revoke session", err))
	}
	return nil
}

// CurrentSession resolves the active session for userID/sessionID.
func (s *Service) CurrentSession(ctx context.Context, userID, sessionID string) (*models.UserModel, *models.UserSession, error) {
	var sess models.UserSession
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL AND expires_at > ?", sessionID, userID, time.Now()).
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.ErrAuthRequired
		}
		return nil, nil, fmt.Errorf("%w: %s", apperr.ErrBackend, logAndHide(s.logger, "find session", err))
	}

	var u models.UserModel
	if err := s.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		return nil, nil, apperr.ErrAuthRequired
	}
	return &u, &sess, nil
}

// RequestPasswordReset issues a single-use token and mails it. Unknown
// emails succeed silently so the endpoint cannot be used to enumerate
// accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	var u models.UserModel
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %s", apperr.ErrBackend, logAndHide(s.logger, "find user", err))
	}

	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	token := hex.EncodeToString(b)

	rec := models.PasswordResetToken{
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrBackend, logAndHide(s.logger, "create reset token", err))
	}

	if s.mailer != nil {
		if err := s.mailer.Send(pkgmail.Message{
			To:      []string{u.Email},
			Subject: "Mood Diary password reset",
			Text:    "Use this token to reset your password: " + token + "\nIt expires in 30 minutes.",
		}); err != nil {
			s.logger.Warn("reset mail failed", zap.Error(err))
		}
	}
	return nil
}

// ResetPassword consumes a reset token and revokes all open sessions.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	var rec models.PasswordResetToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND used_at IS NULL AND expires_at > ?", strings.TrimSpace(token), time.Now()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrInvalidCredentials
		}
		return fmt.Errorf("%w: %s", apperr.ErrBackend, logAndHide(s.logger, "find reset token", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserModel{}).
			Where("id = ?", rec.UserID).Update("password", string(hash)).Error; err != nil {
			return err
		}
		if err := tx.Model(&rec).Update("used_at", &now).Error; err != nil {
			return err
		}
		return tx.Model(&models.UserSession{}).
			Where("user_id = ? AND revoked_at IS NULL", rec.UserID).
			Update("revoked_at", &now).Error
	})
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.ErrEmailInvalid
	}
	return email, nil
}

// logAndHide records the underlying cause and returns a stable label
// for the wrapped error, keeping backend shapes out of responses.
func logAndHide(logger *zap.Logger, op string, err error) string {
	logger.Error("auth backend error", zap.String("op", op), zap.Error(err))
	return op
}
