package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/models"
	sessionpkg "github.com/moodnotes/core/internal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserSession{}))
	return db
}

func newAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUserID(c), "session": CurrentSessionID(c)})
	})
	return r
}

func TestAuthAcceptsLiveSession(t *testing.T) {
	db := newTestDB(t)
	token, _, err := sessionpkg.Issue(db, "user-1", "", "", time.Hour)
	require.NoError(t, err)

	r := newAuthRouter(db)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthRejectsMissingToken(t *testing.T) {
	r := newAuthRouter(newTestDB(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	db := newTestDB(t)
	token, sess, err := sessionpkg.Issue(db, "user-1", "", "", time.Hour)
	require.NoError(t, err)
	require.NoError(t, sessionpkg.Revoke(db, "user-1", sess.ID))

	r := newAuthRouter(db)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthAcceptsQueryToken(t *testing.T) {
	db := newTestDB(t)
	token, _, err := sessionpkg.Issue(db, "user-1", "", "", time.Hour)
	require.NoError(t, err)

	r := newAuthRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "abc", NormalizeToken("abc"))
	assert.Equal(t, "abc", NormalizeToken("  Bearer abc  "))
	assert.Equal(t, "abc", NormalizeToken("bearer abc"))
	assert.Equal(t, "", NormalizeToken("  "))
}
