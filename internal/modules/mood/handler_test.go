package mood

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/middleware"
	"github.com/moodnotes/core/internal/pkg/apperr"
	"github.com/moodnotes/core/internal/pkg/connectivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMoodRouter(repo Repository, guard *connectivity.Guard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authStub := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, "user-1")
		c.Next()
	}
	NewHandler(NewService(repo, nil), guard).RegisterRoutes(r.Group("/api/v1"), authStub)
	return r
}

func doMood(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func unreachableGuard(t *testing.T) *connectivity.Guard {
	t.Helper()
	g := connectivity.New(connectivity.Options{
		Probe:     func(context.Context) error { return apperr.ErrUnreachable },
		NetworkUp: func() bool { return true },
	})
	require.Error(t, g.Check(context.Background()))
	require.False(t, g.Allowed())
	return g
}

func TestCreateRejectedWhileDisconnected(t *testing.T) {
	repo := &fakeRepo{}
	r := newMoodRouter(repo, unreachableGuard(t))

	w := doMood(r, http.MethodPost, "/api/v1/moods", `{"mood":"happy","note":"x"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), apperr.ErrUnreachable.Error(),
		"response carries the guard's last failure reason")
	assert.Zero(t, repo.calls, "no backend call may be issued while disconnected")
}

func TestListRejectedWhileDisconnected(t *testing.T) {
	repo := &fakeRepo{}
	r := newMoodRouter(repo, unreachableGuard(t))

	w := doMood(r, http.MethodGet, "/api/v1/moods", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Zero(t, repo.calls)
}

func TestCreatePassesWhenConnected(t *testing.T) {
	repo := &fakeRepo{}
	g := connectivity.New(connectivity.Options{
		Probe:     func(context.Context) error { return nil },
		NetworkUp: func() bool { return true },
	})
	require.NoError(t, g.Check(context.Background()))
	r := newMoodRouter(repo, g)

	w := doMood(r, http.MethodPost, "/api/v1/moods", `{"mood":"happy","note":"x"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "id-1")
	assert.Equal(t, 1, repo.calls)
}

func TestProceedOfflineReopensRoutes(t *testing.T) {
	repo := &fakeRepo{}
	g := connectivity.New(connectivity.Options{
		Probe:     func(context.Context) error { return apperr.ErrTimeout },
		NetworkUp: func() bool { return true },
		Sleep:     func(context.Context, time.Duration) error { return nil },
	})
	g.Run(context.Background())
	require.True(t, g.Status().AwaitingDecision)
	require.NoError(t, g.Resolve(context.Background(), connectivity.ResolutionOffline))

	r := newMoodRouter(repo, g)
	w := doMood(r, http.MethodPost, "/api/v1/moods", `{"mood":"calm","note":""}`)

	assert.Equal(t, http.StatusCreated, w.Code,
		"a forced-offline guard lets requests reach the backend")
	assert.Equal(t, 1, repo.calls)
}

func TestNilGuardNeverBlocks(t *testing.T) {
	repo := &fakeRepo{}
	r := newMoodRouter(repo, nil)

	w := doMood(r, http.MethodGet, "/api/v1/moods", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
