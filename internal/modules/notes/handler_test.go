package notes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/models"
	"github.com/moodnotes/core/internal/notestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*gin.Engine, *notestore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := notestore.New(filepath.Join(t.TempDir(), "notes.json"), zap.NewNop())
	store.Load()

	r := gin.New()
	NewHandler(store, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"))
	return r, store
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
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

func TestSaveThenGet(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPut, "/api/v1/notes/2025-03-14", `{"text":"good day","mood":"happy"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/notes/2025-03-14", "")
	require.Equal(t, http.StatusOK, w.Code)

	var rec models.NoteRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "good day", rec.Text)
	assert.Equal(t, models.MoodHappy, rec.Mood)
}

func TestGetAbsentIs404(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/notes/2025-03-14", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveInvalidDateKey(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPut, "/api/v1/notes/14-03-2025", `{"text":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSaveInvalidMood(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPut, "/api/v1/notes/2025-03-14", `{"text":"x","mood":"ecstatic"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSaveMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodPut, "/api/v1/notes/2025-03-14", `{"text":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteIsIdempotent(t *testing.T) {
	r, store := newTestRouter(t)

	require.NoError(t, store.SaveNote("2025-03-14", models.NoteRecord{Text: "x"}))

	w := do(r, http.MethodDelete, "/api/v1/notes/2025-03-14", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/notes/2025-03-14", "")
	assert.Equal(t, http.StatusNoContent, w.Code, "deleting an absent key succeeds")

	assert.Equal(t, 0, store.Len())
}

func TestMonthlyStatsAggregation(t *testing.T) {
	r, store := newTestRouter(t)

	seed := map[string]models.NoteRecord{
		"2025-03-01": {Text: "a", Mood: models.MoodHappy},
		"2025-03-02": {Text: "b", Mood: models.MoodHappy},
		"2025-03-03": {Text: "c", Mood: models.MoodSad},
		"2025-03-04": {Text: "d", Mood: models.MoodCalm},
		"2025-03-05": {Text: "no mood"},
		"2025-04-01": {Text: "other month", Mood: models.MoodAngry},
	}
	for date, rec := range seed {
		require.NoError(t, store.SaveNote(date, rec))
	}

	w := do(r, http.MethodGet, "/api/v1/notes/stats?month=2025-03", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats MonthlyStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "2025-03", stats.Month)
	assert.Equal(t, 5, stats.Total, "mood-less records count toward the total")
	assert.Equal(t, 4, stats.WithMood)
	require.Len(t, stats.Moods, 3, "moods outside the month are excluded")
	assert.Equal(t, 2, stats.Moods[models.MoodHappy].Count)
	assert.InDelta(t, 50.0, stats.Moods[models.MoodHappy].Percent, 0.01)
	assert.InDelta(t, 25.0, stats.Moods[models.MoodSad].Percent, 0.01)
	assert.InDelta(t, 25.0, stats.Moods[models.MoodCalm].Percent, 0.01)
}

func TestMonthlyStatsEmptyMonth(t *testing.T) {
	r, store := newTestRouter(t)
	require.NoError(t, store.SaveNote("2025-03-01", models.NoteRecord{Text: "x", Mood: models.MoodHappy}))

	w := do(r, http.MethodGet, "/api/v1/notes/stats?month=2024-12", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats MonthlyStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.WithMood)
	assert.Empty(t, stats.Moods)
}

func TestMonthlyStatsPercentRounding(t *testing.T) {
	snapshot := map[string]models.NoteRecord{
		"2025-03-01": {Mood: models.MoodHappy},
		"2025-03-02": {Mood: models.MoodSad},
		"2025-03-03": {Mood: models.MoodCalm},
	}

	stats := monthlyStats(snapshot, "2025-03")
	assert.InDelta(t, 33.3, stats.Moods[models.MoodHappy].Percent, 0.01, "thirds round to one decimal")
}

func TestMonthlyStatsInvalidMonth(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, q := range []string{"", "2025", "2025-13", "03-2025", "2025-03-14"} {
		w := do(r, http.MethodGet, "/api/v1/notes/stats?month="+q, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "month %q", q)
	}
}

func TestListReturnsAllRecords(t *testing.T) {
	r, store := newTestRouter(t)

	require.NoError(t, store.SaveNote("2025-03-14", models.NoteRecord{Text: "a", Mood: models.MoodCalm}))
	require.NoError(t, store.SaveNote("2025-03-15", models.NoteRecord{Text: "b"}))

	w := do(r, http.MethodGet, "/api/v1/notes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data map[string]models.NoteRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "a", body.Data["2025-03-14"].Text)
	assert.Equal(t, models.MoodCalm, body.Data["2025-03-14"].Mood)
}
