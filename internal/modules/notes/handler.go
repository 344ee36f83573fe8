package notes

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/models"
	"github.com/moodnotes/core/internal/notestore"
	"github.com/moodnotes/core/internal/pkg/apperr"
	"github.com/moodnotes/core/internal/pkg/response"
	"go.uber.org/zap"
)

var errPersist = errors.New("could not persist notes")

// Handler exposes the local note store. The store itself does not lock;
// the UI it models only ever issues one mutation at a time, so the
// handler holds that obligation here with a single mutation mutex.
type Handler struct {
	store  *notestore.Store
	logger *zap.Logger
	mu     sync.Mutex
}

func NewHandler(store *notestore.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/notes")

	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.GET("/:date", h.get)
	g.PUT("/:date", h.save)
	g.DELETE("/:date", h.delete)
}

// GET /notes
func (h *Handler) list(c *gin.Context) {
	h.mu.Lock()
	snapshot := h.store.Snapshot()
	h.mu.Unlock()
	response.OK(c, gin.H{"data": snapshot})
}

// GET /notes/stats?month=YYYY-MM
func (h *Handler) stats(c *gin.Context) {
	month := c.Query("month")
	if !ValidMonthKey(month) {
		response.UnprocessableEntity(c, "invalid month, expected YYYY-MM")
		return
	}
	h.mu.Lock()
	snapshot := h.store.Snapshot()
	h.mu.Unlock()
	response.OK(c, monthlyStats(snapshot, month))
}

// GET /notes/:date
func (h *Handler) get(c *gin.Context) {
	date := c.Param("date")
	if !models.ValidDateKey(date) {
		response.UnprocessableEntity(c, "invalid date key, expected YYYY-MM-DD")
		return
	}
	h.mu.Lock()
	record, ok := h.store.Get(date)
	h.mu.Unlock()
	if !ok {
		response.NotFound(c)
		return
	}
	response.OK(c, record)
}

// PUT /notes/:date inserts or fully replaces. An empty body is a valid
// record, not a delete.
func (h *Handler) save(c *gin.Context) {
	var dto SaveNoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	record := models.NoteRecord{Text: dto.Text, Mood: models.Mood(dto.Mood)}

	h.mu.Lock()
	err := h.store.SaveNote(c.Param("date"), record)
	h.mu.Unlock()
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, record)
}

// DELETE /notes/:date. Removing an absent key is a successful no-op.
func (h *Handler) delete(c *gin.Context) {
	h.mu.Lock()
	err := h.store.DeleteNote(c.Param("date"))
	h.mu.Unlock()
	if err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

// fail maps validation errors through, but hides blob write failures
// behind a stable retryable message with the cause logged.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, apperr.ErrInvalidDate) || errors.Is(err, apperr.ErrInvalidMood) {
		response.Error(c, err)
		return
	}
	h.logger.Error("notes blob write failed", zap.Error(err))
	response.InternalError(c, errPersist)
}
