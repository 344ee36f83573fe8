package mood

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/middleware"
	"github.com/moodnotes/core/internal/pkg/connectivity"
	"github.com/moodnotes/core/internal/pkg/response"
)

type Handler struct {
	svc   *Service
	guard *connectivity.Guard
}

func NewHandler(svc *Service, guard *connectivity.Guard) *Handler {
	return &Handler{svc: svc, guard: guard}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/moods", authMW)

	g.POST("", h.create)
	g.GET("", h.list)
}

// guardAllows rejects the request while the connectivity guard reports
// the backend unreachable and the user has not chosen to force offline.
func (h *Handler) guardAllows(c *gin.Context) bool {
	if h.guard == nil || h.guard.Allowed() {
		return true
	}
	response.Error(c, h.guard.Reason())
	return false
}

// POST /moods
func (h *Handler) create(c *gin.Context) {
	if !h.guardAllows(c) {
		return
	}
	var dto CreateEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	id, err := h.svc.Save(c.Request.Context(), middleware.CurrentUserID(c), dto.Mood, dto.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": id})
}

// GET /moods?start=RFC3339&end=RFC3339, both bounds or neither.
func (h *Handler) list(c *gin.Context) {
	if !h.guardAllows(c) {
		return
	}
	userID := middleware.CurrentUserID(c)

	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" && endStr == "" {
		entries, err := h.svc.List(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		out := make([]entryResponse, len(entries))
		for i, e := range entries {
			out[i] = toResponse(e)
		}
		response.OK(c, out)
		return
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		response.BadRequest(c, "invalid start time, expected RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		response.BadRequest(c, "invalid end time, expected RFC3339")
		return
	}

	entries, err := h.svc.ListRange(c.Request.Context(), userID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = toResponse(e)
	}
	response.OK(c, out)
}
