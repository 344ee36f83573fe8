package backup

import (
	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/backups")

	g.GET("", h.list)
	g.POST("", h.create)
}

// GET /backups
func (h *Handler) list(c *gin.Context) {
	response.OK(c, h.svc.List())
}

// POST /backups
func (h *Handler) create(c *gin.Context) {
	item, err := h.svc.Create(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, item)
}
