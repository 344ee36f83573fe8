package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/moodnotes/core/internal/middleware"
	"github.com/moodnotes/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/forgot-password", h.forgotPassword)
	g.POST("/reset-password", h.resetPassword)

	a := g.Group("", authMW)
	a.POST("/logout", h.logout)
	a.GET("/me", h.me)
}

// POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(c.Request.Context(), dto.Email, dto.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, userResponse{ID: u.ID, Email: u.Email, Created: u.CreatedAt})
}

// POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(c.Request.Context(), dto.Email, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, loginResponse{
		Token: token,
		User:  userResponse{ID: u.ID, Email: u.Email, Created: u.CreatedAt},
	})
}

// POST /auth/logout
func (h *Handler) logout(c *gin.Context) {
	err := h.svc.Logout(middleware.CurrentUserID(c), middleware.CurrentSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GET /auth/me is the current-session value the UI switches on.
func (h *Handler) me(c *gin.Context) {
	u, sess, err := h.svc.CurrentSession(c.Request.Context(), middleware.CurrentUserID(c), middleware.CurrentSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sessionResponse{
		UserID:    u.ID,
		Email:     u.Email,
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
	})
}

// POST /auth/forgot-password
func (h *Handler) forgotPassword(c *gin.Context) {
	var dto ForgotPasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.RequestPasswordReset(c.Request.Context(), dto.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "if the account exists, a reset token has been sent"})
}

// POST /auth/reset-password
func (h *Handler) resetPassword(c *gin.Context) {
	var dto ResetPasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), dto.Token, dto.Password); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
