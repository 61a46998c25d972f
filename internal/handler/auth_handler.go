package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mobigrad/teleshop/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Pin string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, codeBadRequest, "не указан PIN")
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Pin)
	if err != nil {
		if err == service.ErrInvalidPin {
			Error(c, http.StatusUnauthorized, codeUnauthorized, err.Error())
			return
		}
		FromError(c, err)
		return
	}
	Success(c, token)
}

// State GET /api/v1/auth/state
func (h *AuthHandler) State(c *gin.Context) {
	token := c.Query("token")
	if auth := c.GetHeader("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	Success(c, h.auth.State(c.Request.Context(), token))
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), c.GetString("admin_token"))
	Success(c, nil)
}
