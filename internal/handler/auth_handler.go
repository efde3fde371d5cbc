package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/middleware"
	"github.com/GTDGit/ministore_api/internal/service"
	"github.com/GTDGit/ministore_api/internal/utils"
)

type AuthHandler struct {
	authService *service.AdminAuthService
	limiter     *middleware.LoginRateLimiter
}

func NewAuthHandler(authService *service.AdminAuthService, limiter *middleware.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Correo y contraseña requeridos")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidLogin) {
			h.limiter.RecordFailure(c.ClientIP())
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Credenciales inválidas")
			return
		}
		log.Error().Err(err).Str("request_id", utils.RequestID(c)).Msg("Login failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Error al iniciar sesión")
		return
	}

	h.limiter.Reset(c.ClientIP())
	utils.Success(c, 200, "Inicio de sesión exitoso", result)
}
