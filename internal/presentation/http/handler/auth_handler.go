package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pdv-api/internal/application/service"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/response"
)

// AuthHandler handles staff session requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles selecting the current staff member
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	out, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		UserID: req.UserID,
		PIN:    req.PIN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session started", response.SessionResponse{
		User:        out.User,
		AccessToken: out.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   out.ExpiresAt,
	})
}

// Me handles returning the current staff member
func (h *AuthHandler) Me(c *gin.Context) {
	actor := GetActorID(c)
	if actor == nil {
		response.Unauthorized(c, "No active session")
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), *actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved", user)
}
