package handlers

import (
	"net/http"

	"pubquiz/middleware"
	"pubquiz/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	authService *services.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: logger}
}

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) LoginInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "POST your email to /auth/magic-link to receive a login link",
	})
}

// RequestMagicLink always answers with the same message so responses never
// reveal whether an account exists.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email address is required"})
		return
	}

	if err := h.authService.RequestMagicLink(req.Email); err != nil {
		// Storage trouble is logged but the response stays generic.
		h.log.Error().Err(err).Msg("magic link request failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "If an account exists for " + req.Email + ", you will receive a login link shortly.",
	})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, "/auth/login?error=missing-token")
		return
	}

	user, err := h.authService.VerifyMagicLink(token)
	if err != nil {
		c.Redirect(http.StatusFound, "/auth/login?error=invalid-token")
		return
	}

	sessionToken, err := h.authService.IssueSessionToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not establish session"})
		return
	}

	c.SetCookie(middleware.SessionCookie, sessionToken, 30*24*3600, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
