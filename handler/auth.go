package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/AnTengye/casebrief/config"
	"github.com/AnTengye/casebrief/middleware"
	"github.com/AnTengye/casebrief/pkg/logger"
	"github.com/gin-gonic/gin"
)

// viewerName is the identity recorded in tokens issued for the shared
// access code.
const viewerName = "viewer"

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type LoginRequest struct {
	AccessCode string `json:"access_code" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Viewer    string `json:"viewer"`
}

// Login exchanges the access code for a viewer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !h.checkCode(req.AccessCode) {
		logger.Warn(c.Request.Context(), "login rejected", "client_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access code"})
		return
	}

	token, expiresAt, err := middleware.GenerateToken(viewerName, &h.config.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Viewer:    viewerName,
	})
}

// LoginPage renders the access code form
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Next": safeNext(c.Query("next")),
	})
}

// LoginForm handles the access code form and sets the session cookie
func (h *AuthHandler) LoginForm(c *gin.Context) {
	next := safeNext(c.PostForm("next"))

	if !h.checkCode(c.PostForm("access_code")) {
		logger.Warn(c.Request.Context(), "login rejected", "client_ip", c.ClientIP())
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Next":  next,
			"Error": "Invalid access code",
		})
		return
	}

	token, expiresAt, err := middleware.GenerateToken(viewerName, &h.config.Auth)
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, next)
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

// GetCurrentViewer returns the viewer bound to the token
func (h *AuthHandler) GetCurrentViewer(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"viewer": middleware.GetViewer(c),
	})
}

func (h *AuthHandler) checkCode(code string) bool {
	expected := h.config.Auth.AccessCode
	if expected == "" || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(expected)) == 1
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
