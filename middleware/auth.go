package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AnTengye/casebrief/config"
	"github.com/AnTengye/casebrief/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie carries the viewer token for browser page requests.
const TokenCookie = "casebrief_token"

// Claims represents the JWT claims
type Claims struct {
	Viewer string `json:"viewer"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed viewer token.
func GenerateToken(viewer string, cfg *config.AuthConfig) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(cfg.TokenExpireHours) * time.Hour)

	claims := Claims{
		Viewer: viewer,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseToken validates tokenString and returns its claims.
func ParseToken(tokenString string, cfg *config.AuthConfig) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// AuthMiddleware validates the viewer token on API routes. The token is read
// from the Authorization header, falling back to the session cookie.
func AuthMiddleware(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := ParseToken(tokenString, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		setViewer(c, claims.Viewer)
		c.Next()
	}
}

// PageAuth guards HTML pages: a missing or invalid token redirects to
// loginPath with the original location in the "next" parameter.
func PageAuth(cfg *config.AuthConfig, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := c.Cookie(TokenCookie)
		claims, err := ParseToken(tokenString, cfg)
		if tokenString == "" || err != nil {
			target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		setViewer(c, claims.Viewer)
		c.Next()
	}
}

// bearerToken returns the token from "Authorization: Bearer <token>" or the
// session cookie. ok is false when a header is present but malformed.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		cookie, _ := c.Cookie(TokenCookie)
		return cookie, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func setViewer(c *gin.Context, viewer string) {
	c.Set("viewer", viewer)
	ctx := context.WithValue(c.Request.Context(), logger.ViewerKey, viewer)
	c.Request = c.Request.WithContext(ctx)
}

// GetViewer gets the viewer from context
func GetViewer(c *gin.Context) string {
	if viewer, exists := c.Get("viewer"); exists {
		return viewer.(string)
	}
	return ""
}
