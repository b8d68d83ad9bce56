package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type JWTConfig struct {
	Secret   string
	Issuer   string // optional
	Audience string // optional
}

// userClaims accepts the standard "sub" and the legacy "id" claim some
// token issuers use for the user identifier.
type userClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

func (c *userClaims) userID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Secret == "" {
			abort(c, http.StatusInternalServerError, "Server Error")
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if raw == "" {
			abort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		claims := &userClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || tok == nil || !tok.Valid {
			abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}
		if cfg.Audience != "" && !slices.Contains(claims.Audience, cfg.Audience) {
			abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		userID := claims.userID()
		if userID == "" {
			abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
