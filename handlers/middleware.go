package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"jobtrack-backend/auth"
	"jobtrack-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const userContextKey = "currentUser"

// UserResolver resolves a token subject to a persisted user
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireAuth resolves the bearer credential on every request to a persisted
// user and attaches it to the gin context. A missing, malformed or expired
// token, or a subject that no longer exists, all produce the same 401.
func RequireAuth(tokens *auth.TokenIssuer, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Missing or invalid credentials")
			c.Abort()
			return
		}

		userID, err := tokens.Decode(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Missing or invalid credentials")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Missing or invalid credentials")
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by RequireAuth
func CurrentUser(c *gin.Context) *models.User {
	v, _ := c.Get(userContextKey)
	user, _ := v.(*models.User)
	return user
}

// RequestLogger logs one line per request
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
