package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todoapp/internal/common"
	"todoapp/internal/server/models"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-Id"
	currentUserKey  = "current_user"
)

// requestID tags every request with an identifier, honoring one supplied
// by the caller, and reflects it back in the response header.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// requireAuth resolves the bearer token from the Authorization header into a
// user and aborts with a uniform 401 otherwise. The concrete rejection reason
// only appears in the server log.
func (h *handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.users.Authorize(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, common.ErrorUnauthorized) {
				h.logger.Warn(c.Request.Context(), "request rejected",
					"reason", err.Error(), "request_id", c.GetString(requestIDKey))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			h.logger.Error(c.Request.Context(), "authorization failed",
				"error", err.Error(), "request_id", c.GetString(requestIDKey))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the user resolved by requireAuth. Only valid on
// routes behind the auth middleware.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(currentUserKey).(*models.User)
}
