package http

import (
	"net/http"
	"strings"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const userKey = "pos.user"

// Authenticate resolves the bearer token through the identity provider and
// stores the user on the context.
func Authenticate(ids infra.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			return
		}

		user, err := ids.ResolveUser(c.Request.Context(), token)
		if err != nil {
			logrus.WithError(err).Warn("identity lookup failed")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Error: "identity provider unavailable"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if u := CurrentUser(c); u != nil {
			entry = entry.WithField("user_id", u.ID)
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		default:
			entry.Debug("request")
		}
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
