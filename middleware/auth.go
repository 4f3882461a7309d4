package middleware

import (
	"context"
	"net/http"
	"strings"

	"restaurant-storefront/models"
	"restaurant-storefront/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// Resolver turns a bearer token into a session.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

// Authenticate attaches the caller's session to the context when a valid
// token is presented, either as a Bearer header or in the named cookie.
// Requests without a valid token pass through anonymously.
func Authenticate(resolver Resolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" && cookieName != "" {
			token, _ = c.Cookie(cookieName)
		}
		if token != "" {
			if s, err := resolver.Resolve(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, s)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// AuthRequired rejects API requests that carry no valid session.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required (Bearer <token> or session cookie)"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// PageGate redirects anonymous visitors of protected pages to /auth before
// any data is loaded.
func PageGate(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) == nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := GetSession(c)
		if s == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if s.Role == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

// GetSession returns the caller's session, or nil for anonymous requests.
func GetSession(c *gin.Context) *session.Session {
	val, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := val.(*session.Session)
	return s
}

// GetUserID extracts caller user ID from context
func GetUserID(c *gin.Context) uint {
	if s := GetSession(c); s != nil {
		return s.UserID
	}
	return 0
}
