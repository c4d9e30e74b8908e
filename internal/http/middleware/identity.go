package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/sqlcart/internal/domain"
	"github.com/nikolayk812/sqlcart/internal/logger"
)

const (
	UserHeader    = "X-User-ID"
	SessionHeader = "X-Cart-Session"
	SessionCookie = "cart_session"

	identityKey = "cart.identity"
)

type IdentityMiddleware struct {
	log *logger.Logger
}

func NewIdentityMiddleware(log *logger.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{log: log.With("Middleware", "IdentityMiddleware")}
}

// Extract reads the identity of the request. The user id is set by the upstream
// auth gateway; the session token comes from the cookie, then the header.
func (im *IdentityMiddleware) Extract() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserHeader))
		token := sessionToken(c)

		var id domain.Identity
		switch {
		case userID != "":
			id = domain.AuthenticatedUser(userID, token)
		case token != "":
			id = domain.AnonymousSession(token)
		default:
			id = domain.NoIdentity()
		}

		im.log.Debug("identity extracted", "identity", id.Kind.String(), "user_id", userID, "session_token", token)

		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireUser rejects requests without an authenticated user.
func (im *IdentityMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c).Kind != domain.IdentityUser {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "authenticated user required", "code": "unauthorized"},
			})
			return
		}
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	return domain.NoIdentity()
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	return strings.TrimSpace(c.GetHeader(SessionHeader))
}
