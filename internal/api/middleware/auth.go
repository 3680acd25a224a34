package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MSamoilovic/FormForge-API/internal/core/auth"
)

const (
	ContextUserID = "user_id"
	ContextUser   = "user"
	ContextScopes = "scopes"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate accepts either a bearer access token or an API key. Refresh
// tokens are rejected here; they are only good for the refresh endpoint.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		switch strings.ToLower(parts[0]) {
		case "bearer":
			m.handleJWT(c, parts[1])
		case "apikey":
			m.handleAPIKey(c, parts[1])
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unsupported authorization type"})
			return
		}
	}
}

func (m *AuthMiddleware) handleJWT(c *gin.Context, token string) {
	claims, err := m.authService.ValidateAccessToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if !m.loadUser(c, userID) {
		return
	}
	c.Next()
}

func (m *AuthMiddleware) handleAPIKey(c *gin.Context, key string) {
	apiKey, err := m.authService.ValidateAPIKey(c.Request.Context(), key)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return
	}

	c.Set(ContextScopes, apiKey.Scopes)
	if !m.loadUser(c, apiKey.UserID) {
		return
	}
	c.Next()
}

func (m *AuthMiddleware) loadUser(c *gin.Context, userID uuid.UUID) bool {
	user, err := m.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return false
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return false
	}
	if !user.IsActive {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user account is deactivated"})
		return false
	}

	c.Set(ContextUserID, user.ID)
	c.Set(ContextUser, user)
	return true
}

// RequireScope gates API-key requests on a named scope. JWT sessions carry no
// scopes and pass unrestricted.
func (m *AuthMiddleware) RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(ContextScopes)
		if !exists {
			c.Next()
			return
		}

		scopes, ok := val.([]string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "invalid scope type"})
			return
		}

		for _, s := range scopes {
			if s == scope {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient scope"})
	}
}

// Helper functions to get context values
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}

	if id, ok := val.(uuid.UUID); ok {
		return id, true
	}
	return uuid.Nil, false
}

func GetUser(c *gin.Context) (*auth.User, bool) {
	val, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}

	if user, ok := val.(*auth.User); ok {
		return user, true
	}
	return nil, false
}

func GetScopes(c *gin.Context) []string {
	val, exists := c.Get(ContextScopes)
	if !exists {
		return nil
	}

	if scopes, ok := val.([]string); ok {
		return scopes
	}
	return nil
}
