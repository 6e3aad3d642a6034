package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/auth"
	"github.com/ims/backend/internal/infrastructure/logger"
	"github.com/ims/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys set by JWTAuth
const (
	JWTClaimsKey  = "jwt_claims"
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator validates an access token and resolves the actor behind it
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (shared.Actor, *auth.Claims, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Authenticator Authenticator
	// SkipPaths are full paths served without a token
	SkipPaths []string
	// SkipPathPrefixes are path prefixes served without a token
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// DefaultJWTConfig skips the public endpoints of the API
func DefaultJWTConfig(authn Authenticator) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		Authenticator: authn,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/auth/register",
			"/api/v1/auth/forgot-password",
			"/api/v1/auth/reset-password",
		},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// JWTAuth requires a valid bearer access token. The resolved actor and
// claims are stored in the gin context, and the user ID in the request logger.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range cfg.SkipPaths {
			if path == p {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, shared.NewDomainError(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		actor, claims, err := cfg.Authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Warn("JWT authentication failed", zap.Error(err), zap.String("path", path))
			abortWithError(c, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(ActorKey, actor)
		c.Set(logger.GinUserIDKey, actor.ID.String())

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), actor.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles rejects actors whose role is not listed
func RequireRoles(roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := GetActor(c).RequireRole(roles...); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated actor, or an anonymous one
func GetActor(c *gin.Context) shared.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(shared.Actor); ok {
			return actor
		}
	}
	return shared.Actor{}
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// abortWithError writes the envelope for a domain error. Anything else is a 500.
func abortWithError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	if de, ok := shared.AsDomainError(err); ok {
		c.AbortWithStatusJSON(dto.GetHTTPStatus(de.Code), dto.NewErrorResponseWithRequestID(de.Code, de.Message, requestID))
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
