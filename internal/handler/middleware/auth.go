package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"meeting-room-booking/internal/domain/auth"
	"meeting-room-booking/internal/handler/httperr"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
	accountGuard   usecase.AccountGuard
}

const ctxActorKey = "actor"

var (
	errMissingToken = errs.New("missing bearer token")
	// RequireCapability registered without RequireAuth
	errNoActor = errs.New("no actor in request context")
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator, accountGuard usecase.AccountGuard) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
		accountGuard:   accountGuard,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		actor, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("token validation failed", "request_id", GetRequestID(c), "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxActorKey, actor)
		c.Next()
	}
}

// RequireCapability must run after RequireAuth.
func (m *AuthMiddleware) RequireCapability(capability auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
			return
		}

		if !actor.Has(capability) {
			httperr.AbortWithError(c, http.StatusForbidden, errs.ErrUnauthorized, "Insufficient permissions",
				gin.H{"required": capability.Names()})
			return
		}

		c.Next()
	}
}

// RequireActiveAccount refuses employees whose account is locked.
// It must run after RequireAuth.
func (m *AuthMiddleware) RequireActiveAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
			return
		}

		if err := m.accountGuard.EnsureActive(c.Request.Context(), actor.EmployeeID()); err != nil {
			if errs.Is(err, errs.ErrEmployeeLocked) {
				slog.Info("locked employee refused", "request_id", GetRequestID(c), "employee_id", actor.EmployeeID())
			}
			httperr.AbortWithDomainError(c, err)
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetActor(c *gin.Context) (auth.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return auth.Actor{}, false
	}

	actor, ok := v.(auth.Actor)
	return actor, ok
}
