package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-api/internal/service"
	appErrors "github.com/learnhub/lms-api/pkg/errors"
	"github.com/learnhub/lms-api/pkg/response"
)

// ContextUserKey is the gin context key storing the acting principal.
const ContextUserKey = "currentUser"

// Authenticate protects routes by requiring a valid access token. The
// user behind the token subject is loaded fresh on every request and
// must currently be approved; a rejected or still-pending account is
// turned away regardless of role or route.
func Authenticate(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		principal, err := authService.ResolvePrincipal(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, principal)
		c.Next()
	}
}
