package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/goldline/production-tracker/internal/core/domain"
)

// RBAC admits a request when the role Auth stored on the context is one of
// roles, compared without case. Anything else is domain.ErrForbidden, which
// the error handler renders as 403.
func RBAC(roles ...string) echo.MiddlewareFunc {
	permitted := make(map[string]bool, len(roles))
	for _, r := range roles {
		permitted[strings.ToLower(strings.TrimSpace(r))] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" || !permitted[strings.ToLower(role)] {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
