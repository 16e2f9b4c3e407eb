package middleware

import (
	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// TokenVersionGuardがDBから入れたroleで判定
func RequireRole(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)
			if role == "" {
				return unauthorized(c)
			}

			for _, r := range allowed {
				if model.Role(role) == r {
					return next(c)
				}
			}
			return forbidden(c, "insufficient role")
		}
	}
}

func AdminRoleGuard() echo.MiddlewareFunc {
	return RequireRole(model.RoleAdmin)
}
