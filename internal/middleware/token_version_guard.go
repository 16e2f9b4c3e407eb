package middleware

import (
	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTのtvとDBのtoken_versionが一致するか確認。ログアウト・パスワード変更後の古いトークンを弾く
func TokenVersionGuard(customers repository.CustomerRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			customerID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || customerID <= 0 {
				return unauthorized(c)
			}

			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return unauthorized(c)
			}

			//削除済みの顧客も401
			customer, err := customers.FindByID(c.Request().Context(), customerID)
			if err != nil || customer == nil {
				return unauthorized(c)
			}

			if customer.TokenVersion != tv {
				return unauthorized(c)
			}

			//roleはDBの値を正とする
			c.Set(CtxUserRoleKey, string(customer.Role))
			return next(c)
		}
	}
}
