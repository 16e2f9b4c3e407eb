package usecase

import (
	"net/http"

	"storefront/internal/domain/model"
)

// セッション（JWT）から取り出した操作者
type Actor struct {
	CustomerID int64
	Role       model.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// パスやbodyのcustomerIdは本人（またはADMIN）のときだけ受け付ける
func authorizeCustomer(a Actor, customerID int64) error {
	if a.CustomerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if customerID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}
	if a.CustomerID != customerID && !a.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return nil
}
