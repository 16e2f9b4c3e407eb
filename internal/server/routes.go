package server

import (
	"net/http"

	"storefront/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health        *handler.HealthHandler
	Customer      *handler.CustomerHandler
	Admin         *handler.AdminHandler
	Product       *handler.ProductHandler
	Cart          *handler.CartHandler
	Favorite      *handler.FavoriteHandler
	Comment       *handler.CommentHandler
	PasswordReset *handler.PasswordResetHandler
	Settings      *handler.SettingsHandler
	Contact       *handler.ContactHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, guards handler.Guards, metrics http.Handler) {
	h.Health.RegisterRoutes(e, metrics)

	//公開
	h.PasswordReset.RegisterRoutes(e)
	h.Contact.RegisterRoutes(e)

	//ルートごとにAuth/Adminを付ける
	h.Customer.RegisterRoutes(e, guards)
	h.Admin.RegisterRoutes(e, guards)
	h.Product.RegisterRoutes(e, guards)
	h.Comment.RegisterRoutes(e, guards)

	//グループ全体がログイン必須
	h.Cart.RegisterRoutes(e, guards)
	h.Favorite.RegisterRoutes(e, guards)
	h.Settings.RegisterRoutes(e, guards)
}
