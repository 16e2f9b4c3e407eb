package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/sepet のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type CartRequest struct {
	CustomerID int64 `json:"customerId" validate:"gt=0"`
	ProductID  int64 `json:"productId" validate:"gt=0"`
	Quantity   int64 `json:"quantity"`
}

type CartCountResponse struct {
	CartCount int64 `json:"cartCount"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, guards Guards) {
	g := e.Group("/api/sepet", guards.Auth...)

	g.GET("/musteri/:customerId", h.getCart)
	g.POST("/ekle", h.add)
	g.PUT("/guncelle", h.update)
	g.DELETE("/sil/:customerId/:productId", h.remove)
	g.DELETE("/temizle/:customerId", h.clear)
	g.GET("/sayisi/:customerId", h.count)
}

func (h *CartHandler) getCart(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetCart(c.Request().Context(), actorFromContext(c), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	var req CartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	err := h.uc.AddToCart(c.Request().Context(), actorFromContext(c), usecase.AddCartInput{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "added to cart"})
}

func (h *CartHandler) update(c echo.Context) error {
	var req CartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	err := h.uc.UpdateCartQuantity(c.Request().Context(), actorFromContext(c), usecase.UpdateCartInput{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "cart updated"})
}

func (h *CartHandler) remove(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.RemoveFromCart(c.Request().Context(), actorFromContext(c), customerID, productID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "removed from cart"})
}

func (h *CartHandler) clear(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.ClearCart(c.Request().Context(), actorFromContext(c), customerID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "cart cleared"})
}

func (h *CartHandler) count(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}

	n, err := h.uc.GetCartCount(c.Request().Context(), actorFromContext(c), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CartCountResponse{CartCount: n})
}
