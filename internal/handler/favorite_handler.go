package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/favori のHTTP
type FavoriteHandler struct {
	uc *usecase.FavoriteUsecase
}

func NewFavoriteHandler(uc *usecase.FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{uc: uc}
}

type FavoriteRequest struct {
	CustomerID int64 `json:"customerId" validate:"gt=0"`
	ProductID  int64 `json:"productId" validate:"gt=0"`
}

type FavoriteCountResponse struct {
	FavoriteCount int64 `json:"favoriteCount"`
}

type IsFavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

func (h *FavoriteHandler) RegisterRoutes(e *echo.Echo, guards Guards) {
	g := e.Group("/api/favori", guards.Auth...)

	g.GET("/musteri/:customerId", h.list)
	g.POST("/ekle", h.add)
	g.DELETE("/sil/:customerId/:productId", h.remove)
	g.DELETE("/temizle/:customerId", h.clear)
	g.GET("/sayisi/:customerId", h.count)
	g.GET("/kontrol/:customerId/:productId", h.check)
}

func (h *FavoriteHandler) list(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetFavorites(c.Request().Context(), actorFromContext(c), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FavoriteHandler) add(c echo.Context) error {
	var req FavoriteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AddToFavorites(c.Request().Context(), actorFromContext(c), req.CustomerID, req.ProductID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "added to favorites"})
}

func (h *FavoriteHandler) remove(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.RemoveFromFavorites(c.Request().Context(), actorFromContext(c), customerID, productID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "removed from favorites"})
}

func (h *FavoriteHandler) clear(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.ClearFavorites(c.Request().Context(), actorFromContext(c), customerID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "favorites cleared"})
}

func (h *FavoriteHandler) count(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}

	n, err := h.uc.GetFavoriteCount(c.Request().Context(), actorFromContext(c), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, FavoriteCountResponse{FavoriteCount: n})
}

func (h *FavoriteHandler) check(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return writeError(c, err)
	}

	ok, err := h.uc.IsFavorite(c.Request().Context(), actorFromContext(c), customerID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, IsFavoriteResponse{IsFavorite: ok})
}
