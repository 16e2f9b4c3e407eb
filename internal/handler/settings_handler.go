package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/settings
type SettingsHandler struct {
	uc *usecase.SettingsUsecase
}

func NewSettingsHandler(uc *usecase.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

type SettingsRequest struct {
	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
	ProfileVisible     bool `json:"profileVisible"`
	ShareOrderHistory  bool `json:"shareOrderHistory"`
	ShareReviews       bool `json:"shareReviews"`
}

type SeedSettingsRequest struct {
	CustomerID int64 `json:"customerId" validate:"gt=0"`
}

func (h *SettingsHandler) RegisterRoutes(e *echo.Echo, guards Guards) {
	g := e.Group("/api/settings", guards.Auth...)

	g.POST("/seed", h.seed)
	g.GET("/:customerId", h.get)
	g.PUT("/:customerId", h.update)
}

func (h *SettingsHandler) get(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}

	s, err := h.uc.Get(c.Request().Context(), actorFromContext(c), customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SettingsHandler) update(c echo.Context) error {
	customerID, err := parseIDParam(c, "customerId")
	if err != nil {
		return writeError(c, err)
	}

	var req SettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	s, err := h.uc.Update(c.Request().Context(), actorFromContext(c), customerID, usecase.SettingsInput{
		EmailNotifications: req.EmailNotifications,
		SMSNotifications:   req.SMSNotifications,
		PushNotifications:  req.PushNotifications,
		ProfileVisible:     req.ProfileVisible,
		ShareOrderHistory:  req.ShareOrderHistory,
		ShareReviews:       req.ShareReviews,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// 新規作成なら201、既存なら200
func (h *SettingsHandler) seed(c echo.Context) error {
	var req SeedSettingsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	s, created, err := h.uc.Seed(c.Request().Context(), actorFromContext(c), req.CustomerID)
	if err != nil {
		return writeError(c, err)
	}
	if created {
		return c.JSON(http.StatusCreated, s)
	}
	return c.JSON(http.StatusOK, s)
}
