package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/passwordreset。ログイン不要
type PasswordResetHandler struct {
	uc *usecase.PasswordResetUsecase
}

func NewPasswordResetHandler(uc *usecase.PasswordResetUsecase) *PasswordResetHandler {
	return &PasswordResetHandler{uc: uc}
}

type ResetRequestRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetConfirmRequest struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

func (h *PasswordResetHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/passwordreset")

	g.POST("/request", h.request)
	g.GET("/validate", h.validate)
	g.POST("/confirm", h.confirm)
}

func (h *PasswordResetHandler) request(c echo.Context) error {
	var req ResetRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.RequestReset(c.Request().Context(), req.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PasswordResetHandler) validate(c echo.Context) error {
	out, err := h.uc.ValidateToken(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PasswordResetHandler) confirm(c echo.Context) error {
	var req ResetConfirmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ConfirmReset(c.Request().Context(), usecase.ConfirmResetInput{
		Token:           req.Token,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
