package handler

import (
	"errors"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /api/musteri（会員登録・ログイン・プロフィール）
type CustomerHandler struct {
	cfg      config.Config
	register *auth.RegisterUserUsecase
	login    *auth.LoginUsecase
	logout   *auth.LogoutUsecase
	uc       *usecase.CustomerUsecase
}

func NewCustomerHandler(
	cfg config.Config,
	register *auth.RegisterUserUsecase,
	login *auth.LoginUsecase,
	logout *auth.LogoutUsecase,
	uc *usecase.CustomerUsecase,
) *CustomerHandler {
	return &CustomerHandler{
		cfg:      cfg,
		register: register,
		login:    login,
		logout:   logout,
		uc:       uc,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=30"`
	Email     string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// パスワードhashは返さない
type CustomerResponse struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	FullName  string     `json:"fullName"`
	Phone     string     `json:"phone"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

type LoginResponse struct {
	Customer  CustomerResponse `json:"customer"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

func toCustomerResponse(c model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Phone:     c.Phone,
		Role:      c.Role,
		CreatedAt: c.CreatedAt,
	}
}

func (h *CustomerHandler) RegisterRoutes(e *echo.Echo, guards Guards) {
	g := e.Group("/api/musteri")

	g.POST("/register", h.registerCustomer)
	g.POST("/login", h.loginCustomer)

	g.POST("/logout", h.logoutCustomer, guards.Auth...)
	g.GET("/me", h.me, guards.Auth...)
	g.GET("/:id", h.get, guards.Auth...)
	g.PUT("/:id", h.updateProfile, guards.Auth...)
	g.PUT("/:id/password", h.changePassword, guards.Auth...)

	g.GET("", h.list, guards.Admin...)
	g.DELETE("/:id", h.delete, guards.Admin...)
}

func (h *CustomerHandler) registerCustomer(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	customer, err := h.register.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

func (h *CustomerHandler) loginCustomer(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.login.Execute(c.Request().Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return writeAuthError(c, err)
	}

	setSessionCookie(c, h.cfg, out.Token, out.ExpiresAt)
	return c.JSON(http.StatusOK, LoginResponse{
		Customer:  toCustomerResponse(out.Customer),
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
	})
}

// token_versionを上げるので発行済みトークンは全て無効
func (h *CustomerHandler) logoutCustomer(c echo.Context) error {
	customerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.logout.Execute(c.Request().Context(), customerID); err != nil {
		return writeAuthError(c, err)
	}

	clearSessionCookie(c, h.cfg)
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

func (h *CustomerHandler) me(c echo.Context) error {
	customer, err := h.uc.Me(c.Request().Context(), actorFromContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	customer, err := h.uc.GetByID(c.Request().Context(), actorFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) list(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	out := make([]CustomerResponse, 0, len(list))
	for _, cu := range list {
		out = append(out, toCustomerResponse(cu))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) updateProfile(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	customer, err := h.uc.UpdateProfile(c.Request().Context(), actorFromContext(c), id, usecase.UpdateProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) changePassword(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ChangePassword(c.Request().Context(), actorFromContext(c), id, usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return writeError(c, err)
	}

	//自分のパスワードを変えたときは今のCookieも無効になっている
	if actorFromContext(c).CustomerID == id {
		clearSessionCookie(c, h.cfg)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AdminDelete(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// auth_usecaseのsentinelをHTTPへ
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidEmailFormat),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrFullNameRequired):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrNotAdmin):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(c.Request().Context()).Err(err).Msg("auth failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func setSessionCookie(c echo.Context, cfg config.Config, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context, cfg config.Config) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
