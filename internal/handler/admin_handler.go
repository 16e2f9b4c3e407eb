package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin（管理画面ログインと監査ログ）
type AdminHandler struct {
	cfg   config.Config
	login *auth.LoginUsecase
	audit *usecase.AuditLogUsecase
}

func NewAdminHandler(cfg config.Config, login *auth.LoginUsecase, audit *usecase.AuditLogUsecase) *AdminHandler {
	return &AdminHandler{cfg: cfg, login: login, audit: audit}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, guards Guards) {
	g := e.Group("/api/admin")

	g.POST("/login", h.adminLogin)
	g.GET("/audit-logs", h.listAuditLogs, guards.Admin...)
}

func (h *AdminHandler) adminLogin(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.login.ExecuteAdmin(c.Request().Context(), auth.LoginInput{Email: req.Email, Password: req.Password})
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

// ?actorId=&action=&resourceType=&resourceId=&from=&to=&limit=&offset=
func (h *AdminHandler) listAuditLogs(c echo.Context) error {
	q := usecase.AuditLogQuery{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resourceType"),
		From:         c.QueryParam("from"),
		To:           c.QueryParam("to"),
	}

	if v := c.QueryParam("actorId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actorId"})
		}
		q.ActorCustomerID = &id
	}
	if v := c.QueryParam("resourceId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resourceId"})
		}
		q.ResourceID = &id
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		q.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		q.Offset = n
	}

	logs, err := h.audit.List(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
