package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/comments。一覧と集計は公開、投稿と削除はログイン必須
type CommentHandler struct {
	uc *usecase.CommentUsecase
}

func NewCommentHandler(uc *usecase.CommentUsecase) *CommentHandler {
	return &CommentHandler{uc: uc}
}

type CreateCommentRequest struct {
	ProductID int64  `json:"productId" validate:"gt=0"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
	Body      string `json:"body" validate:"required,max=2000"`
}

func (h *CommentHandler) RegisterRoutes(e *echo.Echo, guards Guards) {
	g := e.Group("/api/comments")

	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.POST("", h.create, guards.Auth...)
	g.DELETE("/:id", h.delete, guards.Auth...)
	g.DELETE("/admin/:id", h.delete, guards.Admin...)
}

func (h *CommentHandler) list(c echo.Context) error {
	productID, err := parseIDQuery(c, "productId")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommentHandler) stats(c echo.Context) error {
	productID, err := parseIDQuery(c, "productId")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Stats(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 投稿者はセッションの顧客（bodyやヘッダのIDは見ない）
func (h *CommentHandler) create(c echo.Context) error {
	var req CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Create(c.Request().Context(), actorFromContext(c), usecase.CreateCommentInput{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Body:      req.Body,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CommentHandler) delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Delete(c.Request().Context(), actorFromContext(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "comment deleted"})
}
