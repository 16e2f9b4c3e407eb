package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

type CommentUsecase struct {
	comments  repo.CommentRepository
	products  repo.ProductRepository
	customers repo.CustomerRepository
	tx        repo.TransactionManager
	clock     Clock
}

func NewCommentUsecase(
	comments repo.CommentRepository,
	products repo.ProductRepository,
	customers repo.CustomerRepository,
	tx repo.TransactionManager,
) *CommentUsecase {
	return &CommentUsecase{
		comments:  comments,
		products:  products,
		customers: customers,
		tx:        tx,
		clock:     systemClock{},
	}
}

type CommentOutput struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type RatingDistribution struct {
	OneStar   int64 `json:"oneStar"`
	TwoStar   int64 `json:"twoStar"`
	ThreeStar int64 `json:"threeStar"`
	FourStar  int64 `json:"fourStar"`
	FiveStar  int64 `json:"fiveStar"`
}

type CommentStats struct {
	ProductID          int64              `json:"productId"`
	TotalComments      int64              `json:"totalComments"`
	AverageRating      float64            `json:"averageRating"`
	RatingDistribution RatingDistribution `json:"ratingDistribution"`
}

type CreateCommentInput struct {
	ProductID int64
	Rating    int
	Body      string
}

// 新しい順
func (u *CommentUsecase) List(ctx context.Context, productID int64) ([]CommentOutput, error) {
	if productID <= 0 {
		return []CommentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	list, err := u.comments.ListByProduct(ctx, productID)
	if err != nil {
		return []CommentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]CommentOutput, 0, len(list))
	for _, c := range list {
		out = append(out, toCommentOutput(c, c.Customer))
	}
	return out, nil
}

// 投稿者はセッションの顧客
func (u *CommentUsecase) Create(ctx context.Context, actor Actor, in CreateCommentInput) (CommentOutput, error) {
	if actor.CustomerID <= 0 {
		return CommentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CommentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return CommentOutput{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return CommentOutput{}, NewHTTPError(http.StatusBadRequest, "comment body required")
	}

	ok, err := u.products.Exists(ctx, in.ProductID)
	if err != nil {
		return CommentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return CommentOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	author, err := u.customers.FindByID(ctx, actor.CustomerID)
	if errors.Is(err, repo.ErrNotFound) {
		return CommentOutput{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return CommentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	c := model.Comment{
		ProductID:  in.ProductID,
		CustomerID: actor.CustomerID,
		Rating:     in.Rating,
		Body:       body,
		CreatedAt:  u.clock.Now(),
	}
	if err := u.comments.Create(ctx, &c); err != nil {
		return CommentOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logger.Info(ctx).Int64("comment_id", c.ID).Int64("product_id", c.ProductID).Int("rating", c.Rating).Msg("comment created")
	return toCommentOutput(c, author), nil
}

// 投稿者本人かADMINだけが削除できる
func (u *CommentUsecase) Delete(ctx context.Context, actor Actor, commentID int64) error {
	if actor.CustomerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if commentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid comment id")
	}

	c, err := u.comments.FindByID(ctx, commentID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "comment not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if c.CustomerID != actor.CustomerID && !actor.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	//他人のコメントを消したときだけ監査ログ（削除と同じtx）
	moderated := c.CustomerID != actor.CustomerID
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Comments().Delete(ctx, commentID); err != nil {
			return err
		}
		if !moderated {
			return nil
		}
		return writeAudit(ctx, r.AuditLogs(), actor.CustomerID, model.AuditActionDeleteComment, model.AuditResourceComment, commentID,
			toCommentOutput(c, nil), nil)
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "comment not found")
		}
		logger.Error(ctx).Err(err).Int64("comment_id", commentID).Msg("delete comment failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logger.Info(ctx).Int64("comment_id", commentID).Int64("actor_id", actor.CustomerID).Msg("comment deleted")
	return nil
}

// コメントが無ければゼロ値
func (u *CommentUsecase) Stats(ctx context.Context, productID int64) (CommentStats, error) {
	if productID <= 0 {
		return CommentStats{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	counts, err := u.comments.RatingCounts(ctx, productID)
	if err != nil {
		return CommentStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return buildCommentStats(productID, counts), nil
}

func buildCommentStats(productID int64, counts []repo.RatingCount) CommentStats {
	stats := CommentStats{ProductID: productID}

	var sum int64
	for _, rc := range counts {
		switch rc.Rating {
		case 1:
			stats.RatingDistribution.OneStar += rc.Count
		case 2:
			stats.RatingDistribution.TwoStar += rc.Count
		case 3:
			stats.RatingDistribution.ThreeStar += rc.Count
		case 4:
			stats.RatingDistribution.FourStar += rc.Count
		case 5:
			stats.RatingDistribution.FiveStar += rc.Count
		default:
			continue
		}
		stats.TotalComments += rc.Count
		sum += int64(rc.Rating) * rc.Count
	}

	if stats.TotalComments > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalComments)
	}
	return stats
}

func toCommentOutput(c model.Comment, author *model.Customer) CommentOutput {
	out := CommentOutput{
		ID:        c.ID,
		ProductID: c.ProductID,
		UserID:    c.CustomerID,
		Rating:    c.Rating,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
	if author != nil {
		out.UserName = author.FullName()
	}
	return out
}
