package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 評価ごとの件数
type RatingCount struct {
	Rating int
	Count  int64
}

type CommentRepository interface {
	// 新しい順。投稿者を読み込む
	ListByProduct(ctx context.Context, productID int64) ([]model.Comment, error)
	Create(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, id int64) (model.Comment, error)
	Delete(ctx context.Context, id int64) error
	RatingCounts(ctx context.Context, productID int64) ([]RatingCount, error)
}
