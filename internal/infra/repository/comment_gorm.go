package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type CommentGormRepository struct {
	db *gorm.DB
}

func NewCommentGormRepository(db *gorm.DB) *CommentGormRepository {
	return &CommentGormRepository{db: db}
}

// 新しい順。表示名のために投稿者も読む
func (r *CommentGormRepository) ListByProduct(ctx context.Context, productID int64) ([]model.Comment, error) {
	var comments []model.Comment

	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("product_id = ?", productID).
		Order("created_at desc, id desc").
		Find(&comments).Error; err != nil {
		return []model.Comment{}, err
	}
	return comments, nil
}

func (r *CommentGormRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Omit("Product", "Customer").Create(c).Error
}

func (r *CommentGormRepository) FindByID(ctx context.Context, id int64) (model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return model.Comment{}, notFound(err)
	}
	return c, nil
}

func (r *CommentGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 評価ごとの件数（GROUP BY rating）
func (r *CommentGormRepository) RatingCounts(ctx context.Context, productID int64) ([]repo.RatingCount, error) {
	var rows []repo.RatingCount

	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Group("rating").
		Order("rating asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
