package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteGormRepository struct {
	db *gorm.DB
}

func NewFavoriteGormRepository(db *gorm.DB) *FavoriteGormRepository {
	return &FavoriteGormRepository{db: db}
}

func (r *FavoriteGormRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.FavoriteLine, error) {
	var lines []model.FavoriteLine

	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("added_at asc, id asc").
		Find(&lines).Error; err != nil {
		return []model.FavoriteLine{}, err
	}
	return lines, nil
}

// お気に入りは集合なので重複は加算せずErrConflict
func (r *FavoriteGormRepository) Add(ctx context.Context, customerID, productID int64) error {
	line := model.FavoriteLine{
		CustomerID: customerID,
		ProductID:  productID,
		AddedAt:    time.Now(),
	}

	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&line)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrConflict
	}
	return nil
}

func (r *FavoriteGormRepository) Delete(ctx context.Context, customerID, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&model.FavoriteLine{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *FavoriteGormRepository) DeleteAll(ctx context.Context, customerID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&model.FavoriteLine{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *FavoriteGormRepository) Count(ctx context.Context, customerID int64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&model.FavoriteLine{}).
		Where("customer_id = ?", customerID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *FavoriteGormRepository) Exists(ctx context.Context, customerID, productID int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&model.FavoriteLine{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
