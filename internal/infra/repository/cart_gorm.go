package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 顧客のカート明細を商品付きで取得
func (r *CartGormRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	var lines []model.CartLine

	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("added_at asc, id asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}

	return lines, nil
}

// 同一商品は数量加算。
// ユニーク制約(customer_id, product_id)にぶつかったら既存行に足す1文のupsert
func (r *CartGormRepository) AddQuantity(ctx context.Context, customerID, productID, qty int64) error {
	if qty <= 0 {
		return errors.New("invalid quantity")
	}

	line := model.CartLine{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   qty,
		AddedAt:    time.Now(),
	}

	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_lines.quantity + excluded.quantity"),
			}),
		}).
		Create(&line).Error
}

// 明細の数量を置き換え
func (r *CartGormRepository) SetQuantity(ctx context.Context, customerID, productID, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartGormRepository) Delete(ctx context.Context, customerID, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&model.CartLine{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 顧客の明細を全削除
func (r *CartGormRepository) DeleteAll(ctx context.Context, customerID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&model.CartLine{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// バッジ用の合計数量。保存しておかず毎回集計する
func (r *CartGormRepository) SumQuantity(ctx context.Context, customerID int64) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("customer_id = ?", customerID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *CartGormRepository) Exists(ctx context.Context, customerID, productID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
