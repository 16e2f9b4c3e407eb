package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type FavoriteRepository interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]model.FavoriteLine, error)
	// 既に登録済みならErrConflict
	Add(ctx context.Context, customerID, productID int64) error
	Delete(ctx context.Context, customerID, productID int64) error
	DeleteAll(ctx context.Context, customerID int64) (int64, error)
	Count(ctx context.Context, customerID int64) (int64, error)
	Exists(ctx context.Context, customerID, productID int64) (bool, error)
}
