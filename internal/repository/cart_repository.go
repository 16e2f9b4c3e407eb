package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 顧客×商品のカート明細
type CartRepository interface {
	// 商品情報付きで一覧
	ListByCustomer(ctx context.Context, customerID int64) ([]model.CartLine, error)
	// 同一商品は数量加算（INSERT ... ON CONFLICT DO UPDATE）
	AddQuantity(ctx context.Context, customerID, productID, qty int64) error
	// 数量を置き換え。明細が無ければErrNotFound
	SetQuantity(ctx context.Context, customerID, productID, qty int64) error
	// 1行削除。無ければErrNotFound
	Delete(ctx context.Context, customerID, productID int64) error
	// 全削除。削除件数を返す
	DeleteAll(ctx context.Context, customerID int64) (int64, error)
	// 数量の合計
	SumQuantity(ctx context.Context, customerID int64) (int64, error)
	Exists(ctx context.Context, customerID, productID int64) (bool, error)
}
