package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 顧客の保存・取得を約束
type CustomerRepository interface {
	// 新規作成。email重複はErrConflict
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id int64) (*model.Customer, error)
	// emailは大文字小文字を区別しない
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	// プロフィール項目の更新
	UpdateProfile(ctx context.Context, c *model.Customer) error
	// パスワードhashを差し替え、token_versionを+1
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// token_versionを+1（ログアウトで既存セッションを失効）
	IncrementTokenVersion(ctx context.Context, id int64) error
	// 削除（カート・お気に入り・コメント・設定・トークンはCASCADE）
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}
