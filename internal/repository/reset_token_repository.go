package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// パスワード再設定トークンの保存・取得・更新・削除
type ResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error)
	// 未使用のものだけusedにする。既に使用済みならErrConflict
	MarkUsed(ctx context.Context, tokenID int64) error
	// 顧客の未使用トークンを全削除
	DeleteUnusedByCustomer(ctx context.Context, customerID int64) error
	// 使用済み or 期限切れを削除
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}
