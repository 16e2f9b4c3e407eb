package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type resetTokenGormRepository struct {
	db *gorm.DB //DB接続（GORM）
}

// GORM実装
func NewResetTokenRepository(db *gorm.DB) repo.ResetTokenRepository {
	return &resetTokenGormRepository{db: db}
}

// 再設定トークンを保存
func (r *resetTokenGormRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	//タイムアウトやキャンセルをDB処理に伝える
	if err := r.db.WithContext(ctx).Omit("Customer").Create(token).Error; err != nil {
		return err
	}
	return nil
}

// token_hashで1件検索します。
func (r *resetTokenGormRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken

	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&token).Error
	if err != nil {
		return nil, notFound(err)
	}

	return &token, nil
}

// usedを立てて「使用済み」にします。
func (r *resetTokenGormRepository) MarkUsed(ctx context.Context, tokenID int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("id = ? AND used = ?", tokenID, false).
		Update("used", true)

	if result.Error != nil {
		return result.Error
	}

	// 更新件数が0なら先に誰かが使った
	if result.RowsAffected == 0 {
		return repo.ErrConflict
	}

	return nil
}

// 指定顧客の未使用トークンを全削除します。
func (r *resetTokenGormRepository) DeleteUnusedByCustomer(ctx context.Context, customerID int64) error {
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND used = ?", customerID, false).
		Delete(&model.PasswordResetToken{}).Error; err != nil {
		return err
	}
	return nil
}

// 使用済み・期限切れを掃除
func (r *resetTokenGormRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("used = ? OR expires_at <= ?", true, now).
		Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
