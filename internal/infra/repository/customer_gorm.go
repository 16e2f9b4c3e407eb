package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type customerGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewCustomerGormRepository(db *gorm.DB) repo.CustomerRepository {
	return &customerGormRepository{db: db}
}

// 顧客を新規作成。email重複はErrConflict
func (r *customerGormRepository) Create(ctx context.Context, c *model.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrConflict
	}
	return nil
}

// IDで顧客を1件取得
func (r *customerGormRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// emailで顧客を1件取得
func (r *customerGormRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *customerGormRepository) List(ctx context.Context) ([]model.Customer, error) {
	var out []model.Customer
	if err := r.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return []model.Customer{}, err
	}
	return out, nil
}

// プロフィールを更新。別顧客とemailが重なればErrConflict
func (r *customerGormRepository) UpdateProfile(ctx context.Context, c *model.Customer) error {
	email := strings.ToLower(strings.TrimSpace(c.Email))

	var dup int64
	if err := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("LOWER(email) = ? AND id <> ?", email, c.ID).
		Count(&dup).Error; err != nil {
		return err
	}
	if dup > 0 {
		return repo.ErrConflict
	}

	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"email":      email,
			"first_name": c.FirstName,
			"last_name":  c.LastName,
			"phone":      c.Phone,
		})
	if isUniqueViolation(res.Error) {
		//件数チェックの後に他の更新が入った場合
		return repo.ErrConflict
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	c.Email = email
	return nil
}

// パスワード変更。旧セッションはtoken_versionで失効させる
func (r *customerGormRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"token_version": gorm.Expr("token_version + ?", 1),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// token_versionを+1 します。
func (r *customerGormRepository) IncrementTokenVersion(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *customerGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *customerGormRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
