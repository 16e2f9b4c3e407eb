package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsGormRepository struct {
	db *gorm.DB
}

func NewSettingsGormRepository(db *gorm.DB) *SettingsGormRepository {
	return &SettingsGormRepository{db: db}
}

func (r *SettingsGormRepository) FindByCustomer(ctx context.Context, customerID int64) (model.CustomerSettings, error) {
	var s model.CustomerSettings
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&s).Error; err != nil {
		return model.CustomerSettings{}, notFound(err)
	}
	return s, nil
}

// 無ければ既定値で作成。同時アクセスでも1行に収まる
func (r *SettingsGormRepository) GetOrCreate(ctx context.Context, defaults model.CustomerSettings) (model.CustomerSettings, error) {
	err := r.db.WithContext(ctx).
		Omit("Customer").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "customer_id"}}, DoNothing: true}).
		Create(&defaults).Error
	if err != nil {
		return model.CustomerSettings{}, err
	}
	return r.FindByCustomer(ctx, defaults.CustomerID)
}

func (r *SettingsGormRepository) Update(ctx context.Context, s model.CustomerSettings) error {
	res := r.db.WithContext(ctx).
		Model(&model.CustomerSettings{}).
		Where("customer_id = ?", s.CustomerID).
		Updates(map[string]interface{}{
			"email_notifications": s.EmailNotifications,
			"sms_notifications":   s.SMSNotifications,
			"push_notifications":  s.PushNotifications,
			"profile_visible":     s.ProfileVisible,
			"share_order_history": s.ShareOrderHistory,
			"share_reviews":       s.ShareReviews,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
