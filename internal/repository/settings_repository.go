package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type SettingsRepository interface {
	FindByCustomer(ctx context.Context, customerID int64) (model.CustomerSettings, error)
	// 既にあれば既存行を返す
	GetOrCreate(ctx context.Context, defaults model.CustomerSettings) (model.CustomerSettings, error)
	Update(ctx context.Context, s model.CustomerSettings) error
}
