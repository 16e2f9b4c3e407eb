package auth

import (
	"context"

	"storefront/internal/logger"
	"storefront/internal/repository"
)

// token_versionを上げて発行済みのセッションを全て無効にする
type LogoutUsecase struct {
	customers repository.CustomerRepository
}

func NewLogoutUsecase(customers repository.CustomerRepository) *LogoutUsecase {
	return &LogoutUsecase{customers: customers}
}

func (u *LogoutUsecase) Execute(ctx context.Context, customerID int64) error {
	if err := u.customers.IncrementTokenVersion(ctx, customerID); err != nil {
		return err
	}
	logger.Info(ctx).Int64("customer_id", customerID).Msg("customer logged out")
	return nil
}
