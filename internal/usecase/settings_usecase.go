package usecase

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

// 通知・公開設定。初回アクセスで既定値を作る
type SettingsUsecase struct {
	customers repo.CustomerRepository
	settings  repo.SettingsRepository
	clock     Clock
}

func NewSettingsUsecase(customers repo.CustomerRepository, settings repo.SettingsRepository) *SettingsUsecase {
	return &SettingsUsecase{customers: customers, settings: settings, clock: systemClock{}}
}

type SettingsInput struct {
	EmailNotifications bool
	SMSNotifications   bool
	PushNotifications  bool
	ProfileVisible     bool
	ShareOrderHistory  bool
	ShareReviews       bool
}

func (u *SettingsUsecase) Get(ctx context.Context, actor Actor, customerID int64) (model.CustomerSettings, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return model.CustomerSettings{}, err
	}
	s, _, err := u.getOrSeed(ctx, customerID)
	return s, err
}

// 既にあれば既存行を返す（created=false）
func (u *SettingsUsecase) Seed(ctx context.Context, actor Actor, customerID int64) (model.CustomerSettings, bool, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return model.CustomerSettings{}, false, err
	}
	return u.getOrSeed(ctx, customerID)
}

func (u *SettingsUsecase) Update(ctx context.Context, actor Actor, customerID int64, in SettingsInput) (model.CustomerSettings, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return model.CustomerSettings{}, err
	}

	s, _, err := u.getOrSeed(ctx, customerID)
	if err != nil {
		return model.CustomerSettings{}, err
	}

	s.EmailNotifications = in.EmailNotifications
	s.SMSNotifications = in.SMSNotifications
	s.PushNotifications = in.PushNotifications
	s.ProfileVisible = in.ProfileVisible
	s.ShareOrderHistory = in.ShareOrderHistory
	s.ShareReviews = in.ShareReviews

	err = u.settings.Update(ctx, s)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CustomerSettings{}, NewHTTPError(http.StatusNotFound, "settings not found")
	}
	if err != nil {
		return model.CustomerSettings{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logger.Info(ctx).Int64("customer_id", customerID).Msg("settings updated")
	return s, nil
}

func (u *SettingsUsecase) getOrSeed(ctx context.Context, customerID int64) (model.CustomerSettings, bool, error) {
	s, err := u.settings.FindByCustomer(ctx, customerID)
	if err == nil {
		return s, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.CustomerSettings{}, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ok, err := u.customers.Exists(ctx, customerID)
	if err != nil {
		return model.CustomerSettings{}, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return model.CustomerSettings{}, false, NewHTTPError(http.StatusNotFound, "customer not found")
	}

	s, err = u.settings.GetOrCreate(ctx, model.DefaultCustomerSettings(customerID, u.clock.Now()))
	if err != nil {
		return model.CustomerSettings{}, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, true, nil
}
