package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

// プロフィール・パスワード変更と管理者向けの顧客管理
type CustomerUsecase struct {
	customers repo.CustomerRepository
	tx        repo.TransactionManager
	hasher    PasswordHasher
	verifier  PasswordVerifier
}

func NewCustomerUsecase(
	customers repo.CustomerRepository,
	tx repo.TransactionManager,
	hasher PasswordHasher,
	verifier PasswordVerifier,
) *CustomerUsecase {
	return &CustomerUsecase{
		customers: customers,
		tx:        tx,
		hasher:    hasher,
		verifier:  verifier,
	}
}

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// セッションの顧客自身
func (u *CustomerUsecase) Me(ctx context.Context, actor Actor) (model.Customer, error) {
	if actor.CustomerID <= 0 {
		return model.Customer{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	c, err := u.customers.FindByID(ctx, actor.CustomerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return *c, nil
}

func (u *CustomerUsecase) GetByID(ctx context.Context, actor Actor, customerID int64) (model.Customer, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return model.Customer{}, err
	}
	return u.find(ctx, customerID)
}

func (u *CustomerUsecase) List(ctx context.Context) ([]model.Customer, error) {
	list, err := u.customers.List(ctx)
	if err != nil {
		return []model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *CustomerUsecase) UpdateProfile(ctx context.Context, actor Actor, customerID int64, in UpdateProfileInput) (model.Customer, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return model.Customer{}, err
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return model.Customer{}, NewHTTPError(http.StatusBadRequest, "first name required")
	}
	if !isValidEmailFormat(in.Email) {
		return model.Customer{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	c, err := u.find(ctx, customerID)
	if err != nil {
		return model.Customer{}, err
	}

	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Email = in.Email

	err = u.customers.UpdateProfile(ctx, &c)
	if errors.Is(err, repo.ErrConflict) {
		return model.Customer{}, NewHTTPError(http.StatusConflict, "email already exists")
	}
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logger.Info(ctx).Int64("customer_id", customerID).Msg("profile updated")
	return c, nil
}

// 変更後は発行済みのセッションが全て無効になる
func (u *CustomerUsecase) ChangePassword(ctx context.Context, actor Actor, customerID int64, in ChangePasswordInput) (MessageOutput, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return MessageOutput{}, err
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "current and new password required")
	}
	if len(in.NewPassword) < MinPasswordLength {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	c, err := u.find(ctx, customerID)
	if err != nil {
		return MessageOutput{}, err
	}
	if !u.verifier.Verify(in.CurrentPassword, c.PasswordHash) {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "current password is incorrect")
	}

	hashed, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err := u.customers.UpdatePassword(ctx, customerID, hashed); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return MessageOutput{}, NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logger.Info(ctx).Int64("customer_id", customerID).Msg("password changed")
	return MessageOutput{Message: "password changed"}, nil
}

// 顧客削除（カート・お気に入り・コメント等はCASCADE）
func (u *CustomerUsecase) AdminDelete(ctx context.Context, adminCustomerID int64, customerID int64) error {
	if adminCustomerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if customerID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid customer id")
	}
	if adminCustomerID == customerID {
		return NewHTTPError(http.StatusBadRequest, "cannot delete yourself")
	}

	before, err := u.find(ctx, customerID)
	if err != nil {
		return err
	}

	//削除と監査ログは同じtx
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Customers().Delete(ctx, customerID); err != nil {
			return err
		}
		return writeAudit(ctx, r.AuditLogs(), adminCustomerID, model.AuditActionDeleteCustomer, model.AuditResourceCustomer, customerID, before, nil)
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "customer not found")
		}
		logger.Error(ctx).Err(err).Int64("customer_id", customerID).Msg("delete customer failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logger.Info(ctx).Int64("customer_id", customerID).Int64("actor_id", adminCustomerID).Msg("customer deleted")
	return nil
}

func (u *CustomerUsecase) find(ctx context.Context, customerID int64) (model.Customer, error) {
	c, err := u.customers.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}
	if err != nil {
		return model.Customer{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return *c, nil
}
