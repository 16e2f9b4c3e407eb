package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/repository"
)

const minPasswordLength = 6

// 会員登録の入力
type RegisterUserInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	customers repository.CustomerRepository
	settings  repository.SettingsRepository
	hasher    PasswordHasher
	clock     Clock
}

// DI
func NewRegisterUserUsecase(
	customers repository.CustomerRepository,
	settings repository.SettingsRepository,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		customers: customers,
		settings:  settings,
		hasher:    hasher,
		clock:     clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (model.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !isValidEmailFormat(email) {
		return model.Customer{}, ErrInvalidEmailFormat
	}
	if len(in.Password) < minPasswordLength {
		return model.Customer{}, ErrPasswordTooShort
	}
	first, last := splitFullName(in.FullName)
	if first == "" {
		return model.Customer{}, ErrFullNameRequired
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return model.Customer{}, err
	}

	now := u.clock.Now()
	c := &model.Customer{
		Email:        email,
		FirstName:    first,
		LastName:     last,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hashed,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// email重複はユニーク制約で判定
	if err := u.customers.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.Customer{}, ErrEmailAlreadyExists
		}
		return model.Customer{}, err
	}

	if _, err := u.settings.GetOrCreate(ctx, model.DefaultCustomerSettings(c.ID, now)); err != nil {
		logger.Warn(ctx).Err(err).Int64("customer_id", c.ID).Msg("seed settings failed")
	}

	logger.Info(ctx).Int64("customer_id", c.ID).Msg("customer registered")
	return *c, nil
}

// 起動時にADMIN_EMAIL/ADMIN_PASSWORDの管理者を用意する
func (u *RegisterUserUsecase) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	existing, err := u.customers.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			logger.Warn(ctx).Str("email", email).Msg("admin email belongs to a non-admin customer")
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	now := u.clock.Now()
	admin := &model.Customer{
		Email:        email,
		FirstName:    "Admin",
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.customers.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrConflict) {
		return err
	}

	logger.Info(ctx).Str("email", email).Msg("admin account created")
	return nil
}

// 最初の空白で名と姓に分ける
func splitFullName(fullName string) (first, last string) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return "", ""
	}
	i := strings.IndexAny(fullName, " \t")
	if i < 0 {
		return fullName, ""
	}
	return fullName[:i], strings.TrimSpace(fullName[i+1:])
}

// メールチェック
func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
