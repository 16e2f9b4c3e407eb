package usecase

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCustomerUC() (*CustomerUsecase, *MockCustomerRepository, *MockAuditLogRepository) {
	customers := new(MockCustomerRepository)
	audit := new(MockAuditLogRepository)
	return NewCustomerUsecase(customers, fakeTxManager{customers: customers, audit: audit}, fakeHasher{}, fakeVerifier{}), customers, audit
}

func TestCustomerUsecase_ChangePassword_WrongCurrent(t *testing.T) {
	uc, customers, _ := newCustomerUC()

	customers.On("FindByID", mock.Anything, int64(5)).Return(&model.Customer{ID: 5, PasswordHash: "hashed:secret"}, nil)

	_, err := uc.ChangePassword(context.Background(), Actor{CustomerID: 5}, 5, ChangePasswordInput{CurrentPassword: "wrong1", NewPassword: "another"})
	requireStatus(t, err, http.StatusBadRequest)

	customers.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerUsecase_ChangePassword_TooShort(t *testing.T) {
	uc, customers, _ := newCustomerUC()

	_, err := uc.ChangePassword(context.Background(), Actor{CustomerID: 5}, 5, ChangePasswordInput{CurrentPassword: "secret", NewPassword: "abc"})
	requireStatus(t, err, http.StatusBadRequest)

	customers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCustomerUsecase_ChangePassword_Success(t *testing.T) {
	uc, customers, _ := newCustomerUC()

	customers.On("FindByID", mock.Anything, int64(5)).Return(&model.Customer{ID: 5, PasswordHash: "hashed:secret"}, nil)
	customers.On("UpdatePassword", mock.Anything, int64(5), "hashed:another").Return(nil)

	out, err := uc.ChangePassword(context.Background(), Actor{CustomerID: 5}, 5, ChangePasswordInput{CurrentPassword: "secret", NewPassword: "another"})
	assert.NoError(t, err)
	assert.Equal(t, "password changed", out.Message)

	customers.AssertExpectations(t)
}

func TestCustomerUsecase_UpdateProfile_EmailTaken(t *testing.T) {
	uc, customers, _ := newCustomerUC()

	customers.On("FindByID", mock.Anything, int64(5)).Return(&model.Customer{ID: 5, Email: "a@example.com", FirstName: "A"}, nil)
	customers.On("UpdateProfile", mock.Anything, mock.Anything).Return(repo.ErrConflict)

	_, err := uc.UpdateProfile(context.Background(), Actor{CustomerID: 5}, 5, UpdateProfileInput{FirstName: "A", Email: "b@example.com"})
	requireStatus(t, err, http.StatusConflict)
}

func TestCustomerUsecase_UpdateProfile_OtherCustomerForbidden(t *testing.T) {
	uc, _, _ := newCustomerUC()

	_, err := uc.UpdateProfile(context.Background(), Actor{CustomerID: 5}, 6, UpdateProfileInput{FirstName: "A", Email: "b@example.com"})
	requireStatus(t, err, http.StatusForbidden)
}

func TestCustomerUsecase_AdminDelete_Audited(t *testing.T) {
	uc, customers, audit := newCustomerUC()

	customers.On("FindByID", mock.Anything, int64(5)).Return(&model.Customer{ID: 5, Email: "a@example.com"}, nil)
	customers.On("Delete", mock.Anything, int64(5)).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionDeleteCustomer && l.ResourceType == model.AuditResourceCustomer && l.ResourceID == 5
	})).Return(nil)

	err := uc.AdminDelete(context.Background(), 1, 5)
	assert.NoError(t, err)

	audit.AssertExpectations(t)
}

func TestCustomerUsecase_AdminDelete_Self(t *testing.T) {
	uc, customers, _ := newCustomerUC()

	err := uc.AdminDelete(context.Background(), 1, 1)
	requireStatus(t, err, http.StatusBadRequest)

	customers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
