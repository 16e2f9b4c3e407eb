package usecase

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: CustomerRepository
// =====================

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(*model.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Customer)
	return list, args.Error(1)
}

func (m *MockCustomerRepository) UpdateProfile(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockCustomerRepository) IncrementTokenVersion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// =====================
// Mock: ProductRepository
// =====================

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Product)
	return list, args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, q string) ([]model.Product, error) {
	args := m.Called(ctx, q)
	list, _ := args.Get(0).([]model.Product)
	return list, args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// =====================
// Mock: CartRepository
// =====================

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]model.CartLine)
	return list, args.Error(1)
}

func (m *MockCartRepository) AddQuantity(ctx context.Context, customerID, productID, qty int64) error {
	args := m.Called(ctx, customerID, productID, qty)
	return args.Error(0)
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, customerID, productID, qty int64) error {
	args := m.Called(ctx, customerID, productID, qty)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, customerID, productID int64) error {
	args := m.Called(ctx, customerID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteAll(ctx context.Context, customerID int64) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) SumQuantity(ctx context.Context, customerID int64) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) Exists(ctx context.Context, customerID, productID int64) (bool, error) {
	args := m.Called(ctx, customerID, productID)
	return args.Bool(0), args.Error(1)
}

// =====================
// Mock: FavoriteRepository
// =====================

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.FavoriteLine, error) {
	args := m.Called(ctx, customerID)
	list, _ := args.Get(0).([]model.FavoriteLine)
	return list, args.Error(1)
}

func (m *MockFavoriteRepository) Add(ctx context.Context, customerID, productID int64) error {
	args := m.Called(ctx, customerID, productID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, customerID, productID int64) error {
	args := m.Called(ctx, customerID, productID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) DeleteAll(ctx context.Context, customerID int64) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFavoriteRepository) Count(ctx context.Context, customerID int64) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFavoriteRepository) Exists(ctx context.Context, customerID, productID int64) (bool, error) {
	args := m.Called(ctx, customerID, productID)
	return args.Bool(0), args.Error(1)
}

// =====================
// Mock: CommentRepository
// =====================

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) ListByProduct(ctx context.Context, productID int64) ([]model.Comment, error) {
	args := m.Called(ctx, productID)
	list, _ := args.Get(0).([]model.Comment)
	return list, args.Error(1)
}

func (m *MockCommentRepository) Create(ctx context.Context, c *model.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id int64) (model.Comment, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Comment)
	return c, args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) RatingCounts(ctx context.Context, productID int64) ([]repo.RatingCount, error) {
	args := m.Called(ctx, productID)
	list, _ := args.Get(0).([]repo.RatingCount)
	return list, args.Error(1)
}

// =====================
// Mock: AuditLogRepository
// =====================

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]model.AuditLog)
	return list, args.Error(1)
}

func (m *MockAuditLogRepository) Count(ctx context.Context, filter repo.AuditLogFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =====================
// Mock: ResetTokenRepository / TransactionManager
// =====================

type MockResetTokenRepository struct {
	mock.Mock
}

func (m *MockResetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockResetTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash)
	t, _ := args.Get(0).(*model.PasswordResetToken)
	return t, args.Error(1)
}

func (m *MockResetTokenRepository) MarkUsed(ctx context.Context, tokenID int64) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockResetTokenRepository) DeleteUnusedByCustomer(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *MockResetTokenRepository) DeleteStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// txの中でも同じmockを返す。fnのエラーはそのまま返す（rollback扱い）
type fakeTxManager struct {
	customers repo.CustomerRepository
	products  repo.ProductRepository
	comments  repo.CommentRepository
	tokens    repo.ResetTokenRepository
	audit     repo.AuditLogRepository
}

func (f fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(f)
}

func (f fakeTxManager) Customers() repo.CustomerRepository    { return f.customers }
func (f fakeTxManager) Products() repo.ProductRepository      { return f.products }
func (f fakeTxManager) Comments() repo.CommentRepository      { return f.comments }
func (f fakeTxManager) ResetTokens() repo.ResetTokenRepository { return f.tokens }
func (f fakeTxManager) AuditLogs() repo.AuditLogRepository    { return f.audit }

// =====================
// Mock: Mailer / hasher
// =====================

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	args := m.Called(ctx, to, subject, htmlBody, textBody)
	return args.Error(0)
}

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type fakeVerifier struct{}

func (fakeVerifier) Verify(plain string, hashed string) bool { return hashed == "hashed:"+plain }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type countingRecorder struct {
	calls []string
}

func (r *countingRecorder) RecordMutation(collection, op string) {
	r.calls = append(r.calls, collection+":"+op)
}

func requireStatus(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError(%d), got %v", want, err)
	}
	if he.Status != want {
		t.Fatalf("expected status %d, got %d (%s)", want, he.Status, he.Message)
	}
}

// =====================
// Mock: SettingsRepository
// =====================

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByCustomer(ctx context.Context, customerID int64) (model.CustomerSettings, error) {
	args := m.Called(ctx, customerID)
	s, _ := args.Get(0).(model.CustomerSettings)
	return s, args.Error(1)
}

func (m *MockSettingsRepository) GetOrCreate(ctx context.Context, defaults model.CustomerSettings) (model.CustomerSettings, error) {
	args := m.Called(ctx, defaults)
	s, _ := args.Get(0).(model.CustomerSettings)
	return s, args.Error(1)
}

func (m *MockSettingsRepository) Update(ctx context.Context, s model.CustomerSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
