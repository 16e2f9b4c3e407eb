package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

// カートの業務ロジック。数量は加算マージ、合計は毎回DBから集計。
type CartUsecase struct {
	customers repo.CustomerRepository
	products  repo.ProductRepository
	carts     repo.CartRepository
	recorder  MutationRecorder
}

func NewCartUsecase(
	customers repo.CustomerRepository,
	products repo.ProductRepository,
	carts repo.CartRepository,
	recorder MutationRecorder,
) *CartUsecase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &CartUsecase{
		customers: customers,
		products:  products,
		carts:     carts,
		recorder:  recorder,
	}
}

type CartLineOutput struct {
	ID         int64         `json:"id"`
	CustomerID int64         `json:"customerId"`
	ProductID  int64         `json:"productId"`
	Quantity   int64         `json:"quantity"`
	AddedAt    time.Time     `json:"addedAt"`
	Product    model.Product `json:"product"`
}

type AddCartInput struct {
	CustomerID int64
	ProductID  int64
	Quantity   int64 // 0なら1として扱う
}

type UpdateCartInput struct {
	CustomerID int64
	ProductID  int64
	Quantity   int64 // 0以下は削除
}

// 商品付きのカート明細
func (u *CartUsecase) GetCart(ctx context.Context, actor Actor, customerID int64) ([]CartLineOutput, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return []CartLineOutput{}, err
	}

	lines, err := u.carts.ListByCustomer(ctx, customerID)
	if err != nil {
		logger.Error(ctx).Err(err).Int64("customer_id", customerID).Msg("list cart failed")
		return []CartLineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]CartLineOutput, 0, len(lines))
	for _, l := range lines {
		out = append(out, CartLineOutput{
			ID:         l.ID,
			CustomerID: l.CustomerID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			AddedAt:    l.AddedAt,
			Product:    l.Product,
		})
	}
	return out, nil
}

// 同一商品なら数量を加算する
func (u *CartUsecase) AddToCart(ctx context.Context, actor Actor, in AddCartInput) error {
	if err := authorizeCustomer(actor, in.CustomerID); err != nil {
		return err
	}
	if in.ProductID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	if err := ensureCustomerAndProduct(ctx, u.customers, u.products, in.CustomerID, in.ProductID); err != nil {
		return err
	}

	if err := u.carts.AddQuantity(ctx, in.CustomerID, in.ProductID, in.Quantity); err != nil {
		logger.Error(ctx).Err(err).Int64("customer_id", in.CustomerID).Int64("product_id", in.ProductID).Msg("add to cart failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.recorder.RecordMutation("cart", "add")
	logger.Info(ctx).
		Int64("customer_id", in.CustomerID).
		Int64("product_id", in.ProductID).
		Int64("quantity", in.Quantity).
		Msg("cart line added")
	return nil
}

// 数量を置き換える。0以下は明細削除
func (u *CartUsecase) UpdateCartQuantity(ctx context.Context, actor Actor, in UpdateCartInput) error {
	if err := authorizeCustomer(actor, in.CustomerID); err != nil {
		return err
	}
	if in.ProductID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var err error
	op := "update"
	if in.Quantity <= 0 {
		op = "remove"
		err = u.carts.Delete(ctx, in.CustomerID, in.ProductID)
	} else {
		err = u.carts.SetQuantity(ctx, in.CustomerID, in.ProductID, in.Quantity)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.recorder.RecordMutation("cart", op)
	logger.Info(ctx).
		Int64("customer_id", in.CustomerID).
		Int64("product_id", in.ProductID).
		Int64("quantity", in.Quantity).
		Msg("cart line updated")
	return nil
}

func (u *CartUsecase) RemoveFromCart(ctx context.Context, actor Actor, customerID, productID int64) error {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return err
	}

	err := u.carts.Delete(ctx, customerID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.recorder.RecordMutation("cart", "remove")
	logger.Info(ctx).Int64("customer_id", customerID).Int64("product_id", productID).Msg("cart line removed")
	return nil
}

// 空のカートのクリアはNotFound
func (u *CartUsecase) ClearCart(ctx context.Context, actor Actor, customerID int64) error {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return err
	}

	n, err := u.carts.DeleteAll(ctx, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if n == 0 {
		return NewHTTPError(http.StatusNotFound, "cart is empty")
	}

	u.recorder.RecordMutation("cart", "clear")
	logger.Info(ctx).Int64("customer_id", customerID).Int64("removed", n).Msg("cart cleared")
	return nil
}

// 数量の合計（明細数ではない）
func (u *CartUsecase) GetCartCount(ctx context.Context, actor Actor, customerID int64) (int64, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return 0, err
	}

	n, err := u.carts.SumQuantity(ctx, customerID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return n, nil
}

// 顧客と商品が両方存在するか
func ensureCustomerAndProduct(ctx context.Context, customers repo.CustomerRepository, products repo.ProductRepository, customerID, productID int64) error {
	ok, err := customers.Exists(ctx, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return NewHTTPError(http.StatusNotFound, "customer not found")
	}

	ok, err = products.Exists(ctx, productID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	return nil
}
