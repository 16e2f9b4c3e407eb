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

// お気に入り。カートと違い重複はConflict
type FavoriteUsecase struct {
	customers repo.CustomerRepository
	products  repo.ProductRepository
	favorites repo.FavoriteRepository
	recorder  MutationRecorder
}

func NewFavoriteUsecase(
	customers repo.CustomerRepository,
	products repo.ProductRepository,
	favorites repo.FavoriteRepository,
	recorder MutationRecorder,
) *FavoriteUsecase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &FavoriteUsecase{
		customers: customers,
		products:  products,
		favorites: favorites,
		recorder:  recorder,
	}
}

type FavoriteLineOutput struct {
	ID         int64         `json:"id"`
	CustomerID int64         `json:"customerId"`
	ProductID  int64         `json:"productId"`
	AddedAt    time.Time     `json:"addedAt"`
	Product    model.Product `json:"product"`
}

func (u *FavoriteUsecase) GetFavorites(ctx context.Context, actor Actor, customerID int64) ([]FavoriteLineOutput, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return []FavoriteLineOutput{}, err
	}

	lines, err := u.favorites.ListByCustomer(ctx, customerID)
	if err != nil {
		return []FavoriteLineOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]FavoriteLineOutput, 0, len(lines))
	for _, l := range lines {
		out = append(out, FavoriteLineOutput{
			ID:         l.ID,
			CustomerID: l.CustomerID,
			ProductID:  l.ProductID,
			AddedAt:    l.AddedAt,
			Product:    l.Product,
		})
	}
	return out, nil
}

func (u *FavoriteUsecase) AddToFavorites(ctx context.Context, actor Actor, customerID, productID int64) error {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return err
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := ensureCustomerAndProduct(ctx, u.customers, u.products, customerID, productID); err != nil {
		return err
	}

	err := u.favorites.Add(ctx, customerID, productID)
	if errors.Is(err, repo.ErrConflict) {
		return NewHTTPError(http.StatusConflict, "product already in favorites")
	}
	if err != nil {
		logger.Error(ctx).Err(err).Int64("customer_id", customerID).Int64("product_id", productID).Msg("add favorite failed")
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.recorder.RecordMutation("favorites", "add")
	logger.Info(ctx).Int64("customer_id", customerID).Int64("product_id", productID).Msg("favorite added")
	return nil
}

func (u *FavoriteUsecase) RemoveFromFavorites(ctx context.Context, actor Actor, customerID, productID int64) error {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return err
	}

	err := u.favorites.Delete(ctx, customerID, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "favorite not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.recorder.RecordMutation("favorites", "remove")
	logger.Info(ctx).Int64("customer_id", customerID).Int64("product_id", productID).Msg("favorite removed")
	return nil
}

// 空のお気に入りのクリアはNotFound
func (u *FavoriteUsecase) ClearFavorites(ctx context.Context, actor Actor, customerID int64) error {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return err
	}

	n, err := u.favorites.DeleteAll(ctx, customerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if n == 0 {
		return NewHTTPError(http.StatusNotFound, "favorites are empty")
	}

	u.recorder.RecordMutation("favorites", "clear")
	logger.Info(ctx).Int64("customer_id", customerID).Int64("removed", n).Msg("favorites cleared")
	return nil
}

func (u *FavoriteUsecase) GetFavoriteCount(ctx context.Context, actor Actor, customerID int64) (int64, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return 0, err
	}

	n, err := u.favorites.Count(ctx, customerID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return n, nil
}

func (u *FavoriteUsecase) IsFavorite(ctx context.Context, actor Actor, customerID, productID int64) (bool, error) {
	if err := authorizeCustomer(actor, customerID); err != nil {
		return false, err
	}

	ok, err := u.favorites.Exists(ctx, customerID, productID)
	if err != nil {
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ok, nil
}
