package client

import (
	"context"
	"errors"
	"sync"

	"storefront/internal/logger"
)

// 未ログインでの変更はサーバーに送らずに弾く
var ErrNotLoggedIn = errors.New("please log in to change your cart or favorites")

// ログイン中の顧客のカートとお気に入り。
// 変更はサーバーに送り、成功したら両方を読み直して丸ごと置き換える
type CartStore struct {
	api *APIClient

	mu            sync.RWMutex
	customerID    int64
	token         string
	epoch         uint64 // ログイン・ログアウトごとに増える
	cartItems     []CartItem
	favoriteItems []FavoriteItem
}

func NewCartStore(api *APIClient) *CartStore {
	return &CartStore{api: api}
}

func (s *CartStore) Login(ctx context.Context, email, password string) (Customer, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return Customer{}, err
	}
	return res.Customer, s.Attach(ctx, res.Customer.ID, res.Token)
}

// 既存のセッション（id + token）を使う。前の顧客の内容は捨てて読み直す
func (s *CartStore) Attach(ctx context.Context, customerID int64, token string) error {
	s.mu.Lock()
	s.epoch++
	s.customerID = customerID
	s.token = token
	s.cartItems = nil
	s.favoriteItems = nil
	s.mu.Unlock()

	return s.Reload(ctx)
}

// メモリを空にしてからサーバー側もログアウト（失敗してもローカルは空のまま）
func (s *CartStore) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.epoch++
	s.customerID = 0
	s.token = ""
	s.cartItems = nil
	s.favoriteItems = nil
	s.mu.Unlock()

	if token == "" {
		return
	}
	if err := s.api.Logout(ctx, token); err != nil {
		logger.Warn(ctx).Err(err).Msg("server logout failed")
	}
}

func (s *CartStore) CustomerID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerID, s.customerID > 0
}

// 両方をサーバーから読み直す。途中で顧客が変わったら結果は捨てる
func (s *CartStore) Reload(ctx context.Context) error {
	customerID, token, epoch, ok := s.identity()
	if !ok {
		return ErrNotLoggedIn
	}

	cart, err := s.api.GetCart(ctx, token, customerID)
	if err != nil {
		return err
	}
	favorites, err := s.api.GetFavorites(ctx, token, customerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil
	}
	s.cartItems = cart
	s.favoriteItems = favorites
	return nil
}

func (s *CartStore) AddToCart(ctx context.Context, productID, quantity int64) error {
	return s.mutate(ctx, func(ctx context.Context, token string, customerID int64) error {
		return s.api.AddToCart(ctx, token, customerID, productID, quantity)
	})
}

func (s *CartStore) UpdateCartItemQuantity(ctx context.Context, productID, quantity int64) error {
	return s.mutate(ctx, func(ctx context.Context, token string, customerID int64) error {
		return s.api.UpdateCartQuantity(ctx, token, customerID, productID, quantity)
	})
}

func (s *CartStore) RemoveFromCart(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(ctx context.Context, token string, customerID int64) error {
		return s.api.RemoveFromCart(ctx, token, customerID, productID)
	})
}

func (s *CartStore) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, func(ctx context.Context, token string, customerID int64) error {
		return s.api.ClearCart(ctx, token, customerID)
	})
}

func (s *CartStore) AddToFavorites(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(ctx context.Context, token string, customerID int64) error {
		return s.api.AddToFavorites(ctx, token, customerID, productID)
	})
}

func (s *CartStore) RemoveFromFavorites(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(ctx context.Context, token string, customerID int64) error {
		return s.api.RemoveFromFavorites(ctx, token, customerID, productID)
	})
}

func (s *CartStore) ClearFavorites(ctx context.Context) error {
	return s.mutate(ctx, func(ctx context.Context, token string, customerID int64) error {
		return s.api.ClearFavorites(ctx, token, customerID)
	})
}

// コピーを返す
func (s *CartStore) CartItems() []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CartItem(nil), s.cartItems...)
}

func (s *CartStore) FavoriteItems() []FavoriteItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]FavoriteItem(nil), s.favoriteItems...)
}

// Σ(価格 × 数量)
func (s *CartStore) CartTotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, it := range s.cartItems {
		total += it.Product.Price * it.Quantity
	}
	return total
}

// バッジ用。行数ではなく数量の合計
func (s *CartStore) CartItemCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, it := range s.cartItems {
		n += it.Quantity
	}
	return n
}

func (s *CartStore) FavoriteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.favoriteItems)
}

func (s *CartStore) IsInCart(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.cartItems {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *CartStore) IsInFavorites(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, it := range s.favoriteItems {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *CartStore) identity() (int64, string, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerID, s.token, s.epoch, s.customerID > 0
}

// 失敗時はローカル状態に触らない
func (s *CartStore) mutate(ctx context.Context, call func(ctx context.Context, token string, customerID int64) error) error {
	customerID, token, _, ok := s.identity()
	if !ok {
		return ErrNotLoggedIn
	}
	if err := call(ctx, token, customerID); err != nil {
		return err
	}
	return s.Reload(ctx)
}
