package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// サーバーが返した4xx/5xx
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Customer struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
	Role      string `json:"role"`
}

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	ImageURL    string `json:"imageUrl"`
}

type CartItem struct {
	ProductID int64     `json:"productId"`
	Quantity  int64     `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
	Product   Product   `json:"product"`
}

type FavoriteItem struct {
	ProductID int64     `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
	Product   Product   `json:"product"`
}

type LoginResult struct {
	Customer  Customer  `json:"customer"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type lineRequest struct {
	CustomerID int64 `json:"customerId"`
	ProductID  int64 `json:"productId"`
	Quantity   int64 `json:"quantity,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// /api/sepet・/api/favori・/api/musteri のRESTクライアント
type APIClient struct {
	http *resty.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (c *APIClient) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/musteri/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *APIClient) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/musteri/logout", token, nil, nil)
}

func (c *APIClient) GetCart(ctx context.Context, token string, customerID int64) ([]CartItem, error) {
	items := []CartItem{}
	err := c.do(ctx, http.MethodGet, "/api/sepet/musteri/"+id(customerID), token, nil, &items)
	return items, err
}

func (c *APIClient) AddToCart(ctx context.Context, token string, customerID, productID, quantity int64) error {
	return c.do(ctx, http.MethodPost, "/api/sepet/ekle", token, lineRequest{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil)
}

// quantityが0以下なら行ごと消える
func (c *APIClient) UpdateCartQuantity(ctx context.Context, token string, customerID, productID, quantity int64) error {
	body := map[string]int64{
		"customerId": customerID,
		"productId":  productID,
		"quantity":   quantity,
	}
	return c.do(ctx, http.MethodPut, "/api/sepet/guncelle", token, body, nil)
}

func (c *APIClient) RemoveFromCart(ctx context.Context, token string, customerID, productID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/sepet/sil/"+id(customerID)+"/"+id(productID), token, nil, nil)
}

func (c *APIClient) ClearCart(ctx context.Context, token string, customerID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/sepet/temizle/"+id(customerID), token, nil, nil)
}

func (c *APIClient) GetFavorites(ctx context.Context, token string, customerID int64) ([]FavoriteItem, error) {
	items := []FavoriteItem{}
	err := c.do(ctx, http.MethodGet, "/api/favori/musteri/"+id(customerID), token, nil, &items)
	return items, err
}

func (c *APIClient) AddToFavorites(ctx context.Context, token string, customerID, productID int64) error {
	return c.do(ctx, http.MethodPost, "/api/favori/ekle", token, lineRequest{
		CustomerID: customerID,
		ProductID:  productID,
	}, nil)
}

func (c *APIClient) RemoveFromFavorites(ctx context.Context, token string, customerID, productID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/favori/sil/"+id(customerID)+"/"+id(productID), token, nil, nil)
}

func (c *APIClient) ClearFavorites(ctx context.Context, token string, customerID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/favori/temizle/"+id(customerID), token, nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path, token string, body, result any) error {
	var apiErr errorBody

	req := c.http.R().
		SetContext(ctx).
		SetError(&apiErr)
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = strings.ToLower(http.StatusText(resp.StatusCode()))
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
