package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	keyProductAll    = "storefront:products:all"
	keyProductPrefix = "storefront:product:"
)

// 商品の読み取りをRedisでキャッシュするrepository。
// 書き込みはDBに通してから関連キーを消す。
type CachedProductRepository struct {
	next   repo.ProductRepository
	client redis.UniversalClient
	ttl    time.Duration
}

// clientがnilのときは素通し
func NewCachedProductRepository(next repo.ProductRepository, client redis.UniversalClient, ttl time.Duration) repo.ProductRepository {
	if client == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProductRepository{next: next, client: client, ttl: ttl}
}

// REDIS_ADDRが空ならnil
func NewClient(addr, password string, db int) redis.UniversalClient {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func productKey(id int64) string {
	return fmt.Sprintf("%s%d", keyProductPrefix, id)
}

func (r *CachedProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var cached []model.Product
	if r.get(ctx, keyProductAll, &cached) {
		return cached, nil
	}

	products, err := r.next.ListAll(ctx)
	if err != nil {
		return products, err
	}
	r.set(ctx, keyProductAll, products)
	return products, nil
}

func (r *CachedProductRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var cached model.Product
	if r.get(ctx, productKey(id), &cached) {
		return cached, nil
	}

	p, err := r.next.FindByID(ctx, id)
	if err != nil {
		return p, err
	}
	r.set(ctx, productKey(id), p)
	return p, nil
}

// 検索はクエリの種類が多いのでキャッシュしない
func (r *CachedProductRepository) Search(ctx context.Context, q string) ([]model.Product, error) {
	return r.next.Search(ctx, q)
}

func (r *CachedProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.next.Exists(ctx, id)
}

func (r *CachedProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	created, err := r.next.Create(ctx, p)
	if err != nil {
		return created, err
	}
	r.invalidate(ctx, keyProductAll)
	return created, nil
}

func (r *CachedProductRepository) Update(ctx context.Context, p model.Product) error {
	if err := r.next.Update(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, keyProductAll, productKey(p.ID))
	return nil
}

func (r *CachedProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, keyProductAll, productKey(id))
	return nil
}

// repositoryを経由せずに書き換えた商品（tx内の更新など）のキーを消す。
// 一覧キーは常に消す
func (r *CachedProductRepository) Evict(ctx context.Context, productIDs ...int64) {
	keys := []string{keyProductAll}
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}
	r.invalidate(ctx, keys...)
}

// キャッシュ障害はDBへのフォールバックで吸収する
func (r *CachedProductRepository) get(ctx context.Context, key string, dst interface{}) bool {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("cache decode failed")
		return false
	}
	logger.Debug(ctx).Str("cache_key", key).Msg("cache hit")
	return true
}

func (r *CachedProductRepository) set(ctx context.Context, key string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("cache set failed")
	}
}

func (r *CachedProductRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn(ctx).Err(err).Strs("cache_keys", keys).Msg("cache invalidate failed")
	}
}
