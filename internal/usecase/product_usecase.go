package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

const maxSearchQueryLen = 100

// tx内の書き込みはキャッシュを経由しないので、commit後にここで消す
type productCacheEvicter interface {
	Evict(ctx context.Context, productIDs ...int64)
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	tx          repo.TransactionManager
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	tx repo.TransactionManager,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		tx:          tx,
	}
}

func (u *ProductUsecase) ListAll(ctx context.Context) ([]model.Product, error) {
	products, err := u.productRepo.ListAll(ctx)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

func (u *ProductUsecase) GetByID(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// name/descriptionの部分一致（大文字小文字は無視）
func (u *ProductUsecase) Search(ctx context.Context, q string) ([]model.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "q required")
	}
	if len([]rune(q)) > maxSearchQueryLen {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	products, err := u.productRepo.Search(ctx, q)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

type ProductInput struct {
	Name          string
	Description   string
	Price         int64
	Stock         int64
	CategoryID    int64
	SubcategoryID int64
	ImageURL      string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

func (in ProductInput) toModel(id int64) model.Product {
	return model.Product{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		Stock:         in.Stock,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		ImageURL:      strings.TrimSpace(in.ImageURL),
	}
}

// 作成と監査ログは同じtx
func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, adminCustomerID int64, in ProductInput) (model.Product, error) {
	if adminCustomerID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	var p model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.Products().Create(ctx, in.toModel(0))
		if err != nil {
			return err
		}
		p = created
		return auditProduct(ctx, r.AuditLogs(), adminCustomerID, model.AuditActionCreateProduct, p.ID, nil, p)
	})
	if err != nil {
		return model.Product{}, u.txError(ctx, err, 0)
	}

	u.evict(ctx)
	logger.Info(ctx).Int64("product_id", p.ID).Msg("product created")
	return p, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, adminCustomerID int64, productID int64, in ProductInput) error {
	if adminCustomerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return err
	}

	after := in.toModel(productID)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前（監査ログ用）
		before, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := r.Products().Update(ctx, after); err != nil {
			return err
		}
		return auditProduct(ctx, r.AuditLogs(), adminCustomerID, model.AuditActionUpdateProduct, productID, before, after)
	})
	if err != nil {
		return u.txError(ctx, err, productID)
	}

	u.evict(ctx, productID)
	logger.Info(ctx).Int64("product_id", productID).Msg("product updated")
	return nil
}

// カート・お気に入り・コメントはCASCADEで消える
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, adminCustomerID int64, productID int64) error {
	if adminCustomerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := r.Products().Delete(ctx, productID); err != nil {
			return err
		}
		return auditProduct(ctx, r.AuditLogs(), adminCustomerID, model.AuditActionDeleteProduct, productID, before, nil)
	})
	if err != nil {
		return u.txError(ctx, err, productID)
	}

	u.evict(ctx, productID)
	logger.Info(ctx).Int64("product_id", productID).Msg("product deleted")
	return nil
}

func (u *ProductUsecase) txError(ctx context.Context, err error, productID int64) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	logger.Error(ctx).Err(err).Int64("product_id", productID).Msg("product write failed")
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

func (u *ProductUsecase) evict(ctx context.Context, productIDs ...int64) {
	if c, ok := u.productRepo.(productCacheEvicter); ok {
		c.Evict(ctx, productIDs...)
	}
}

// 監査ログを作成
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す
func auditProduct(ctx context.Context, auditRepo repo.AuditLogRepository, actorID int64, action model.AuditAction, productID int64, before, after interface{}) error {
	return writeAudit(ctx, auditRepo, actorID, action, model.AuditResourceProduct, productID, before, after)
}

func writeAudit(
	ctx context.Context,
	auditRepo repo.AuditLogRepository,
	actorID int64,
	action model.AuditAction,
	resourceType model.AuditResourceType,
	resourceID int64,
	before, after interface{},
) error {
	if err := auditRepo.Create(ctx, model.AuditLog{
		ActorCustomerID: actorID,
		Action:          action,
		ResourceType:    resourceType,
		ResourceID:      resourceID,
		BeforeJSON:      toAuditJSON(before),
		AfterJSON:       toAuditJSON(after),
		CreatedAt:       time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toAuditJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
